// Package sqlstore backs the store ports with database/sql. All data columns
// are TEXT and mirror the canonical CSV shape, so the same SQL runs unchanged
// under an embedded sqlite database (modernc.org/sqlite) or postgres
// (lib/pq); both accept $N placeholders.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/kocchi0218/form/internal/core/ports"
)

type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// NewStore wraps an opened database handle. Call Init before first use.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS candidate (
	pos INTEGER NOT NULL,
	id TEXT NOT NULL PRIMARY KEY,
	label TEXT NOT NULL,
	active TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS vote (
	seq INTEGER NOT NULL PRIMARY KEY,
	voter_name TEXT NOT NULL,
	employee_id TEXT NOT NULL,
	first_id TEXT NOT NULL,
	second_id TEXT NOT NULL,
	third_id TEXT NOT NULL,
	time TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
	key TEXT NOT NULL PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Init creates the tables. Safe to call repeatedly.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

func (s *Store) Candidates() ports.CandidateRepository { return candidateRepository{s} }
func (s *Store) Votes() ports.VoteRepository           { return voteRepository{s} }

func setMeta(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = $2
	`, key, value)
	return err
}
