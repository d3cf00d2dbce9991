package sqlstore

import (
	"context"
	"fmt"

	"github.com/kocchi0218/form/internal/core/domain"
)

type candidateRepository struct{ s *Store }

func (r candidateRepository) All(ctx context.Context) ([]domain.Candidate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rows, err := r.s.db.QueryContext(ctx, `
		SELECT id, label, active FROM candidate ORDER BY pos
	`)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	var cands []domain.Candidate
	for rows.Next() {
		var c domain.Candidate
		var active string
		if err := rows.Scan(&c.ID, &c.Label, &active); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		c.Active = active == "true"
		cands = append(cands, c)
	}
	return cands, rows.Err()
}

// Save replaces the whole candidate set in one transaction, keeping the
// given order and dropping duplicate ids defensively.
func (r candidateRepository) Save(ctx context.Context, candidates []domain.Candidate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM candidate`); err != nil {
		return fmt.Errorf("clearing candidates: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO candidate (pos, id, label, active) VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	seen := make(map[string]struct{}, len(candidates))
	pos := 0
	for _, c := range candidates {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		active := "false"
		if c.Active {
			active = "true"
		}
		if _, err := stmt.ExecContext(ctx, pos, c.ID, c.Label, active); err != nil {
			return fmt.Errorf("inserting candidate %s: %w", c.ID, err)
		}
		pos++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing candidates: %w", err)
	}
	return nil
}
