package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kocchi0218/form/internal/core/domain"
)

const votesUpdatedKey = "votes_updated_at"

type voteRepository struct{ s *Store }

func (r voteRepository) All(ctx context.Context) ([]domain.Vote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rows, err := r.s.db.QueryContext(ctx, `
		SELECT voter_name, employee_id, first_id, second_id, third_id, time
		FROM vote ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying votes: %w", err)
	}
	defer rows.Close()

	var votes []domain.Vote
	for rows.Next() {
		var v domain.Vote
		if err := rows.Scan(&v.VoterName, &v.EmployeeID, &v.FirstID, &v.SecondID, &v.ThirdID, &v.Time); err != nil {
			return nil, fmt.Errorf("scanning vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

func (r voteRepository) Append(ctx context.Context, vote domain.Vote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote (seq, voter_name, employee_id, first_id, second_id, third_id, time)
		SELECT COALESCE(MAX(seq), 0) + 1, $1, $2, $3, $4, $5, $6 FROM vote
	`, vote.VoterName, vote.EmployeeID, vote.FirstID, vote.SecondID, vote.ThirdID, vote.Time)
	if err != nil {
		return fmt.Errorf("inserting vote: %w", err)
	}
	if err := setMeta(ctx, tx, votesUpdatedKey, time.Now().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("updating meta: %w", err)
	}
	return tx.Commit()
}

func (r voteRepository) ReplaceCandidateID(ctx context.Context, oldID, newID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var changed int64
	for _, col := range []string{"first_id", "second_id", "third_id"} {
		res, err := tx.ExecContext(ctx,
			fmt.Sprintf(`UPDATE vote SET %s = $1 WHERE %s = $2`, col, col),
			newID, oldID)
		if err != nil {
			return fmt.Errorf("repointing %s: %w", col, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			changed += n
		}
	}
	if changed > 0 {
		if err := setMeta(ctx, tx, votesUpdatedKey, time.Now().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("updating meta: %w", err)
		}
	}
	return tx.Commit()
}

func (r voteRepository) Reset(ctx context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM vote`); err != nil {
		return fmt.Errorf("clearing votes: %w", err)
	}
	if err := setMeta(ctx, tx, votesUpdatedKey, time.Now().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("updating meta: %w", err)
	}
	return tx.Commit()
}

func (r voteRepository) LastModified(ctx context.Context) (time.Time, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var value string
	err := r.s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = $1`, votesUpdatedKey).Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("querying meta: %w", err)
	}
	at, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, nil
	}
	return at, nil
}
