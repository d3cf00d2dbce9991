package csvfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kocchi0218/form/internal/core/domain"
)

type voteRepository struct{ s *Store }

func (r voteRepository) All(_ context.Context) ([]domain.Vote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.loadVotes()
}

func (r voteRepository) Append(_ context.Context, vote domain.Vote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	votes, err := r.s.loadVotes()
	if err != nil {
		return err
	}
	votes = append(votes, vote)
	return writeFileAtomic(r.s.votesPath, voteColumns, voteRows(votes))
}

// ReplaceCandidateID rewrites every occurrence of oldID in any rank slot to
// newID. Idempotent; a store with no occurrences is left untouched.
func (r voteRepository) ReplaceCandidateID(_ context.Context, oldID, newID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	votes, err := r.s.loadVotes()
	if err != nil {
		return err
	}
	changed := false
	for i := range votes {
		v := &votes[i]
		for _, slot := range []*string{&v.FirstID, &v.SecondID, &v.ThirdID} {
			if *slot == oldID {
				*slot = newID
				changed = true
			}
		}
	}
	if !changed {
		return nil
	}
	return writeFileAtomic(r.s.votesPath, voteColumns, voteRows(votes))
}

// Reset discards all votes by removing the file; an absent file already
// means an empty store.
func (r voteRepository) Reset(_ context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := os.Remove(r.s.votesPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (r voteRepository) LastModified(_ context.Context) (time.Time, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	info, err := os.Stat(r.s.votesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (s *Store) loadVotes() ([]domain.Vote, error) {
	header, rows, exists, err := readTable(s.votesPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.votesPath, err)
	}
	if !exists {
		return nil, nil
	}
	idx := columnIndex(header)
	votes := make([]domain.Vote, 0, len(rows))
	for _, row := range rows {
		votes = append(votes, domain.Vote{
			VoterName:  column(idx, row, "voter_name"),
			EmployeeID: column(idx, row, "employee_id"),
			FirstID:    column(idx, row, "first_id"),
			SecondID:   column(idx, row, "second_id"),
			ThirdID:    column(idx, row, "third_id"),
			Time:       column(idx, row, "time"),
		})
	}
	return votes, nil
}
