package csvfile

import (
	"context"
	"fmt"

	"github.com/kocchi0218/form/internal/core/domain"
)

type candidateRepository struct{ s *Store }

// All re-reads the file on every call so edits made between requests are
// always visible; the file itself is the authority, not process memory.
func (r candidateRepository) All(_ context.Context) ([]domain.Candidate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.loadCandidates()
}

func (r candidateRepository) Save(_ context.Context, candidates []domain.Candidate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seen := make(map[string]struct{}, len(candidates))
	kept := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		kept = append(kept, c)
	}
	return writeFileAtomic(r.s.candidatesPath, candidateColumns, candidateRows(kept))
}

func (s *Store) loadCandidates() ([]domain.Candidate, error) {
	header, rows, exists, err := readTable(s.candidatesPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.candidatesPath, err)
	}
	if !exists {
		return nil, nil
	}
	idx := columnIndex(header)
	cands := make([]domain.Candidate, 0, len(rows))
	for _, row := range rows {
		cands = append(cands, domain.Candidate{
			ID:     column(idx, row, "id"),
			Label:  column(idx, row, "label"),
			Active: parseBool(column(idx, row, "active")),
		})
	}
	return cands, nil
}
