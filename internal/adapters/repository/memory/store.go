// Package memory backs the store ports with in-process slices. It satisfies
// the same atomic-replace contract as the file store and is what the unit
// tests run against.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kocchi0218/form/internal/core/domain"
	"github.com/kocchi0218/form/internal/core/ports"
)

type Store struct {
	mu         sync.Mutex
	candidates []domain.Candidate
	votes      []domain.Vote
	votesAt    time.Time
}

func NewStore(candidates []domain.Candidate, votes []domain.Vote) *Store {
	s := &Store{}
	s.candidates = append(s.candidates, candidates...)
	s.votes = append(s.votes, votes...)
	if len(votes) > 0 {
		s.votesAt = time.Now()
	}
	return s
}

func (s *Store) Candidates() ports.CandidateRepository { return candidateRepository{s} }
func (s *Store) Votes() ports.VoteRepository           { return voteRepository{s} }

type candidateRepository struct{ s *Store }

func (r candidateRepository) All(_ context.Context) ([]domain.Candidate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]domain.Candidate(nil), r.s.candidates...), nil
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
	r.s.candidates = kept
	return nil
}

type voteRepository struct{ s *Store }

func (r voteRepository) All(_ context.Context) ([]domain.Vote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]domain.Vote(nil), r.s.votes...), nil
}

func (r voteRepository) Append(_ context.Context, vote domain.Vote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.votes = append(r.s.votes, vote)
	r.s.votesAt = time.Now()
	return nil
}

func (r voteRepository) ReplaceCandidateID(_ context.Context, oldID, newID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	changed := false
	for i := range r.s.votes {
		v := &r.s.votes[i]
		for _, slot := range []*string{&v.FirstID, &v.SecondID, &v.ThirdID} {
			if *slot == oldID {
				*slot = newID
				changed = true
			}
		}
	}
	if changed {
		r.s.votesAt = time.Now()
	}
	return nil
}

func (r voteRepository) Reset(_ context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.votes = nil
	r.s.votesAt = time.Now()
	return nil
}

func (r voteRepository) LastModified(_ context.Context) (time.Time, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.votesAt, nil
}
