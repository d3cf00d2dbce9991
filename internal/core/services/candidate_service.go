package services

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kocchi0218/form/internal/core/alias"
	"github.com/kocchi0218/form/internal/core/domain"
	"github.com/kocchi0218/form/internal/core/ports"
)

type candidateService struct {
	candidates ports.CandidateRepository
	votes      ports.VoteRepository
	norm       *alias.Normalizer
}

func NewCandidateService(candidates ports.CandidateRepository, votes ports.VoteRepository, norm *alias.Normalizer) ports.CandidateService {
	return &candidateService{
		candidates: candidates,
		votes:      votes,
		norm:       norm,
	}
}

func (s *candidateService) List(ctx context.Context, activeOnly bool) ([]domain.Candidate, error) {
	cands, err := s.candidates.All(ctx)
	if err != nil {
		return nil, err
	}
	if !activeOnly {
		return cands, nil
	}
	active := make([]domain.Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Active {
			active = append(active, c)
		}
	}
	return active, nil
}

func (s *candidateService) AddOrMerge(ctx context.Context, label string) (domain.Candidate, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return domain.Candidate{}, fmt.Errorf("%w: label must not be empty", domain.ErrValidation)
	}

	cands, err := s.candidates.All(ctx)
	if err != nil {
		return domain.Candidate{}, err
	}

	matches := s.collisions(cands, label, "")
	if len(matches) == 0 {
		c := domain.Candidate{ID: NewCandidateID(), Label: label, Active: true}
		cands = append(cands, c)
		if err := s.candidates.Save(ctx, cands); err != nil {
			return domain.Candidate{}, err
		}
		return c, nil
	}

	// The first existing match survives; no new id is minted.
	return s.merge(ctx, cands, matches[0], matches[1:], label)
}

func (s *candidateService) RenameOrMerge(ctx context.Context, id, label string) (domain.Candidate, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return domain.Candidate{}, fmt.Errorf("%w: label must not be empty", domain.ErrValidation)
	}

	cands, err := s.candidates.All(ctx)
	if err != nil {
		return domain.Candidate{}, err
	}

	survivor := indexByID(cands, id)
	if survivor < 0 {
		return domain.Candidate{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	matches := s.collisions(cands, label, id)
	if len(matches) == 0 {
		cands[survivor].Label = label
		if err := s.candidates.Save(ctx, cands); err != nil {
			return domain.Candidate{}, err
		}
		return cands[survivor], nil
	}

	// The renamed candidate itself survives; every match is folded into it.
	return s.merge(ctx, cands, survivor, matches, label)
}

func (s *candidateService) SetActive(ctx context.Context, id string, active bool) error {
	cands, err := s.candidates.All(ctx)
	if err != nil {
		return err
	}
	i := indexByID(cands, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	cands[i].Active = active
	return s.candidates.Save(ctx, cands)
}

// collisions returns the indexes, in list order, of live candidates other
// than excludeID whose labels normalize to the same merge key as label.
func (s *candidateService) collisions(cands []domain.Candidate, label, excludeID string) []int {
	key := s.norm.Key(label)
	var matches []int
	for i, c := range cands {
		if c.ID == excludeID {
			continue
		}
		if s.norm.Key(c.Label) == key {
			matches = append(matches, i)
		}
	}
	return matches
}

// merge unifies every candidate at dupIdxs into the one at survivorIdx.
// Votes are repointed before a duplicate row is dropped; dropping first would
// leave ballots referencing an absent id and silently shrink future tallies.
// Re-running the same edit after a partial failure converges, because
// matching is by normalized key rather than a one-shot flag.
func (s *candidateService) merge(ctx context.Context, cands []domain.Candidate, survivorIdx int, dupIdxs []int, label string) (domain.Candidate, error) {
	cands[survivorIdx].Label = label
	cands[survivorIdx].Active = true
	survivor := cands[survivorIdx]

	drop := make(map[string]struct{}, len(dupIdxs))
	for _, i := range dupIdxs {
		if err := s.votes.ReplaceCandidateID(ctx, cands[i].ID, survivor.ID); err != nil {
			return domain.Candidate{}, fmt.Errorf("repointing votes from %s: %w", cands[i].ID, err)
		}
		drop[cands[i].ID] = struct{}{}
	}

	kept := cands[:0]
	for _, c := range cands {
		if _, gone := drop[c.ID]; !gone {
			kept = append(kept, c)
		}
	}
	if err := s.candidates.Save(ctx, kept); err != nil {
		return domain.Candidate{}, err
	}
	return survivor, nil
}

func indexByID(cands []domain.Candidate, id string) int {
	for i, c := range cands {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// NewCandidateID mints a fresh opaque candidate id: the first eight hex
// characters of a random uuid. Ids are never reused after deletion.
func NewCandidateID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])[:8]
}
