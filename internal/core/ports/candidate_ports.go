package ports

import (
	"context"

	"github.com/kocchi0218/form/internal/core/domain"
)

// CandidateRepository owns the authoritative candidate set. Save replaces the
// whole set atomically and de-duplicates by id defensively; All preserves the
// persisted insertion order.
type CandidateRepository interface {
	All(ctx context.Context) ([]domain.Candidate, error)
	Save(ctx context.Context, candidates []domain.Candidate) error
}

// CandidateService is the merge-aware edit surface. Add and Rename never
// leave two live candidates whose labels normalize to the same merge key:
// colliding identities are unified and their historical votes repointed.
type CandidateService interface {
	List(ctx context.Context, activeOnly bool) ([]domain.Candidate, error)
	AddOrMerge(ctx context.Context, label string) (domain.Candidate, error)
	RenameOrMerge(ctx context.Context, id, label string) (domain.Candidate, error)
	SetActive(ctx context.Context, id string, active bool) error
}
