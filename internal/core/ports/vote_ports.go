package ports

import (
	"context"
	"time"

	"github.com/kocchi0218/form/internal/core/domain"
)

// VoteRepository owns the append-only ballot sequence. Every mutation
// rewrites the whole store; All preserves append order. ReplaceCandidateID
// rewrites historical references during a merge and is idempotent.
type VoteRepository interface {
	All(ctx context.Context) ([]domain.Vote, error)
	Append(ctx context.Context, vote domain.Vote) error
	ReplaceCandidateID(ctx context.Context, oldID, newID string) error
	Reset(ctx context.Context) error
	LastModified(ctx context.Context) (time.Time, error)
}

// CastVoteInput carries a ballot submission. EmployeeID stays text so leading
// zeros survive.
type CastVoteInput struct {
	VoterName  string
	EmployeeID string
	FirstID    string
	SecondID   string
	ThirdID    string
}

type VoteService interface {
	Cast(ctx context.Context, input CastVoteInput) (domain.Vote, error)
	List(ctx context.Context) ([]domain.Vote, error)
	Reset(ctx context.Context) error
	LastModified(ctx context.Context) (time.Time, error)
}
