package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kocchi0218/form/internal/core/domain"
	"github.com/kocchi0218/form/internal/core/ports"
)

// TimeLayout is the timestamp format written on new ballots, seconds
// precision, no zone. Stored times are otherwise treated as opaque text.
const TimeLayout = "2006-01-02T15:04:05"

type voteService struct {
	votes ports.VoteRepository
	now   func() time.Time
}

func NewVoteService(votes ports.VoteRepository) ports.VoteService {
	return &voteService{votes: votes, now: time.Now}
}

func (s *voteService) Cast(ctx context.Context, input ports.CastVoteInput) (domain.Vote, error) {
	ids := [3]string{input.FirstID, input.SecondID, input.ThirdID}
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return domain.Vote{}, fmt.Errorf("%w: all three ranks must be chosen", domain.ErrValidation)
		}
	}
	if ids[0] == ids[1] || ids[0] == ids[2] || ids[1] == ids[2] {
		return domain.Vote{}, fmt.Errorf("%w: the same candidate cannot hold two ranks", domain.ErrValidation)
	}

	vote := domain.Vote{
		VoterName:  strings.TrimSpace(input.VoterName),
		EmployeeID: strings.TrimSpace(input.EmployeeID),
		FirstID:    input.FirstID,
		SecondID:   input.SecondID,
		ThirdID:    input.ThirdID,
		Time:       s.now().Format(TimeLayout),
	}
	if err := s.votes.Append(ctx, vote); err != nil {
		return domain.Vote{}, err
	}
	return vote, nil
}

func (s *voteService) List(ctx context.Context) ([]domain.Vote, error) {
	return s.votes.All(ctx)
}

func (s *voteService) Reset(ctx context.Context) error {
	return s.votes.Reset(ctx)
}

func (s *voteService) LastModified(ctx context.Context) (time.Time, error) {
	return s.votes.LastModified(ctx)
}
