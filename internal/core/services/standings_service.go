package services

import (
	"context"
	"sort"

	"github.com/kocchi0218/form/internal/core/domain"
	"github.com/kocchi0218/form/internal/core/ports"
)

type standingsService struct {
	candidates ports.CandidateRepository
	votes      ports.VoteRepository
}

func NewStandingsService(candidates ports.CandidateRepository, votes ports.VoteRepository) ports.StandingsService {
	return &standingsService{candidates: candidates, votes: votes}
}

func (s *standingsService) Standings(ctx context.Context, includeInactive bool) ([]domain.Standing, error) {
	cands, err := s.candidates.All(ctx)
	if err != nil {
		return nil, err
	}
	votes, err := s.votes.All(ctx)
	if err != nil {
		return nil, err
	}
	return Aggregate(cands, votes, includeInactive), nil
}

// Aggregate computes the 3-2-1 leaderboard over the given scope. A ballot
// slot whose id is out of scope (inactive candidate, or dangling after a
// merge or failed legacy import) contributes nothing for that slot; this is
// deliberate partial credit, never an error. The result order is total and
// deterministic: points, first, second, third counts descending, then label
// ascending, ties broken by the stable enumeration order.
func Aggregate(cands []domain.Candidate, votes []domain.Vote, includeInactive bool) []domain.Standing {
	rows := make([]domain.Standing, 0, len(cands))
	index := make(map[string]int, len(cands))
	for _, c := range cands {
		if !includeInactive && !c.Active {
			continue
		}
		if _, dup := index[c.ID]; dup {
			continue
		}
		index[c.ID] = len(rows)
		rows = append(rows, domain.Standing{CandidateID: c.ID, Label: c.Label})
	}

	for _, v := range votes {
		if i, ok := index[v.FirstID]; ok {
			rows[i].Points += 3
			rows[i].FirstCount++
		}
		if i, ok := index[v.SecondID]; ok {
			rows[i].Points += 2
			rows[i].SecondCount++
		}
		if i, ok := index[v.ThirdID]; ok {
			rows[i].Points++
			rows[i].ThirdCount++
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.FirstCount != b.FirstCount {
			return a.FirstCount > b.FirstCount
		}
		if a.SecondCount != b.SecondCount {
			return a.SecondCount > b.SecondCount
		}
		if a.ThirdCount != b.ThirdCount {
			return a.ThirdCount > b.ThirdCount
		}
		return a.Label < b.Label
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
