package ports

import (
	"context"

	"github.com/kocchi0218/form/internal/core/domain"
)

// StandingsService computes the points-based leaderboard. With
// includeInactive false the scope narrows to active candidates; ballot slots
// referencing ids outside the scope contribute nothing.
type StandingsService interface {
	Standings(ctx context.Context, includeInactive bool) ([]domain.Standing, error)
}
