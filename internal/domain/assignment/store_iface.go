package assignment

import (
	"context"

	"engage/internal/domain/cycle"
	"engage/internal/domain/org"
)

type StoreAPI interface {
	CreateAssignment(ctx context.Context, a Assignment) (created bool, err error)
}

// OrgReader is the slice of organization structure the generator consumes.
type OrgReader interface {
	ListActiveMembers(ctx context.Context, orgID string) ([]org.Member, error)
	ListTeams(ctx context.Context, orgID string) ([]org.Team, error)
	ExplicitPeers(ctx context.Context, cycleID string) (map[string][]string, error)
}

type CycleReader interface {
	Get(ctx context.Context, orgID, cycleID string) (cycle.EvaluationCycle, error)
}
