package reports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"engage/internal/domain/aggregate"
	"engage/internal/domain/cycle"
	"engage/internal/domain/org"
)

// Aggregator is the slice of the aggregation service reports consume.
type Aggregator interface {
	ResultsFor(ctx context.Context, orgID, cycleID, evaluateeID string) (aggregate.AggregatedResult, error)
	Evaluatees(ctx context.Context, orgID, cycleID string) ([]string, error)
}

type OrgReader interface {
	ListActiveMembers(ctx context.Context, orgID string) ([]org.Member, error)
}

type CycleReader interface {
	Get(ctx context.Context, orgID, cycleID string) (cycle.EvaluationCycle, error)
}

type Service struct {
	aggregator Aggregator
	orgs       OrgReader
	cycles     CycleReader
}

func NewService(aggregator Aggregator, orgs OrgReader, cycles CycleReader) *Service {
	return &Service{aggregator: aggregator, orgs: orgs, cycles: cycles}
}

// CycleResults aggregates every evaluatee in the cycle, fanning the
// per-person computations out over a bounded worker group.
func (s *Service) CycleResults(ctx context.Context, orgID, cycleID string) ([]aggregate.AggregatedResult, error) {
	evaluatees, err := s.aggregator.Evaluatees(ctx, orgID, cycleID)
	if err != nil {
		return nil, err
	}

	results := make([]aggregate.AggregatedResult, len(evaluatees))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(8)
	for i, evaluateeID := range evaluatees {
		i, evaluateeID := i, evaluateeID
		group.Go(func() error {
			result, err := s.aggregator.ResultsFor(groupCtx, orgID, cycleID, evaluateeID)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func reportPath(name string) (string, error) {
	if err := os.MkdirAll("storage/reports", 0o755); err != nil {
		return "", err
	}
	return filepath.Join("storage/reports", name), nil
}

func (s *Service) memberNames(ctx context.Context, orgID string) (map[string]string, error) {
	members, err := s.orgs.ListActiveMembers(ctx, orgID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(members))
	for _, member := range members {
		names[member.UserID] = member.FullName
	}
	return names, nil
}

func displayName(names map[string]string, userID string) string {
	if name := names[userID]; name != "" {
		return name
	}
	return userID
}

func formatRating(value *float64) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *value)
}
