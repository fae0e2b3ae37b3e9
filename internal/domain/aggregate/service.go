package aggregate

import (
	"context"
	"log/slog"
)

type Service struct {
	store   StoreAPI
	catalog CatalogReader
}

func NewService(store StoreAPI, catalog CatalogReader) *Service {
	return &Service{store: store, catalog: catalog}
}

// ResultsFor aggregates one person's submitted evaluations in a cycle.
// Results are always computed on read; submissions can keep arriving until
// the cycle closes.
func (s *Service) ResultsFor(ctx context.Context, orgID, cycleID, evaluateeID string) (AggregatedResult, error) {
	samples, err := s.store.LoadSamples(ctx, orgID, cycleID, evaluateeID)
	if err != nil {
		return AggregatedResult{}, err
	}
	competencies, err := s.catalog.List(ctx, orgID, "", true)
	if err != nil {
		return AggregatedResult{}, err
	}
	weights, err := s.store.TypeWeights(ctx, orgID)
	if err != nil {
		return AggregatedResult{}, err
	}
	result := Compute(cycleID, evaluateeID, samples, competencies, weights)
	if len(samples) == 0 {
		slog.Warn("aggregating with no submitted evaluations",
			"cycleId", cycleID, "evaluateeId", evaluateeID)
	}
	return result, nil
}

// Evaluatees lists everyone with submitted evaluations in the cycle.
func (s *Service) Evaluatees(ctx context.Context, orgID, cycleID string) ([]string, error) {
	return s.store.ListEvaluatees(ctx, orgID, cycleID)
}
