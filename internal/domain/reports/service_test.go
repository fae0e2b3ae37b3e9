package reports

import (
	"context"
	"errors"
	"testing"

	"engage/internal/domain/aggregate"
	"engage/internal/domain/cycle"
	"engage/internal/domain/org"
)

type fakeAggregator struct {
	evaluatees []string
	failFor    string
}

func (f *fakeAggregator) ResultsFor(ctx context.Context, orgID, cycleID, evaluateeID string) (aggregate.AggregatedResult, error) {
	if evaluateeID == f.failFor {
		return aggregate.AggregatedResult{}, errors.New("boom")
	}
	return aggregate.AggregatedResult{CycleID: cycleID, EvaluateeID: evaluateeID}, nil
}

func (f *fakeAggregator) Evaluatees(ctx context.Context, orgID, cycleID string) ([]string, error) {
	return f.evaluatees, nil
}

type fakeOrg struct{}

func (fakeOrg) ListActiveMembers(ctx context.Context, orgID string) ([]org.Member, error) {
	return nil, nil
}

type fakeCycles struct{}

func (fakeCycles) Get(ctx context.Context, orgID, cycleID string) (cycle.EvaluationCycle, error) {
	return cycle.EvaluationCycle{ID: cycleID, Name: "H1"}, nil
}

func TestCycleResultsKeepsOrder(t *testing.T) {
	service := NewService(&fakeAggregator{evaluatees: []string{"u1", "u2", "u3"}}, fakeOrg{}, fakeCycles{})

	results, err := service.CycleResults(context.Background(), "org-1", "cy-1")
	if err != nil {
		t.Fatalf("cycle results failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, evaluateeID := range []string{"u1", "u2", "u3"} {
		if results[i].EvaluateeID != evaluateeID {
			t.Fatalf("result %d out of order: %s", i, results[i].EvaluateeID)
		}
	}
}

func TestCycleResultsEmptyCycle(t *testing.T) {
	service := NewService(&fakeAggregator{}, fakeOrg{}, fakeCycles{})
	results, err := service.CycleResults(context.Background(), "org-1", "cy-1")
	if err != nil {
		t.Fatalf("empty cycle errored: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestCycleResultsPropagatesFailure(t *testing.T) {
	service := NewService(&fakeAggregator{evaluatees: []string{"u1", "u2"}, failFor: "u2"}, fakeOrg{}, fakeCycles{})
	if _, err := service.CycleResults(context.Background(), "org-1", "cy-1"); err == nil {
		t.Fatal("expected aggregation failure to propagate")
	}
}
