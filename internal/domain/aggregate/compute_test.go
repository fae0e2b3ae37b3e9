package aggregate

import (
	"math"
	"testing"

	"engage/internal/domain/catalog"
	"engage/internal/domain/cycle"
)

func twoCompetencies() []catalog.Competency {
	return []catalog.Competency{
		{ID: "comp-1", Name: "Communication"},
		{ID: "comp-2", Name: "Ownership"},
	}
}

func TestComputeNoSamples(t *testing.T) {
	result := Compute("cy-1", "u-1", nil, twoCompetencies(), DefaultTypeWeights())

	if result.Overall.WeightedAverage != nil {
		t.Fatalf("expected null overall average, got %v", *result.Overall.WeightedAverage)
	}
	if result.Overall.SelfVsOthersGap != nil {
		t.Fatal("expected null gap with no samples")
	}
	if len(result.PerCompetency) != 2 {
		t.Fatalf("expected the full catalog in results, got %d entries", len(result.PerCompetency))
	}
	for _, score := range result.PerCompetency {
		if score.SampleCount != 0 || score.AverageRating != nil {
			t.Fatalf("expected empty score for %s, got %+v", score.Name, score)
		}
	}
}

func TestComputeSelfVsOthersGap(t *testing.T) {
	samples := []RatingSample{
		{EvaluationID: "e-self", CompetencyID: "comp-1", Type: cycle.TypeSelf, Rating: 3},
		{EvaluationID: "e-peer1", CompetencyID: "comp-1", Type: cycle.TypePeer, Rating: 4},
		{EvaluationID: "e-peer2", CompetencyID: "comp-1", Type: cycle.TypePeer, Rating: 5},
		{EvaluationID: "e-mgr", CompetencyID: "comp-1", Type: cycle.TypeManager, Rating: 5},
	}
	result := Compute("cy-1", "u-1", samples, twoCompetencies(), DefaultTypeWeights())

	if result.Overall.SelfVsOthersGap == nil {
		t.Fatal("expected a gap value")
	}
	// 3 - mean(4, 5, 5)
	if got := *result.Overall.SelfVsOthersGap; math.Abs(got-(-1.667)) > 0.01 {
		t.Fatalf("expected gap near -1.667, got %f", got)
	}
}

func TestComputeWeightedAverageRenormalizes(t *testing.T) {
	// only self and manager present: weights 0.5 and 1.5 renormalize to
	// 0.25 and 0.75
	samples := []RatingSample{
		{EvaluationID: "e-self", CompetencyID: "comp-1", Type: cycle.TypeSelf, Rating: 2},
		{EvaluationID: "e-mgr", CompetencyID: "comp-1", Type: cycle.TypeManager, Rating: 4},
	}
	result := Compute("cy-1", "u-1", samples, twoCompetencies(), DefaultTypeWeights())

	if result.Overall.WeightedAverage == nil {
		t.Fatal("expected an overall average")
	}
	want := 0.25*2 + 0.75*4
	if got := *result.Overall.WeightedAverage; math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected weighted average %f, got %f", want, got)
	}
}

func TestComputeSingleTypeMatchesPlainMean(t *testing.T) {
	samples := []RatingSample{
		{EvaluationID: "e-p1", CompetencyID: "comp-1", Type: cycle.TypePeer, Rating: 3},
		{EvaluationID: "e-p2", CompetencyID: "comp-2", Type: cycle.TypePeer, Rating: 5},
	}
	result := Compute("cy-1", "u-1", samples, twoCompetencies(), DefaultTypeWeights())

	if result.Overall.WeightedAverage == nil || math.Abs(*result.Overall.WeightedAverage-4) > 1e-9 {
		t.Fatalf("expected 4.0 with a single contributing type, got %v", result.Overall.WeightedAverage)
	}
	if result.Overall.SelfVsOthersGap != nil {
		t.Fatal("expected null gap without a self evaluation")
	}
}

func TestComputePerCompetencyBreakdown(t *testing.T) {
	samples := []RatingSample{
		{EvaluationID: "e-self", CompetencyID: "comp-1", Type: cycle.TypeSelf, Rating: 2},
		{EvaluationID: "e-p1", CompetencyID: "comp-1", Type: cycle.TypePeer, Rating: 4},
		{EvaluationID: "e-p2", CompetencyID: "comp-1", Type: cycle.TypePeer, Rating: 5},
	}
	result := Compute("cy-1", "u-1", samples, twoCompetencies(), DefaultTypeWeights())

	var comm CompetencyScore
	for _, score := range result.PerCompetency {
		if score.CompetencyID == "comp-1" {
			comm = score
		}
	}
	if comm.SampleCount != 3 {
		t.Fatalf("expected 3 samples, got %d", comm.SampleCount)
	}
	if comm.AverageRating == nil || math.Abs(*comm.AverageRating-11.0/3) > 1e-9 {
		t.Fatalf("unexpected competency average %v", comm.AverageRating)
	}
	if math.Abs(comm.ByType[cycle.TypePeer]-4.5) > 1e-9 {
		t.Fatalf("expected peer mean 4.5, got %f", comm.ByType[cycle.TypePeer])
	}
	if result.ContributingByType[cycle.TypePeer] != 2 {
		t.Fatalf("expected 2 contributing peer evaluations, got %d", result.ContributingByType[cycle.TypePeer])
	}
}
