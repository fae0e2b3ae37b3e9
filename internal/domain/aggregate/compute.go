package aggregate

import (
	"github.com/montanaflynn/stats"

	"engage/internal/domain/catalog"
	"engage/internal/domain/cycle"
)

// Compute folds rating samples into an AggregatedResult. Pure function; the
// caller supplies the submitted samples, the active catalog and the weight
// configuration. With no samples every average is null and nothing errors.
func Compute(cycleID, evaluateeID string, samples []RatingSample, competencies []catalog.Competency, weights map[string]float64) AggregatedResult {
	result := AggregatedResult{
		CycleID:            cycleID,
		EvaluateeID:        evaluateeID,
		ContributingByType: map[string]int{},
	}

	byCompetency := map[string][]RatingSample{}
	byType := map[string][]float64{}
	evalsByType := map[string]map[string]bool{}
	var selfSamples, otherSamples []float64
	for _, sample := range samples {
		byCompetency[sample.CompetencyID] = append(byCompetency[sample.CompetencyID], sample)
		byType[sample.Type] = append(byType[sample.Type], sample.Rating)
		if evalsByType[sample.Type] == nil {
			evalsByType[sample.Type] = map[string]bool{}
		}
		evalsByType[sample.Type][sample.EvaluationID] = true
		if sample.Type == cycle.TypeSelf {
			selfSamples = append(selfSamples, sample.Rating)
		} else {
			otherSamples = append(otherSamples, sample.Rating)
		}
	}
	for evalType, evals := range evalsByType {
		result.ContributingByType[evalType] = len(evals)
	}

	result.PerCompetency = competencyScores(competencies, byCompetency)
	result.Overall.WeightedAverage = weightedAverage(byType, weights)
	result.Overall.SelfVsOthersGap = gap(selfSamples, otherSamples)
	return result
}

// competencyScores covers the whole active catalog, in catalog order, so
// competencies nobody rated still show up with a zero sample count.
func competencyScores(competencies []catalog.Competency, byCompetency map[string][]RatingSample) []CompetencyScore {
	scores := make([]CompetencyScore, 0, len(competencies))
	for _, competency := range competencies {
		score := CompetencyScore{
			CompetencyID: competency.ID,
			Name:         competency.Name,
			ByType:       map[string]float64{},
		}
		competencySamples := byCompetency[competency.ID]
		score.SampleCount = len(competencySamples)

		var all []float64
		perType := map[string][]float64{}
		for _, sample := range competencySamples {
			all = append(all, sample.Rating)
			perType[sample.Type] = append(perType[sample.Type], sample.Rating)
		}
		score.AverageRating = mean(all)
		for evalType, ratings := range perType {
			if m := mean(ratings); m != nil {
				score.ByType[evalType] = *m
			}
		}
		scores = append(scores, score)
	}
	return scores
}

// weightedAverage combines per-type means using weights renormalized over
// the types that are present.
func weightedAverage(byType map[string][]float64, weights map[string]float64) *float64 {
	present := map[string]bool{}
	for evalType, ratings := range byType {
		if len(ratings) > 0 {
			present[evalType] = true
		}
	}
	normalized := normalizeWeights(weights, present)
	if normalized == nil {
		return nil
	}
	total := 0.0
	for evalType, weight := range normalized {
		typeMean, err := stats.Mean(stats.Float64Data(byType[evalType]))
		if err != nil {
			return nil
		}
		total += weight * typeMean
	}
	return &total
}

// gap is the self mean minus the mean over every non-self sample, nil
// whenever either side has no data.
func gap(selfSamples, otherSamples []float64) *float64 {
	selfMean := mean(selfSamples)
	othersMean := mean(otherSamples)
	if selfMean == nil || othersMean == nil {
		return nil
	}
	diff := *selfMean - *othersMean
	return &diff
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m, err := stats.Mean(stats.Float64Data(values))
	if err != nil {
		return nil
	}
	return &m
}
