package aggregate

import "engage/internal/domain/cycle"

// DefaultTypeWeights biases the overall score toward the manager view and
// discounts self-assessment. Organizations can override these per org.
func DefaultTypeWeights() map[string]float64 {
	return map[string]float64{
		cycle.TypeSelf:      0.5,
		cycle.TypePeer:      1.0,
		cycle.TypeManager:   1.5,
		cycle.TypeUpward:    1.0,
		cycle.TypeSkipLevel: 1.0,
	}
}

// normalizeWeights rescales the configured weights over the types that
// actually contributed samples so that absent types never dilute the
// weighted average.
func normalizeWeights(weights map[string]float64, presentTypes map[string]bool) map[string]float64 {
	total := 0.0
	for evalType := range presentTypes {
		total += weights[evalType]
	}
	if total == 0 {
		return nil
	}
	normalized := make(map[string]float64, len(presentTypes))
	for evalType := range presentTypes {
		normalized[evalType] = weights[evalType] / total
	}
	return normalized
}
