package aggregate

// RatingSample is a single competency rating contributed by one submitted
// evaluation.
type RatingSample struct {
	EvaluationID string
	CompetencyID string
	Type         string
	Rating       float64
}

type CompetencyScore struct {
	CompetencyID  string             `json:"competencyId"`
	Name          string             `json:"name"`
	AverageRating *float64           `json:"averageRating"`
	ByType        map[string]float64 `json:"byType"`
	SampleCount   int                `json:"sampleCount"`
}

type Overall struct {
	WeightedAverage *float64 `json:"weightedAverage"`
	SelfVsOthersGap *float64 `json:"selfVsOthersGap"`
}

// AggregatedResult is the consolidated view of one person's results in one
// cycle. Competencies without samples still appear with a null average so
// the report renders the full catalog.
type AggregatedResult struct {
	CycleID       string            `json:"cycleId"`
	EvaluateeID   string            `json:"evaluateeId"`
	PerCompetency []CompetencyScore `json:"perCompetency"`
	Overall       Overall           `json:"overall"`
	// submitted evaluations contributing samples, keyed by evaluation type
	ContributingByType map[string]int `json:"contributingByType"`
}
