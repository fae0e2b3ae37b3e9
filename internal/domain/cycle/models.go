package cycle

import "time"

type EvaluationCycle struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"organizationId"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Status    string    `json:"status"`
	Phases    []Phase   `json:"phases"`
	CreatedAt time.Time `json:"createdAt"`
}

type Phase struct {
	Name      string    `json:"name"`
	Order     int       `json:"order"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// CycleSummary is the list-view shape: the cycle plus evaluation counts.
type CycleSummary struct {
	EvaluationCycle
	EvaluationsTotal     int `json:"evaluationsTotal"`
	EvaluationsSubmitted int `json:"evaluationsSubmitted"`
}
