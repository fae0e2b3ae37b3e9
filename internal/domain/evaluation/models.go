package evaluation

import "time"

type Evaluation struct {
	ID              string             `json:"id"`
	CycleID         string             `json:"cycleId"`
	EvaluatorID     string             `json:"evaluatorId"`
	EvaluateeID     string             `json:"evaluateeId"`
	Type            string             `json:"type"`
	Status          string             `json:"status"`
	OverallRating   *float64           `json:"overallRating"`
	OverallComments string             `json:"overallComments"`
	Strengths       string             `json:"strengths"`
	Improvements    string             `json:"improvements"`
	CareerGoals     string             `json:"careerGoals"`
	DevelopmentPlan string             `json:"developmentPlan"`
	SubmittedAt     *time.Time         `json:"submittedAt,omitempty"`
	UpdatedAt       time.Time          `json:"updatedAt"`
	Ratings         []CompetencyRating `json:"competencyRatings"`
}

type CompetencyRating struct {
	CompetencyID     string   `json:"competencyId"`
	Rating           float64  `json:"rating"`
	Comments         string   `json:"comments"`
	Behaviors        []string `json:"behaviors"`
	Examples         string   `json:"examples"`
	ImprovementAreas string   `json:"improvementAreas"`
}

// DraftFields carries the autosaved subset; ratings travel separately so a
// partial save never wipes untouched competencies.
type DraftFields struct {
	OverallRating   *float64
	OverallComments string
	Strengths       string
	Improvements    string
	CareerGoals     string
	DevelopmentPlan string
	Ratings         []CompetencyRating
}
