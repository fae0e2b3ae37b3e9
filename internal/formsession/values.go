package formsession

import "time"

// FieldValues is the complete editable content of an evaluation form. The
// in-memory copy is the source of truth; saves serialize it wholesale.
type FieldValues struct {
	Ratings         map[string]float64 `json:"ratings"`  // competency id -> rating
	Comments        map[string]string  `json:"comments"` // competency id -> comment
	Strengths       string             `json:"strengths"`
	Improvements    string             `json:"improvements"`
	CareerGoals     string             `json:"careerGoals"`
	DevelopmentPlan string             `json:"developmentPlan"`
	OverallRating   *float64           `json:"overallRating"`
	OverallComments string             `json:"overallComments"`
}

// Snapshot is a full copy of the field values at one point in time. Saves
// always carry a whole snapshot so replaying a queue is last-write-wins.
type Snapshot struct {
	EvaluationID string
	Values       FieldValues
	UpdatedAt    time.Time
}

func (v FieldValues) clone() FieldValues {
	out := v
	out.Ratings = make(map[string]float64, len(v.Ratings))
	for id, rating := range v.Ratings {
		out.Ratings[id] = rating
	}
	out.Comments = make(map[string]string, len(v.Comments))
	for id, comment := range v.Comments {
		out.Comments[id] = comment
	}
	if v.OverallRating != nil {
		rating := *v.OverallRating
		out.OverallRating = &rating
	}
	return out
}

func (v FieldValues) equal(other FieldValues) bool {
	if len(v.Ratings) != len(other.Ratings) || len(v.Comments) != len(other.Comments) {
		return false
	}
	for id, rating := range v.Ratings {
		if got, ok := other.Ratings[id]; !ok || got != rating {
			return false
		}
	}
	for id, comment := range v.Comments {
		if got, ok := other.Comments[id]; !ok || got != comment {
			return false
		}
	}
	if (v.OverallRating == nil) != (other.OverallRating == nil) {
		return false
	}
	if v.OverallRating != nil && *v.OverallRating != *other.OverallRating {
		return false
	}
	return v.Strengths == other.Strengths &&
		v.Improvements == other.Improvements &&
		v.CareerGoals == other.CareerGoals &&
		v.DevelopmentPlan == other.DevelopmentPlan &&
		v.OverallComments == other.OverallComments
}

func (v FieldValues) text(field string) string {
	switch field {
	case FieldStrengths:
		return v.Strengths
	case FieldImprovements:
		return v.Improvements
	case FieldCareerGoals:
		return v.CareerGoals
	case FieldDevelopmentPlan:
		return v.DevelopmentPlan
	}
	return ""
}

func (v *FieldValues) setText(field, value string) {
	switch field {
	case FieldStrengths:
		v.Strengths = value
	case FieldImprovements:
		v.Improvements = value
	case FieldCareerGoals:
		v.CareerGoals = value
	case FieldDevelopmentPlan:
		v.DevelopmentPlan = value
	}
}
