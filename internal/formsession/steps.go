package formsession

import (
	"strings"

	"engage/internal/domain/catalog"
	"engage/internal/domain/evaluation"
)

const (
	StepCompetency = "competency"
	StepReflection = "reflection"
	StepReview     = "review"
)

const (
	FieldStrengths       = "strengths"
	FieldImprovements    = "improvements"
	FieldCareerGoals     = "careerGoals"
	FieldDevelopmentPlan = "developmentPlan"
)

type Step struct {
	ID           string
	Kind         string
	Title        string
	CompetencyID string
	Field        string
	IsRequired   bool
	IsCompleted  bool
}

// BuildSteps derives the ordered form steps for an evaluation: one step per
// active competency, the fixed reflection steps, then the final review step
// carrying the overall rating.
func BuildSteps(competencies []catalog.Competency) []Step {
	steps := make([]Step, 0, len(competencies)+5)
	for _, competency := range competencies {
		steps = append(steps, Step{
			ID:           "competency:" + competency.ID,
			Kind:         StepCompetency,
			Title:        competency.Name,
			CompetencyID: competency.ID,
			IsRequired:   true,
		})
	}
	steps = append(steps,
		Step{ID: "reflection:" + FieldStrengths, Kind: StepReflection, Title: "Strengths", Field: FieldStrengths, IsRequired: true},
		Step{ID: "reflection:" + FieldImprovements, Kind: StepReflection, Title: "Areas to improve", Field: FieldImprovements, IsRequired: true},
		Step{ID: "reflection:" + FieldCareerGoals, Kind: StepReflection, Title: "Career goals", Field: FieldCareerGoals},
		Step{ID: "reflection:" + FieldDevelopmentPlan, Kind: StepReflection, Title: "Development plan", Field: FieldDevelopmentPlan},
		Step{ID: "review", Kind: StepReview, Title: "Review and submit", IsRequired: true},
	)
	return steps
}

// stepSatisfied checks a single step's required fields against the values.
func stepSatisfied(step Step, values FieldValues) bool {
	switch step.Kind {
	case StepCompetency:
		rating, ok := values.Ratings[step.CompetencyID]
		return ok && evaluation.ValidRating(rating)
	case StepReflection:
		if !step.IsRequired {
			return true
		}
		return strings.TrimSpace(values.text(step.Field)) != ""
	case StepReview:
		return values.OverallRating != nil && evaluation.ValidRating(*values.OverallRating)
	default:
		return false
	}
}
