package notifications

const (
	TypeEvaluationAssigned  = "evaluation_assigned"
	TypeEvaluationSubmitted = "evaluation_submitted"
	TypeResultsAvailable    = "results_available"
)
