package assignment

// Assignment is one required evaluation relationship. The quadruple
// (CycleID, EvaluatorID, EvaluateeID, Type) is the uniqueness key.
type Assignment struct {
	CycleID     string `json:"cycleId"`
	EvaluatorID string `json:"evaluatorId"`
	EvaluateeID string `json:"evaluateeId"`
	Type        string `json:"type"`
}

// Result reports what a generation run did. NewAssignments holds the rows
// created by this run so callers can notify the affected evaluators.
type Result struct {
	Computed       int          `json:"computed"`
	Created        int          `json:"created"`
	Existing       int          `json:"existing"`
	NewAssignments []Assignment `json:"-"`
}
