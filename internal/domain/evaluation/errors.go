package evaluation

import "errors"

var (
	ErrNotFound         = errors.New("evaluation not found")
	ErrNotEvaluator     = errors.New("caller is not the evaluator")
	ErrAlreadySubmitted = errors.New("evaluation already submitted")
	ErrCycleInactive    = errors.New("cycle is not active")
	ErrInvalidRating    = errors.New("rating outside the 1-5 scale")
	ErrBadReviewStep    = errors.New("review status transition not allowed")
)
