package cycle

import "errors"

var (
	ErrNotFound          = errors.New("evaluation cycle not found")
	ErrInvalidDateRange  = errors.New("cycle start date must be before end date")
	ErrInvalidType       = errors.New("unknown cycle type")
	ErrOverlappingCycle  = errors.New("an open cycle already covers part of this date range")
	ErrInvalidTransition = errors.New("cycle status transition not allowed")
	ErrNotDraft          = errors.New("cycle phases can only change while draft")
)
