package catalog

import "errors"

var (
	ErrNotFound      = errors.New("competency not found")
	ErrDuplicateName = errors.New("competency name already in use")
	ErrAlreadySeeded = errors.New("organization already has competencies")
	ErrBadCategory   = errors.New("unknown competency category")
)
