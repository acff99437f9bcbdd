package domain

import "errors"

var (
	// ErrRetrieval marks a failure of the document store. It is the only error class a search returns.
	ErrRetrieval = errors.New("event retrieval failed")

	// ErrDimensionConflict is returned when a second clause is added for a dimension already present.
	ErrDimensionConflict = errors.New("predicate already has a clause for this dimension")
)

// ValidationError reports a malformed request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func ErrValidation(msg string) error {
	return &ValidationError{Message: msg}
}
