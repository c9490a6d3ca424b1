package scoring

import "errors"

// ErrInvalidCriterion is matched by every *ValidationError via errors.Is.
var ErrInvalidCriterion = errors.New("invalid criterion")

// ValidationError reports malformed engine input at the boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidCriterion
}
