package validation

import "strings"

// ValidationError reports why input data was rejected.
// Structural failures (not an array, empty array) carry only a Summary.
// Record failures carry one Problem per defect, each prefixed with the
// record's index, collected over the whole input.
type ValidationError struct {
	Summary  string
	Problems []string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "validation failed"
	}
	if len(e.Problems) == 0 {
		return e.Summary
	}
	return e.Summary + "\n" + strings.Join(e.Problems, "\n")
}
