package handler

import "fmt"

// DecodeError reports that the source object is not valid JSON.
// It wraps the underlying encoding/json error.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	if e == nil || e.Err == nil {
		return "decode failed"
	}
	return "decode failed: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EventError reports a trigger event without the expected structure.
// Field names the missing key; Err is set when the payload could not be
// decoded at all.
type EventError struct {
	Field string
	Err   error
}

func (e *EventError) Error() string {
	if e == nil {
		return "invalid event"
	}
	return "invalid event: " + e.Detail()
}

// Detail is the caller-facing description used in response bodies.
func (e *EventError) Detail() string {
	if e.Err != nil {
		return "Malformed event: " + e.Err.Error()
	}
	return fmt.Sprintf("Missing field: '%s'", e.Field)
}

func (e *EventError) Unwrap() error { return e.Err }
