package config

import (
	"fmt"

	"flightparse/internal/schema"
)

// ParseError is returned when the rendered text does not deserialize.
type ParseError = schema.ParseError

// ValidationError reports a deserialized field that does not equal its sentinel.
type ValidationError struct {
	Field string // FieldVersion or FieldDebug
	Want  string // the sentinel
	Got   string // the parsed value
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: '%s' does not match expected '%s'", e.Field, e.Got, e.Want)
}

// LaunchError wraps a failure of the bootstrap collaborator.
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch failed: %v", e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}
