package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed subscription records
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownSource is returned for unregistered source types
	ErrUnknownSource = errors.New("unknown source type")
)

// ValidationError describes why a record was rejected
type ValidationError struct {
	Record string // subscription name or record position
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Record == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: invalid %s: %s", e.Record, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
