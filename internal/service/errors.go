// Package service implements the room catalog and the reservation mutation
// rules on top of the repositories: input validation, timestamp parsing
// and normalization into the facility timezone, the room deletion guard and
// batch updates.
package service

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Column widths of rooms.name and reservations.title.
const (
	MaxRoomNameLength = 100
	MaxTitleLength    = 200
)

// ErrValidation marks a missing, empty or oversized field.
var ErrValidation = errors.New("validation failed")

func required(field string) error {
	return fmt.Errorf("%w: %s is required", ErrValidation, field)
}

// checkLength counts characters, not bytes, matching VARCHAR(n) on utf8mb4.
func checkLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrValidation, field, max)
	}
	return nil
}

// ParseError reports a timestamp that could not be parsed.
type ParseError struct {
	Field string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s timestamp %q", e.Field, e.Value)
}
