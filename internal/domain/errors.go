package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidTimeFormat means the time-of-day matched neither the
	// 12-hour nor the 24-hour pattern.
	ErrInvalidTimeFormat = errors.New("invalid time format")

	// ErrInvalidDate means the composed date/time is not a real calendar
	// instant (bad date string, unknown timezone, Feb 30 and friends).
	ErrInvalidDate = errors.New("invalid date")

	// ErrAvailabilityLookup wraps a failed calendar read. Callers must
	// surface it, never treat it as "fully booked".
	ErrAvailabilityLookup = errors.New("availability lookup failed")

	// ErrPersistence wraps a failed meeting write. Fatal to the request;
	// nothing is notified because nothing exists.
	ErrPersistence = errors.New("persistence failed")

	// ErrSlotTaken is returned when the slot uniqueness constraint rejects
	// the write.
	ErrSlotTaken = errors.New("slot already booked")
)

// ValidationError reports which request fields failed validation. It is
// produced before any external call is made.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, reason string) {
	e.Fields[field] = reason
}

func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid booking request: %s", strings.Join(e.FieldList(), ", "))
}

// FieldList returns the failing field names in stable order for responses.
func (e *ValidationError) FieldList() []string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}
