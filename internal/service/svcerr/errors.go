// Package svcerr holds the error types shared by the availability and booking
// services. Transports map them to status codes with errors.As.
package svcerr

import (
	"fmt"

	"welfaredesk/backend/internal/domain"
)

// ValidationError reports missing or malformed input. Field names the first
// offending input; Msg is shown to the user as is.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func Validation(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// StateError reports an operation that is not allowed from the appointment's
// current status or date.
type StateError struct {
	Msg string
}

func (e *StateError) Error() string {
	return e.Msg
}

func State(msg string) error {
	return &StateError{Msg: msg}
}

// ConflictError is returned when the citizen already holds an active
// appointment. Existing is zero when the store reported the conflict but the
// appointment could not be re-read.
type ConflictError struct {
	Existing domain.Appointment
}

func (e *ConflictError) Error() string {
	if e.Existing.Service == "" {
		return "you already have an active appointment; complete or cancel it before booking another"
	}
	date, at := e.Existing.SlotLabel()
	return fmt.Sprintf(
		"you already have an active appointment for %s on %s at %s; complete or cancel it before booking another",
		e.Existing.Service, date, at,
	)
}

// PersistenceError wraps a store failure. The underlying store sentinel is
// reachable through errors.Is.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func Persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string {
	return e.Msg
}

func Forbidden(msg string) error {
	return &ForbiddenError{Msg: msg}
}
