package svcerr

import (
	"errors"
	"strings"
	"testing"

	"welfaredesk/backend/internal/domain"
	"welfaredesk/backend/internal/store"
)

func TestConflictErrorNamesExistingAppointment(t *testing.T) {
	d := domain.NewDate(2026, 3, 10)
	at := "09:00:00"
	err := &ConflictError{Existing: domain.Appointment{Service: "PWD ID", Date: &d, Time: &at}}

	msg := err.Error()
	for _, want := range []string{"PWD ID", "2026-03-10", "09:00"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q does not mention %q", msg, want)
		}
	}
	if strings.Contains(msg, "09:00:00") {
		t.Fatalf("message %q should use the normalized time", msg)
	}
}

func TestConflictErrorUnscheduled(t *testing.T) {
	err := &ConflictError{Existing: domain.Appointment{Service: "Social Pension"}}
	if !strings.Contains(err.Error(), "not yet scheduled") {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestConflictErrorWithoutExisting(t *testing.T) {
	msg := (&ConflictError{}).Error()
	if msg != "you already have an active appointment; complete or cancel it before booking another" {
		t.Fatalf("message = %q", msg)
	}
}

func TestPersistenceErrorUnwraps(t *testing.T) {
	err := Persistence("load appointment", store.ErrNotFound)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("errors.Is(%v, ErrNotFound) = false", err)
	}
	var pErr *PersistenceError
	if !errors.As(err, &pErr) || pErr.Op != "load appointment" {
		t.Fatalf("errors.As failed: %v", err)
	}
	if err.Error() != "load appointment: not found" {
		t.Fatalf("error = %q", err.Error())
	}
}

func TestValidationErrorText(t *testing.T) {
	err := Validation("reason", "decline reason is required")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if vErr.Field != "reason" || vErr.Error() != "decline reason is required" {
		t.Fatalf("got field=%q msg=%q", vErr.Field, vErr.Error())
	}
}
