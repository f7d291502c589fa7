// Package notify carries citizen notifications and staff audit records out of
// the booking core. Delivery is best effort: callers log failures and move on.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindSubmitted         Kind = "appointment_submitted"
	KindApproved          Kind = "appointment_approved"
	KindDeclined          Kind = "appointment_declined"
	KindRescheduled       Kind = "appointment_rescheduled"
	KindCancelled         Kind = "appointment_cancelled"
	KindCompleted         Kind = "appointment_completed"
	KindSameDayReschedule Kind = "appointment_same_day_rescheduled"
	KindNoShow            Kind = "appointment_no_show"
)

type Notification struct {
	ID            uuid.UUID `json:"id"`
	CitizenID     string    `json:"citizen_id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Kind          Kind      `json:"kind"`
	CreatedAt     time.Time `json:"created_at"`
}

type AuditRecord struct {
	ActorID       string    `json:"actor_id"`
	ActorType     string    `json:"actor_type"`
	Action        string    `json:"action"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	Timestamp     time.Time `json:"timestamp"`
}

type Sink interface {
	CreateNotification(ctx context.Context, n Notification) error
}

type AuditSink interface {
	RecordAction(ctx context.Context, rec AuditRecord) error
}

// Fanout delivers to every configured sink and joins their errors.
type Fanout struct {
	notifiers []Sink
	auditors  []AuditSink
}

func NewFanout(notifiers []Sink, auditors []AuditSink) *Fanout {
	return &Fanout{notifiers: notifiers, auditors: auditors}
}

func (f *Fanout) CreateNotification(ctx context.Context, n Notification) error {
	if n.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		n.ID = id
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	var errs []error
	for _, s := range f.notifiers {
		if err := s.CreateNotification(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *Fanout) RecordAction(ctx context.Context, rec AuditRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	var errs []error
	for _, a := range f.auditors {
		if err := a.RecordAction(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Discard struct{}

func (Discard) CreateNotification(context.Context, Notification) error { return nil }
func (Discard) RecordAction(context.Context, AuditRecord) error        { return nil }
