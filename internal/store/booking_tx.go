package store

import (
	"context"

	"welfaredesk/backend/internal/domain"
)

// BookingTx is the view of the store available inside a serialized booking
// transaction.
type BookingTx interface {
	InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	FindActive(ctx context.Context, citizenID string) ([]domain.Appointment, error)
	CountDay(ctx context.Context, date domain.Date) (int, error)
	CountBySlot(ctx context.Context, date domain.Date) ([]TimeCount, error)
}
