package store

import (
	"context"

	"github.com/google/uuid"

	"welfaredesk/backend/internal/domain"
)

type AppointmentRepository interface {
	// Create inserts appt. A non-nil guard asks the store to re-check capacity
	// and the one-active rule atomically with the insert.
	Create(ctx context.Context, appt domain.Appointment, guard *CapacityGuard) (domain.Appointment, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	ListByCitizen(ctx context.Context, citizenID string) ([]domain.Appointment, error)
	FindActive(ctx context.Context, citizenID string) ([]domain.Appointment, error)

	// CountByDay counts non-archived appointments of one category per date in
	// [from, to], any status.
	CountByDay(ctx context.Context, category domain.Category, from, to domain.Date) ([]DayCount, error)
	// CountBySlot counts appointments of every category on date per stored
	// time value, excluding declined ones. Times are returned as stored.
	CountBySlot(ctx context.Context, date domain.Date) ([]TimeCount, error)

	// Transition applies change only while the row is in one of the from
	// statuses; otherwise it returns ErrConflict.
	Transition(ctx context.Context, id uuid.UUID, from []domain.Status, change Change) (domain.Appointment, error)
	SetArchived(ctx context.Context, id uuid.UUID, archived bool) (domain.Appointment, error)
}

type DayCount struct {
	Date  domain.Date `bun:"date"`
	Count int         `bun:"count"`
}

type TimeCount struct {
	Time  string `bun:"time"`
	Count int    `bun:"count"`
}

type CapacityGuard struct {
	DailyCap     int
	SlotCapacity int
}

// Change is the set of columns a lifecycle transition writes. Nil fields are
// left untouched.
type Change struct {
	Status        domain.Status
	Notes         *string
	DeclineReason *string
	Date          *domain.Date
	Time          *string
}
