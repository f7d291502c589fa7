package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Status string

const (
	StatusPending      Status = "pending"
	StatusApproved     Status = "approved"
	StatusDeclined     Status = "declined"
	StatusScheduled    Status = "scheduled"
	StatusCancelled    Status = "cancelled"
	StatusCompleted    Status = "completed"
	StatusDidNotShowUp Status = "did-not-show-up"
)

// ActiveStatuses block a citizen from submitting another request.
var ActiveStatuses = []Status{StatusPending, StatusApproved, StatusScheduled}

func (s Status) Active() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	switch s {
	case StatusDeclined, StatusCancelled, StatusCompleted, StatusDidNotShowUp:
		return true
	}
	return false
}

func (s Status) Valid() bool {
	return s.Active() || s.Terminal()
}

type AppointeeRelation string

const (
	AppointeeSelf     AppointeeRelation = "self"
	AppointeeRelative AppointeeRelation = "relative"
)

func (r AppointeeRelation) Valid() bool {
	return r == AppointeeSelf || r == AppointeeRelative
}

type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID       uuid.UUID `bun:"id,pk,type:uuid"`
	Category Category  `bun:"category,notnull"`

	CitizenID     string `bun:"citizen_id,notnull"`
	FirstName     string `bun:"first_name,notnull"`
	MiddleName    string `bun:"middle_name"`
	LastName      string `bun:"last_name,notnull"`
	Suffix        string `bun:"suffix"`
	ContactNumber string `bun:"contact_number,notnull"`
	Email         string `bun:"email"`
	Barangay      string `bun:"barangay,notnull"`
	IDType        string `bun:"id_type,notnull"`
	IDNumber      string `bun:"id_number,notnull"`
	IDFrontURL    string `bun:"id_front_url,notnull"`
	IDBackURL     string `bun:"id_back_url,notnull"`

	Service           string            `bun:"service,notnull"`
	AppointeeRelation AppointeeRelation `bun:"appointee_relation,notnull"`
	Date              *Date             `bun:"date,type:date"`
	Time              *string           `bun:"time,type:time"`

	Status        Status `bun:"status,notnull"`
	Notes         string `bun:"notes"`
	DeclineReason string `bun:"decline_reason"`
	Archived      bool   `bun:"archived,notnull,default:false"`

	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}

var (
	ErrPartialSchedule      = errors.New("date and time must be set together")
	ErrMissingDeclineReason = errors.New("declined appointment requires a reason")
)

// Validate checks the invariants that hold for every stored appointment.
func (a Appointment) Validate() error {
	hasDate := a.Date != nil && !a.Date.IsZero()
	hasTime := a.Time != nil && strings.TrimSpace(*a.Time) != ""
	if hasDate != hasTime {
		return ErrPartialSchedule
	}
	if a.Status == StatusDeclined && strings.TrimSpace(a.DeclineReason) == "" {
		return ErrMissingDeclineReason
	}
	return nil
}

func (a Appointment) Scheduled() bool {
	return a.Date != nil && !a.Date.IsZero() && a.Time != nil
}

// SlotLabel renders the date and time for citizen-facing copy.
func (a Appointment) SlotLabel() (date, at string) {
	date, at = "not yet scheduled", "not yet scheduled"
	if a.Date != nil && !a.Date.IsZero() {
		date = a.Date.String()
	}
	if a.Time != nil {
		if t, err := NormalizeTime(*a.Time); err == nil {
			at = t
		}
	}
	return date, at
}

func (a Appointment) FullName() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.FirstName, a.MiddleName, a.LastName, a.Suffix} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
