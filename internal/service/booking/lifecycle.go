package booking

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"welfaredesk/backend/internal/domain"
	"welfaredesk/backend/internal/service/svcerr"
	"welfaredesk/backend/internal/store"
)

type Outcome string

const (
	OutcomeCompleted   Outcome = "completed"
	OutcomeRescheduled Outcome = "re-scheduled"
	OutcomeNoShow      Outcome = "did-not-show-up"
)

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeCompleted, OutcomeRescheduled, OutcomeNoShow:
		return true
	}
	return false
}

// OutcomeInput records what happened to an appointment on its day. NewDate,
// NewTime and Note are required for OutcomeRescheduled.
type OutcomeInput struct {
	Outcome Outcome
	NewDate domain.Date
	NewTime string
	Note    string
}

var (
	fromPending  = []domain.Status{domain.StatusPending}
	fromBookable = []domain.Status{domain.StatusApproved, domain.StatusScheduled}
)

func (m *Manager) Approve(ctx context.Context, actor Actor, id uuid.UUID, note string) (domain.Appointment, error) {
	if err := requireStaff(actor); err != nil {
		return domain.Appointment{}, err
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return domain.Appointment{}, svcerr.Validation("note", "please add a note for the citizen")
	}

	a, err := m.transition(ctx, id, fromPending, "only pending appointments can be approved", fixedChange(store.Change{
		Status: domain.StatusApproved,
		Notes:  &note,
	}))
	if err != nil {
		return domain.Appointment{}, err
	}
	m.sideEffects(ctx, actor, "appointment.approved", a, approvedMessage(a))
	return a, nil
}

func (m *Manager) Decline(ctx context.Context, actor Actor, id uuid.UUID, reason string) (domain.Appointment, error) {
	if err := requireStaff(actor); err != nil {
		return domain.Appointment{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.Appointment{}, svcerr.Validation("reason", "please give a reason for declining")
	}

	a, err := m.transition(ctx, id, fromPending, "only pending appointments can be declined", fixedChange(store.Change{
		Status:        domain.StatusDeclined,
		DeclineReason: &reason,
	}))
	if err != nil {
		return domain.Appointment{}, err
	}
	m.sideEffects(ctx, actor, "appointment.declined", a, declinedMessage(a))
	return a, nil
}

// Schedule sets or moves the date and time of an approved or scheduled
// appointment. Staff may exceed slot capacity here.
func (m *Manager) Schedule(ctx context.Context, actor Actor, id uuid.UUID, date domain.Date, at, note string) (domain.Appointment, error) {
	if err := requireStaff(actor); err != nil {
		return domain.Appointment{}, err
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return domain.Appointment{}, svcerr.Validation("note", "please add a note for the citizen")
	}
	start, err := m.validateNewSlot(date, at)
	if err != nil {
		return domain.Appointment{}, err
	}

	a, err := m.transition(ctx, id, fromBookable, "only approved or scheduled appointments can be scheduled", fixedChange(store.Change{
		Status: domain.StatusScheduled,
		Notes:  &note,
		Date:   &date,
		Time:   &start,
	}))
	if err != nil {
		return domain.Appointment{}, err
	}
	m.sideEffects(ctx, actor, "appointment.scheduled", a, rescheduledMessage(a))
	return a, nil
}

func (m *Manager) Cancel(ctx context.Context, actor Actor, id uuid.UUID, note string) (domain.Appointment, error) {
	if err := requireStaff(actor); err != nil {
		return domain.Appointment{}, err
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return domain.Appointment{}, svcerr.Validation("note", "please add a note for the citizen")
	}

	a, err := m.transition(ctx, id, fromBookable, "only approved or scheduled appointments can be cancelled", fixedChange(store.Change{
		Status: domain.StatusCancelled,
		Notes:  &note,
	}))
	if err != nil {
		return domain.Appointment{}, err
	}
	m.sideEffects(ctx, actor, "appointment.cancelled", a, cancelledMessage(a))
	return a, nil
}

// MarkSameDayOutcome closes or moves an appointment on the day it was due.
// Status and the due date are checked before any re-schedule input.
func (m *Manager) MarkSameDayOutcome(ctx context.Context, actor Actor, id uuid.UUID, in OutcomeInput) (domain.Appointment, error) {
	if err := requireStaff(actor); err != nil {
		return domain.Appointment{}, err
	}
	if !in.Outcome.Valid() {
		return domain.Appointment{}, svcerr.Validation("outcome", "outcome must be completed, re-scheduled or did-not-show-up")
	}

	note := strings.TrimSpace(in.Note)
	today := m.avail.Today()
	build := func(current domain.Appointment) (store.Change, error) {
		if current.Date == nil || *current.Date != today {
			return store.Change{}, svcerr.State("appointment is not scheduled for today")
		}

		change := store.Change{}
		switch in.Outcome {
		case OutcomeCompleted:
			change.Status = domain.StatusCompleted
		case OutcomeNoShow:
			change.Status = domain.StatusDidNotShowUp
		case OutcomeRescheduled:
			if note == "" {
				return store.Change{}, svcerr.Validation("note", "please add a note for the citizen")
			}
			start, err := m.validateNewSlot(in.NewDate, in.NewTime)
			if err != nil {
				return store.Change{}, err
			}
			newDate := in.NewDate
			change.Status = domain.StatusScheduled
			change.Date = &newDate
			change.Time = &start
		}
		if note != "" {
			change.Notes = &note
		}
		return change, nil
	}

	a, err := m.transition(ctx, id, fromBookable, "only approved or scheduled appointments can be marked", build)
	if err != nil {
		return domain.Appointment{}, err
	}
	m.sideEffects(ctx, actor, "appointment.outcome."+string(in.Outcome), a, outcomeMessage(a, in.Outcome))
	return a, nil
}

// SetArchived toggles the archived flag without touching the status. Only
// admins can unarchive.
func (m *Manager) SetArchived(ctx context.Context, actor Actor, id uuid.UUID, archived bool) (domain.Appointment, error) {
	if err := requireStaff(actor); err != nil {
		return domain.Appointment{}, err
	}
	if !archived && actor.Role != RoleAdmin {
		return domain.Appointment{}, svcerr.Forbidden("only admins can unarchive appointments")
	}
	if id == uuid.Nil {
		return domain.Appointment{}, svcerr.Validation("appointment_id", "appointment_id is required")
	}

	a, err := m.repo.SetArchived(ctx, id, archived)
	if err != nil {
		return domain.Appointment{}, svcerr.Persistence("archive appointment", err)
	}
	action := "appointment.archived"
	if !archived {
		action = "appointment.unarchived"
	}
	m.sideEffects(ctx, actor, action, a, nil)
	return a, nil
}

func (m *Manager) validateNewSlot(date domain.Date, at string) (string, error) {
	if date.IsZero() {
		return "", svcerr.Validation("date", "please select a date")
	}
	if date.Before(m.avail.Today()) {
		return "", svcerr.Validation("date", "date cannot be in the past")
	}
	if strings.TrimSpace(at) == "" {
		return "", svcerr.Validation("time", "please select a time slot")
	}
	start, ok := m.avail.ValidWindow(at)
	if !ok {
		return "", svcerr.Validation("time", "invalid time slot")
	}
	return start, nil
}

// transition loads the appointment, checks its status, asks build for the
// change and writes it with a compare-and-set on the expected statuses.
func (m *Manager) transition(
	ctx context.Context,
	id uuid.UUID,
	from []domain.Status,
	stateMsg string,
	build func(current domain.Appointment) (store.Change, error),
) (domain.Appointment, error) {
	if id == uuid.Nil {
		return domain.Appointment{}, svcerr.Validation("appointment_id", "appointment_id is required")
	}

	current, err := m.repo.Get(ctx, id)
	if err != nil {
		return domain.Appointment{}, svcerr.Persistence("load appointment", err)
	}
	if !statusIn(current.Status, from) {
		return domain.Appointment{}, svcerr.State(stateMsg)
	}
	change, err := build(current)
	if err != nil {
		return domain.Appointment{}, err
	}

	updated, err := m.repo.Transition(ctx, id, from, change)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return domain.Appointment{}, svcerr.State("appointment was changed by someone else; reload and try again")
		}
		return domain.Appointment{}, svcerr.Persistence("update appointment", err)
	}

	m.log.Info(
		"appointment transitioned",
		slog.String("appointment_id", id.String()),
		slog.String("from", string(current.Status)),
		slog.String("to", string(updated.Status)),
	)
	return updated, nil
}

func fixedChange(c store.Change) func(domain.Appointment) (store.Change, error) {
	return func(domain.Appointment) (store.Change, error) {
		return c, nil
	}
}

func statusIn(s domain.Status, list []domain.Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
