// Package memory is an in-process AppointmentRepository for local runs and
// tests. It mirrors the Postgres schema's constraints, including the partial
// unique index on one active appointment per citizen.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"welfaredesk/backend/internal/domain"
	"welfaredesk/backend/internal/store"
)

type Store struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]domain.Appointment
	now  func() time.Time
}

func New() *Store {
	return &Store{
		rows: make(map[uuid.UUID]domain.Appointment),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Create(ctx context.Context, appt domain.Appointment, guard *store.CapacityGuard) (domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Appointment{}, err
	}
	if err := appt.Validate(); err != nil {
		return domain.Appointment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if appt.Status.Active() && len(s.activeLocked(appt.CitizenID)) > 0 {
		return domain.Appointment{}, store.ErrActiveAppointment
	}
	if guard != nil && appt.Scheduled() {
		if err := s.checkCapacityLocked(appt, *guard); err != nil {
			return domain.Appointment{}, err
		}
	}

	if appt.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return domain.Appointment{}, err
		}
		appt.ID = id
	}
	if _, exists := s.rows[appt.ID]; exists {
		return domain.Appointment{}, store.ErrConflict
	}
	now := s.now()
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = now
	}
	appt.UpdatedAt = now
	s.rows[appt.ID] = clone(appt)
	return clone(appt), nil
}

func (s *Store) checkCapacityLocked(appt domain.Appointment, guard store.CapacityGuard) error {
	want, err := domain.NormalizeTime(*appt.Time)
	if err != nil {
		return err
	}
	day, slot := 0, 0
	for _, r := range s.rows {
		if r.Date == nil || *r.Date != *appt.Date {
			continue
		}
		if !r.Archived {
			day++
		}
		if r.Status == domain.StatusDeclined || r.Time == nil {
			continue
		}
		if t, err := domain.NormalizeTime(*r.Time); err == nil && t == want {
			slot++
		}
	}
	if guard.DailyCap > 0 && day >= guard.DailyCap {
		return store.ErrDayFull
	}
	if guard.SlotCapacity > 0 && slot >= guard.SlotCapacity {
		return store.ErrSlotFull
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Appointment{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.rows[id]
	if !ok {
		return domain.Appointment{}, store.ErrNotFound
	}
	return clone(a), nil
}

func (s *Store) ListByCitizen(ctx context.Context, citizenID string) ([]domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Appointment
	for _, a := range s.rows {
		if a.CitizenID == citizenID {
			out = append(out, clone(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) FindActive(ctx context.Context, citizenID string) ([]domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeLocked(citizenID), nil
}

func (s *Store) activeLocked(citizenID string) []domain.Appointment {
	var out []domain.Appointment
	for _, a := range s.rows {
		if a.CitizenID == citizenID && a.Status.Active() {
			out = append(out, clone(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Store) CountByDay(ctx context.Context, category domain.Category, from, to domain.Date) ([]store.DayCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[domain.Date]int)
	for _, a := range s.rows {
		if a.Category != category || a.Archived || a.Date == nil {
			continue
		}
		if a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		counts[*a.Date]++
	}

	out := make([]store.DayCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, store.DayCount{Date: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) CountBySlot(ctx context.Context, date domain.Date) ([]store.TimeCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, a := range s.rows {
		if a.Date == nil || *a.Date != date || a.Time == nil || a.Status == domain.StatusDeclined {
			continue
		}
		counts[*a.Time]++
	}

	out := make([]store.TimeCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, store.TimeCount{Time: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

func (s *Store) Transition(ctx context.Context, id uuid.UUID, from []domain.Status, change store.Change) (domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Appointment{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.rows[id]
	if !ok {
		return domain.Appointment{}, store.ErrNotFound
	}
	if !containsStatus(from, a.Status) {
		return domain.Appointment{}, store.ErrConflict
	}

	a.Status = change.Status
	if change.Notes != nil {
		a.Notes = *change.Notes
	}
	if change.DeclineReason != nil {
		a.DeclineReason = *change.DeclineReason
	}
	if change.Date != nil {
		d := *change.Date
		a.Date = &d
	}
	if change.Time != nil {
		t := *change.Time
		a.Time = &t
	}
	if err := a.Validate(); err != nil {
		return domain.Appointment{}, err
	}
	a.UpdatedAt = s.now()
	s.rows[id] = a
	return clone(a), nil
}

func (s *Store) SetArchived(ctx context.Context, id uuid.UUID, archived bool) (domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Appointment{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.rows[id]
	if !ok {
		return domain.Appointment{}, store.ErrNotFound
	}
	a.Archived = archived
	a.UpdatedAt = s.now()
	s.rows[id] = a
	return clone(a), nil
}

func containsStatus(list []domain.Status, s domain.Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// clone detaches the pointer fields so callers cannot mutate stored rows.
func clone(a domain.Appointment) domain.Appointment {
	if a.Date != nil {
		d := *a.Date
		a.Date = &d
	}
	if a.Time != nil {
		t := *a.Time
		a.Time = &t
	}
	return a
}
