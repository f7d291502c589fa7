package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"welfaredesk/backend/internal/domain"
	"welfaredesk/backend/internal/store"
)

type fakeBookingTx struct {
	findActiveFn  func(ctx context.Context, citizenID string) ([]domain.Appointment, error)
	countDayFn    func(ctx context.Context, date domain.Date) (int, error)
	countBySlotFn func(ctx context.Context, date domain.Date) ([]store.TimeCount, error)
}

func (f *fakeBookingTx) InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	panic("not used")
}

func (f *fakeBookingTx) FindActive(ctx context.Context, citizenID string) ([]domain.Appointment, error) {
	if f.findActiveFn == nil {
		return nil, nil
	}
	return f.findActiveFn(ctx, citizenID)
}

func (f *fakeBookingTx) CountDay(ctx context.Context, date domain.Date) (int, error) {
	if f.countDayFn == nil {
		return 0, nil
	}
	return f.countDayFn(ctx, date)
}

func (f *fakeBookingTx) CountBySlot(ctx context.Context, date domain.Date) ([]store.TimeCount, error) {
	if f.countBySlotFn == nil {
		return nil, nil
	}
	return f.countBySlotFn(ctx, date)
}

func scheduledAppointment(citizenID, at string) domain.Appointment {
	d := domain.NewDate(2026, time.March, 10)
	return domain.Appointment{
		CitizenID: citizenID,
		Category:  domain.CategoryPWD,
		Service:   "PWD ID",
		Status:    domain.StatusPending,
		Date:      &d,
		Time:      &at,
	}
}

func TestEnsureBookable(t *testing.T) {
	guard := store.CapacityGuard{DailyCap: 25, SlotCapacity: 3}

	t.Run("active appointment blocks", func(t *testing.T) {
		tx := &fakeBookingTx{
			findActiveFn: func(ctx context.Context, citizenID string) ([]domain.Appointment, error) {
				return []domain.Appointment{{CitizenID: citizenID, Status: domain.StatusApproved}}, nil
			},
		}
		err := ensureBookable(context.Background(), tx, scheduledAppointment("c1", "09:00"), guard)
		if !errors.Is(err, store.ErrActiveAppointment) {
			t.Fatalf("err = %v, want %v", err, store.ErrActiveAppointment)
		}
	})

	t.Run("day cap reached", func(t *testing.T) {
		tx := &fakeBookingTx{
			countDayFn: func(ctx context.Context, date domain.Date) (int, error) {
				return 25, nil
			},
		}
		err := ensureBookable(context.Background(), tx, scheduledAppointment("c1", "09:00"), guard)
		if !errors.Is(err, store.ErrDayFull) {
			t.Fatalf("err = %v, want %v", err, store.ErrDayFull)
		}
	})

	t.Run("slot full counts normalized stored times", func(t *testing.T) {
		tx := &fakeBookingTx{
			countBySlotFn: func(ctx context.Context, date domain.Date) ([]store.TimeCount, error) {
				return []store.TimeCount{
					{Time: "09:00:00", Count: 2},
					{Time: "09:00", Count: 1},
					{Time: "10:00:00", Count: 3},
				}, nil
			},
		}
		err := ensureBookable(context.Background(), tx, scheduledAppointment("c1", "09:00"), guard)
		if !errors.Is(err, store.ErrSlotFull) {
			t.Fatalf("err = %v, want %v", err, store.ErrSlotFull)
		}
	})

	t.Run("free slot passes", func(t *testing.T) {
		tx := &fakeBookingTx{
			countBySlotFn: func(ctx context.Context, date domain.Date) ([]store.TimeCount, error) {
				return []store.TimeCount{{Time: "09:00:00", Count: 2}}, nil
			},
		}
		if err := ensureBookable(context.Background(), tx, scheduledAppointment("c1", "09:00"), guard); err != nil {
			t.Fatalf("err = %v, want nil", err)
		}
	})

	t.Run("unscheduled request skips capacity", func(t *testing.T) {
		tx := &fakeBookingTx{
			countDayFn: func(ctx context.Context, date domain.Date) (int, error) {
				t.Fatalf("CountDay must not be called")
				return 0, nil
			},
		}
		appt := domain.Appointment{CitizenID: "c1", Status: domain.StatusPending}
		if err := ensureBookable(context.Background(), tx, appt, guard); err != nil {
			t.Fatalf("err = %v, want nil", err)
		}
	})

	t.Run("store errors propagate", func(t *testing.T) {
		boom := errors.New("boom")
		tx := &fakeBookingTx{
			findActiveFn: func(ctx context.Context, citizenID string) ([]domain.Appointment, error) {
				return nil, boom
			},
		}
		if err := ensureBookable(context.Background(), tx, scheduledAppointment("c1", "09:00"), guard); !errors.Is(err, boom) {
			t.Fatalf("err = %v, want %v", err, boom)
		}
	})
}
