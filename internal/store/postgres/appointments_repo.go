package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"welfaredesk/backend/internal/domain"
	"welfaredesk/backend/internal/store"
)

const oneActivePerCitizenConstraint = "appointments_one_active_per_citizen"

type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

type bookingTx struct {
	tx bun.Tx
}

func (r *AppointmentRepo) Create(ctx context.Context, appt domain.Appointment, guard *store.CapacityGuard) (domain.Appointment, error) {
	if guard == nil {
		return insertAppointment(ctx, r.db, appt)
	}

	var out domain.Appointment
	err := r.InBookingTransaction(ctx, appt, func(ctx context.Context, tx store.BookingTx) error {
		if err := ensureBookable(ctx, tx, appt, *guard); err != nil {
			return err
		}
		a, err := tx.InsertAppointment(ctx, appt)
		if err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

func (r *AppointmentRepo) Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var out domain.Appointment
	err := r.db.NewSelect().
		Model(&out).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return out, nil
}

func (r *AppointmentRepo) ListByCitizen(ctx context.Context, citizenID string) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("citizen_id = ?", citizenID).
		OrderExpr("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) FindActive(ctx context.Context, citizenID string) ([]domain.Appointment, error) {
	return findActive(ctx, r.db, citizenID)
}

func (r *AppointmentRepo) CountByDay(ctx context.Context, category domain.Category, from, to domain.Date) ([]store.DayCount, error) {
	return countByDay(ctx, r.db, category, from, to)
}

func (r *AppointmentRepo) CountBySlot(ctx context.Context, date domain.Date) ([]store.TimeCount, error) {
	return countBySlot(ctx, r.db, date)
}

func (r *AppointmentRepo) Transition(ctx context.Context, id uuid.UUID, from []domain.Status, change store.Change) (domain.Appointment, error) {
	var out domain.Appointment
	q := r.db.NewUpdate().
		Model(&out).
		Set("status = ?", change.Status).
		Set("updated_at = ?", time.Now().UTC())
	if change.Notes != nil {
		q = q.Set("notes = ?", *change.Notes)
	}
	if change.DeclineReason != nil {
		q = q.Set("decline_reason = ?", *change.DeclineReason)
	}
	if change.Date != nil {
		q = q.Set(`"date" = ?`, *change.Date)
	}
	if change.Time != nil {
		q = q.Set(`"time" = ?`, *change.Time)
	}

	res, err := q.
		Where("id = ?", id).
		Where("status IN (?)", bun.In(from)).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return domain.Appointment{}, err
	}
	return r.afterUpdate(ctx, res, id, out)
}

func (r *AppointmentRepo) SetArchived(ctx context.Context, id uuid.UUID, archived bool) (domain.Appointment, error) {
	var out domain.Appointment
	res, err := r.db.NewUpdate().
		Model(&out).
		Set("archived = ?", archived).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return domain.Appointment{}, err
	}
	return r.afterUpdate(ctx, res, id, out)
}

func (r *AppointmentRepo) afterUpdate(ctx context.Context, res sql.Result, id uuid.UUID, out domain.Appointment) (domain.Appointment, error) {
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected > 0 {
		return out, nil
	}
	// Nothing matched: either the row is gone or its status moved on.
	if _, err := r.Get(ctx, id); err != nil {
		return domain.Appointment{}, err
	}
	return domain.Appointment{}, store.ErrConflict
}

// InBookingTransaction serializes bookings for the same citizen and the same
// date so the capacity and one-active checks cannot interleave with a
// concurrent insert.
func (r *AppointmentRepo) InBookingTransaction(ctx context.Context, appt domain.Appointment, fn func(ctx context.Context, tx store.BookingTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := advisoryLock(ctx, tx, "citizen:"+appt.CitizenID); err != nil {
			return err
		}
		if appt.Date != nil && !appt.Date.IsZero() {
			if err := advisoryLock(ctx, tx, "day:"+appt.Date.String()); err != nil {
				return err
			}
		}
		return fn(ctx, bookingTx{tx: tx})
	})
}

func advisoryLock(ctx context.Context, tx bun.Tx, key string) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", key).Exec(ctx)
	return err
}

func (t bookingTx) InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	return insertAppointment(ctx, t.tx, appt)
}

func (t bookingTx) FindActive(ctx context.Context, citizenID string) ([]domain.Appointment, error) {
	return findActive(ctx, t.tx, citizenID)
}

func (t bookingTx) CountDay(ctx context.Context, date domain.Date) (int, error) {
	return t.tx.NewSelect().
		Model((*domain.Appointment)(nil)).
		Where(`"date" = ?`, date).
		Where("archived = false").
		Count(ctx)
}

func (t bookingTx) CountBySlot(ctx context.Context, date domain.Date) ([]store.TimeCount, error) {
	return countBySlot(ctx, t.tx, date)
}

func insertAppointment(ctx context.Context, db bun.IDB, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	_, err := db.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == oneActivePerCitizenConstraint {
			return domain.Appointment{}, store.ErrActiveAppointment
		}
		return domain.Appointment{}, err
	}
	return m, nil
}

func findActive(ctx context.Context, db bun.IDB, citizenID string) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := db.NewSelect().
		Model(&rows).
		Where("citizen_id = ?", citizenID).
		Where("status IN (?)", bun.In(domain.ActiveStatuses)).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func countByDay(ctx context.Context, db bun.IDB, category domain.Category, from, to domain.Date) ([]store.DayCount, error) {
	var rows []store.DayCount
	err := db.NewSelect().
		Model((*domain.Appointment)(nil)).
		ColumnExpr(`"date"`).
		ColumnExpr("count(*) AS count").
		Where("category = ?", category).
		Where("archived = false").
		Where(`"date" >= ?`, from).
		Where(`"date" <= ?`, to).
		GroupExpr(`"date"`).
		OrderExpr(`"date" ASC`).
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func countBySlot(ctx context.Context, db bun.IDB, date domain.Date) ([]store.TimeCount, error) {
	var rows []store.TimeCount
	err := db.NewSelect().
		Model((*domain.Appointment)(nil)).
		ColumnExpr(`"time"::text AS "time"`).
		ColumnExpr("count(*) AS count").
		Where(`"date" = ?`, date).
		Where(`"time" IS NOT NULL`).
		Where("status <> ?", domain.StatusDeclined).
		GroupExpr(`"time"`).
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ensureBookable re-checks, inside the booking transaction, the rules the
// service already checked optimistically.
func ensureBookable(ctx context.Context, tx store.BookingTx, appt domain.Appointment, guard store.CapacityGuard) error {
	active, err := tx.FindActive(ctx, appt.CitizenID)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return store.ErrActiveAppointment
	}

	if !appt.Scheduled() {
		return nil
	}

	if guard.DailyCap > 0 {
		n, err := tx.CountDay(ctx, *appt.Date)
		if err != nil {
			return err
		}
		if n >= guard.DailyCap {
			return store.ErrDayFull
		}
	}

	if guard.SlotCapacity > 0 {
		want, err := domain.NormalizeTime(*appt.Time)
		if err != nil {
			return err
		}
		counts, err := tx.CountBySlot(ctx, *appt.Date)
		if err != nil {
			return err
		}
		booked := 0
		for _, c := range counts {
			if t, err := domain.NormalizeTime(c.Time); err == nil && t == want {
				booked += c.Count
			}
		}
		if booked >= guard.SlotCapacity {
			return store.ErrSlotFull
		}
	}

	return nil
}
