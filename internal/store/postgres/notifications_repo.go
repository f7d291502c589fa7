package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"welfaredesk/backend/internal/notify"
)

type notificationRow struct {
	bun.BaseModel `bun:"table:notifications"`

	ID            uuid.UUID   `bun:"id,pk,type:uuid"`
	CitizenID     string      `bun:"citizen_id,notnull"`
	AppointmentID uuid.UUID   `bun:"appointment_id,type:uuid,nullzero"`
	Title         string      `bun:"title,notnull"`
	Message       string      `bun:"message,notnull"`
	Kind          notify.Kind `bun:"kind,notnull"`
	Read          bool        `bun:"read,notnull,default:false"`
	CreatedAt     time.Time   `bun:"created_at,notnull"`
}

type auditRow struct {
	bun.BaseModel `bun:"table:audit_logs"`

	ID            int64     `bun:"id,pk,autoincrement"`
	ActorID       string    `bun:"actor_id,notnull"`
	ActorType     string    `bun:"actor_type,notnull"`
	Action        string    `bun:"action,notnull"`
	AppointmentID uuid.UUID `bun:"appointment_id,type:uuid,nullzero"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
}

// NotificationRepo backs the in-app notification bell and the audit trail.
type NotificationRepo struct {
	db *bun.DB
}

func NewNotificationRepo(db *bun.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) CreateNotification(ctx context.Context, n notify.Notification) error {
	row := notificationRow{
		ID:            n.ID,
		CitizenID:     n.CitizenID,
		AppointmentID: n.AppointmentID,
		Title:         n.Title,
		Message:       n.Message,
		Kind:          n.Kind,
		CreatedAt:     n.CreatedAt,
	}
	if row.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		row.ID = id
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.NewInsert().Model(&row).Exec(ctx)
	return err
}

func (r *NotificationRepo) RecordAction(ctx context.Context, rec notify.AuditRecord) error {
	row := auditRow{
		ActorID:       rec.ActorID,
		ActorType:     rec.ActorType,
		Action:        rec.Action,
		AppointmentID: rec.AppointmentID,
		CreatedAt:     rec.Timestamp,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.NewInsert().Model(&row).Exec(ctx)
	return err
}

type profileRow struct {
	bun.BaseModel `bun:"table:profiles"`

	ID         string `bun:"id,pk"`
	IDFrontURL string `bun:"id_front_url"`
	IDBackURL  string `bun:"id_back_url"`
}

type ProfileRepo struct {
	db *bun.DB
}

func NewProfileRepo(db *bun.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) IDDocuments(ctx context.Context, citizenID string) (front, back string, err error) {
	var row profileRow
	err = r.db.NewSelect().
		Model(&row).
		Column("id_front_url", "id_back_url").
		Where("id = ?", citizenID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", nil
		}
		return "", "", err
	}
	return row.IDFrontURL, row.IDBackURL, nil
}
