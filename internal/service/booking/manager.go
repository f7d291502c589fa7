// Package booking owns the appointment lifecycle: creation with its
// eligibility checks and every staff-driven status transition.
package booking

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"welfaredesk/backend/internal/domain"
	"welfaredesk/backend/internal/notify"
	"welfaredesk/backend/internal/service/availability"
	"welfaredesk/backend/internal/service/svcerr"
	"welfaredesk/backend/internal/store"
)

const sideEffectTimeout = 5 * time.Second

// ProfileLookup returns the ID document images a citizen already has on file.
// Empty strings mean nothing is stored.
type ProfileLookup interface {
	IDDocuments(ctx context.Context, citizenID string) (front, back string, err error)
}

type Notifier interface {
	notify.Sink
	notify.AuditSink
}

type Manager struct {
	repo     store.AppointmentRepository
	avail    *availability.Calculator
	profiles ProfileLookup
	notifier Notifier
	strict   bool
	log      *slog.Logger
}

type Option func(*Manager)

func WithProfiles(p ProfileLookup) Option {
	return func(m *Manager) { m.profiles = p }
}

func WithNotifier(n Notifier) Option {
	return func(m *Manager) {
		if n != nil {
			m.notifier = n
		}
	}
}

// WithStrictCapacity makes the store re-check capacity atomically with the
// insert. Without it two concurrent requests can overfill a slot.
func WithStrictCapacity(strict bool) Option {
	return func(m *Manager) { m.strict = strict }
}

func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

func NewManager(repo store.AppointmentRepository, avail *availability.Calculator, opts ...Option) *Manager {
	m := &Manager{
		repo:     repo,
		avail:    avail,
		notifier: notify.Discard{},
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Draft is a citizen's appointment request as submitted by the form.
type Draft struct {
	CitizenID         string
	Category          domain.Category
	AppointeeRelation domain.AppointeeRelation
	Service           string
	Date              string
	Time              string

	FirstName     string
	MiddleName    string
	LastName      string
	Suffix        string
	ContactNumber string
	Email         string
	Barangay      string
	IDType        string
	IDNumber      string
	IDFrontURL    string
	IDBackURL     string
}

// Create validates d and stores it as a pending appointment. Checks run in a
// fixed order and the first failure is returned.
func (m *Manager) Create(ctx context.Context, actor Actor, d Draft) (domain.Appointment, error) {
	citizenID, err := m.requester(actor, d.CitizenID)
	if err != nil {
		return domain.Appointment{}, err
	}

	if d.Category == "" {
		return domain.Appointment{}, svcerr.Validation("category", "please select a category")
	}
	if !d.Category.Valid() {
		return domain.Appointment{}, svcerr.Validation("category", "unknown category")
	}
	if d.AppointeeRelation == "" {
		return domain.Appointment{}, svcerr.Validation("appointee_relation", "please select who the appointment is for")
	}
	if !d.AppointeeRelation.Valid() {
		return domain.Appointment{}, svcerr.Validation("appointee_relation", "appointee must be self or relative")
	}
	service := strings.TrimSpace(d.Service)
	if service == "" {
		return domain.Appointment{}, svcerr.Validation("service", "please select a service")
	}
	if !d.Category.Offers(service) {
		return domain.Appointment{}, svcerr.Validation("service", "service is not offered in this category")
	}

	if strings.TrimSpace(d.Date) == "" {
		return domain.Appointment{}, svcerr.Validation("date", "please select a date")
	}
	date, err := domain.ParseDate(strings.TrimSpace(d.Date))
	if err != nil {
		return domain.Appointment{}, svcerr.Validation("date", "invalid date")
	}
	if date.Before(m.avail.Today()) {
		return domain.Appointment{}, svcerr.Validation("date", "date cannot be in the past")
	}
	if strings.TrimSpace(d.Time) == "" {
		return domain.Appointment{}, svcerr.Validation("time", "please select a time slot")
	}
	at, ok := m.avail.ValidWindow(d.Time)
	if !ok {
		return domain.Appointment{}, svcerr.Validation("time", "invalid time slot")
	}

	active, err := m.repo.FindActive(ctx, citizenID)
	if err != nil {
		return domain.Appointment{}, svcerr.Persistence("find active appointments", err)
	}
	if len(active) > 0 {
		return domain.Appointment{}, &svcerr.ConflictError{Existing: active[0]}
	}

	if err := m.checkCapacity(ctx, date, at); err != nil {
		return domain.Appointment{}, err
	}

	front, back, err := m.idDocuments(ctx, citizenID, d)
	if err != nil {
		return domain.Appointment{}, err
	}

	appt := domain.Appointment{
		Category:          d.Category,
		CitizenID:         citizenID,
		FirstName:         strings.TrimSpace(d.FirstName),
		MiddleName:        strings.TrimSpace(d.MiddleName),
		LastName:          strings.TrimSpace(d.LastName),
		Suffix:            strings.TrimSpace(d.Suffix),
		ContactNumber:     strings.TrimSpace(d.ContactNumber),
		Email:             strings.TrimSpace(d.Email),
		Barangay:          strings.TrimSpace(d.Barangay),
		IDType:            strings.TrimSpace(d.IDType),
		IDNumber:          strings.TrimSpace(d.IDNumber),
		IDFrontURL:        front,
		IDBackURL:         back,
		Service:           service,
		AppointeeRelation: d.AppointeeRelation,
		Date:              &date,
		Time:              &at,
		Status:            domain.StatusPending,
	}
	if err := validatePersonalDetails(appt); err != nil {
		return domain.Appointment{}, err
	}

	var guard *store.CapacityGuard
	if m.strict {
		p := m.avail.Policy()
		guard = &store.CapacityGuard{DailyCap: p.DailyCap, SlotCapacity: p.SlotCapacity}
	}

	created, err := m.repo.Create(ctx, appt, guard)
	if err != nil {
		return domain.Appointment{}, m.createError(ctx, citizenID, err)
	}

	m.log.Info(
		"appointment created",
		slog.String("appointment_id", created.ID.String()),
		slog.String("citizen_id", created.CitizenID),
		slog.String("category", string(created.Category)),
	)
	m.sideEffects(ctx, actor, "appointment.created", created, submittedMessage(created))
	return created, nil
}

func (m *Manager) requester(actor Actor, citizenID string) (string, error) {
	if actor.ID == "" {
		return "", svcerr.Validation("citizen_id", "sign in to book an appointment")
	}
	citizenID = strings.TrimSpace(citizenID)
	switch {
	case actor.Role == RoleCitizen:
		if citizenID != "" && citizenID != actor.ID {
			return "", svcerr.Forbidden("citizens can only book for their own account")
		}
		return actor.ID, nil
	case actor.Staff():
		if citizenID == "" {
			return "", svcerr.Validation("citizen_id", "citizen is required")
		}
		return citizenID, nil
	}
	return "", svcerr.Forbidden("unknown role")
}

func (m *Manager) checkCapacity(ctx context.Context, date domain.Date, at string) error {
	report, err := m.avail.GetDayAvailability(ctx, date, date)
	if err != nil {
		return err
	}
	if report.Days[date].FullyBooked {
		return svcerr.Validation("date", "the selected date is fully booked")
	}

	slots, err := m.avail.GetSlotAvailability(ctx, date)
	if err != nil {
		return err
	}
	for _, s := range slots {
		if s.Start == at {
			if s.Remaining <= 0 {
				return svcerr.Validation("time", "the selected time slot is fully booked")
			}
			return nil
		}
	}
	return svcerr.Validation("time", "invalid time slot")
}

func (m *Manager) idDocuments(ctx context.Context, citizenID string, d Draft) (front, back string, err error) {
	front, back = strings.TrimSpace(d.IDFrontURL), strings.TrimSpace(d.IDBackURL)
	if (front == "" || back == "") && m.profiles != nil {
		pf, pb, err := m.profiles.IDDocuments(ctx, citizenID)
		if err != nil {
			return "", "", svcerr.Persistence("load profile id documents", err)
		}
		if front == "" {
			front = pf
		}
		if back == "" {
			back = pb
		}
	}
	if front == "" {
		return "", "", svcerr.Validation("id_front", "please upload the front of your ID")
	}
	if back == "" {
		return "", "", svcerr.Validation("id_back", "please upload the back of your ID")
	}
	return front, back, nil
}

func validatePersonalDetails(a domain.Appointment) error {
	required := []struct {
		field string
		value string
		label string
	}{
		{"first_name", a.FirstName, "first name"},
		{"last_name", a.LastName, "last name"},
		{"contact_number", a.ContactNumber, "contact number"},
		{"barangay", a.Barangay, "barangay"},
		{"id_type", a.IDType, "ID type"},
		{"id_number", a.IDNumber, "ID number"},
	}
	for _, r := range required {
		if r.value == "" {
			return svcerr.Validation(r.field, r.label+" is required")
		}
	}
	return nil
}

func (m *Manager) createError(ctx context.Context, citizenID string, err error) error {
	switch {
	case errors.Is(err, store.ErrActiveAppointment):
		active, findErr := m.repo.FindActive(ctx, citizenID)
		if findErr != nil {
			m.log.Warn(
				"active appointment re-read failed",
				slog.String("citizen_id", citizenID),
				slog.Any("err", findErr),
			)
		}
		if findErr == nil && len(active) > 0 {
			return &svcerr.ConflictError{Existing: active[0]}
		}
		return &svcerr.ConflictError{}
	case errors.Is(err, store.ErrSlotFull):
		return svcerr.Validation("time", "the selected time slot is fully booked")
	case errors.Is(err, store.ErrDayFull):
		return svcerr.Validation("date", "the selected date is fully booked")
	}
	return svcerr.Persistence("create appointment", err)
}

// Get returns one appointment. Citizens may only read their own.
func (m *Manager) Get(ctx context.Context, actor Actor, id uuid.UUID) (domain.Appointment, error) {
	if actor.ID == "" {
		return domain.Appointment{}, svcerr.Forbidden("sign in to continue")
	}
	if id == uuid.Nil {
		return domain.Appointment{}, svcerr.Validation("appointment_id", "appointment_id is required")
	}
	a, err := m.repo.Get(ctx, id)
	if err != nil {
		return domain.Appointment{}, svcerr.Persistence("load appointment", err)
	}
	if !actor.Staff() && a.CitizenID != actor.ID {
		return domain.Appointment{}, svcerr.Forbidden("you can only view your own appointments")
	}
	return a, nil
}

func (m *Manager) ListForCitizen(ctx context.Context, actor Actor, citizenID string) ([]domain.Appointment, error) {
	if actor.ID == "" {
		return nil, svcerr.Forbidden("sign in to continue")
	}
	citizenID = strings.TrimSpace(citizenID)
	if citizenID == "" && actor.Role == RoleCitizen {
		citizenID = actor.ID
	}
	if citizenID == "" {
		return nil, svcerr.Validation("citizen_id", "citizen is required")
	}
	if !actor.Staff() && citizenID != actor.ID {
		return nil, svcerr.Forbidden("you can only view your own appointments")
	}
	out, err := m.repo.ListByCitizen(ctx, citizenID)
	if err != nil {
		return nil, svcerr.Persistence("list appointments", err)
	}
	return out, nil
}

// sideEffects records the audit entry and, when msg is set, notifies the
// citizen. Failures are logged and never reach the caller.
func (m *Manager) sideEffects(ctx context.Context, actor Actor, action string, a domain.Appointment, msg *message) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	log := m.log.With(
		slog.String("appointment_id", a.ID.String()),
		slog.String("action", action),
	)

	if err := m.notifier.RecordAction(ctx, notify.AuditRecord{
		ActorID:       actor.ID,
		ActorType:     string(actor.Role),
		Action:        action,
		AppointmentID: a.ID,
	}); err != nil {
		log.Warn("audit record failed", slog.Any("err", err))
	}

	if msg == nil {
		return
	}
	if err := m.notifier.CreateNotification(ctx, notify.Notification{
		CitizenID:     a.CitizenID,
		AppointmentID: a.ID,
		Title:         msg.title,
		Message:       msg.body,
		Kind:          msg.kind,
	}); err != nil {
		log.Warn("notification failed", slog.String("citizen_id", a.CitizenID), slog.Any("err", err))
	}
}
