package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	bookingv1 "welfaredesk/backend/internal/api/booking/v1"
	"welfaredesk/backend/internal/domain"
	"welfaredesk/backend/internal/service/availability"
	"welfaredesk/backend/internal/service/booking"
	"welfaredesk/backend/internal/service/svcerr"
)

type BookingService interface {
	Create(ctx context.Context, actor booking.Actor, d booking.Draft) (domain.Appointment, error)
	Get(ctx context.Context, actor booking.Actor, id uuid.UUID) (domain.Appointment, error)
	ListForCitizen(ctx context.Context, actor booking.Actor, citizenID string) ([]domain.Appointment, error)
	Approve(ctx context.Context, actor booking.Actor, id uuid.UUID, note string) (domain.Appointment, error)
	Decline(ctx context.Context, actor booking.Actor, id uuid.UUID, reason string) (domain.Appointment, error)
	Schedule(ctx context.Context, actor booking.Actor, id uuid.UUID, date domain.Date, at, note string) (domain.Appointment, error)
	Cancel(ctx context.Context, actor booking.Actor, id uuid.UUID, note string) (domain.Appointment, error)
	MarkSameDayOutcome(ctx context.Context, actor booking.Actor, id uuid.UUID, in booking.OutcomeInput) (domain.Appointment, error)
	SetArchived(ctx context.Context, actor booking.Actor, id uuid.UUID, archived bool) (domain.Appointment, error)
}

type AvailabilityService interface {
	GetDayAvailability(ctx context.Context, start, end domain.Date) (availability.DayReport, error)
	GetMonthGrid(ctx context.Context, year int, month time.Month) (availability.MonthGrid, error)
	GetSlotAvailability(ctx context.Context, date domain.Date) ([]domain.Slot, error)
}

type Handlers struct {
	booking BookingService
	avail   AvailabilityService
	latest  *availability.Latest
	log     *slog.Logger
}

func NewHandlers(svc BookingService, avail AvailabilityService, latest *availability.Latest, log *slog.Logger) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{
		booking: svc,
		avail:   avail,
		latest:  latest,
		log:     log.With(slog.String("component", "http.appointments")),
	}
}

func (h *Handlers) CreateAppointment(c *gin.Context) {
	var req bookingv1.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "request body must be a JSON appointment")
		return
	}
	actor := actorFrom(c)

	appt, err := h.booking.Create(c.Request.Context(), actor, booking.Draft{
		CitizenID:         req.CitizenId,
		Category:          domain.Category(req.Category),
		AppointeeRelation: domain.AppointeeRelation(req.AppointeeRelation),
		Service:           req.Service,
		Date:              req.Date,
		Time:              req.Time,
		FirstName:         req.FirstName,
		MiddleName:        req.MiddleName,
		LastName:          req.LastName,
		Suffix:            req.Suffix,
		ContactNumber:     req.ContactNumber,
		Email:             req.Email,
		Barangay:          req.Barangay,
		IDType:            req.IdType,
		IDNumber:          req.IdNumber,
		IDFrontURL:        req.IdFrontUrl,
		IDBackURL:         req.IdBackUrl,
	})
	if err != nil {
		fail(c, h.log.With(slog.String("actor_id", actor.ID)), "appointment create failed", err)
		return
	}
	respond(c, http.StatusCreated, "appointment submitted", bookingv1.FromAppointment(appt))
}

func (h *Handlers) GetAppointment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	appt, err := h.booking.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		fail(c, h.log, "appointment get failed", err)
		return
	}
	respond(c, http.StatusOK, "ok", bookingv1.FromAppointment(appt))
}

func (h *Handlers) ListAppointments(c *gin.Context) {
	appts, err := h.booking.ListForCitizen(c.Request.Context(), actorFrom(c), c.Query("citizen_id"))
	if err != nil {
		fail(c, h.log, "appointments list failed", err)
		return
	}
	respond(c, http.StatusOK, "ok", bookingv1.FromAppointments(appts))
}

func (h *Handlers) ApproveAppointment(c *gin.Context) {
	var req bookingv1.NoteRequest
	h.transition(c, &req, func(ctx context.Context, actor booking.Actor, id uuid.UUID) (domain.Appointment, error) {
		return h.booking.Approve(ctx, actor, id, req.Note)
	})
}

func (h *Handlers) DeclineAppointment(c *gin.Context) {
	var req bookingv1.DeclineAppointmentRequest
	h.transition(c, &req, func(ctx context.Context, actor booking.Actor, id uuid.UUID) (domain.Appointment, error) {
		return h.booking.Decline(ctx, actor, id, req.Reason)
	})
}

func (h *Handlers) ScheduleAppointment(c *gin.Context) {
	var req bookingv1.ScheduleAppointmentRequest
	h.transition(c, &req, func(ctx context.Context, actor booking.Actor, id uuid.UUID) (domain.Appointment, error) {
		date, err := optionalDate(req.Date)
		if err != nil {
			return domain.Appointment{}, err
		}
		return h.booking.Schedule(ctx, actor, id, date, req.Time, req.Note)
	})
}

func (h *Handlers) CancelAppointment(c *gin.Context) {
	var req bookingv1.NoteRequest
	h.transition(c, &req, func(ctx context.Context, actor booking.Actor, id uuid.UUID) (domain.Appointment, error) {
		return h.booking.Cancel(ctx, actor, id, req.Note)
	})
}

func (h *Handlers) MarkSameDayOutcome(c *gin.Context) {
	var req bookingv1.MarkSameDayOutcomeRequest
	h.transition(c, &req, func(ctx context.Context, actor booking.Actor, id uuid.UUID) (domain.Appointment, error) {
		newDate, err := optionalDate(req.NewDate)
		if err != nil {
			return domain.Appointment{}, err
		}
		return h.booking.MarkSameDayOutcome(ctx, actor, id, booking.OutcomeInput{
			Outcome: booking.Outcome(req.Outcome),
			NewDate: newDate,
			NewTime: req.NewTime,
			Note:    req.Note,
		})
	})
}

func (h *Handlers) SetArchived(c *gin.Context) {
	var req bookingv1.SetArchivedRequest
	h.transition(c, &req, func(ctx context.Context, actor booking.Actor, id uuid.UUID) (domain.Appointment, error) {
		return h.booking.SetArchived(ctx, actor, id, req.Archived)
	})
}

// transition binds the optional JSON body into req, then runs call for the
// appointment named in the path.
func (h *Handlers) transition(c *gin.Context, req any, call func(ctx context.Context, actor booking.Actor, id uuid.UUID) (domain.Appointment, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(req); err != nil {
			abort(c, http.StatusBadRequest, "request body must be JSON")
			return
		}
	}
	actor := actorFrom(c)
	log := h.log.With(slog.String("appointment_id", id.String()), slog.String("actor_id", actor.ID))

	appt, err := call(c.Request.Context(), actor, id)
	if err != nil {
		fail(c, log, "appointment update failed", err)
		return
	}
	log.Info("appointment updated", slog.String("status", string(appt.Status)), slog.Bool("archived", appt.Archived))
	respond(c, http.StatusOK, "appointment updated", bookingv1.FromAppointment(appt))
}

func (h *Handlers) DayAvailability(c *gin.Context) {
	start, err := domain.ParseDate(c.Query("start"))
	if err != nil {
		abort(c, http.StatusBadRequest, "start must be a YYYY-MM-DD date")
		return
	}
	end, err := domain.ParseDate(c.Query("end"))
	if err != nil {
		abort(c, http.StatusBadRequest, "end must be a YYYY-MM-DD date")
		return
	}

	ctx := c.Request.Context()
	report, err := availability.Fetch(ctx, h.latest, h.viewKey(c, "days"), func(ctx context.Context) (availability.DayReport, error) {
		return h.avail.GetDayAvailability(ctx, start, end)
	})
	if err != nil {
		fail(c, h.log, "day availability failed", err)
		return
	}

	days := make([]*bookingv1.Day, 0, len(report.Days))
	for d := start; !d.After(end); d = d.AddDays(1) {
		days = append(days, bookingv1.FromDay(report.Days[d]))
	}
	respond(c, http.StatusOK, "ok", bookingv1.DayAvailabilityResponse{
		Year:     int32(report.Year),
		Month:    int32(report.Month),
		Days:     days,
		Degraded: bookingv1.CategoryNames(report.Degraded),
	})
}

func (h *Handlers) MonthGrid(c *gin.Context) {
	year, yErr := strconv.Atoi(c.Query("year"))
	month, mErr := strconv.Atoi(c.Query("month"))
	if yErr != nil || mErr != nil {
		abort(c, http.StatusBadRequest, "year and month must be numbers")
		return
	}

	ctx := c.Request.Context()
	grid, err := availability.Fetch(ctx, h.latest, h.viewKey(c, "days"), func(ctx context.Context) (availability.MonthGrid, error) {
		return h.avail.GetMonthGrid(ctx, year, time.Month(month))
	})
	if err != nil {
		fail(c, h.log, "month grid failed", err)
		return
	}

	days := make([]*bookingv1.Day, 0, len(grid.Cells))
	for _, d := range grid.Cells {
		days = append(days, bookingv1.FromDay(d))
	}
	respond(c, http.StatusOK, "ok", bookingv1.DayAvailabilityResponse{
		Year:     int32(grid.Year),
		Month:    int32(grid.Month),
		Days:     days,
		Degraded: bookingv1.CategoryNames(grid.Degraded),
	})
}

func (h *Handlers) SlotAvailability(c *gin.Context) {
	date, err := domain.ParseDate(c.Query("date"))
	if err != nil {
		abort(c, http.StatusBadRequest, "date must be a YYYY-MM-DD date")
		return
	}

	ctx := c.Request.Context()
	slots, err := availability.Fetch(ctx, h.latest, h.viewKey(c, "slots"), func(ctx context.Context) ([]domain.Slot, error) {
		return h.avail.GetSlotAvailability(ctx, date)
	})
	if err != nil {
		fail(c, h.log.With(slog.String("date", date.String())), "slot availability failed", err)
		return
	}
	respond(c, http.StatusOK, "ok", bookingv1.SlotAvailabilityResponse{Slots: bookingv1.FromSlots(slots)})
}

// viewKey scopes last-request-wins tracking to one caller and one view.
func (h *Handlers) viewKey(c *gin.Context, view string) string {
	actor := actorFrom(c)
	if actor.ID == "" {
		return ""
	}
	return actor.ID + ":" + view
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		abort(c, http.StatusBadRequest, "appointment id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func optionalDate(raw string) (domain.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Date{}, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return domain.Date{}, svcerr.Validation("date", "invalid date")
	}
	return d, nil
}
