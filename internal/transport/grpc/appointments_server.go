package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	bookingv1 "welfaredesk/backend/internal/api/booking/v1"
	"welfaredesk/backend/internal/domain"
	"welfaredesk/backend/internal/service/availability"
	"welfaredesk/backend/internal/service/booking"
	"welfaredesk/backend/internal/service/svcerr"
	"welfaredesk/backend/internal/store"
)

type AppointmentsServer struct {
	bookingv1.UnimplementedBookingServiceServer

	booking bookingService
	avail   availabilityService
	latest  *availability.Latest
	log     *slog.Logger
}

type bookingService interface {
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

type availabilityService interface {
	GetDayAvailability(ctx context.Context, start, end domain.Date) (availability.DayReport, error)
	GetMonthGrid(ctx context.Context, year int, month time.Month) (availability.MonthGrid, error)
	GetSlotAvailability(ctx context.Context, date domain.Date) ([]domain.Slot, error)
}

func NewAppointmentsServer(svc bookingService, avail availabilityService, latest *availability.Latest, log *slog.Logger) *AppointmentsServer {
	if log == nil {
		log = slog.Default()
	}
	return &AppointmentsServer{
		booking: svc,
		avail:   avail,
		latest:  latest,
		log:     log.With(slog.String("component", "grpc.appointments")),
	}
}

// actorFromContext returns the actor verified by Authenticate, or the zero
// actor when the call carried no token.
func actorFromContext(ctx context.Context) booking.Actor {
	actor, _ := ctx.Value(actorKey{}).(booking.Actor)
	return actor
}

func (s *AppointmentsServer) CreateAppointment(ctx context.Context, req *bookingv1.CreateAppointmentRequest) (*bookingv1.AppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "CreateAppointment"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor := actorFromContext(ctx)

	appt, err := s.booking.Create(ctx, actor, booking.Draft{
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
		return nil, s.toStatus(log.With(slog.String("actor_id", actor.ID)), "appointment create failed", err)
	}

	log.Info(
		"appointment created",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("citizen_id", appt.CitizenID),
		slog.String("category", string(appt.Category)),
	)
	return &bookingv1.AppointmentResponse{Appointment: bookingv1.FromAppointment(appt)}, nil
}

func (s *AppointmentsServer) GetAppointment(ctx context.Context, req *bookingv1.GetAppointmentRequest) (*bookingv1.AppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "GetAppointment"))

	id, err := appointmentID(log, req.GetAppointmentId())
	if err != nil {
		return nil, err
	}
	appt, err := s.booking.Get(ctx, actorFromContext(ctx), id)
	if err != nil {
		return nil, s.toStatus(log.With(slog.String("appointment_id", id.String())), "appointment get failed", err)
	}
	return &bookingv1.AppointmentResponse{Appointment: bookingv1.FromAppointment(appt)}, nil
}

func (s *AppointmentsServer) ListAppointments(ctx context.Context, req *bookingv1.ListAppointmentsRequest) (*bookingv1.ListAppointmentsResponse, error) {
	log := s.log.With(slog.String("rpc", "ListAppointments"))

	if req == nil {
		req = &bookingv1.ListAppointmentsRequest{}
	}
	appts, err := s.booking.ListForCitizen(ctx, actorFromContext(ctx), req.CitizenId)
	if err != nil {
		return nil, s.toStatus(log.With(slog.String("citizen_id", req.CitizenId)), "appointments list failed", err)
	}

	log.Debug("appointments listed", slog.String("citizen_id", req.CitizenId), slog.Int("count", len(appts)))
	return &bookingv1.ListAppointmentsResponse{Appointments: bookingv1.FromAppointments(appts)}, nil
}

func (s *AppointmentsServer) ApproveAppointment(ctx context.Context, req *bookingv1.NoteRequest) (*bookingv1.AppointmentResponse, error) {
	return s.transition(ctx, "ApproveAppointment", req.GetAppointmentId(), func(actor booking.Actor, id uuid.UUID) (domain.Appointment, error) {
		return s.booking.Approve(ctx, actor, id, req.Note)
	})
}

func (s *AppointmentsServer) DeclineAppointment(ctx context.Context, req *bookingv1.DeclineAppointmentRequest) (*bookingv1.AppointmentResponse, error) {
	return s.transition(ctx, "DeclineAppointment", req.GetAppointmentId(), func(actor booking.Actor, id uuid.UUID) (domain.Appointment, error) {
		return s.booking.Decline(ctx, actor, id, req.Reason)
	})
}

func (s *AppointmentsServer) ScheduleAppointment(ctx context.Context, req *bookingv1.ScheduleAppointmentRequest) (*bookingv1.AppointmentResponse, error) {
	return s.transition(ctx, "ScheduleAppointment", req.GetAppointmentId(), func(actor booking.Actor, id uuid.UUID) (domain.Appointment, error) {
		date, err := optionalDate(req.Date)
		if err != nil {
			return domain.Appointment{}, err
		}
		return s.booking.Schedule(ctx, actor, id, date, req.Time, req.Note)
	})
}

func (s *AppointmentsServer) CancelAppointment(ctx context.Context, req *bookingv1.NoteRequest) (*bookingv1.AppointmentResponse, error) {
	return s.transition(ctx, "CancelAppointment", req.GetAppointmentId(), func(actor booking.Actor, id uuid.UUID) (domain.Appointment, error) {
		return s.booking.Cancel(ctx, actor, id, req.Note)
	})
}

func (s *AppointmentsServer) MarkSameDayOutcome(ctx context.Context, req *bookingv1.MarkSameDayOutcomeRequest) (*bookingv1.AppointmentResponse, error) {
	return s.transition(ctx, "MarkSameDayOutcome", req.GetAppointmentId(), func(actor booking.Actor, id uuid.UUID) (domain.Appointment, error) {
		newDate, err := optionalDate(req.NewDate)
		if err != nil {
			return domain.Appointment{}, err
		}
		return s.booking.MarkSameDayOutcome(ctx, actor, id, booking.OutcomeInput{
			Outcome: booking.Outcome(req.Outcome),
			NewDate: newDate,
			NewTime: req.NewTime,
			Note:    req.Note,
		})
	})
}

func (s *AppointmentsServer) SetArchived(ctx context.Context, req *bookingv1.SetArchivedRequest) (*bookingv1.AppointmentResponse, error) {
	return s.transition(ctx, "SetArchived", req.GetAppointmentId(), func(actor booking.Actor, id uuid.UUID) (domain.Appointment, error) {
		return s.booking.SetArchived(ctx, actor, id, req.Archived)
	})
}

func (s *AppointmentsServer) transition(ctx context.Context, rpc, rawID string, call func(actor booking.Actor, id uuid.UUID) (domain.Appointment, error)) (*bookingv1.AppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", rpc))

	id, err := appointmentID(log, rawID)
	if err != nil {
		return nil, err
	}
	actor := actorFromContext(ctx)
	log = log.With(slog.String("appointment_id", id.String()), slog.String("actor_id", actor.ID))

	appt, err := call(actor, id)
	if err != nil {
		return nil, s.toStatus(log, "appointment update failed", err)
	}
	log.Info("appointment updated", slog.String("status", string(appt.Status)), slog.Bool("archived", appt.Archived))
	return &bookingv1.AppointmentResponse{Appointment: bookingv1.FromAppointment(appt)}, nil
}

func (s *AppointmentsServer) GetDayAvailability(ctx context.Context, req *bookingv1.DayAvailabilityRequest) (*bookingv1.DayAvailabilityResponse, error) {
	log := s.log.With(slog.String("rpc", "GetDayAvailability"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	start, err := domain.ParseDate(req.Start)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "start must be a YYYY-MM-DD date")
	}
	end, err := domain.ParseDate(req.End)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "end must be a YYYY-MM-DD date")
	}

	key := viewKey(ctx, "days")
	report, err := availability.Fetch(ctx, s.latest, key, func(ctx context.Context) (availability.DayReport, error) {
		return s.avail.GetDayAvailability(ctx, start, end)
	})
	if err != nil {
		return nil, s.toStatus(log, "day availability failed", err)
	}

	days := make([]*bookingv1.Day, 0, len(report.Days))
	for d := start; !d.After(end); d = d.AddDays(1) {
		days = append(days, bookingv1.FromDay(report.Days[d]))
	}
	return &bookingv1.DayAvailabilityResponse{
		Year:     int32(report.Year),
		Month:    int32(report.Month),
		Days:     days,
		Degraded: bookingv1.CategoryNames(report.Degraded),
	}, nil
}

func (s *AppointmentsServer) GetMonthGrid(ctx context.Context, req *bookingv1.MonthGridRequest) (*bookingv1.DayAvailabilityResponse, error) {
	log := s.log.With(slog.String("rpc", "GetMonthGrid"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	grid, err := availability.Fetch(ctx, s.latest, viewKey(ctx, "days"), func(ctx context.Context) (availability.MonthGrid, error) {
		return s.avail.GetMonthGrid(ctx, int(req.Year), time.Month(req.Month))
	})
	if err != nil {
		return nil, s.toStatus(log, "month grid failed", err)
	}

	days := make([]*bookingv1.Day, 0, len(grid.Cells))
	for _, c := range grid.Cells {
		days = append(days, bookingv1.FromDay(c))
	}
	return &bookingv1.DayAvailabilityResponse{
		Year:     int32(grid.Year),
		Month:    int32(grid.Month),
		Days:     days,
		Degraded: bookingv1.CategoryNames(grid.Degraded),
	}, nil
}

func (s *AppointmentsServer) GetSlotAvailability(ctx context.Context, req *bookingv1.SlotAvailabilityRequest) (*bookingv1.SlotAvailabilityResponse, error) {
	log := s.log.With(slog.String("rpc", "GetSlotAvailability"))

	date, err := domain.ParseDate(req.GetDate())
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_date"))
		return nil, status.Error(codes.InvalidArgument, "date must be a YYYY-MM-DD date")
	}

	slots, err := availability.Fetch(ctx, s.latest, viewKey(ctx, "slots"), func(ctx context.Context) ([]domain.Slot, error) {
		return s.avail.GetSlotAvailability(ctx, date)
	})
	if err != nil {
		return nil, s.toStatus(log.With(slog.String("date", date.String())), "slot availability failed", err)
	}

	return &bookingv1.SlotAvailabilityResponse{Slots: bookingv1.FromSlots(slots)}, nil
}

// viewKey scopes last-request-wins tracking to one caller and one view.
// Anonymous callers are not tracked.
func viewKey(ctx context.Context, view string) string {
	actor := actorFromContext(ctx)
	if actor.ID == "" {
		return ""
	}
	return actor.ID + ":" + view
}

func appointmentID(log *slog.Logger, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"))
		return uuid.Nil, status.Error(codes.InvalidArgument, "appointment_id must be a UUID")
	}
	return id, nil
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

func (s *AppointmentsServer) toStatus(log *slog.Logger, msg string, err error) error {
	var (
		vErr *svcerr.ValidationError
		sErr *svcerr.StateError
		cErr *svcerr.ConflictError
		fErr *svcerr.ForbiddenError
	)
	switch {
	case errors.As(err, &vErr):
		log.Warn("invalid request", slog.Any("err", err), slog.String("field", vErr.Field))
		return status.Error(codes.InvalidArgument, vErr.Error())
	case errors.As(err, &fErr):
		log.Warn("forbidden", slog.Any("err", err))
		return status.Error(codes.PermissionDenied, fErr.Error())
	case errors.As(err, &cErr):
		log.Info("active appointment conflict", slog.String("existing_id", cErr.Existing.ID.String()))
		return status.Error(codes.AlreadyExists, cErr.Error())
	case errors.As(err, &sErr):
		log.Info("invalid state", slog.Any("err", err))
		return status.Error(codes.FailedPrecondition, sErr.Error())
	case errors.Is(err, store.ErrNotFound):
		log.Info("appointment not found")
		return status.Error(codes.NotFound, "appointment not found")
	case errors.Is(err, availability.ErrSuperseded):
		log.Debug("request superseded")
		return status.Error(codes.Canceled, "superseded by a newer request")
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("deadline exceeded", slog.Any("err", err))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request cancelled")
	}
	log.Error(msg, slog.Any("err", err))
	return status.Error(codes.Internal, "internal error")
}
