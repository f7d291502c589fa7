package grpc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	bookingv1 "welfaredesk/backend/internal/api/booking/v1"
	"welfaredesk/backend/internal/domain"
	"welfaredesk/backend/internal/service/availability"
	"welfaredesk/backend/internal/service/booking"
	"welfaredesk/backend/internal/service/svcerr"
	"welfaredesk/backend/internal/store"
	httpTransport "welfaredesk/backend/internal/transport/http"
)

type fakeBookingService struct {
	createFn      func(ctx context.Context, actor booking.Actor, d booking.Draft) (domain.Appointment, error)
	getFn         func(ctx context.Context, actor booking.Actor, id uuid.UUID) (domain.Appointment, error)
	listFn        func(ctx context.Context, actor booking.Actor, citizenID string) ([]domain.Appointment, error)
	approveFn     func(ctx context.Context, actor booking.Actor, id uuid.UUID, note string) (domain.Appointment, error)
	declineFn     func(ctx context.Context, actor booking.Actor, id uuid.UUID, reason string) (domain.Appointment, error)
	scheduleFn    func(ctx context.Context, actor booking.Actor, id uuid.UUID, date domain.Date, at, note string) (domain.Appointment, error)
	cancelFn      func(ctx context.Context, actor booking.Actor, id uuid.UUID, note string) (domain.Appointment, error)
	outcomeFn     func(ctx context.Context, actor booking.Actor, id uuid.UUID, in booking.OutcomeInput) (domain.Appointment, error)
	setArchivedFn func(ctx context.Context, actor booking.Actor, id uuid.UUID, archived bool) (domain.Appointment, error)
}

func (f *fakeBookingService) Create(ctx context.Context, actor booking.Actor, d booking.Draft) (domain.Appointment, error) {
	if f.createFn == nil {
		panic("Create not configured")
	}
	return f.createFn(ctx, actor, d)
}

func (f *fakeBookingService) Get(ctx context.Context, actor booking.Actor, id uuid.UUID) (domain.Appointment, error) {
	if f.getFn == nil {
		panic("Get not configured")
	}
	return f.getFn(ctx, actor, id)
}

func (f *fakeBookingService) ListForCitizen(ctx context.Context, actor booking.Actor, citizenID string) ([]domain.Appointment, error) {
	if f.listFn == nil {
		panic("ListForCitizen not configured")
	}
	return f.listFn(ctx, actor, citizenID)
}

func (f *fakeBookingService) Approve(ctx context.Context, actor booking.Actor, id uuid.UUID, note string) (domain.Appointment, error) {
	if f.approveFn == nil {
		panic("Approve not configured")
	}
	return f.approveFn(ctx, actor, id, note)
}

func (f *fakeBookingService) Decline(ctx context.Context, actor booking.Actor, id uuid.UUID, reason string) (domain.Appointment, error) {
	if f.declineFn == nil {
		panic("Decline not configured")
	}
	return f.declineFn(ctx, actor, id, reason)
}

func (f *fakeBookingService) Schedule(ctx context.Context, actor booking.Actor, id uuid.UUID, date domain.Date, at, note string) (domain.Appointment, error) {
	if f.scheduleFn == nil {
		panic("Schedule not configured")
	}
	return f.scheduleFn(ctx, actor, id, date, at, note)
}

func (f *fakeBookingService) Cancel(ctx context.Context, actor booking.Actor, id uuid.UUID, note string) (domain.Appointment, error) {
	if f.cancelFn == nil {
		panic("Cancel not configured")
	}
	return f.cancelFn(ctx, actor, id, note)
}

func (f *fakeBookingService) MarkSameDayOutcome(ctx context.Context, actor booking.Actor, id uuid.UUID, in booking.OutcomeInput) (domain.Appointment, error) {
	if f.outcomeFn == nil {
		panic("MarkSameDayOutcome not configured")
	}
	return f.outcomeFn(ctx, actor, id, in)
}

func (f *fakeBookingService) SetArchived(ctx context.Context, actor booking.Actor, id uuid.UUID, archived bool) (domain.Appointment, error) {
	if f.setArchivedFn == nil {
		panic("SetArchived not configured")
	}
	return f.setArchivedFn(ctx, actor, id, archived)
}

type fakeAvailability struct {
	daysFn  func(ctx context.Context, start, end domain.Date) (availability.DayReport, error)
	gridFn  func(ctx context.Context, year int, month time.Month) (availability.MonthGrid, error)
	slotsFn func(ctx context.Context, date domain.Date) ([]domain.Slot, error)
}

func (f *fakeAvailability) GetDayAvailability(ctx context.Context, start, end domain.Date) (availability.DayReport, error) {
	if f.daysFn == nil {
		panic("GetDayAvailability not configured")
	}
	return f.daysFn(ctx, start, end)
}

func (f *fakeAvailability) GetMonthGrid(ctx context.Context, year int, month time.Month) (availability.MonthGrid, error) {
	if f.gridFn == nil {
		panic("GetMonthGrid not configured")
	}
	return f.gridFn(ctx, year, month)
}

func (f *fakeAvailability) GetSlotAvailability(ctx context.Context, date domain.Date) ([]domain.Slot, error) {
	if f.slotsFn == nil {
		panic("GetSlotAvailability not configured")
	}
	return f.slotsFn(ctx, date)
}

var testID = uuid.MustParse("00000000-0000-0000-0000-000000000010")

func newTestServer(t *testing.T, svc *fakeBookingService, avail *fakeAvailability) *AppointmentsServer {
	t.Helper()
	latest, err := availability.NewLatest(16)
	if err != nil {
		t.Fatalf("NewLatest error: %v", err)
	}
	if svc == nil {
		svc = &fakeBookingService{}
	}
	if avail == nil {
		avail = &fakeAvailability{}
	}
	return NewAppointmentsServer(svc, avail, latest, slog.New(slog.DiscardHandler))
}

const testSecret = "test-secret"

func actorContext(id string, role booking.Role) context.Context {
	return withActor(context.Background(), booking.Actor{ID: id, Role: role})
}

func signToken(t *testing.T, sub, role string) string {
	t.Helper()
	claims := httpTransport.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}
	return raw
}

func bearerContext(raw string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+raw))
}

func TestActorFromContext_IgnoresClientMetadata(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		"x-actor-id", "c1",
		"x-actor-role", "admin",
	))
	if got := actorFromContext(ctx); got != (booking.Actor{}) {
		t.Fatalf("actor from raw metadata = %+v, want zero", got)
	}
	if got := actorFromContext(actorContext("s1", booking.RoleStaff)); got.ID != "s1" || got.Role != booking.RoleStaff {
		t.Fatalf("actor = %+v", got)
	}
}

func TestAuthenticate(t *testing.T) {
	icpt := Authenticate(httpTransport.NewAuthenticator(testSecret), slog.New(slog.DiscardHandler))
	info := &grpc.UnaryServerInfo{FullMethod: bookingv1.BookingService_ApproveAppointment_FullMethodName}

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, httpTransport.Claims{
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "c1"},
	}).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	tests := []struct {
		name      string
		ctx       context.Context
		wantCode  codes.Code
		wantActor booking.Actor
	}{
		{name: "no metadata", ctx: context.Background(), wantCode: codes.Unauthenticated},
		{
			name: "raw actor metadata",
			ctx: metadata.NewIncomingContext(context.Background(), metadata.Pairs(
				"x-actor-id", "c1",
				"x-actor-role", "admin",
			)),
			wantCode: codes.Unauthenticated,
		},
		{
			name:     "wrong scheme",
			ctx:      metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Basic abc")),
			wantCode: codes.Unauthenticated,
		},
		{name: "forged signature", ctx: bearerContext(forged), wantCode: codes.Unauthenticated},
		{
			name:      "citizen token",
			ctx:       bearerContext(signToken(t, "c1", "citizen")),
			wantCode:  codes.OK,
			wantActor: booking.Actor{ID: "c1", Role: booking.RoleCitizen},
		},
		{
			name:      "admin token",
			ctx:       bearerContext(signToken(t, "a1", "admin")),
			wantCode:  codes.OK,
			wantActor: booking.Actor{ID: "a1", Role: booking.RoleAdmin},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got booking.Actor
			called := false
			_, err := icpt(tt.ctx, nil, info, func(ctx context.Context, req any) (any, error) {
				called = true
				got = actorFromContext(ctx)
				return nil, nil
			})
			if code := status.Code(err); code != tt.wantCode {
				t.Fatalf("code = %s, want %s", code, tt.wantCode)
			}
			if tt.wantCode != codes.OK {
				if called {
					t.Fatalf("handler ran for a rejected call")
				}
				return
			}
			if got != tt.wantActor {
				t.Fatalf("actor = %+v, want %+v", got, tt.wantActor)
			}
		})
	}
}

func TestAuthenticate_SkipsOtherServices(t *testing.T) {
	icpt := Authenticate(httpTransport.NewAuthenticator(testSecret), slog.New(slog.DiscardHandler))

	called := false
	_, err := icpt(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, func(ctx context.Context, req any) (any, error) {
		called = true
		return nil, nil
	})
	if err != nil || !called {
		t.Fatalf("health check err = %v, called = %v", err, called)
	}
}

func TestCreateAppointment_PassesDraftAndActor(t *testing.T) {
	var (
		gotActor booking.Actor
		gotDraft booking.Draft
	)
	date := domain.NewDate(2026, 3, 12)
	at := "09:00:00"

	srv := newTestServer(t, &fakeBookingService{
		createFn: func(ctx context.Context, actor booking.Actor, d booking.Draft) (domain.Appointment, error) {
			gotActor, gotDraft = actor, d
			return domain.Appointment{
				ID:        testID,
				CitizenID: actor.ID,
				Category:  domain.Category(d.Category),
				Status:    domain.StatusPending,
				Date:      &date,
				Time:      &at,
			}, nil
		},
	}, nil)

	resp, err := srv.CreateAppointment(actorContext("c1", booking.RoleCitizen), &bookingv1.CreateAppointmentRequest{
		Category: "pwd",
		Service:  "PWD ID",
		Date:     "2026-03-12",
		Time:     "09:00",
		IdType:   "National ID",
	})
	if err != nil {
		t.Fatalf("CreateAppointment error: %v", err)
	}
	if gotActor.ID != "c1" || gotActor.Role != booking.RoleCitizen {
		t.Fatalf("actor = %+v", gotActor)
	}
	if gotDraft.Category != "pwd" || gotDraft.Date != "2026-03-12" || gotDraft.IDType != "National ID" {
		t.Fatalf("draft = %+v", gotDraft)
	}
	if resp.Appointment.Id != testID.String() || resp.Appointment.Time != "09:00" || resp.Appointment.Date != "2026-03-12" {
		t.Fatalf("appointment = %+v", resp.Appointment)
	}
}

func TestCreateAppointment_RejectsNilRequest(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	_, err := srv.CreateAppointment(context.Background(), nil)
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("code = %s, want %s", status.Code(err), codes.InvalidArgument)
	}
}

func TestCreateAppointment_MapsServiceErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"validation", svcerr.Validation("time", "invalid time"), codes.InvalidArgument},
		{"forbidden", svcerr.Forbidden("sign in to continue"), codes.PermissionDenied},
		{"conflict", &svcerr.ConflictError{Existing: domain.Appointment{ID: testID}}, codes.AlreadyExists},
		{"state", svcerr.State("appointment is not pending"), codes.FailedPrecondition},
		{"not found", svcerr.Persistence("get appointment", store.ErrNotFound), codes.NotFound},
		{"deadline", context.DeadlineExceeded, codes.DeadlineExceeded},
		{"internal", svcerr.Persistence("create appointment", errors.New("boom")), codes.Internal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeBookingService{
				createFn: func(ctx context.Context, actor booking.Actor, d booking.Draft) (domain.Appointment, error) {
					return domain.Appointment{}, tc.err
				},
			}, nil)

			_, err := srv.CreateAppointment(context.Background(), &bookingv1.CreateAppointmentRequest{})
			if status.Code(err) != tc.want {
				t.Fatalf("code = %s, want %s", status.Code(err), tc.want)
			}
		})
	}
}

func TestCreateAppointment_InternalErrorHidesDetails(t *testing.T) {
	srv := newTestServer(t, &fakeBookingService{
		createFn: func(ctx context.Context, actor booking.Actor, d booking.Draft) (domain.Appointment, error) {
			return domain.Appointment{}, errors.New("pq: connection refused")
		},
	}, nil)

	_, err := srv.CreateAppointment(context.Background(), &bookingv1.CreateAppointmentRequest{})
	if got := status.Convert(err).Message(); got != "internal error" {
		t.Fatalf("message = %q, want %q", got, "internal error")
	}
}

func TestTransitions_RejectInvalidUUID(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	ctx := actorContext("s1", booking.RoleStaff)

	calls := map[string]func() error{
		"approve": func() error {
			_, err := srv.ApproveAppointment(ctx, &bookingv1.NoteRequest{AppointmentId: "nope", Note: "ok"})
			return err
		},
		"decline": func() error {
			_, err := srv.DeclineAppointment(ctx, &bookingv1.DeclineAppointmentRequest{AppointmentId: "nope"})
			return err
		},
		"cancel": func() error {
			_, err := srv.CancelAppointment(ctx, nil)
			return err
		},
		"get": func() error {
			_, err := srv.GetAppointment(ctx, &bookingv1.GetAppointmentRequest{AppointmentId: ""})
			return err
		},
	}
	for name, call := range calls {
		if code := status.Code(call()); code != codes.InvalidArgument {
			t.Fatalf("%s code = %s, want %s", name, code, codes.InvalidArgument)
		}
	}
}

func TestScheduleAppointment_ParsesDate(t *testing.T) {
	var gotDate domain.Date
	srv := newTestServer(t, &fakeBookingService{
		scheduleFn: func(ctx context.Context, actor booking.Actor, id uuid.UUID, date domain.Date, at, note string) (domain.Appointment, error) {
			gotDate = date
			return domain.Appointment{ID: id, Status: domain.StatusScheduled}, nil
		},
	}, nil)

	resp, err := srv.ScheduleAppointment(actorContext("s1", booking.RoleStaff), &bookingv1.ScheduleAppointmentRequest{
		AppointmentId: testID.String(),
		Date:          "2026-03-20",
		Time:          "10:00",
		Note:          "moved",
	})
	if err != nil {
		t.Fatalf("ScheduleAppointment error: %v", err)
	}
	if gotDate != domain.NewDate(2026, 3, 20) {
		t.Fatalf("date = %s", gotDate)
	}
	if resp.Appointment.Status != string(domain.StatusScheduled) {
		t.Fatalf("status = %q", resp.Appointment.Status)
	}

	_, err = srv.ScheduleAppointment(actorContext("s1", booking.RoleStaff), &bookingv1.ScheduleAppointmentRequest{
		AppointmentId: testID.String(),
		Date:          "20/03/2026",
	})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("code = %s, want %s", status.Code(err), codes.InvalidArgument)
	}
}

func TestMarkSameDayOutcome_PassesOutcome(t *testing.T) {
	var got booking.OutcomeInput
	srv := newTestServer(t, &fakeBookingService{
		outcomeFn: func(ctx context.Context, actor booking.Actor, id uuid.UUID, in booking.OutcomeInput) (domain.Appointment, error) {
			got = in
			return domain.Appointment{ID: id, Status: domain.StatusScheduled}, nil
		},
	}, nil)

	_, err := srv.MarkSameDayOutcome(actorContext("s1", booking.RoleStaff), &bookingv1.MarkSameDayOutcomeRequest{
		AppointmentId: testID.String(),
		Outcome:       "re-scheduled",
		NewDate:       "2026-03-20",
		NewTime:       "13:00",
		Note:          "client asked",
	})
	if err != nil {
		t.Fatalf("MarkSameDayOutcome error: %v", err)
	}
	if got.Outcome != booking.OutcomeRescheduled || got.NewDate != domain.NewDate(2026, 3, 20) || got.NewTime != "13:00" {
		t.Fatalf("input = %+v", got)
	}
}

func TestGetDayAvailability_OrdersDays(t *testing.T) {
	start, end := domain.NewDate(2026, 3, 10), domain.NewDate(2026, 3, 12)
	srv := newTestServer(t, nil, &fakeAvailability{
		daysFn: func(ctx context.Context, s, e domain.Date) (availability.DayReport, error) {
			days := map[domain.Date]domain.Day{}
			for d := s; !d.After(e); d = d.AddDays(1) {
				days[d] = domain.Day{Date: d, Cap: 25, Available: true}
			}
			return availability.DayReport{Year: 2026, Month: time.March, Days: days, Degraded: []domain.Category{"senior"}}, nil
		},
	})

	resp, err := srv.GetDayAvailability(actorContext("c1", booking.RoleCitizen), &bookingv1.DayAvailabilityRequest{
		Start: start.String(),
		End:   end.String(),
	})
	if err != nil {
		t.Fatalf("GetDayAvailability error: %v", err)
	}
	if len(resp.Days) != 3 || resp.Days[0].Date != "2026-03-10" || resp.Days[2].Date != "2026-03-12" {
		t.Fatalf("days = %+v", resp.Days)
	}
	if len(resp.Degraded) != 1 || resp.Degraded[0] != "senior" {
		t.Fatalf("degraded = %v", resp.Degraded)
	}
}

func TestGetSlotAvailability_SupersededRequestIsCanceled(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	var once sync.Once

	srv := newTestServer(t, nil, &fakeAvailability{
		slotsFn: func(ctx context.Context, date domain.Date) ([]domain.Slot, error) {
			first := false
			once.Do(func() { first = true })
			if first {
				started <- struct{}{}
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-release:
				}
			}
			return []domain.Slot{{Date: date, Start: "08:00", End: "09:00", Capacity: 3, Remaining: 3, Selectable: true}}, nil
		},
	})
	ctx := actorContext("c1", booking.RoleCitizen)

	errCh := make(chan error, 1)
	go func() {
		_, err := srv.GetSlotAvailability(ctx, &bookingv1.SlotAvailabilityRequest{Date: "2026-03-12"})
		errCh <- err
	}()
	<-started

	resp, err := srv.GetSlotAvailability(ctx, &bookingv1.SlotAvailabilityRequest{Date: "2026-03-13"})
	if err != nil {
		t.Fatalf("second GetSlotAvailability error: %v", err)
	}
	if len(resp.Slots) != 1 || resp.Slots[0].Date != "2026-03-13" {
		t.Fatalf("slots = %+v", resp.Slots)
	}
	close(release)

	if code := status.Code(<-errCh); code != codes.Canceled {
		t.Fatalf("first call code = %s, want %s", code, codes.Canceled)
	}
}

func TestDefaultRequestTimeout_SetsDeadline(t *testing.T) {
	icpt := DefaultRequestTimeout(time.Second)

	var hasDeadline bool
	_, err := icpt(context.Background(), nil, &grpc.UnaryServerInfo{}, func(ctx context.Context, req any) (any, error) {
		_, hasDeadline = ctx.Deadline()
		return nil, nil
	})
	if err != nil {
		t.Fatalf("interceptor error: %v", err)
	}
	if !hasDeadline {
		t.Fatalf("expected a deadline")
	}
}

func TestBookingService_RoundTripOverJSONCodec(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(
		DefaultRequestTimeout(5*time.Second),
		Authenticate(httpTransport.NewAuthenticator(testSecret), slog.New(slog.DiscardHandler)),
	))
	bookingv1.RegisterBookingServiceServer(s, newTestServer(t, &fakeBookingService{
		approveFn: func(ctx context.Context, actor booking.Actor, id uuid.UUID, note string) (domain.Appointment, error) {
			if !actor.Staff() {
				return domain.Appointment{}, svcerr.Forbidden("staff only")
			}
			return domain.Appointment{ID: id, Status: domain.StatusApproved}, nil
		},
		getFn: func(ctx context.Context, actor booking.Actor, id uuid.UUID) (domain.Appointment, error) {
			if actor.ID != "c1" {
				return domain.Appointment{}, svcerr.Forbidden("not your appointment")
			}
			return domain.Appointment{
				ID:        id,
				CitizenID: actor.ID,
				Status:    domain.StatusApproved,
				CreatedAt: time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC),
			}, nil
		},
	}, nil))
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	client := bookingv1.NewBookingServiceClient(conn)

	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+signToken(t, "c1", "citizen"))
	resp, err := client.GetAppointment(ctx, &bookingv1.GetAppointmentRequest{AppointmentId: testID.String()})
	if err != nil {
		t.Fatalf("GetAppointment error: %v", err)
	}
	if resp.Appointment.Id != testID.String() || resp.Appointment.Status != "approved" {
		t.Fatalf("appointment = %+v", resp.Appointment)
	}
	if !resp.Appointment.CreatedAt.AsTime().Equal(time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)) {
		t.Fatalf("created_at = %v", resp.Appointment.CreatedAt.AsTime())
	}

	ctx = metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+signToken(t, "c2", "citizen"))
	_, err = client.GetAppointment(ctx, &bookingv1.GetAppointmentRequest{AppointmentId: testID.String()})
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("code = %s, want %s", status.Code(err), codes.PermissionDenied)
	}

	// A citizen cannot claim a staff role through metadata.
	ctx = metadata.AppendToOutgoingContext(context.Background(),
		"authorization", "Bearer "+signToken(t, "c1", "citizen"),
		"x-actor-role", "admin",
	)
	_, err = client.ApproveAppointment(ctx, &bookingv1.NoteRequest{AppointmentId: testID.String()})
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("approve as citizen code = %s, want %s", status.Code(err), codes.PermissionDenied)
	}

	ctx = metadata.AppendToOutgoingContext(context.Background(), "x-actor-id", "s1", "x-actor-role", "admin")
	_, err = client.ApproveAppointment(ctx, &bookingv1.NoteRequest{AppointmentId: testID.String()})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("approve without token code = %s, want %s", status.Code(err), codes.Unauthenticated)
	}

	resp, err = client.ApproveAppointment(
		metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+signToken(t, "s1", "staff")),
		&bookingv1.NoteRequest{AppointmentId: testID.String()},
	)
	if err != nil {
		t.Fatalf("approve as staff error: %v", err)
	}
	if resp.Appointment.Status != "approved" {
		t.Fatalf("approved status = %q", resp.Appointment.Status)
	}
}
