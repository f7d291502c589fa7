package bookingv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "welfaredesk.booking.v1.BookingService"

const (
	BookingService_CreateAppointment_FullMethodName   = "/" + ServiceName + "/CreateAppointment"
	BookingService_GetAppointment_FullMethodName      = "/" + ServiceName + "/GetAppointment"
	BookingService_ListAppointments_FullMethodName    = "/" + ServiceName + "/ListAppointments"
	BookingService_ApproveAppointment_FullMethodName  = "/" + ServiceName + "/ApproveAppointment"
	BookingService_DeclineAppointment_FullMethodName  = "/" + ServiceName + "/DeclineAppointment"
	BookingService_ScheduleAppointment_FullMethodName = "/" + ServiceName + "/ScheduleAppointment"
	BookingService_CancelAppointment_FullMethodName   = "/" + ServiceName + "/CancelAppointment"
	BookingService_MarkSameDayOutcome_FullMethodName  = "/" + ServiceName + "/MarkSameDayOutcome"
	BookingService_SetArchived_FullMethodName         = "/" + ServiceName + "/SetArchived"
	BookingService_GetDayAvailability_FullMethodName  = "/" + ServiceName + "/GetDayAvailability"
	BookingService_GetMonthGrid_FullMethodName        = "/" + ServiceName + "/GetMonthGrid"
	BookingService_GetSlotAvailability_FullMethodName = "/" + ServiceName + "/GetSlotAvailability"
)

type BookingServiceServer interface {
	CreateAppointment(context.Context, *CreateAppointmentRequest) (*AppointmentResponse, error)
	GetAppointment(context.Context, *GetAppointmentRequest) (*AppointmentResponse, error)
	ListAppointments(context.Context, *ListAppointmentsRequest) (*ListAppointmentsResponse, error)
	ApproveAppointment(context.Context, *NoteRequest) (*AppointmentResponse, error)
	DeclineAppointment(context.Context, *DeclineAppointmentRequest) (*AppointmentResponse, error)
	ScheduleAppointment(context.Context, *ScheduleAppointmentRequest) (*AppointmentResponse, error)
	CancelAppointment(context.Context, *NoteRequest) (*AppointmentResponse, error)
	MarkSameDayOutcome(context.Context, *MarkSameDayOutcomeRequest) (*AppointmentResponse, error)
	SetArchived(context.Context, *SetArchivedRequest) (*AppointmentResponse, error)
	GetDayAvailability(context.Context, *DayAvailabilityRequest) (*DayAvailabilityResponse, error)
	GetMonthGrid(context.Context, *MonthGridRequest) (*DayAvailabilityResponse, error)
	GetSlotAvailability(context.Context, *SlotAvailabilityRequest) (*SlotAvailabilityResponse, error)
}

type UnimplementedBookingServiceServer struct{}

func (UnimplementedBookingServiceServer) CreateAppointment(context.Context, *CreateAppointmentRequest) (*AppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateAppointment not implemented")
}
func (UnimplementedBookingServiceServer) GetAppointment(context.Context, *GetAppointmentRequest) (*AppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAppointment not implemented")
}
func (UnimplementedBookingServiceServer) ListAppointments(context.Context, *ListAppointmentsRequest) (*ListAppointmentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListAppointments not implemented")
}
func (UnimplementedBookingServiceServer) ApproveAppointment(context.Context, *NoteRequest) (*AppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ApproveAppointment not implemented")
}
func (UnimplementedBookingServiceServer) DeclineAppointment(context.Context, *DeclineAppointmentRequest) (*AppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeclineAppointment not implemented")
}
func (UnimplementedBookingServiceServer) ScheduleAppointment(context.Context, *ScheduleAppointmentRequest) (*AppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ScheduleAppointment not implemented")
}
func (UnimplementedBookingServiceServer) CancelAppointment(context.Context, *NoteRequest) (*AppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CancelAppointment not implemented")
}
func (UnimplementedBookingServiceServer) MarkSameDayOutcome(context.Context, *MarkSameDayOutcomeRequest) (*AppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method MarkSameDayOutcome not implemented")
}
func (UnimplementedBookingServiceServer) SetArchived(context.Context, *SetArchivedRequest) (*AppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SetArchived not implemented")
}
func (UnimplementedBookingServiceServer) GetDayAvailability(context.Context, *DayAvailabilityRequest) (*DayAvailabilityResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDayAvailability not implemented")
}
func (UnimplementedBookingServiceServer) GetMonthGrid(context.Context, *MonthGridRequest) (*DayAvailabilityResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetMonthGrid not implemented")
}
func (UnimplementedBookingServiceServer) GetSlotAvailability(context.Context, *SlotAvailabilityRequest) (*SlotAvailabilityResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSlotAvailability not implemented")
}

func RegisterBookingServiceServer(s grpc.ServiceRegistrar, srv BookingServiceServer) {
	s.RegisterService(&BookingService_ServiceDesc, srv)
}

func unary[Req, Resp any](fullMethod string, call func(BookingServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BookingServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BookingServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var BookingService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BookingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateAppointment", Handler: unary(BookingService_CreateAppointment_FullMethodName, BookingServiceServer.CreateAppointment)},
		{MethodName: "GetAppointment", Handler: unary(BookingService_GetAppointment_FullMethodName, BookingServiceServer.GetAppointment)},
		{MethodName: "ListAppointments", Handler: unary(BookingService_ListAppointments_FullMethodName, BookingServiceServer.ListAppointments)},
		{MethodName: "ApproveAppointment", Handler: unary(BookingService_ApproveAppointment_FullMethodName, BookingServiceServer.ApproveAppointment)},
		{MethodName: "DeclineAppointment", Handler: unary(BookingService_DeclineAppointment_FullMethodName, BookingServiceServer.DeclineAppointment)},
		{MethodName: "ScheduleAppointment", Handler: unary(BookingService_ScheduleAppointment_FullMethodName, BookingServiceServer.ScheduleAppointment)},
		{MethodName: "CancelAppointment", Handler: unary(BookingService_CancelAppointment_FullMethodName, BookingServiceServer.CancelAppointment)},
		{MethodName: "MarkSameDayOutcome", Handler: unary(BookingService_MarkSameDayOutcome_FullMethodName, BookingServiceServer.MarkSameDayOutcome)},
		{MethodName: "SetArchived", Handler: unary(BookingService_SetArchived_FullMethodName, BookingServiceServer.SetArchived)},
		{MethodName: "GetDayAvailability", Handler: unary(BookingService_GetDayAvailability_FullMethodName, BookingServiceServer.GetDayAvailability)},
		{MethodName: "GetMonthGrid", Handler: unary(BookingService_GetMonthGrid_FullMethodName, BookingServiceServer.GetMonthGrid)},
		{MethodName: "GetSlotAvailability", Handler: unary(BookingService_GetSlotAvailability_FullMethodName, BookingServiceServer.GetSlotAvailability)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "welfaredesk/booking/v1/booking.proto",
}

// BookingServiceClient is the client side of BookingService. Calls use the
// JSON codec.
type BookingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewBookingServiceClient(cc grpc.ClientConnInterface) *BookingServiceClient {
	return &BookingServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *BookingServiceClient, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingServiceClient) CreateAppointment(ctx context.Context, in *CreateAppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c, BookingService_CreateAppointment_FullMethodName, in, opts)
}

func (c *BookingServiceClient) GetAppointment(ctx context.Context, in *GetAppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c, BookingService_GetAppointment_FullMethodName, in, opts)
}

func (c *BookingServiceClient) ListAppointments(ctx context.Context, in *ListAppointmentsRequest, opts ...grpc.CallOption) (*ListAppointmentsResponse, error) {
	return invoke[ListAppointmentsResponse](ctx, c, BookingService_ListAppointments_FullMethodName, in, opts)
}

func (c *BookingServiceClient) ApproveAppointment(ctx context.Context, in *NoteRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c, BookingService_ApproveAppointment_FullMethodName, in, opts)
}

func (c *BookingServiceClient) DeclineAppointment(ctx context.Context, in *DeclineAppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c, BookingService_DeclineAppointment_FullMethodName, in, opts)
}

func (c *BookingServiceClient) ScheduleAppointment(ctx context.Context, in *ScheduleAppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c, BookingService_ScheduleAppointment_FullMethodName, in, opts)
}

func (c *BookingServiceClient) CancelAppointment(ctx context.Context, in *NoteRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c, BookingService_CancelAppointment_FullMethodName, in, opts)
}

func (c *BookingServiceClient) MarkSameDayOutcome(ctx context.Context, in *MarkSameDayOutcomeRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c, BookingService_MarkSameDayOutcome_FullMethodName, in, opts)
}

func (c *BookingServiceClient) SetArchived(ctx context.Context, in *SetArchivedRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c, BookingService_SetArchived_FullMethodName, in, opts)
}

func (c *BookingServiceClient) GetDayAvailability(ctx context.Context, in *DayAvailabilityRequest, opts ...grpc.CallOption) (*DayAvailabilityResponse, error) {
	return invoke[DayAvailabilityResponse](ctx, c, BookingService_GetDayAvailability_FullMethodName, in, opts)
}

func (c *BookingServiceClient) GetMonthGrid(ctx context.Context, in *MonthGridRequest, opts ...grpc.CallOption) (*DayAvailabilityResponse, error) {
	return invoke[DayAvailabilityResponse](ctx, c, BookingService_GetMonthGrid_FullMethodName, in, opts)
}

func (c *BookingServiceClient) GetSlotAvailability(ctx context.Context, in *SlotAvailabilityRequest, opts ...grpc.CallOption) (*SlotAvailabilityResponse, error) {
	return invoke[SlotAvailabilityResponse](ctx, c, BookingService_GetSlotAvailability_FullMethodName, in, opts)
}
