// Package bookingv1 is the wire contract of the booking gRPC service.
package bookingv1

type Appointment struct {
	Id                string    `json:"id"`
	Category          string    `json:"category"`
	CitizenId         string    `json:"citizen_id"`
	FirstName         string    `json:"first_name"`
	MiddleName        string    `json:"middle_name,omitempty"`
	LastName          string    `json:"last_name"`
	Suffix            string    `json:"suffix,omitempty"`
	ContactNumber     string    `json:"contact_number"`
	Email             string    `json:"email,omitempty"`
	Barangay          string    `json:"barangay"`
	IdType            string    `json:"id_type"`
	IdNumber          string    `json:"id_number"`
	IdFrontUrl        string    `json:"id_front_url"`
	IdBackUrl         string    `json:"id_back_url"`
	Service           string    `json:"service"`
	AppointeeRelation string    `json:"appointee_relation"`
	Date              string    `json:"date,omitempty"`
	Time              string    `json:"time,omitempty"`
	Status            string    `json:"status"`
	Notes             string    `json:"notes,omitempty"`
	DeclineReason     string    `json:"decline_reason,omitempty"`
	Archived          bool      `json:"archived"`
	CreatedAt         Timestamp `json:"created_at"`
	UpdatedAt         Timestamp `json:"updated_at"`
}

type CreateAppointmentRequest struct {
	CitizenId         string `json:"citizen_id"`
	Category          string `json:"category"`
	AppointeeRelation string `json:"appointee_relation"`
	Service           string `json:"service"`
	Date              string `json:"date"`
	Time              string `json:"time"`
	FirstName         string `json:"first_name"`
	MiddleName        string `json:"middle_name"`
	LastName          string `json:"last_name"`
	Suffix            string `json:"suffix"`
	ContactNumber     string `json:"contact_number"`
	Email             string `json:"email"`
	Barangay          string `json:"barangay"`
	IdType            string `json:"id_type"`
	IdNumber          string `json:"id_number"`
	IdFrontUrl        string `json:"id_front_url"`
	IdBackUrl         string `json:"id_back_url"`
}

type AppointmentResponse struct {
	Appointment *Appointment `json:"appointment"`
}

type GetAppointmentRequest struct {
	AppointmentId string `json:"appointment_id"`
}

type ListAppointmentsRequest struct {
	CitizenId string `json:"citizen_id"`
}

type ListAppointmentsResponse struct {
	Appointments []*Appointment `json:"appointments"`
}

// NoteRequest carries the appointment and the staff note for approve and
// cancel.
type NoteRequest struct {
	AppointmentId string `json:"appointment_id"`
	Note          string `json:"note"`
}

type DeclineAppointmentRequest struct {
	AppointmentId string `json:"appointment_id"`
	Reason        string `json:"reason"`
}

type ScheduleAppointmentRequest struct {
	AppointmentId string `json:"appointment_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Note          string `json:"note"`
}

type MarkSameDayOutcomeRequest struct {
	AppointmentId string `json:"appointment_id"`
	Outcome       string `json:"outcome"`
	NewDate       string `json:"new_date,omitempty"`
	NewTime       string `json:"new_time,omitempty"`
	Note          string `json:"note,omitempty"`
}

type SetArchivedRequest struct {
	AppointmentId string `json:"appointment_id"`
	Archived      bool   `json:"archived"`
}

type Day struct {
	Date        string `json:"date"`
	Count       int32  `json:"count"`
	Cap         int32  `json:"cap"`
	FullyBooked bool   `json:"fully_booked"`
	Past        bool   `json:"past"`
	InMonth     bool   `json:"in_month"`
	Available   bool   `json:"available"`
}

type DayAvailabilityRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type DayAvailabilityResponse struct {
	Year     int32    `json:"year"`
	Month    int32    `json:"month"`
	Days     []*Day   `json:"days"`
	Degraded []string `json:"degraded,omitempty"`
}

type MonthGridRequest struct {
	Year  int32 `json:"year"`
	Month int32 `json:"month"`
}

type Slot struct {
	Date       string `json:"date"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Capacity   int32  `json:"capacity"`
	Booked     int32  `json:"booked"`
	Remaining  int32  `json:"remaining"`
	Selectable bool   `json:"selectable"`
}

type SlotAvailabilityRequest struct {
	Date string `json:"date"`
}

type SlotAvailabilityResponse struct {
	Slots []*Slot `json:"slots"`
}

func (x *GetAppointmentRequest) GetAppointmentId() string {
	if x != nil {
		return x.AppointmentId
	}
	return ""
}

func (x *NoteRequest) GetAppointmentId() string {
	if x != nil {
		return x.AppointmentId
	}
	return ""
}

func (x *DeclineAppointmentRequest) GetAppointmentId() string {
	if x != nil {
		return x.AppointmentId
	}
	return ""
}

func (x *ScheduleAppointmentRequest) GetAppointmentId() string {
	if x != nil {
		return x.AppointmentId
	}
	return ""
}

func (x *MarkSameDayOutcomeRequest) GetAppointmentId() string {
	if x != nil {
		return x.AppointmentId
	}
	return ""
}

func (x *SetArchivedRequest) GetAppointmentId() string {
	if x != nil {
		return x.AppointmentId
	}
	return ""
}

func (x *SlotAvailabilityRequest) GetDate() string {
	if x != nil {
		return x.Date
	}
	return ""
}
