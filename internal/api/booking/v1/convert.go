package bookingv1

import (
	"google.golang.org/protobuf/types/known/timestamppb"

	"welfaredesk/backend/internal/domain"
)

func FromAppointment(a domain.Appointment) *Appointment {
	out := &Appointment{
		Id:                a.ID.String(),
		Category:          string(a.Category),
		CitizenId:         a.CitizenID,
		FirstName:         a.FirstName,
		MiddleName:        a.MiddleName,
		LastName:          a.LastName,
		Suffix:            a.Suffix,
		ContactNumber:     a.ContactNumber,
		Email:             a.Email,
		Barangay:          a.Barangay,
		IdType:            a.IDType,
		IdNumber:          a.IDNumber,
		IdFrontUrl:        a.IDFrontURL,
		IdBackUrl:         a.IDBackURL,
		Service:           a.Service,
		AppointeeRelation: string(a.AppointeeRelation),
		Status:            string(a.Status),
		Notes:             a.Notes,
		DeclineReason:     a.DeclineReason,
		Archived:          a.Archived,
	}
	if !a.CreatedAt.IsZero() {
		out.CreatedAt = Timestamp{timestamppb.New(a.CreatedAt)}
	}
	if !a.UpdatedAt.IsZero() {
		out.UpdatedAt = Timestamp{timestamppb.New(a.UpdatedAt)}
	}
	if a.Date != nil && !a.Date.IsZero() {
		out.Date = a.Date.String()
	}
	if a.Time != nil {
		if t, err := domain.NormalizeTime(*a.Time); err == nil {
			out.Time = t
		}
	}
	return out
}

func FromAppointments(in []domain.Appointment) []*Appointment {
	out := make([]*Appointment, 0, len(in))
	for _, a := range in {
		out = append(out, FromAppointment(a))
	}
	return out
}

func FromDay(d domain.Day) *Day {
	return &Day{
		Date:        d.Date.String(),
		Count:       int32(d.Count),
		Cap:         int32(d.Cap),
		FullyBooked: d.FullyBooked,
		Past:        d.Past,
		InMonth:     d.InMonth,
		Available:   d.Available,
	}
}

func FromSlots(in []domain.Slot) []*Slot {
	out := make([]*Slot, 0, len(in))
	for _, s := range in {
		out = append(out, &Slot{
			Date:       s.Date.String(),
			Start:      s.Start,
			End:        s.End,
			Capacity:   int32(s.Capacity),
			Booked:     int32(s.Booked),
			Remaining:  int32(s.Remaining),
			Selectable: s.Selectable,
		})
	}
	return out
}

func CategoryNames(cats []domain.Category) []string {
	if len(cats) == 0 {
		return nil
	}
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, string(c))
	}
	return out
}
