package booking

import (
	"fmt"

	"welfaredesk/backend/internal/domain"
	"welfaredesk/backend/internal/notify"
)

type message struct {
	kind  notify.Kind
	title string
	body  string
}

func submittedMessage(a domain.Appointment) *message {
	date, at := a.SlotLabel()
	return &message{
		kind:  notify.KindSubmitted,
		title: "Appointment Request Received",
		body:  fmt.Sprintf("Your %s request for %s at %s has been received and is waiting for review.", a.Service, date, at),
	}
}

func approvedMessage(a domain.Appointment) *message {
	return &message{
		kind:  notify.KindApproved,
		title: "Appointment Approved",
		body:  fmt.Sprintf("Your %s appointment has been approved. Note: %s", a.Service, a.Notes),
	}
}

func declinedMessage(a domain.Appointment) *message {
	return &message{
		kind:  notify.KindDeclined,
		title: "Appointment Declined",
		body:  fmt.Sprintf("Your %s appointment request was declined. Reason: %s", a.Service, a.DeclineReason),
	}
}

func rescheduledMessage(a domain.Appointment) *message {
	date, at := a.SlotLabel()
	return &message{
		kind:  notify.KindRescheduled,
		title: "Appointment Rescheduled",
		body:  fmt.Sprintf("Your %s appointment is now set for %s at %s. Note: %s", a.Service, date, at, a.Notes),
	}
}

func cancelledMessage(a domain.Appointment) *message {
	date, at := a.SlotLabel()
	return &message{
		kind:  notify.KindCancelled,
		title: "Appointment Cancelled",
		body:  fmt.Sprintf("Your %s appointment on %s at %s has been cancelled. Note: %s", a.Service, date, at, a.Notes),
	}
}

func outcomeMessage(a domain.Appointment, outcome Outcome) *message {
	date, at := a.SlotLabel()
	switch outcome {
	case OutcomeRescheduled:
		return &message{
			kind:  notify.KindSameDayReschedule,
			title: "Appointment Moved",
			body:  fmt.Sprintf("Your %s appointment today was moved to %s at %s. Note: %s", a.Service, date, at, a.Notes),
		}
	case OutcomeNoShow:
		return &message{
			kind:  notify.KindNoShow,
			title: "Missed Appointment",
			body:  fmt.Sprintf("You were marked as not showing up for your %s appointment on %s at %s. You may submit a new request.", a.Service, date, at),
		}
	default:
		return &message{
			kind:  notify.KindCompleted,
			title: "Appointment Completed",
			body:  fmt.Sprintf("Your %s appointment on %s has been completed. Thank you for visiting.", a.Service, date),
		}
	}
}
