package store

import "errors"

var (
	ErrConflict          = errors.New("conflict")
	ErrNotFound          = errors.New("not found")
	ErrSlotFull          = errors.New("time slot is fully booked")
	ErrDayFull           = errors.New("date is fully booked")
	ErrActiveAppointment = errors.New("citizen already has an active appointment")
)
