package domain

import (
	"fmt"
	"strings"
	"time"
)

const clockLayout = "15:04"

var timeLayouts = []string{
	"15:04:05.999999999",
	"15:04:05",
	"15:04",
}

// NormalizeTime reduces a stored slot time ("09:00:00", "09:00:00.000000",
// "9:00") to the HH:MM form used by the hourly windows.
func NormalizeTime(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexAny(s, "+Z"); i > 0 {
		s = s[:i]
	}
	if len(s) >= 4 && s[1] == ':' {
		s = "0" + s
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(clockLayout), nil
		}
	}
	return "", fmt.Errorf("invalid time %q", raw)
}

type Window struct {
	Start string
	End   string
}

// HourlyWindows returns the windows from firstHour:00 up to lastEndHour:00.
func HourlyWindows(firstHour, lastEndHour int) []Window {
	if firstHour < 0 || lastEndHour > 24 || lastEndHour <= firstHour {
		return nil
	}
	out := make([]Window, 0, lastEndHour-firstHour)
	for h := firstHour; h < lastEndHour; h++ {
		out = append(out, Window{
			Start: fmt.Sprintf("%02d:00", h),
			End:   fmt.Sprintf("%02d:00", h+1),
		})
	}
	return out
}

// Slot is a derived view of one window on one date; it is never stored.
type Slot struct {
	Date       Date   `json:"date"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Capacity   int    `json:"capacity"`
	Booked     int    `json:"booked"`
	Remaining  int    `json:"remaining"`
	Selectable bool   `json:"selectable"`
}

// Day is a derived per-date view compared against the daily cap.
type Day struct {
	Date        Date `json:"date"`
	Count       int  `json:"count"`
	Cap         int  `json:"cap"`
	FullyBooked bool `json:"fully_booked"`
	Past        bool `json:"past"`
	InMonth     bool `json:"in_month"`
	Available   bool `json:"available"`
}
