// Package availability derives per-day and per-slot remaining capacity from
// live appointment counts. Nothing here is cached: every call reads the store.
package availability

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"welfaredesk/backend/internal/domain"
	"welfaredesk/backend/internal/service/svcerr"
	"welfaredesk/backend/internal/store"
)

// MaxRangeDays bounds a single day-availability query.
const MaxRangeDays = 62

type Counter interface {
	CountByDay(ctx context.Context, category domain.Category, from, to domain.Date) ([]store.DayCount, error)
	CountBySlot(ctx context.Context, date domain.Date) ([]store.TimeCount, error)
}

type Policy struct {
	DailyCap      int
	SlotCapacity  int
	FirstWindow   int
	LastWindowEnd int
}

func DefaultPolicy() Policy {
	return Policy{
		DailyCap:      25,
		SlotCapacity:  3,
		FirstWindow:   8,
		LastWindowEnd: 17,
	}
}

func (p Policy) Windows() []domain.Window {
	return domain.HourlyWindows(p.FirstWindow, p.LastWindowEnd)
}

type Calculator struct {
	counts  Counter
	policy  Policy
	windows []domain.Window
	loc     *time.Location
	now     func() time.Time
	log     *slog.Logger
}

type Option func(*Calculator)

// WithClock replaces time.Now; tests pin "today" with it.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) { c.now = now }
}

// WithLocation sets the office time zone that decides which date is today.
func WithLocation(loc *time.Location) Option {
	return func(c *Calculator) {
		if loc != nil {
			c.loc = loc
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Calculator) {
		if log != nil {
			c.log = log
		}
	}
}

func NewCalculator(counts Counter, policy Policy, opts ...Option) *Calculator {
	c := &Calculator{
		counts:  counts,
		policy:  policy,
		windows: policy.Windows(),
		loc:     time.UTC,
		now:     time.Now,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Calculator) Policy() Policy {
	return c.policy
}

// Today is the current date in the office time zone.
func (c *Calculator) Today() domain.Date {
	return domain.DateOf(c.now(), c.loc)
}

// ValidWindow reports whether at (in any stored form) starts one of the
// hourly windows.
func (c *Calculator) ValidWindow(at string) (string, bool) {
	norm, err := domain.NormalizeTime(at)
	if err != nil {
		return "", false
	}
	for _, w := range c.windows {
		if w.Start == norm {
			return norm, true
		}
	}
	return "", false
}

type DayReport struct {
	Year     int
	Month    time.Month
	Days     map[domain.Date]domain.Day
	Degraded []domain.Category
}

type MonthGrid struct {
	Year     int
	Month    time.Month
	Cells    []domain.Day
	Degraded []domain.Category
}

// GetDayAvailability reports every date in [start, end]. The displayed month
// is the month of start.
func (c *Calculator) GetDayAvailability(ctx context.Context, start, end domain.Date) (DayReport, error) {
	if start.IsZero() || end.IsZero() {
		return DayReport{}, svcerr.Validation("date", "start and end dates are required")
	}
	if end.Before(start) {
		return DayReport{}, svcerr.Validation("date", "end date must not be before start date")
	}
	if start.DaysUntil(end)+1 > MaxRangeDays {
		return DayReport{}, svcerr.Validation("date", "date range is too long")
	}
	return c.days(ctx, start, end, start.Year(), start.Month())
}

// GetMonthGrid returns the 42 calendar cells shown for a month, starting on
// the Sunday on or before the 1st.
func (c *Calculator) GetMonthGrid(ctx context.Context, year int, month time.Month) (MonthGrid, error) {
	if month < time.January || month > time.December {
		return MonthGrid{}, svcerr.Validation("month", "invalid month")
	}
	first := domain.NewDate(year, month, 1)
	gridStart := first.AddDays(-int(first.Time().Weekday()))
	gridEnd := gridStart.AddDays(41)

	report, err := c.days(ctx, gridStart, gridEnd, year, month)
	if err != nil {
		return MonthGrid{}, err
	}

	cells := make([]domain.Day, 0, 42)
	for d := gridStart; !d.After(gridEnd); d = d.AddDays(1) {
		cells = append(cells, report.Days[d])
	}
	return MonthGrid{Year: year, Month: month, Cells: cells, Degraded: report.Degraded}, nil
}

func (c *Calculator) days(ctx context.Context, start, end domain.Date, year int, month time.Month) (DayReport, error) {
	perCategory := make([][]store.DayCount, len(domain.Categories))
	failures := make([]error, len(domain.Categories))

	var g errgroup.Group
	for i, cat := range domain.Categories {
		g.Go(func() error {
			rows, err := c.counts.CountByDay(ctx, cat, start, end)
			if err != nil {
				failures[i] = err
				return nil
			}
			perCategory[i] = rows
			return nil
		})
	}
	_ = g.Wait()

	report := DayReport{Year: year, Month: month, Days: make(map[domain.Date]domain.Day)}
	counts := make(map[domain.Date]int)
	var errs []error
	for i, cat := range domain.Categories {
		if failures[i] != nil {
			errs = append(errs, failures[i])
			report.Degraded = append(report.Degraded, cat)
			c.log.Warn(
				"day availability degraded",
				slog.String("category", string(cat)),
				slog.Any("err", failures[i]),
			)
			continue
		}
		for _, row := range perCategory[i] {
			counts[row.Date] += row.Count
		}
	}
	if len(errs) == len(domain.Categories) {
		return DayReport{}, svcerr.Persistence("count appointments by day", errors.Join(errs...))
	}

	today := c.Today()
	for d := start; !d.After(end); d = d.AddDays(1) {
		report.Days[d] = c.day(d, counts[d], today, year, month)
	}
	return report, nil
}

func (c *Calculator) day(d domain.Date, count int, today domain.Date, year int, month time.Month) domain.Day {
	day := domain.Day{
		Date:        d,
		Count:       count,
		Cap:         c.policy.DailyCap,
		FullyBooked: count >= c.policy.DailyCap,
		Past:        d.Before(today),
		InMonth:     d.Year() == year && d.Month() == month,
	}
	day.Available = !day.Past && day.InMonth && !day.FullyBooked
	return day
}

// GetSlotAvailability reports each hourly window on date. Declined
// appointments free their seat; archived ones still hold it.
func (c *Calculator) GetSlotAvailability(ctx context.Context, date domain.Date) ([]domain.Slot, error) {
	if date.IsZero() {
		return nil, svcerr.Validation("date", "date is required")
	}

	rows, err := c.counts.CountBySlot(ctx, date)
	if err != nil {
		return nil, svcerr.Persistence("count appointments by slot", err)
	}

	booked := make(map[string]int, len(c.windows))
	for _, row := range rows {
		start, ok := c.ValidWindow(row.Time)
		if !ok {
			c.log.Debug(
				"ignoring appointment outside the slot windows",
				slog.String("date", date.String()),
				slog.String("time", row.Time),
			)
			continue
		}
		booked[start] += row.Count
	}

	past := date.Before(c.Today())
	slots := make([]domain.Slot, 0, len(c.windows))
	for _, w := range c.windows {
		n := booked[w.Start]
		remaining := max(0, c.policy.SlotCapacity-n)
		slots = append(slots, domain.Slot{
			Date:       date,
			Start:      w.Start,
			End:        w.End,
			Capacity:   c.policy.SlotCapacity,
			Booked:     n,
			Remaining:  remaining,
			Selectable: remaining > 0 && !past,
		})
	}
	return slots, nil
}
