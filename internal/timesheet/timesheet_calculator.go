package timesheet

import (
	"time"

	timesheeterrors "go-timesheet/internal/timesheet/errors"
	"go-timesheet/internal/workschedule"

	"github.com/shopspring/decimal"
)

type Mode int

const (
	// ModePreview is used while the date is today: the day is still open.
	ModePreview Mode = iota
	// ModeFinalize is authoritative and applies to past dates, or to today when forced.
	ModeFinalize
)

func (m Mode) String() string {
	if m == ModeFinalize {
		return "finalize"
	}
	return "preview"
}

var (
	halfDay = decimal.RequireFromString("0.50")
	noDays  = decimal.RequireFromString("0.00")
)

// Calculator derives status, hours and working days of an entry from its punches
// and the schedule of its weekday. It holds no state besides the business time zone.
type Calculator struct {
	loc *time.Location
}

func NewCalculator(loc *time.Location) Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return Calculator{loc: loc}
}

func (c Calculator) Location() *time.Location {
	return c.loc
}

// DateOf normalises t to midnight of its calendar date in the business time zone.
func (c Calculator) DateOf(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

// day rebuilds a stored calendar date in the business time zone.
// Dates read back from a DATE column come out at UTC midnight.
func (c Calculator) day(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, c.loc)
}

// ModeFor picks finalize for dates strictly before today and preview otherwise.
func (c Calculator) ModeFor(date, now time.Time) Mode {
	if c.day(date).Before(c.DateOf(now)) {
		return ModeFinalize
	}
	return ModePreview
}

// Calculate rewrites the computed fields of e. schedule may be nil, meaning the
// weekday has no working hours. Overtime is an input and is left untouched.
func (c Calculator) Calculate(e *Entry, schedule *workschedule.WorkSchedule, mode Mode, now time.Time) error {
	day := c.day(e.EntryDate)
	if day.After(c.DateOf(now)) {
		return timesheeterrors.ErrFutureDate
	}
	if e.CheckInAt != nil && e.CheckOutAt != nil && e.CheckOutAt.Before(*e.CheckInAt) {
		return timesheeterrors.ErrCheckOutBeforeCheckIn
	}
	if e.IsFinalized {
		mode = ModeFinalize
	}

	e.MorningHours = decimal.Zero
	e.AfternoonHours = decimal.Zero
	e.Status = StatusUnset
	e.WorkingDays = decimal.NullDecimal{}
	e.IsFinalized = mode == ModeFinalize

	var sessions []workschedule.Window
	if schedule != nil {
		sessions = schedule.Sessions()
	}

	// Days without working hours keep an unset status but are never left ambiguous once closed.
	if len(sessions) == 0 {
		if mode == ModeFinalize {
			e.WorkingDays = decimal.NewNullDecimal(noDays)
		}
		return nil
	}

	switch {
	case !e.HasCheckIn() && !e.HasCheckOut():
		if mode == ModeFinalize {
			e.Status = StatusAbsent
			e.WorkingDays = decimal.NewNullDecimal(noDays)
		}

	case e.HasCheckIn() != e.HasCheckOut():
		// Lateness is not assessed on an open day, so a lone punch never alarms mid-day.
		if mode == ModeFinalize {
			e.Status = StatusSinglePunch
			e.WorkingDays = decimal.NewNullDecimal(halfDay)
		} else {
			e.Status = StatusOnTime
		}

	default:
		c.applyWorkedTime(e, day, schedule, sessions, mode)
	}
	return nil
}

func (c Calculator) applyWorkedTime(e *Entry, day time.Time, schedule *workschedule.WorkSchedule, sessions []workschedule.Window, mode Mode) {
	in, out := e.CheckInAt.In(c.loc), e.CheckOutAt.In(c.loc)

	if m := schedule.Morning(); m != nil {
		e.MorningHours = hours(overlap(in, out, day, *m))
	}
	if a := schedule.Afternoon(); a != nil {
		e.AfternoonHours = hours(overlap(in, out, day, *a))
	}

	firstStart, _ := sessions[0].On(day)
	_, lastEnd := sessions[len(sessions)-1].On(day)
	late := in.After(firstStart.Add(schedule.AllowedLate()))
	early := out.Before(lastEnd)

	switch {
	case late && early:
		e.Status = StatusLateAndEarlyLeave
	case late:
		e.Status = StatusLate
	case early:
		e.Status = StatusEarlyLeave
	default:
		e.Status = StatusOnTime
	}

	if mode != ModeFinalize {
		return
	}
	worked := decimal.Zero
	for _, s := range sessions {
		if overlap(in, out, day, s) > 0 {
			worked = worked.Add(halfDay)
		}
	}
	e.WorkingDays = decimal.NewNullDecimal(worked.Round(2))
}

// overlap is the length of [in, out] inside the session window on day.
func overlap(in, out, day time.Time, w workschedule.Window) time.Duration {
	start, end := w.On(day)
	if in.After(start) {
		start = in
	}
	if out.Before(end) {
		end = out
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}

// hours converts whole minutes to hours rounded to two decimals.
func hours(d time.Duration) decimal.Decimal {
	minutes := decimal.NewFromInt(int64(d / time.Minute))
	return minutes.Div(decimal.NewFromInt(60)).Round(2)
}
