// Package period holds calendar-month arithmetic shared by the timesheet engine.
// All values are calendar dates: times are normalised to midnight in the configured location.
package period

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

type Month struct {
	Year  int
	Month time.Month
}

func NewMonth(year, month int) (Month, error) {
	if month < 1 || month > 12 {
		return Month{}, fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	if year < 1900 || year > 9999 {
		return Month{}, fmt.Errorf("year out of range: %d", year)
	}
	return Month{Year: year, Month: time.Month(month)}, nil
}

func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// FirstDay is also the report_date anchor of a monthly record.
func (m Month) FirstDay(loc *time.Location) time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, loc)
}

func (m Month) LastDay(loc *time.Location) time.Time {
	return m.FirstDay(loc).AddDate(0, 1, -1)
}

func (m Month) DaysIn() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Days returns every calendar date of the month in order.
func (m Month) Days(loc *time.Location) []time.Time {
	first := m.FirstDay(loc)
	days := make([]time.Time, 0, m.DaysIn())
	for d := first; d.Month() == m.Month; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (m Month) Prev() Month {
	if m.Month == time.January {
		return Month{Year: m.Year - 1, Month: time.December}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// IsFuture reports whether the month starts after the month containing today.
func (m Month) IsFuture(today time.Time) bool {
	return MonthOf(today).Before(m)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// DateOf truncates t to its calendar date in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func ParseDate(v string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, v, loc)
}
