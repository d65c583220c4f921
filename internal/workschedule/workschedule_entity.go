package workschedule

import (
	"strings"
	"time"

	workscheduleerrors "go-timesheet/internal/workschedule/errors"

	"github.com/google/uuid"
)

type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

var weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func WeekdayOf(t time.Time) Weekday {
	// time.Weekday starts at Sunday = 0.
	return weekdays[(int(t.Weekday())+6)%7]
}

func ParseWeekday(v string) (Weekday, error) {
	w := Weekday(strings.ToUpper(strings.TrimSpace(v)))
	if w.Index() < 0 {
		return "", workscheduleerrors.ErrInvalidWeekday
	}
	return w, nil
}

// Index is the Monday-first position of the weekday, -1 when unknown.
func (w Weekday) Index() int {
	for i, d := range weekdays {
		if d == w {
			return i
		}
	}
	return -1
}

// RequiresFullDay is true Monday to Friday: a schedule on those days is all-or-nothing.
func (w Weekday) RequiresFullDay() bool {
	i := w.Index()
	return i >= 0 && i <= 4
}

type WorkSchedule struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Weekday            Weekday   `gorm:"column:weekday;type:varchar(10);not null;uniqueIndex:uq_work_schedule_weekday" json:"weekday"`
	MorningStart       *string   `gorm:"column:morning_start;type:varchar(5)" json:"morning_start"`
	MorningEnd         *string   `gorm:"column:morning_end;type:varchar(5)" json:"morning_end"`
	NoonStart          *string   `gorm:"column:noon_start;type:varchar(5)" json:"noon_start"`
	NoonEnd            *string   `gorm:"column:noon_end;type:varchar(5)" json:"noon_end"`
	AfternoonStart     *string   `gorm:"column:afternoon_start;type:varchar(5)" json:"afternoon_start"`
	AfternoonEnd       *string   `gorm:"column:afternoon_end;type:varchar(5)" json:"afternoon_end"`
	AllowedLateMinutes *int      `gorm:"column:allowed_late_minutes" json:"allowed_late_minutes"`
	Note               string    `gorm:"column:note;type:text" json:"note"`
	CreatedAt          time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (WorkSchedule) TableName() string {
	return "work_schedules"
}

// Window is a time span of the day expressed as offsets from midnight.
type Window struct {
	Start time.Duration
	End   time.Duration
}

func (w Window) On(date time.Time) (time.Time, time.Time) {
	return date.Add(w.Start), date.Add(w.End)
}

func (s WorkSchedule) timeFields() []*string {
	return []*string{s.MorningStart, s.MorningEnd, s.NoonStart, s.NoonEnd, s.AfternoonStart, s.AfternoonEnd}
}

// Validate checks the field completeness and ordering rules of a weekday schedule.
func (s WorkSchedule) Validate() error {
	if s.Weekday.Index() < 0 {
		return workscheduleerrors.ErrInvalidWeekday
	}
	if s.AllowedLateMinutes != nil && *s.AllowedLateMinutes < 0 {
		return workscheduleerrors.ErrInvalidAllowedLate
	}

	fields := s.timeFields()
	set := 0
	for _, f := range fields {
		if f != nil {
			set++
		}
	}
	if s.Weekday.RequiresFullDay() && set > 0 && set < len(fields) {
		return workscheduleerrors.ErrIncompleteSchedule
	}

	for i := 0; i < len(fields); i += 2 {
		if (fields[i] == nil) != (fields[i+1] == nil) {
			return workscheduleerrors.ErrUnpairedWindow
		}
	}

	prev := time.Duration(-1)
	for _, f := range fields {
		if f == nil {
			continue
		}
		d, err := ParseClock(*f)
		if err != nil {
			return err
		}
		if d < prev {
			return workscheduleerrors.ErrNonMonotonicTimes
		}
		prev = d
	}
	return nil
}

func (s WorkSchedule) Morning() *Window {
	return window(s.MorningStart, s.MorningEnd)
}

func (s WorkSchedule) Afternoon() *Window {
	return window(s.AfternoonStart, s.AfternoonEnd)
}

// Sessions returns the worked windows of the day; the noon window is the break between them.
func (s WorkSchedule) Sessions() []Window {
	var out []Window
	if m := s.Morning(); m != nil {
		out = append(out, *m)
	}
	if a := s.Afternoon(); a != nil {
		out = append(out, *a)
	}
	return out
}

func (s WorkSchedule) IsWorkingDay() bool {
	return len(s.Sessions()) > 0
}

func (s WorkSchedule) AllowedLate() time.Duration {
	if s.AllowedLateMinutes == nil {
		return 0
	}
	return time.Duration(*s.AllowedLateMinutes) * time.Minute
}

func window(start, end *string) *Window {
	if start == nil || end == nil {
		return nil
	}
	st, err := ParseClock(*start)
	if err != nil {
		return nil
	}
	en, err := ParseClock(*end)
	if err != nil {
		return nil
	}
	return &Window{Start: st, End: en}
}

// ParseClock parses "HH:MM" into an offset from midnight.
func ParseClock(v string) (time.Duration, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, workscheduleerrors.ErrInvalidTimeFormat
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
