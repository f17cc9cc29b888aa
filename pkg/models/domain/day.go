package domain

import (
	"fmt"
	"time"
)

const DayLayout = "2006-01-02"

// CalendarDay is a year-month-day key. Time of day and location are dropped.
type CalendarDay struct {
	Year  int
	Month time.Month
	Day   int
}

func DayOf(t time.Time) CalendarDay {
	t = t.UTC()
	return CalendarDay{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func ParseDay(s string) (CalendarDay, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return CalendarDay{}, fmt.Errorf("invalid calendar day %q, expected YYYY-MM-DD: %w", s, err)
	}
	return DayOf(t), nil
}

// Time returns midnight UTC of the day.
func (d CalendarDay) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d CalendarDay) AddDays(n int) CalendarDay {
	return DayOf(d.Time().AddDate(0, 0, n))
}

func (d CalendarDay) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}
