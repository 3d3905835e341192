// Package schedule owns the salon calendar: which dates are bookable
// and which start times exist on a bookable day.
package schedule

import (
	"fmt"
	"time"
)

// Slots are the fixed daily appointment start times, in offer order.
var Slots = []string{"10:00", "14:00", "17:00"}

// DefaultWorkdayCount covers two weeks of workdays.
const DefaultWorkdayCount = 12

// dateISO is the wire format for dates in callbacks and store queries.
const dateISO = "2006-01-02"

// displayFormat is the human-facing date-time format used in summaries
// and staff notifications.
const displayFormat = "02.01.2006 15:04"

var dayAbbrev = map[time.Weekday]string{
	time.Monday:    "Пн",
	time.Tuesday:   "Вт",
	time.Wednesday: "Ср",
	time.Thursday:  "Чт",
	time.Friday:    "Пт",
	time.Saturday:  "Сб",
	time.Sunday:    "Вс",
}

// IsWorkday reports whether the salon takes appointments on the given
// weekday. Thursday and Sunday are closed.
func IsWorkday(d time.Weekday) bool {
	return d != time.Thursday && d != time.Sunday
}

// IsSlot reports whether s is one of the fixed start times.
func IsSlot(s string) bool {
	for _, slot := range Slots {
		if slot == s {
			return true
		}
	}
	return false
}

// NextWorkdays returns the next count workdays strictly after today,
// in increasing order. Pure function of its arguments.
func NextWorkdays(today time.Time, count int) []time.Time {
	if count <= 0 {
		count = DefaultWorkdayCount
	}
	days := make([]time.Time, 0, count)
	d := truncateToDay(today).AddDate(0, 0, 1)
	for len(days) < count {
		if IsWorkday(d.Weekday()) {
			days = append(days, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return days
}

// FormatDate renders a date in the callback/store wire format.
func FormatDate(d time.Time) string {
	return d.Format(dateISO)
}

// ParseDate parses a wire-format date into a UTC day value.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dateISO, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("schedule: parse date %q: %w", s, err)
	}
	return d, nil
}

// ButtonLabel renders a date the way it appears on a keyboard button,
// e.g. "Пн 02.03".
func ButtonLabel(d time.Time) string {
	return fmt.Sprintf("%s %s", dayAbbrev[d.Weekday()], d.Format("02.01"))
}

// Combine builds the UTC appointment datetime from a wire date and a slot.
func Combine(dateStr, slot string) (time.Time, error) {
	t, err := time.ParseInLocation(dateISO+"T15:04", dateStr+"T"+slot, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("schedule: combine %q %q: %w", dateStr, slot, err)
	}
	return t, nil
}

// FormatDisplay renders a datetime as "дд.мм.ГГГГ ЧЧ:ММ".
func FormatDisplay(t time.Time) string {
	return t.Format(displayFormat)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
