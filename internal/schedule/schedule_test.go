package schedule

import (
	"testing"
	"time"
)

func TestNextWorkdaysSkipsThursdayAndSunday(t *testing.T) {
	// A Monday.
	today := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)
	days := NextWorkdays(today, 12)

	if len(days) != 12 {
		t.Fatalf("expected 12 days, got %d", len(days))
	}
	for _, d := range days {
		if d.Weekday() == time.Thursday || d.Weekday() == time.Sunday {
			t.Errorf("got closed weekday %s (%s)", d.Weekday(), FormatDate(d))
		}
		if !d.After(today.Truncate(24 * time.Hour)) {
			t.Errorf("got date not after today: %s", FormatDate(d))
		}
	}
}

func TestNextWorkdaysStrictlyIncreasing(t *testing.T) {
	today := time.Date(2026, time.March, 4, 23, 59, 0, 0, time.UTC)
	days := NextWorkdays(today, 20)
	for i := 1; i < len(days); i++ {
		if !days[i].After(days[i-1]) {
			t.Fatalf("dates not strictly increasing at %d: %s then %s",
				i, FormatDate(days[i-1]), FormatDate(days[i]))
		}
	}
}

func TestNextWorkdaysStartsTomorrow(t *testing.T) {
	// A Saturday evening; tomorrow is Sunday (closed), so the first
	// offered day must be Monday.
	today := time.Date(2026, time.March, 7, 20, 0, 0, 0, time.UTC)
	days := NextWorkdays(today, 3)
	if days[0].Weekday() != time.Monday {
		t.Errorf("expected Monday first, got %s", days[0].Weekday())
	}
	if got := FormatDate(days[0]); got != "2026-03-09" {
		t.Errorf("expected 2026-03-09 first, got %s", got)
	}
}

func TestNextWorkdaysDeterministic(t *testing.T) {
	today := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	a := NextWorkdays(today, 12)
	b := NextWorkdays(today, 12)
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("generator not deterministic at %d", i)
		}
	}
}

func TestIsSlot(t *testing.T) {
	for _, s := range []string{"10:00", "14:00", "17:00"} {
		if !IsSlot(s) {
			t.Errorf("expected %s to be a slot", s)
		}
	}
	for _, s := range []string{"11:00", "10:30", "", "17:01"} {
		if IsSlot(s) {
			t.Errorf("did not expect %s to be a slot", s)
		}
	}
}

func TestCombine(t *testing.T) {
	got, err := Combine("2026-03-09", "10:00")
	if err != nil {
		t.Fatalf("Combine returned error: %v", err)
	}
	want := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Combine = %s, want %s", got, want)
	}

	if _, err := Combine("09.03.2026", "10:00"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestButtonLabel(t *testing.T) {
	d := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC) // Monday
	if got := ButtonLabel(d); got != "Пн 09.03" {
		t.Errorf("ButtonLabel = %q, want %q", got, "Пн 09.03")
	}
}

func TestFormatDisplay(t *testing.T) {
	ts := time.Date(2026, time.March, 9, 14, 0, 0, 0, time.UTC)
	if got := FormatDisplay(ts); got != "09.03.2026 14:00" {
		t.Errorf("FormatDisplay = %q", got)
	}
}

func TestParseDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2026-12-31")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if FormatDate(d) != "2026-12-31" {
		t.Errorf("round trip mismatch: %s", FormatDate(d))
	}
}
