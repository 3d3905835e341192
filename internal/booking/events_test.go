package booking

import "testing"

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data string
		want Event
	}{
		{"toggle_0", ToggleEvent{Index: 0}},
		{"toggle_23", ToggleEvent{Index: 23}},
		{"services_done", ServicesDoneEvent{}},
		{"date_2026-03-09", DateEvent{Date: "2026-03-09"}},
		{"time_10:00", TimeEvent{Time: "10:00"}},
		{"confirm", ConfirmEvent{}},
		{"back", BackEvent{}},
		{"cancel", CancelEvent{}},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			got, ok := ParseCallback(tt.data)
			if !ok {
				t.Fatalf("ParseCallback(%q) not ok", tt.data)
			}
			if got != tt.want {
				t.Errorf("ParseCallback(%q) = %#v, want %#v", tt.data, got, tt.want)
			}
		})
	}
}

func TestParseCallbackRejectsMalformed(t *testing.T) {
	malformed := []string{
		"",
		"toggle_",
		"toggle_x",
		"toggle_1_2",
		"date_09.03.2026",
		"date_2026-3-9",
		"time_9:00",
		"time_10:00:00",
		"confirm ",
		"CONFIRM",
		"drop tables",
	}
	for _, data := range malformed {
		if ev, ok := ParseCallback(data); ok {
			t.Errorf("ParseCallback(%q) accepted as %#v", data, ev)
		}
	}
}
