package booking

import (
	"regexp"
	"strconv"
)

// Event is one decoded inbound action. Callback payloads are pattern
// matched at the boundary; anything malformed never reaches the machine.
type Event interface {
	Kind() EventKind
}

// EventKind discriminates events in the transition table.
type EventKind int

const (
	KindText EventKind = iota
	KindToggle
	KindServicesDone
	KindDate
	KindTime
	KindConfirm
	KindBack
	KindCancel
)

// TextEvent carries free-form message text (name and phone steps).
type TextEvent struct{ Text string }

// ToggleEvent flips one service selection.
type ToggleEvent struct{ Index int }

// ServicesDoneEvent closes the service menu.
type ServicesDoneEvent struct{}

// DateEvent carries a picked date in YYYY-MM-DD form.
type DateEvent struct{ Date string }

// TimeEvent carries a picked slot in HH:MM form.
type TimeEvent struct{ Time string }

// ConfirmEvent finalizes the booking.
type ConfirmEvent struct{}

// BackEvent restarts the form from the name step.
type BackEvent struct{}

// CancelEvent discards the session.
type CancelEvent struct{}

func (TextEvent) Kind() EventKind         { return KindText }
func (ToggleEvent) Kind() EventKind       { return KindToggle }
func (ServicesDoneEvent) Kind() EventKind { return KindServicesDone }
func (DateEvent) Kind() EventKind         { return KindDate }
func (TimeEvent) Kind() EventKind         { return KindTime }
func (ConfirmEvent) Kind() EventKind      { return KindConfirm }
func (BackEvent) Kind() EventKind         { return KindBack }
func (CancelEvent) Kind() EventKind       { return KindCancel }

var (
	togglePattern = regexp.MustCompile(`^toggle_(\d+)$`)
	datePattern   = regexp.MustCompile(`^date_(\d{4}-\d{2}-\d{2})$`)
	timePattern   = regexp.MustCompile(`^time_(\d{2}:\d{2})$`)
)

// ParseCallback decodes a button payload into an event. ok is false
// for payloads that match no known pattern.
func ParseCallback(data string) (Event, bool) {
	switch data {
	case "services_done":
		return ServicesDoneEvent{}, true
	case "confirm":
		return ConfirmEvent{}, true
	case "back":
		return BackEvent{}, true
	case "cancel":
		return CancelEvent{}, true
	}
	if m := togglePattern.FindStringSubmatch(data); m != nil {
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, false
		}
		return ToggleEvent{Index: idx}, true
	}
	if m := datePattern.FindStringSubmatch(data); m != nil {
		return DateEvent{Date: m[1]}, true
	}
	if m := timePattern.FindStringSubmatch(data); m != nil {
		return TimeEvent{Time: m[1]}, true
	}
	return nil, false
}
