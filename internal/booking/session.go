// Package booking implements the conversational booking flow: the
// per-chat session, the step transition table, step rendering, and
// final persistence of a confirmed appointment.
package booking

import "time"

// Step is the current position in the booking form.
type Step int

const (
	StepName Step = iota
	StepPhone
	StepServices
	StepDate
	StepTime
	StepConfirm
)

func (s Step) String() string {
	switch s {
	case StepName:
		return "NAME"
	case StepPhone:
		return "PHONE"
	case StepServices:
		return "SERVICES"
	case StepDate:
		return "DATE_SELECT"
	case StepTime:
		return "TIME_SELECT"
	case StepConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

// Session is the mutable per-chat form state. It lives from the first
// step prompt until confirm or cancel. Fields for steps not yet reached
// stay zero.
type Session struct {
	ChatID    int64     `json:"chat_id"`
	Step      Step      `json:"step"`
	Name      string    `json:"name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Services  []int     `json:"services,omitempty"` // catalog indices, selection order
	Date      string    `json:"date,omitempty"`     // YYYY-MM-DD
	Time      string    `json:"time,omitempty"`     // HH:MM
	StartedAt time.Time `json:"started_at"`
}

// NewSession opens a fresh session at the name step.
func NewSession(chatID int64, now time.Time) *Session {
	return &Session{ChatID: chatID, Step: StepName, StartedAt: now.UTC()}
}

// ToggleService flips membership of a catalog index, preserving
// insertion order for the remaining selections.
func (s *Session) ToggleService(idx int) {
	for i, sel := range s.Services {
		if sel == idx {
			s.Services = append(s.Services[:i], s.Services[i+1:]...)
			return
		}
	}
	s.Services = append(s.Services, idx)
}

// HasService reports whether a catalog index is currently selected.
func (s *Session) HasService(idx int) bool {
	for _, sel := range s.Services {
		if sel == idx {
			return true
		}
	}
	return false
}
