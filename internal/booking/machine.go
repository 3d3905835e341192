package booking

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/podolab/salon-bot/internal/availability"
	"github.com/podolab/salon-bot/internal/catalog"
	"github.com/podolab/salon-bot/internal/schedule"
	"github.com/podolab/salon-bot/internal/storage"
	"github.com/podolab/salon-bot/pkg/logging"
)

var phonePattern = regexp.MustCompile(`^\d{11}$`)

// Notifier tells the staff channel about a new appointment.
type Notifier interface {
	NotifyNewBooking(ctx context.Context, rec storage.Record) error
}

// Result is the outcome of one handled event.
type Result struct {
	Prompt *Prompt
	// Ended marks a terminal transition: the session is gone.
	Ended bool
}

// Machine drives the booking form. One Handle call per inbound action;
// the transport serializes calls per chat.
type Machine struct {
	sessions     SessionStore
	avail        *availability.Service
	store        storage.Store
	notifier     Notifier
	workdayCount int
	metrics      *Metrics
	logger       *logging.Logger
	now          func() time.Time
}

// MachineOption configures a Machine.
type MachineOption func(*Machine)

// WithWorkdayCount sets how many dates the date menu offers.
func WithWorkdayCount(n int) MachineOption {
	return func(m *Machine) {
		if n > 0 {
			m.workdayCount = n
		}
	}
}

// WithMetrics attaches booking metrics.
func WithMetrics(metrics *Metrics) MachineOption {
	return func(m *Machine) {
		m.metrics = metrics
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) MachineOption {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithClock injects the time source. Tests pin "today" with it.
func WithClock(now func() time.Time) MachineOption {
	return func(m *Machine) {
		m.now = now
	}
}

// NewMachine wires the booking flow together.
func NewMachine(sessions SessionStore, avail *availability.Service, store storage.Store, notifier Notifier, opts ...MachineOption) *Machine {
	if sessions == nil {
		panic("booking: session store required")
	}
	if avail == nil {
		panic("booking: availability service required")
	}
	if store == nil {
		panic("booking: appointment store required")
	}
	m := &Machine{
		sessions:     sessions,
		avail:        avail,
		store:        store,
		notifier:     notifier,
		workdayCount: schedule.DefaultWorkdayCount,
		logger:       logging.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type handlerFunc func(ctx context.Context, m *Machine, sess *Session, ev Event) (*Result, error)

// transitions is the complete transition table. A missing (step, event)
// pair means the action is ignored with no state change. Back and
// cancel are handled before the table because they apply to every step.
var transitions = map[Step]map[EventKind]handlerFunc{
	StepName:     {KindText: handleName},
	StepPhone:    {KindText: handlePhone},
	StepServices: {KindToggle: handleToggle, KindServicesDone: handleServicesDone},
	StepDate:     {KindDate: handleDate},
	StepTime:     {KindTime: handleTime},
	StepConfirm:  {KindConfirm: handleConfirm},
}

// Start opens a fresh session and prompts for the name. An existing
// session is discarded, matching the re-entry behavior of the menu.
func (m *Machine) Start(ctx context.Context, chatID int64) (*Result, error) {
	sess := NewSession(chatID, m.now())
	if err := m.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	m.metrics.ObserveStep(StepName)
	m.logger.Info("booking: session started", "chat_id", chatID)
	return &Result{Prompt: promptName(false)}, nil
}

// Active reports whether a chat has a booking in progress.
func (m *Machine) Active(ctx context.Context, chatID int64) (bool, error) {
	sess, err := m.sessions.Get(ctx, chatID)
	if err != nil {
		return false, err
	}
	return sess != nil, nil
}

// Handle routes one event through the transition table. A nil Result
// means the event was not a legal move for the current step and was
// ignored. With no active session Handle is a no-op.
func (m *Machine) Handle(ctx context.Context, chatID int64, ev Event) (*Result, error) {
	sess, err := m.sessions.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}

	switch ev.Kind() {
	case KindCancel:
		return m.cancel(ctx, sess)
	case KindBack:
		return m.restart(ctx, sess)
	}

	h, ok := transitions[sess.Step][ev.Kind()]
	if !ok {
		m.logger.Debug("booking: ignoring event",
			"chat_id", chatID, "step", sess.Step.String(), "event", ev.Kind())
		return nil, nil
	}
	return h(ctx, m, sess, ev)
}

// cancel discards the session from any step.
func (m *Machine) cancel(ctx context.Context, sess *Session) (*Result, error) {
	if err := m.sessions.Delete(ctx, sess.ChatID); err != nil {
		return nil, err
	}
	m.metrics.ObserveCanceled()
	m.logger.Info("booking: session canceled",
		"chat_id", sess.ChatID, "step", sess.Step.String())
	return &Result{Prompt: promptCanceled(), Ended: true}, nil
}

// restart implements "back": the form restarts from the name step
// instead of unwinding one step. Kept in one function so a real
// step-history stack could replace it without touching the handlers.
func (m *Machine) restart(ctx context.Context, sess *Session) (*Result, error) {
	fresh := NewSession(sess.ChatID, m.now())
	if err := m.sessions.Save(ctx, fresh); err != nil {
		return nil, err
	}
	m.metrics.ObserveStep(StepName)
	return &Result{Prompt: promptName(true)}, nil
}

func handleName(ctx context.Context, m *Machine, sess *Session, ev Event) (*Result, error) {
	name := strings.TrimSpace(ev.(TextEvent).Text)
	if name == "" {
		return &Result{Prompt: promptName(false)}, nil
	}
	sess.Name = name
	sess.Step = StepPhone
	if err := m.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	m.metrics.ObserveStep(StepPhone)
	return &Result{Prompt: promptPhone()}, nil
}

func handlePhone(ctx context.Context, m *Machine, sess *Session, ev Event) (*Result, error) {
	phone := strings.TrimSpace(ev.(TextEvent).Text)
	if !phonePattern.MatchString(phone) {
		m.logger.Debug("booking: rejected input",
			"chat_id", sess.ChatID,
			"error", &ValidationError{Field: "phone", Reason: "must be 11 digits"})
		return &Result{Prompt: promptPhoneInvalid()}, nil
	}
	sess.Phone = phone
	sess.Step = StepServices
	if err := m.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	m.metrics.ObserveStep(StepServices)
	return &Result{Prompt: servicesMenu(sess, false)}, nil
}

func handleToggle(ctx context.Context, m *Machine, sess *Session, ev Event) (*Result, error) {
	idx := ev.(ToggleEvent).Index
	if !catalog.Valid(idx) {
		return nil, nil
	}
	sess.ToggleService(idx)
	if err := m.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return &Result{Prompt: servicesMenu(sess, true)}, nil
}

func handleServicesDone(ctx context.Context, m *Machine, sess *Session, _ Event) (*Result, error) {
	days := schedule.NextWorkdays(m.now(), m.workdayCount)
	sess.Step = StepDate
	if err := m.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	m.metrics.ObserveStep(StepDate)
	return &Result{Prompt: dateMenu(days)}, nil
}

func handleDate(ctx context.Context, m *Machine, sess *Session, ev Event) (*Result, error) {
	dateStr := ev.(DateEvent).Date
	date, err := schedule.ParseDate(dateStr)
	if err != nil {
		// The callback pattern admits impossible dates like 2026-13-40.
		return nil, nil
	}

	free, err := m.avail.FreeSlots(ctx, date)
	if err != nil {
		return m.backendFailure(err, "list")
	}
	if len(free) == 0 {
		m.logger.Info("booking: date fully booked",
			"chat_id", sess.ChatID, "date", dateStr, "error", ErrNoAvailability)
		return &Result{Prompt: promptNoFreeSlots()}, nil
	}

	sess.Date = dateStr
	sess.Step = StepTime
	if err := m.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	m.metrics.ObserveStep(StepTime)
	return &Result{Prompt: timeMenu(free)}, nil
}

func handleTime(ctx context.Context, m *Machine, sess *Session, ev Event) (*Result, error) {
	slot := ev.(TimeEvent).Time
	if !schedule.IsSlot(slot) {
		return nil, nil
	}
	date, err := schedule.ParseDate(sess.Date)
	if err != nil {
		return nil, err
	}

	free, err := m.avail.FreeSlots(ctx, date)
	if err != nil {
		return m.backendFailure(err, "list")
	}
	if !contains(free, slot) {
		// Slot was grabbed between offer and pick.
		return &Result{Prompt: slotTakenMenu(free)}, nil
	}

	sess.Time = slot
	sess.Step = StepConfirm
	if err := m.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	m.metrics.ObserveStep(StepConfirm)
	return &Result{Prompt: summary(sess)}, nil
}

// backendFailure surfaces a backend outage as a failure of the current
// action only; the session does not advance.
func (m *Machine) backendFailure(err error, op string) (*Result, error) {
	if !errors.Is(err, storage.ErrBackendUnavailable) {
		return nil, err
	}
	m.metrics.ObserveBackendError(op)
	m.logger.Error("booking: backend unavailable", "op", op, "error", err)
	return &Result{Prompt: promptBackendDown()}, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
