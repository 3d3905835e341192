// Package availability computes free appointment slots for a date by
// reading existing records from the appointment store.
package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/podolab/salon-bot/internal/schedule"
	"github.com/podolab/salon-bot/internal/storage"
	"github.com/podolab/salon-bot/pkg/logging"
)

// Service answers slot-availability questions for the booking flow.
type Service struct {
	store  storage.Store
	logger *logging.Logger
}

// NewService constructs an availability service.
func NewService(store storage.Store, logger *logging.Logger) *Service {
	if store == nil {
		panic("availability: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, logger: logger}
}

// TakenSlots returns the "HH:MM" start times already booked on date.
// Record datetimes are truncated to minute granularity.
func (s *Service) TakenSlots(ctx context.Context, date time.Time) (map[string]struct{}, error) {
	records, err := s.store.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("availability: taken slots: %w", err)
	}
	taken := make(map[string]struct{}, len(records))
	for _, rec := range records {
		taken[rec.StartsAt.UTC().Truncate(time.Minute).Format("15:04")] = struct{}{}
	}
	return taken, nil
}

// FreeSlots returns the fixed slots not yet taken on date, preserving
// the fixed-list order. The result was free at query time only; the
// read-then-offer race with a concurrent booking is accepted.
func (s *Service) FreeSlots(ctx context.Context, date time.Time) ([]string, error) {
	taken, err := s.TakenSlots(ctx, date)
	if err != nil {
		return nil, err
	}
	free := make([]string, 0, len(schedule.Slots))
	for _, slot := range schedule.Slots {
		if _, ok := taken[slot]; !ok {
			free = append(free, slot)
		}
	}
	s.logger.Debug("availability: computed free slots",
		"date", schedule.FormatDate(date), "free", len(free))
	return free, nil
}
