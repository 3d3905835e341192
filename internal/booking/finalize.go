package booking

import (
	"context"
	"fmt"

	"github.com/podolab/salon-bot/internal/catalog"
	"github.com/podolab/salon-bot/internal/schedule"
	"github.com/podolab/salon-bot/internal/storage"
)

// buildRecord assembles the durable appointment from a completed session.
func buildRecord(sess *Session) (storage.Record, error) {
	startsAt, err := schedule.Combine(sess.Date, sess.Time)
	if err != nil {
		return storage.Record{}, fmt.Errorf("booking: build record: %w", err)
	}
	return storage.Record{
		FullName: sess.Name,
		Phone:    sess.Phone,
		Services: catalog.JoinNames(sess.Services),
		StartsAt: startsAt,
	}, nil
}

// handleConfirm finalizes the booking: persist the record, notify the
// staff channel, clear the session. A rejected write aborts here and
// leaves the session at the confirm step; a failed notification does
// not roll back the persisted record.
func handleConfirm(ctx context.Context, m *Machine, sess *Session, _ Event) (*Result, error) {
	rec, err := buildRecord(sess)
	if err != nil {
		return nil, err
	}

	id, err := m.store.Create(ctx, rec)
	if err != nil {
		return m.backendFailure(err, "create")
	}
	rec.ID = id

	if m.notifier != nil {
		if err := m.notifier.NotifyNewBooking(ctx, rec); err != nil {
			m.logger.Warn("booking: staff notification failed",
				"record_id", id, "error", err)
		}
	}

	if err := m.sessions.Delete(ctx, sess.ChatID); err != nil {
		return nil, err
	}
	m.metrics.ObserveConfirmed()
	m.logger.Info("booking: appointment confirmed",
		"chat_id", sess.ChatID, "record_id", id,
		"starts_at", rec.StartsAt, "services", rec.Services)
	return &Result{Prompt: promptConfirmed(), Ended: true}, nil
}
