// Package notify tells the staff channel about new appointments.
package notify

import (
	"context"
	"fmt"

	"github.com/podolab/salon-bot/internal/schedule"
	"github.com/podolab/salon-bot/internal/storage"
	"github.com/podolab/salon-bot/pkg/logging"
)

// MessageSender delivers one Markdown message to a chat. The Telegram
// transport implements it.
type MessageSender interface {
	SendMarkdown(ctx context.Context, chatID int64, text string) error
}

// Service formats and sends staff notifications.
type Service struct {
	sender      MessageSender
	staffChatID int64
	logger      *logging.Logger
}

// NewService creates a notification service for one staff chat.
func NewService(sender MessageSender, staffChatID int64, logger *logging.Logger) *Service {
	if sender == nil {
		panic("notify: message sender required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{sender: sender, staffChatID: staffChatID, logger: logger}
}

// NotifyNewBooking sends one message per persisted appointment.
func (s *Service) NotifyNewBooking(ctx context.Context, rec storage.Record) error {
	text := fmt.Sprintf(
		"📌 *Новая запись на приём*\n"+
			"👤 ФИО: %s\n"+
			"📱 Телефон: %s\n"+
			"💅 Услуги: %s\n"+
			"⏰ Дата/время: %s",
		rec.FullName, rec.Phone, rec.Services, schedule.FormatDisplay(rec.StartsAt),
	)
	if err := s.sender.SendMarkdown(ctx, s.staffChatID, text); err != nil {
		s.logger.Error("notify: staff message failed",
			"staff_chat_id", s.staffChatID, "record_id", rec.ID, "error", err)
		return fmt.Errorf("notify: send staff message: %w", err)
	}
	s.logger.Info("notify: staff notified", "record_id", rec.ID)
	return nil
}
