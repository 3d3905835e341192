package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/podolab/salon-bot/internal/storage"
)

type fakeSender struct {
	chatID int64
	text   string
	err    error
}

func (f *fakeSender) SendMarkdown(_ context.Context, chatID int64, text string) error {
	f.chatID = chatID
	f.text = text
	return f.err
}

func TestNotifyNewBooking(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender, -100123, nil)

	rec := storage.Record{
		ID:       "rec1",
		FullName: "Иванов Иван",
		Phone:    "79991234567",
		Services: "SMART-педикюр без покрытия, Зачистка псевдонихии",
		StartsAt: time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
	}
	if err := svc.NotifyNewBooking(context.Background(), rec); err != nil {
		t.Fatalf("NotifyNewBooking: %v", err)
	}

	if sender.chatID != -100123 {
		t.Errorf("sent to chat %d, want -100123", sender.chatID)
	}
	for _, part := range []string{
		"Новая запись на приём",
		"Иванов Иван",
		"79991234567",
		"SMART-педикюр без покрытия, Зачистка псевдонихии",
		"03.03.2026 10:00",
	} {
		if !strings.Contains(sender.text, part) {
			t.Errorf("notification missing %q:\n%s", part, sender.text)
		}
	}
}

func TestNotifyNewBookingSendFailure(t *testing.T) {
	sendErr := errors.New("chat not found")
	svc := NewService(&fakeSender{err: sendErr}, 1, nil)

	err := svc.NotifyNewBooking(context.Background(), storage.Record{StartsAt: time.Now()})
	if !errors.Is(err, sendErr) {
		t.Fatalf("expected wrapped send error, got %v", err)
	}
}
