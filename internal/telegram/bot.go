// Package telegram is the chat transport: it decodes updates into
// booking events, renders prompts as Telegram messages and keyboards,
// and serializes handling per chat.
package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/podolab/salon-bot/internal/booking"
	"github.com/podolab/salon-bot/pkg/logging"
)

// api is the slice of tgbotapi.BotAPI the bot uses; tests fake it.
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot wraps the Telegram Bot API client.
type Bot struct {
	api    api
	logger *logging.Logger
}

// NewBot connects to the Telegram Bot API.
func NewBot(token string, logger *logging.Logger) (*Bot, error) {
	if logger == nil {
		logger = logging.Default()
	}
	client, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}
	logger.Info("telegram: authorized", "username", client.Self.UserName)
	return &Bot{api: client, logger: logger}, nil
}

// newBotWithAPI injects a fake client for tests.
func newBotWithAPI(client api, logger *logging.Logger) *Bot {
	if logger == nil {
		logger = logging.Default()
	}
	return &Bot{api: client, logger: logger}
}

// SendMarkdown implements notify.MessageSender.
func (b *Bot) SendMarkdown(_ context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("telegram: send markdown: %w", err)
	}
	return nil
}

// SendPrompt renders one booking prompt. messageID is the triggering
// message for edits; zero means "send a new message". Telegram reports
// an edit that changes nothing as an error; that case is swallowed.
func (b *Bot) SendPrompt(_ context.Context, chatID int64, messageID int, p *booking.Prompt) error {
	markup := inlineMarkup(p.Buttons)

	switch {
	case p.MarkupOnly && messageID != 0:
		edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, *markup)
		if _, err := b.api.Send(edit); err != nil && !isNotModified(err) {
			return fmt.Errorf("telegram: edit markup: %w", err)
		}
		return nil
	case p.Edit && messageID != 0:
		var edit tgbotapi.Chattable
		if markup != nil {
			edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, p.Text, *markup)
		} else {
			edit = tgbotapi.NewEditMessageText(chatID, messageID, p.Text)
		}
		if _, err := b.api.Send(edit); err != nil && !isNotModified(err) {
			return fmt.Errorf("telegram: edit message: %w", err)
		}
		return nil
	default:
		msg := tgbotapi.NewMessage(chatID, p.Text)
		if p.Markdown {
			msg.ParseMode = tgbotapi.ModeMarkdown
		}
		if markup != nil {
			msg.ReplyMarkup = *markup
		}
		if _, err := b.api.Send(msg); err != nil {
			return fmt.Errorf("telegram: send prompt: %w", err)
		}
		return nil
	}
}

// SendPhoto sends a local image with an optional Markdown caption.
func (b *Bot) SendPhoto(chatID int64, path, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
	if caption != "" {
		photo.Caption = caption
		photo.ParseMode = tgbotapi.ModeMarkdown
	}
	if _, err := b.api.Send(photo); err != nil {
		return fmt.Errorf("telegram: send photo: %w", err)
	}
	return nil
}

// AnswerCallback acknowledges a button press so the client stops the
// spinner. Failures are logged, not propagated.
func (b *Bot) AnswerCallback(id string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, "")); err != nil {
		b.logger.Warn("telegram: answer callback failed", "error", err)
	}
}

// inlineMarkup converts prompt buttons to a Telegram inline keyboard.
// Returns nil for a button-less prompt.
func inlineMarkup(rows [][]booking.Button) *tgbotapi.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		line := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			line = append(line, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Data))
		}
		keyboard = append(keyboard, line)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	return &markup
}

// isNotModified matches Telegram's "message is not modified" response
// to an edit that changed nothing. Not a real error for re-renders.
func isNotModified(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "message is not modified")
}
