package telegram

import (
	"context"
	"regexp"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/podolab/salon-bot/internal/booking"
	"github.com/podolab/salon-bot/pkg/logging"
)

// Menu button labels, matched against free text outside the booking flow.
const (
	menuPrice    = "💅 Прайс-лист"
	menuSchedule = "⏰ График работы"
	menuPrep     = "📋 Подготовка"
	menuHelp     = "❓ Помощь"
)

// bookStartPattern matches the booking menu button in both spellings.
var bookStartPattern = regexp.MustCompile(`^Запись на при[её]м$`)

const welcomeText = "👋 *Добро пожаловать*! Выберите действие:"

const helpText = "❓ *Меню помощи*:\n" +
	"💅 Прайс-лист — цены на услуги\n" +
	"Запись на приём — оформить бронь\n" +
	"⏰ График работы — расписание салона\n" +
	"📋 Подготовка — как подготовиться к процедуре\n" +
	"❓ Помощь — это сообщение"

const failureText = "⚠️ Что-то пошло не так. Попробуйте ещё раз."

// laneBuffer bounds the per-chat backlog before updates are dropped.
const laneBuffer = 16

// Assets are the static images served from the main menu.
type Assets struct {
	PricePath    string
	SchedulePath string
	PrepPath     string
}

// Dispatcher pulls updates, decodes them, and runs the booking machine.
// Updates are processed FIFO within a chat and concurrently across
// chats, so a slow backend call stalls only its own conversation.
type Dispatcher struct {
	bot     *Bot
	machine *booking.Machine
	assets  Assets
	timeout time.Duration
	logger  *logging.Logger

	mu    sync.Mutex
	lanes map[int64]chan tgbotapi.Update
	wg    sync.WaitGroup
}

// NewDispatcher wires the transport to the booking machine. timeout
// bounds the handling of one update, backend calls included.
func NewDispatcher(bot *Bot, machine *booking.Machine, assets Assets, timeout time.Duration, logger *logging.Logger) *Dispatcher {
	if bot == nil {
		panic("telegram: bot required")
	}
	if machine == nil {
		panic("telegram: booking machine required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		bot:     bot,
		machine: machine,
		assets:  assets,
		timeout: timeout,
		logger:  logger,
		lanes:   make(map[int64]chan tgbotapi.Update),
	}
}

// Run consumes updates until ctx is done, then drains the per-chat lanes.
func (d *Dispatcher) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := d.bot.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			d.bot.api.StopReceivingUpdates()
			d.closeLanes()
			d.wg.Wait()
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				d.closeLanes()
				d.wg.Wait()
				return nil
			}
			d.route(ctx, upd)
		}
	}
}

// route hands the update to its chat's lane, starting one if needed.
func (d *Dispatcher) route(ctx context.Context, upd tgbotapi.Update) {
	chatID := updateChatID(upd)
	if chatID == 0 {
		return
	}

	d.mu.Lock()
	lane, ok := d.lanes[chatID]
	if !ok {
		lane = make(chan tgbotapi.Update, laneBuffer)
		d.lanes[chatID] = lane
		d.wg.Add(1)
		go d.consume(ctx, chatID, lane)
	}
	d.mu.Unlock()

	select {
	case lane <- upd:
	default:
		d.logger.Warn("telegram: dropping update, chat backlog full", "chat_id", chatID)
	}
}

func (d *Dispatcher) consume(ctx context.Context, chatID int64, lane <-chan tgbotapi.Update) {
	defer d.wg.Done()
	for upd := range lane {
		stepCtx, cancel := context.WithTimeout(ctx, d.timeout)
		d.handleUpdate(stepCtx, chatID, upd)
		cancel()
	}
}

func (d *Dispatcher) closeLanes() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, lane := range d.lanes {
		close(lane)
		delete(d.lanes, id)
	}
}

func (d *Dispatcher) handleUpdate(ctx context.Context, chatID int64, upd tgbotapi.Update) {
	switch {
	case upd.CallbackQuery != nil:
		d.handleCallback(ctx, chatID, upd.CallbackQuery)
	case upd.Message != nil:
		d.handleMessage(ctx, chatID, upd.Message)
	}
}

func (d *Dispatcher) handleCallback(ctx context.Context, chatID int64, cq *tgbotapi.CallbackQuery) {
	d.bot.AnswerCallback(cq.ID)

	ev, ok := booking.ParseCallback(cq.Data)
	if !ok {
		d.logger.Warn("telegram: malformed callback payload",
			"chat_id", chatID, "data", cq.Data)
		return
	}

	messageID := 0
	if cq.Message != nil {
		messageID = cq.Message.MessageID
	}
	d.dispatch(ctx, chatID, messageID, ev)
}

func (d *Dispatcher) handleMessage(ctx context.Context, chatID int64, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		if msg.Command() == "start" {
			d.resetAndShowMenu(ctx, chatID)
		}
		return
	}

	switch {
	case bookStartPattern.MatchString(msg.Text):
		res, err := d.machine.Start(ctx, chatID)
		if err != nil {
			d.reportFailure(ctx, chatID, err)
			return
		}
		d.deliver(ctx, chatID, 0, res)
	case msg.Text == menuPrice:
		d.sendAsset(chatID, d.assets.PricePath, "")
	case msg.Text == menuSchedule:
		d.sendAsset(chatID, d.assets.SchedulePath, "⏰ *График работы*")
	case msg.Text == menuPrep:
		d.sendAsset(chatID, d.assets.PrepPath, "📋 *Подготовка к процедуре*")
	case msg.Text == menuHelp:
		if err := d.bot.SendMarkdown(ctx, chatID, helpText); err != nil {
			d.logger.Error("telegram: help reply failed", "chat_id", chatID, "error", err)
		}
	default:
		// Free text feeds the name/phone steps; outside a booking it is ignored.
		d.dispatch(ctx, chatID, 0, booking.TextEvent{Text: msg.Text})
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, chatID int64, messageID int, ev booking.Event) {
	res, err := d.machine.Handle(ctx, chatID, ev)
	if err != nil {
		d.reportFailure(ctx, chatID, err)
		return
	}
	d.deliver(ctx, chatID, messageID, res)
}

func (d *Dispatcher) deliver(ctx context.Context, chatID int64, messageID int, res *booking.Result) {
	if res == nil || res.Prompt == nil {
		return
	}
	if err := d.bot.SendPrompt(ctx, chatID, messageID, res.Prompt); err != nil {
		d.logger.Error("telegram: prompt delivery failed", "chat_id", chatID, "error", err)
	}
}

// resetAndShowMenu discards any in-flight booking and shows the main
// menu, mirroring a fresh /start.
func (d *Dispatcher) resetAndShowMenu(ctx context.Context, chatID int64) {
	if _, err := d.machine.Handle(ctx, chatID, booking.CancelEvent{}); err != nil {
		d.logger.Warn("telegram: reset on /start failed", "chat_id", chatID, "error", err)
	}
	msg := tgbotapi.NewMessage(chatID, welcomeText)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = mainMenuKeyboard()
	if _, err := d.bot.api.Send(msg); err != nil {
		d.logger.Error("telegram: menu reply failed", "chat_id", chatID, "error", err)
	}
}

func (d *Dispatcher) sendAsset(chatID int64, path, caption string) {
	if err := d.bot.SendPhoto(chatID, path, caption); err != nil {
		d.logger.Error("telegram: asset reply failed",
			"chat_id", chatID, "path", path, "error", err)
	}
}

func (d *Dispatcher) reportFailure(ctx context.Context, chatID int64, err error) {
	d.logger.Error("telegram: update handling failed", "chat_id", chatID, "error", err)
	if sendErr := d.bot.SendPrompt(ctx, chatID, 0, &booking.Prompt{Text: failureText}); sendErr != nil {
		d.logger.Error("telegram: failure reply failed", "chat_id", chatID, "error", sendErr)
	}
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuPrice),
			tgbotapi.NewKeyboardButton("Запись на приём"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuSchedule),
			tgbotapi.NewKeyboardButton(menuPrep),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuHelp),
		),
	)
}

func updateChatID(upd tgbotapi.Update) int64 {
	switch {
	case upd.Message != nil && upd.Message.Chat != nil:
		return upd.Message.Chat.ID
	case upd.CallbackQuery != nil && upd.CallbackQuery.Message != nil && upd.CallbackQuery.Message.Chat != nil:
		return upd.CallbackQuery.Message.Chat.ID
	default:
		return 0
	}
}
