package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/podolab/salon-bot/internal/catalog"
	"github.com/podolab/salon-bot/internal/schedule"
)

// Button is one inline keyboard button: a label and a callback payload.
type Button struct {
	Label string
	Data  string
}

// Prompt is a transport-neutral outbound message for one step.
type Prompt struct {
	Text     string
	Buttons  [][]Button
	Markdown bool
	// Edit asks the transport to edit the triggering message in place
	// instead of sending a new one.
	Edit bool
	// MarkupOnly updates only the keyboard of the triggering message.
	// The transport must tolerate "nothing changed" as a non-error.
	MarkupOnly bool
}

func navRow() []Button {
	return []Button{
		{Label: "◀️ Назад", Data: "back"},
		{Label: "❌ Отмена", Data: "cancel"},
	}
}

func promptName(edit bool) *Prompt {
	return &Prompt{Text: "Введите ваше ФИО:", Edit: edit}
}

func promptPhone() *Prompt {
	return &Prompt{
		Text:    "Введите телефон (11 цифр):",
		Buttons: [][]Button{navRow()},
	}
}

func promptPhoneInvalid() *Prompt {
	return &Prompt{Text: "Неверный формат. Введите 11 цифр."}
}

// servicesMenu renders the toggle menu. Selected entries carry a
// checkmark prefix. markupOnly is set when re-rendering after a toggle.
func servicesMenu(sess *Session, markupOnly bool) *Prompt {
	rows := make([][]Button, 0, catalog.Len()+2)
	for i, name := range catalog.All() {
		label := name
		if sess.HasService(i) {
			label = "✅ " + name
		}
		rows = append(rows, []Button{{Label: label, Data: fmt.Sprintf("toggle_%d", i)}})
	}
	rows = append(rows, []Button{{Label: "Готово", Data: "services_done"}})
	rows = append(rows, navRow())
	return &Prompt{
		Text:       "Выберите услугу(и):",
		Buttons:    rows,
		MarkupOnly: markupOnly,
	}
}

// dateMenu lays the workday buttons out three per row.
func dateMenu(days []time.Time) *Prompt {
	rows := make([][]Button, 0, len(days)/3+2)
	for i := 0; i < len(days); i += 3 {
		end := i + 3
		if end > len(days) {
			end = len(days)
		}
		row := make([]Button, 0, 3)
		for _, d := range days[i:end] {
			row = append(row, Button{
				Label: schedule.ButtonLabel(d),
				Data:  "date_" + schedule.FormatDate(d),
			})
		}
		rows = append(rows, row)
	}
	rows = append(rows, navRow())
	return &Prompt{Text: "Выберите дату приёма:", Buttons: rows, Edit: true}
}

func promptNoFreeSlots() *Prompt {
	return &Prompt{Text: "❌ Нет свободных слотов на эту дату. Выберите другую."}
}

// timeMenu renders one free slot per row.
func timeMenu(free []string) *Prompt {
	rows := make([][]Button, 0, len(free)+1)
	for _, slot := range free {
		rows = append(rows, []Button{{Label: slot, Data: "time_" + slot}})
	}
	rows = append(rows, navRow())
	return &Prompt{Text: "Выберите время приёма:", Buttons: rows, Edit: true}
}

// slotTakenMenu re-offers the remaining slots after a pick lost the
// race with another booking.
func slotTakenMenu(free []string) *Prompt {
	p := timeMenu(free)
	p.Text = "❌ Это время уже заняли. Выберите другое:"
	p.Edit = false
	return p
}

func summary(sess *Session) *Prompt {
	start, _ := schedule.Combine(sess.Date, sess.Time)
	var b strings.Builder
	b.WriteString("Проверьте вашу запись:\n\n")
	fmt.Fprintf(&b, "👤 ФИО: %s\n", sess.Name)
	fmt.Fprintf(&b, "📱 Телефон: %s\n", sess.Phone)
	fmt.Fprintf(&b, "💅 Услуги: %s\n", catalog.JoinNames(sess.Services))
	fmt.Fprintf(&b, "⏰ Дата/время: %s", schedule.FormatDisplay(start))
	return &Prompt{
		Text: b.String(),
		Buttons: [][]Button{
			{{Label: "✅ Подтвердить", Data: "confirm"}},
			navRow(),
		},
		Edit: true,
	}
}

func promptConfirmed() *Prompt {
	return &Prompt{Text: "🎉 Запись подтверждена! До встречи.", Edit: true}
}

func promptCanceled() *Prompt {
	return &Prompt{Text: "❌ Запись отменена."}
}

func promptBackendDown() *Prompt {
	return &Prompt{Text: "⚠️ Не получилось связаться с журналом записи. Попробуйте ещё раз чуть позже."}
}
