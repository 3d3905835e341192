// Package catalog holds the static list of bookable procedures.
// The slice index is the stable identifier used in callbacks and
// persisted selections.
package catalog

import "strings"

var services = []string{
	"Полный SMART-педикюр (пальцы + стопы + покрытие)",
	"Педикюр с покрытием (только пальцы)",
	"SMART-педикюр без покрытия",
	"Педикюр с обработкой (пальцы или стопы)",
	"Установка тампонады (1 шт.)",
	"Установка титановой нити",
	"Коррекция титановой нити",
	"Онихолизис рук (1 ноготь)",
	"Онихолизис рук (все ногти)",
	"Зачистка псевдонихии",
	"Удаление вросшего ногтя (2 стороны)",
	"Удаление 2 вросших ногтей",
	"Перевязка после удаления",
	"Зачистка онихогрифоза (1 ноготь)",
	"Онихогрифоз (2 ногтя)",
	"Парамедицинский педикюр",
	"Обработка стопы (трещины, гиперкератоз)",
	"Обработка стопы с микозом",
	"Зачистка микоза (1 ноготь)",
	"Зачистка всех ногтей",
	"Удаление онихолизиса (1 ноготь)",
	"Удаление стержневой мозоли (2 шт.)",
	"Первичное выведение бородавки",
	"Повторное выведение бородавки",
}

// Len returns the number of catalog entries.
func Len() int {
	return len(services)
}

// Valid reports whether i is a catalog index.
func Valid(i int) bool {
	return i >= 0 && i < len(services)
}

// Name returns the display name for index i.
func Name(i int) (string, bool) {
	if !Valid(i) {
		return "", false
	}
	return services[i], true
}

// All returns the display names in catalog order. The result is a copy.
func All() []string {
	out := make([]string, len(services))
	copy(out, services)
	return out
}

// Names maps indices to display names, preserving the given order.
// Out-of-range indices are skipped.
func Names(indices []int) []string {
	out := make([]string, 0, len(indices))
	for _, i := range indices {
		if name, ok := Name(i); ok {
			out = append(out, name)
		}
	}
	return out
}

// JoinNames renders the selected services the way they are persisted,
// comma-joined in selection order.
func JoinNames(indices []int) string {
	return strings.Join(Names(indices), ", ")
}
