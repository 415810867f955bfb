// Package format renders monetary values for outbound messages.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Hebrew)

// Currency renders an amount in shekels with thousands grouping,
// rounded to whole units. Non-finite amounts render as zero.
func Currency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	return printer.Sprintf("₪%d", int64(math.Round(amount)))
}

// Percent renders a ratio already scaled to 0..100 with one decimal.
func Percent(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	return printer.Sprintf("%.1f%%", value)
}
