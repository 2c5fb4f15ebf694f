package report

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount as whole rupiah with Indonesian digit
// grouping, e.g. "Rp 1.234.567".
func FormatRupiah(amount decimal.Decimal) string {
	return "Rp " + idPrinter.Sprintf("%d", amount.Round(0).IntPart())
}

// FormatRupiahFloat is FormatRupiah for report figures.
func FormatRupiahFloat(amount float64) string {
	return FormatRupiah(decimal.NewFromFloat(amount))
}

// FormatCount renders a count with Indonesian digit grouping.
func FormatCount(n int) string {
	return idPrinter.Sprintf("%d", n)
}

// Bar renders a proportional bar of at most width cells.
func Bar(value, maxValue, width int) string {
	if value <= 0 || maxValue <= 0 || width <= 0 {
		return ""
	}
	cells := value * width / maxValue
	if cells == 0 {
		cells = 1
	}
	return strings.Repeat("█", cells)
}
