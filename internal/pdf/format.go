package pdf

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// The document uses Indian digit grouping throughout, matching the printed
// template this layout reproduces.
var printer = message.NewPrinter(language.MustParse("en-IN"))

// FormatMoney renders a money value with grouping and exactly two decimals.
func FormatMoney(d decimal.Decimal) string {
	f, _ := d.Float64()

	return printer.Sprintf("%v", number.Decimal(f, number.Scale(2)))
}

// FormatQuantity renders a quantity with grouping and no forced decimals.
func FormatQuantity(d decimal.Decimal) string {
	f, _ := d.Float64()

	return printer.Sprintf("%v", number.Decimal(f))
}

// SanitizeFilename strips path separators and control characters from a
// quote name so it is safe to use as an output filename.
func SanitizeFilename(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return -1
		}

		return r
	}, name)

	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "quotation"
	}

	return cleaned
}
