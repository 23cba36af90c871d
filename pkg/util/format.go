package util

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders amount as US dollars with thousands separators, e.g. "$1,234.50".
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) {
		return "$NaN"
	}
	if amount < 0 {
		return "-$" + printer.Sprintf("%.2f", -amount)
	}
	return "$" + printer.Sprintf("%.2f", amount)
}

// FormatDate renders t as a long US date, e.g. "March 5, 2024".
func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// Truncate shortens s to length runes followed by "..." when it is longer.
func Truncate(s string, length int) string {
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}
	return string(runes[:length]) + "..."
}
