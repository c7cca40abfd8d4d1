package catalog

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatRupiah renders amount the way the Indonesian UI shows it,
// e.g. "Rp 100.000".
func FormatRupiah(amount int64) string {
	return message.NewPrinter(language.Indonesian).Sprintf("Rp %d", amount)
}

// FormatRupiahEnglish renders amount with English digit grouping,
// e.g. "Rp 1,000", as used in validation messages.
func FormatRupiahEnglish(amount int64) string {
	return message.NewPrinter(language.English).Sprintf("Rp %d", amount)
}
