package catalog

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatMoney renders an amount as "$1,234.50".
func FormatMoney(amount float64) string {
	p := message.NewPrinter(language.English)
	if amount < 0 {
		return p.Sprintf("-$%.2f", -amount)
	}
	return p.Sprintf("$%.2f", amount)
}
