package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const DefaultCurrency = "USD"

// Formatter renders amounts with a currency symbol and grouping for one
// display language.
type Formatter struct {
	printer *message.Printer
}

func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag)}
}

// ParseCurrency returns the canonical ISO 4217 code or an error for unknown codes.
func ParseCurrency(code string) (string, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return "", err
	}
	return unit.String(), nil
}

// Format renders amount in the given currency, falling back to USD for an
// unknown code.
func (f *Formatter) Format(amount decimal.Decimal, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.USD
	}
	return f.printer.Sprint(currency.Symbol(unit.Amount(amount.Round(2).InexactFloat64())))
}

var english = NewFormatter(language.English)

func Format(amount decimal.Decimal, code string) string {
	return english.Format(amount, code)
}
