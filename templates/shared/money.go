package shared

import (
	"html/template"

	"github.com/shopspring/decimal"

	"novi.com/app/pkg/view"
)

// FormatMoney formats an amount for display, EUR by default.
func FormatMoney(currency string, amount decimal.Decimal) string {
	if currency == "" {
		currency = "EUR"
	}
	return view.Money(amount, currency)
}

// Funcs are the helpers available to every page template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money": func(d decimal.Decimal) string { return FormatMoney("", d) },
	}
}
