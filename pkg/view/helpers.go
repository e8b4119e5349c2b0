package view

import "github.com/shopspring/decimal"

// Money renders an amount with two decimals and the currency symbol.
func Money(amount decimal.Decimal, currency string) string {
	return currencySymbol(currency) + amount.StringFixed(2)
}

func currencySymbol(code string) string {
	switch code {
	case "EUR":
		return "€"
	case "USD":
		return "$"
	case "GBP":
		return "£"
	case "":
		return ""
	default:
		return code + " "
	}
}
