package utils

import "github.com/shopspring/decimal"

// currencySymbols maps payout currencies to their display symbol.
var currencySymbols = map[string]string{
	"KES": "KSh",
	"UGX": "UGX",
	"TZS": "TSh",
	"INR": "₹",
	"USD": "$",
}

// CurrencySymbol returns the display symbol for a currency code, or the code
// itself when no symbol is known.
func CurrencySymbol(code string) string {
	if symbol, ok := currencySymbols[code]; ok {
		return symbol
	}
	return code
}

// FormatAmount rounds an amount to two decimal places for display. Stored
// values stay unrounded; rounding is a presentation concern only.
func FormatAmount(amount decimal.Decimal) string {
	return amount.Round(2).String()
}
