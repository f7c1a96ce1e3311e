// Package core provides the ledger domain model, money parsing and the
// installment arithmetic shared by the interpreter and the stores.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol is the single display currency of the ledger.
const CurrencySymbol = "R$"

// ParseAmount converts a locale-formatted numeric literal to a decimal amount.
//
// The first comma is read as the decimal point, so "50,00" and "50.00" are the
// same value. No thousands separators are recognised: "1.234,56" is rejected.
// The result is rounded to cents and must be positive.
//
// Examples:
//
//	ParseAmount("50,00")   -> 50.00, nil
//	ParseAmount("1234.56") -> 1234.56, nil
//	ParseAmount("abc")     -> ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	if s == "" || strings.Count(s, ".") > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
		default:
			return decimal.Zero, ErrInvalidAmount
		}
	}
	if digits == 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount with exactly two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatMoney renders an amount with the currency symbol, e.g. "R$30.00".
func FormatMoney(d decimal.Decimal) string {
	return CurrencySymbol + FormatAmount(d)
}

// ToCents converts an amount to integer cents for storage.
func ToCents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

// FromCents converts stored integer cents back to an amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
