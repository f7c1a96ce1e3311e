package core

import "github.com/shopspring/decimal"

// ExpenseLine is one expense row returned by ledger queries. Fields a query
// does not select are left zero.
type ExpenseLine struct {
	Date        Date
	Description string
	Amount      decimal.Decimal
	Category    string
}

// KeyTotal is an amount aggregated by a grouping key (category, payment method or account).
type KeyTotal struct {
	Key    string
	Amount decimal.Decimal
}

// SumLines returns the sum of the amounts of lines.
func SumLines(lines []ExpenseLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}
