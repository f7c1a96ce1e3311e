package storage

import (
	"strconv"
	"strings"
)

// Statements use "?" placeholders; postgres gets them rebound to "$n".
const (
	insertExpense = `INSERT INTO expenses
    (description, amount_cents, category, payment_method, account, date, is_installment, installment_count)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	insertIncome = `INSERT INTO incomes (description, amount_cents, date) VALUES (?, ?, ?)`

	selectRecentExpenses = `SELECT date, description, amount_cents, category FROM expenses
ORDER BY date DESC, id DESC
LIMIT ?`

	selectExpensesOnDate = `SELECT date, description, amount_cents, category FROM expenses
WHERE date = ?
ORDER BY id DESC`

	selectExpensesInRange = `SELECT date, description, amount_cents, category FROM expenses
WHERE date BETWEEN ? AND ?
ORDER BY date DESC, id DESC`

	selectCategoryInRange = `SELECT date, description, amount_cents, category FROM expenses
WHERE lower(category) = lower(?) AND date BETWEEN ? AND ?
ORDER BY date DESC, id DESC`
)

// summaryQuery groups expenses by column. column is always one of the
// constants below, never user input.
func summaryQuery(column string) string {
	return "SELECT " + column + ", SUM(amount_cents) AS total FROM expenses GROUP BY " + column +
		" ORDER BY total DESC, " + column
}

const (
	columnCategory      = "category"
	columnPaymentMethod = "payment_method"
	columnAccount       = "account"
)

// rebind rewrites "?" placeholders as "$1", "$2", ... for postgres.
func rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
