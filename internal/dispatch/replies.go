package dispatch

import (
	"unicode"
	"unicode/utf8"
)

const (
	msgExpense      = "Expense of %s recorded!\nCategory: %s, Account: %s, Store: %s."
	msgExpenseSplit = "Expense of %s in %dx (%s/month) recorded!\nCategory: %s, Account: %s, Store: %s."
	msgIncome       = "Income of %s recorded in category %s!"

	msgInvalidExpense = "Invalid amount or installment count."
	msgInvalidIncome  = "Invalid income amount."
	msgStoreFailure   = "Oops! There was a database problem while %s."
	msgUnexpected     = "Oops! Something went wrong while %s."

	msgNoRecent          = "No recent expenses."
	msgNoneToday         = "No expenses today (%s)."
	msgNoneThisMonth     = "No expenses this month."
	msgNoneCategoryMonth = "No expenses for '%s' this month."
	msgNoneByCategory    = "There are no expenses to summarize by category yet."
	msgNoneByMethod      = "There are no expenses to summarize by payment method yet."
	msgNoneByAccount     = "There are no expenses to summarize by account yet."

	msgUnrecognized = "Sorry, I didn't understand your message.\nSend `help` to see the available commands."

	msgHelp = "Available commands:\n" +
		"- `spent <amount> on [card] <account> [category <c>] [store <s>] [split in <N>x]`\n" +
		"  e.g. spent 50 on nubank category food store market split in 3x\n" +
		"  the account is the last `on <name>`: spent 50 on groceries on nubank charges nubank\n" +
		"- `received <amount> [category <c>]`\n" +
		"  e.g. received 2500 category salary\n" +
		"- `recent expenses`\n" +
		"- `expenses today`\n" +
		"- `expenses month` (or `expenses this month`)\n" +
		"- `expenses <category> this month` (e.g. expenses food this month)\n" +
		"- `summary category` / `summary payment method` / `summary account`\n" +
		"- `help` or `commands`\n" +
		"Portuguese works too: `gastei 50 no nubank cat comida loja mercado parc 3x`, `recebi`, " +
		"`ultimos gastos`, `gastos hoje`, `gastos mes`, `gastos <categoria> este mes`, `resumo conta`, `ajuda`."
)

// capitalize upper-cases the first letter of s and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	rest := []rune(s[size:])
	for i, c := range rest {
		rest[i] = unicode.ToLower(c)
	}
	return string(unicode.ToUpper(r)) + string(rest)
}
