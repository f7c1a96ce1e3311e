package intent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchExpense(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want LogExpense
	}{
		{
			name: "defaults",
			in:   "spent 20 no nubank",
			want: LogExpense{Amount: "20", Account: "nubank", Category: "other-expense", Store: "unspecified", Installments: 1},
		},
		{
			name: "portuguese with installments",
			in:   "gastei 90 no nubank parcelado em 3x",
			want: LogExpense{Amount: "90", Account: "nubank", Category: "other-expense", Store: "unspecified", Installments: 3},
		},
		{
			name: "all clauses in any order",
			in:   "  Spent 50,00 split in 2x store Big Market category food ON card Itau  ",
			want: LogExpense{Amount: "50,00", Account: "itau", Category: "food", Store: "big market", Installments: 2},
		},
		{
			name: "card word before account name",
			in:   "gastei 15.5 no cartão inter categoria lazer loja cinema",
			want: LogExpense{Amount: "15.5", Account: "inter", Category: "lazer", Store: "cinema", Installments: 1},
		},
		{
			name: "abbreviated clauses",
			in:   "gastei 50 no nubank cat comida loja mercado parc 3x",
			want: LogExpense{Amount: "50", Account: "nubank", Category: "comida", Store: "mercado", Installments: 3},
		},
		{
			name: "trigger glued to amount",
			in:   "spent12 on visa",
			want: LogExpense{Amount: "12", Account: "visa", Category: "other-expense", Store: "unspecified", Installments: 1},
		},
		{
			name: "account name punctuation trimmed",
			in:   "spent 12 on visa, thanks",
			want: LogExpense{Amount: "12", Account: "visa", Category: "other-expense", Store: "unspecified", Installments: 1},
		},
		{
			name: "malformed installment count kept raw",
			in:   "spent 12 on visa split in 0x",
			want: LogExpense{Amount: "12", Account: "visa", Category: "other-expense", Store: "unspecified", Installments: 1, InstallmentsText: "0x"},
		},
		{
			name: "large installment count accepted",
			in:   "spent 5000 on visa split in 240x",
			want: LogExpense{Amount: "5000", Account: "visa", Category: "other-expense", Store: "unspecified", Installments: 240},
		},
		{
			name: "installment count overflowing int kept raw",
			in:   "spent 12 on visa split in 99999999999999999999x",
			want: LogExpense{Amount: "12", Account: "visa", Category: "other-expense", Store: "unspecified", Installments: 1, InstallmentsText: "99999999999999999999x"},
		},
		{
			name: "installment clause without a number is ignored",
			in:   "spent 12 on visa split with friends",
			want: LogExpense{Amount: "12", Account: "visa", Category: "other-expense", Store: "unspecified", Installments: 1},
		},
		{
			name: "last account phrase wins",
			in:   "spent 50 on groceries on nubank",
			want: LogExpense{Amount: "50", Account: "nubank", Category: "other-expense", Store: "unspecified", Installments: 1},
		},
		{
			name: "portuguese place before card",
			in:   "gastei 30 na padaria no cartão itau",
			want: LogExpense{Amount: "30", Account: "itau", Category: "other-expense", Store: "unspecified", Installments: 1},
		},
		{
			name: "trailing keyword without name keeps earlier account",
			in:   "spent 12 on visa on",
			want: LogExpense{Amount: "12", Account: "visa", Category: "other-expense", Store: "unspecified", Installments: 1},
		},
		{
			name: "bad money literal still matches",
			in:   "spent 1.234,56 on visa",
			want: LogExpense{Amount: "1.234,56", Account: "visa", Category: "other-expense", Store: "unspecified", Installments: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.in)
			require.IsType(t, LogExpense{}, got)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestMatchExpenseRequiresAccount(t *testing.T) {
	require.Equal(t, Unrecognized{}, Match("spent 20 at the market"))
	require.Equal(t, Unrecognized{}, Match("spent 20 on"))
	require.Equal(t, Unrecognized{}, Match("spent lots on nubank"))
}

func TestMatchExpenseWinsOverQueries(t *testing.T) {
	got := Match("spent 10 no nubank ... help")
	require.IsType(t, LogExpense{}, got)

	got = Match("recebi 5 gastei 10 no nubank")
	require.IsType(t, LogExpense{}, got)
}

func TestMatchIncome(t *testing.T) {
	require.Equal(t, LogIncome{Amount: "100,50", Category: "salario"}, Match("recebi 100,50 categoria salario"))
	require.Equal(t, LogIncome{Amount: "2000", Category: "other-income"}, Match("Received 2000"))
	require.Equal(t, LogIncome{Amount: "30", Category: "gift"}, Match("received 30 from mom category gift"))
	require.Equal(t, Unrecognized{}, Match("received nothing"))
}

func TestMatchFixedPhrases(t *testing.T) {
	tests := map[string]Intent{
		"recent expenses":           RecentExpenses{},
		"ultimos gastos":            RecentExpenses{},
		"Expenses Today":            ExpensesToday{},
		"gastos hoje":               ExpensesToday{},
		"expenses month":            ExpensesThisMonth{},
		"  expenses   this month  ": ExpensesThisMonth{},
		"gastos este mes":           ExpensesThisMonth{},
		"summary category":          SummaryByCategory{},
		"summary payment method":    SummaryByPaymentMethod{},
		"summary paymentmethod":     SummaryByPaymentMethod{},
		"resumo forma de pagamento": SummaryByPaymentMethod{},
		"summary account":           SummaryByAccount{},
		"resumo conta":              SummaryByAccount{},
		"help":                      Help{},
		"COMMANDS":                  Help{},
		"ajuda":                     Help{},
	}
	for in, want := range tests {
		require.Equal(t, want, Match(in), "input %q", in)
	}
}

func TestMatchCategoryMonth(t *testing.T) {
	require.Equal(t, ExpensesByCategoryThisMonth{Category: "food"}, Match("expenses food this month"))
	require.Equal(t, ExpensesByCategoryThisMonth{Category: "comida"}, Match("gastos comida este mes"))
	require.Equal(t, ExpensesByCategoryThisMonth{Category: "comida"}, Match("Gastos Comida este mês"))
	require.Equal(t, Unrecognized{}, Match("expenses food! this month"))
	require.Equal(t, Unrecognized{}, Match("expenses food last month"))
}

func TestMatchUnrecognized(t *testing.T) {
	for _, in := range []string{"", "   ", "blah blah", "help me", "summary"} {
		require.Equal(t, Unrecognized{}, Match(in), "input %q", in)
	}
}
