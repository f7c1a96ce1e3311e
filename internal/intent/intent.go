// Package intent classifies a chat message into one of the ledger commands and
// extracts its typed fields.
package intent

// Intent is the classified meaning of one message. The concrete types below are
// the only implementations.
type Intent interface {
	Name() string
	isIntent()
}

type (
	// LogExpense records a credit-card purchase, optionally split in installments.
	LogExpense struct {
		Amount       string // raw money literal, parsed by the dispatcher
		Account      string
		Category     string
		Store        string
		Installments int
		// InstallmentsText holds a malformed installment token ("0x", "2.5x").
		// When set, Installments is meaningless.
		InstallmentsText string
	}

	LogIncome struct {
		Amount   string
		Category string
	}

	RecentExpenses              struct{}
	ExpensesToday               struct{}
	ExpensesThisMonth           struct{}
	ExpensesByCategoryThisMonth struct{ Category string }
	SummaryByCategory           struct{}
	SummaryByPaymentMethod      struct{}
	SummaryByAccount            struct{}
	Help                        struct{}
	Unrecognized                struct{}
)

func (LogExpense) Name() string                  { return "log_expense" }
func (LogIncome) Name() string                   { return "log_income" }
func (RecentExpenses) Name() string              { return "recent_expenses" }
func (ExpensesToday) Name() string               { return "expenses_today" }
func (ExpensesThisMonth) Name() string           { return "expenses_this_month" }
func (ExpensesByCategoryThisMonth) Name() string { return "expenses_by_category_this_month" }
func (SummaryByCategory) Name() string           { return "summary_by_category" }
func (SummaryByPaymentMethod) Name() string      { return "summary_by_payment_method" }
func (SummaryByAccount) Name() string            { return "summary_by_account" }
func (Help) Name() string                        { return "help" }
func (Unrecognized) Name() string                { return "unrecognized" }

func (LogExpense) isIntent()                  {}
func (LogIncome) isIntent()                   {}
func (RecentExpenses) isIntent()              {}
func (ExpensesToday) isIntent()               {}
func (ExpensesThisMonth) isIntent()           {}
func (ExpensesByCategoryThisMonth) isIntent() {}
func (SummaryByCategory) isIntent()           {}
func (SummaryByPaymentMethod) isIntent()      {}
func (SummaryByAccount) isIntent()            {}
func (Help) isIntent()                        {}
func (Unrecognized) isIntent()                {}
