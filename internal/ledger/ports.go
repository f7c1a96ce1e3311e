// Package ledger defines the persistence contract the dispatcher talks to.
package ledger

import (
	"context"

	"gastos/internal/core"
)

// Ports for ledger adapters.
type (
	EntryWriter interface {
		WriteExpense(ctx context.Context, e core.ExpenseEntry) error
		WriteIncome(ctx context.Context, e core.IncomeEntry) error
	}

	// ExpenseReader lists expense rows. Every listing is ordered by date
	// descending, newest insert first within a day.
	ExpenseReader interface {
		RecentExpenses(ctx context.Context, limit int) ([]core.ExpenseLine, error)
		ExpensesOnDate(ctx context.Context, date core.Date) ([]core.ExpenseLine, error)
		// ExpensesThisMonth returns the expenses of the calendar month containing today.
		ExpensesThisMonth(ctx context.Context, today core.Date) ([]core.ExpenseLine, error)
		// ExpensesByCategoryInRange matches category case-insensitively over the
		// inclusive range [start, end].
		ExpensesByCategoryInRange(ctx context.Context, category string, start, end core.Date) ([]core.ExpenseLine, error)
	}

	// SummaryReader aggregates all expenses by one key, largest total first.
	SummaryReader interface {
		SummaryByCategory(ctx context.Context) ([]core.KeyTotal, error)
		SummaryByPaymentMethod(ctx context.Context) ([]core.KeyTotal, error)
		SummaryByAccount(ctx context.Context) ([]core.KeyTotal, error)
	}

	Store interface {
		EntryWriter
		ExpenseReader
		SummaryReader
	}

	// Pinger is implemented by stores that can report their connectivity.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)
