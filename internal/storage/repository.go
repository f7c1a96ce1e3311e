// Package storage implements the ledger store on a SQL database. The same
// statements serve sqlite and postgres: amounts are integer cents and dates
// are ISO text.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gastos/internal/core"
	"gastos/internal/ledger"
	"gastos/internal/log"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL driver and migration set.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

func (d Dialect) driverName() string {
	return string(d)
}

type Repository struct {
	db      *sql.DB
	dialect Dialect
}

var _ ledger.Store = (*Repository)(nil)

func NewSQLiteRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	return open(DialectSQLite, dbPath)
}

func NewPostgresRepository(dsn string) (*Repository, error) {
	return open(DialectPostgres, dsn)
}

func open(dialect Dialect, dsn string) (*Repository, error) {
	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dialect, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, dialect: dialect}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return ledger.Fail("ping", r.db.PingContext(ctx))
}

func (r *Repository) WriteExpense(ctx context.Context, e core.ExpenseEntry) error {
	if err := e.Validate(); err != nil {
		return ledger.Fail("write expense", err)
	}
	res, err := r.db.ExecContext(ctx, r.q(insertExpense),
		e.Description, core.ToCents(e.Amount), e.Category, e.PaymentMethod, e.Account,
		e.Date.String(), e.IsInstallment, e.InstallmentCount)
	if err != nil {
		return ledger.Fail("write expense", fmt.Errorf("insert expense: %w", err))
	}

	id, _ := res.LastInsertId()
	fields := log.NewFields().
		WithEntry(core.EntryKindExpense, e.Description, core.ToCents(e.Amount), e.Date.String()).
		WithExpenseDetails(e.Category, e.Account, e.IsInstallment, e.InstallmentCount)
	slog.InfoContext(ctx, "Expense saved", append([]any{"id", id, "dialect", r.dialect}, fields.ToSlice()...)...)
	return nil
}

func (r *Repository) WriteIncome(ctx context.Context, e core.IncomeEntry) error {
	if err := e.Validate(); err != nil {
		return ledger.Fail("write income", err)
	}
	if _, err := r.db.ExecContext(ctx, r.q(insertIncome),
		e.Description, core.ToCents(e.Amount), e.Date.String()); err != nil {
		return ledger.Fail("write income", fmt.Errorf("insert income: %w", err))
	}

	fields := log.NewFields().WithEntry(core.EntryKindIncome, e.Description, core.ToCents(e.Amount), e.Date.String())
	slog.InfoContext(ctx, "Income saved", append([]any{"dialect", r.dialect}, fields.ToSlice()...)...)
	return nil
}

func (r *Repository) RecentExpenses(ctx context.Context, limit int) ([]core.ExpenseLine, error) {
	return r.lines(ctx, "recent expenses", selectRecentExpenses, limit)
}

func (r *Repository) ExpensesOnDate(ctx context.Context, date core.Date) ([]core.ExpenseLine, error) {
	return r.lines(ctx, "expenses on date", selectExpensesOnDate, date.String())
}

func (r *Repository) ExpensesThisMonth(ctx context.Context, today core.Date) ([]core.ExpenseLine, error) {
	start, end := today.MonthRange()
	return r.lines(ctx, "expenses this month", selectExpensesInRange, start.String(), end.String())
}

func (r *Repository) ExpensesByCategoryInRange(ctx context.Context, category string, start, end core.Date) ([]core.ExpenseLine, error) {
	return r.lines(ctx, "expenses by category", selectCategoryInRange, category, start.String(), end.String())
}

func (r *Repository) SummaryByCategory(ctx context.Context) ([]core.KeyTotal, error) {
	return r.totals(ctx, "summary by category", columnCategory)
}

func (r *Repository) SummaryByPaymentMethod(ctx context.Context) ([]core.KeyTotal, error) {
	return r.totals(ctx, "summary by payment method", columnPaymentMethod)
}

func (r *Repository) SummaryByAccount(ctx context.Context) ([]core.KeyTotal, error) {
	return r.totals(ctx, "summary by account", columnAccount)
}

func (r *Repository) lines(ctx context.Context, op, query string, args ...any) ([]core.ExpenseLine, error) {
	rows, err := r.db.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return nil, ledger.Fail(op, err)
	}
	defer rows.Close()

	var lines []core.ExpenseLine
	for rows.Next() {
		var (
			date  string
			cents int64
			line  core.ExpenseLine
		)
		if err := rows.Scan(&date, &line.Description, &cents, &line.Category); err != nil {
			return nil, ledger.Fail(op, fmt.Errorf("scan expense: %w", err))
		}
		if line.Date, err = core.ParseDate(date); err != nil {
			return nil, ledger.Fail(op, fmt.Errorf("stored date %q: %w", date, err))
		}
		line.Amount = core.FromCents(cents)
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, ledger.Fail(op, err)
	}
	return lines, nil
}

func (r *Repository) totals(ctx context.Context, op, column string) ([]core.KeyTotal, error) {
	rows, err := r.db.QueryContext(ctx, summaryQuery(column))
	if err != nil {
		return nil, ledger.Fail(op, err)
	}
	defer rows.Close()

	var totals []core.KeyTotal
	for rows.Next() {
		var (
			key   string
			cents int64
		)
		if err := rows.Scan(&key, &cents); err != nil {
			return nil, ledger.Fail(op, fmt.Errorf("scan total: %w", err))
		}
		totals = append(totals, core.KeyTotal{Key: key, Amount: core.FromCents(cents)})
	}
	if err := rows.Err(); err != nil {
		return nil, ledger.Fail(op, err)
	}
	return totals, nil
}

func (r *Repository) q(query string) string {
	return rebind(r.dialect, query)
}
