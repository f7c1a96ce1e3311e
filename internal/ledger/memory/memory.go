// Package memory is an in-process ledger.Store used by tests and by the
// "memory" backend.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"gastos/internal/core"
	"gastos/internal/ledger"
)

type Store struct {
	mu       sync.Mutex
	expenses []core.ExpenseEntry
	incomes  []core.IncomeEntry
}

func New() *Store {
	return &Store{}
}

func (s *Store) WriteExpense(_ context.Context, e core.ExpenseEntry) error {
	if err := e.Validate(); err != nil {
		return ledger.Fail("write expense", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, e)
	return nil
}

func (s *Store) WriteIncome(_ context.Context, e core.IncomeEntry) error {
	if err := e.Validate(); err != nil {
		return ledger.Fail("write income", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incomes = append(s.incomes, e)
	return nil
}

func (s *Store) RecentExpenses(_ context.Context, limit int) ([]core.ExpenseLine, error) {
	lines := s.selectLines(func(core.ExpenseEntry) bool { return true })
	if limit >= 0 && len(lines) > limit {
		lines = lines[:limit]
	}
	return lines, nil
}

func (s *Store) ExpensesOnDate(_ context.Context, date core.Date) ([]core.ExpenseLine, error) {
	return s.selectLines(func(e core.ExpenseEntry) bool {
		return e.Date.Equal(date.Time)
	}), nil
}

func (s *Store) ExpensesThisMonth(ctx context.Context, today core.Date) ([]core.ExpenseLine, error) {
	start, end := today.MonthRange()
	return s.inRange("", start, end), nil
}

func (s *Store) ExpensesByCategoryInRange(_ context.Context, category string, start, end core.Date) ([]core.ExpenseLine, error) {
	return s.inRange(category, start, end), nil
}

func (s *Store) SummaryByCategory(context.Context) ([]core.KeyTotal, error) {
	return s.summarize(func(e core.ExpenseEntry) string { return e.Category }), nil
}

func (s *Store) SummaryByPaymentMethod(context.Context) ([]core.KeyTotal, error) {
	return s.summarize(func(e core.ExpenseEntry) string { return e.PaymentMethod }), nil
}

func (s *Store) SummaryByAccount(context.Context) ([]core.KeyTotal, error) {
	return s.summarize(func(e core.ExpenseEntry) string { return e.Account }), nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// Expenses returns a copy of every stored expense in insertion order.
func (s *Store) Expenses() []core.ExpenseEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ExpenseEntry(nil), s.expenses...)
}

// Incomes returns a copy of every stored income in insertion order.
func (s *Store) Incomes() []core.IncomeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.IncomeEntry(nil), s.incomes...)
}

func (s *Store) inRange(category string, start, end core.Date) []core.ExpenseLine {
	return s.selectLines(func(e core.ExpenseEntry) bool {
		if category != "" && !strings.EqualFold(e.Category, category) {
			return false
		}
		return !e.Date.Before(start.Time) && !e.Date.After(end.Time)
	})
}

// selectLines returns matching expenses newest first; later inserts win ties.
func (s *Store) selectLines(keep func(core.ExpenseEntry) bool) []core.ExpenseLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lines []core.ExpenseLine
	for i := len(s.expenses) - 1; i >= 0; i-- {
		e := s.expenses[i]
		if !keep(e) {
			continue
		}
		lines = append(lines, core.ExpenseLine{
			Date:        e.Date,
			Description: e.Description,
			Amount:      e.Amount,
			Category:    e.Category,
		})
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Date.After(lines[j].Date.Time)
	})
	return lines
}

func (s *Store) summarize(key func(core.ExpenseEntry) string) []core.KeyTotal {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := map[string]int{}
	var totals []core.KeyTotal
	for _, e := range s.expenses {
		k := key(e)
		i, ok := index[k]
		if !ok {
			i = len(totals)
			index[k] = i
			totals = append(totals, core.KeyTotal{Key: k})
		}
		totals[i].Amount = totals[i].Amount.Add(e.Amount)
	}
	sort.SliceStable(totals, func(i, j int) bool {
		if c := totals[i].Amount.Cmp(totals[j].Amount); c != 0 {
			return c > 0
		}
		return totals[i].Key < totals[j].Key
	})
	return totals
}
