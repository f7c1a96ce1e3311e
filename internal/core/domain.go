package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sentinel defaults substituted when an optional field is absent from a message.
const (
	DefaultExpenseCategory = "other-expense"
	DefaultIncomeCategory  = "other-income"
	DefaultStore           = "unspecified"

	// PaymentCredit is the only payment method this ledger records.
	PaymentCredit = "credit"
)

// Entry kinds, as named in events and logs.
const (
	EntryKindExpense = "expense"
	EntryKindIncome  = "income"
)

const dateLayout = "2006-01-02"

type (
	// Date is a calendar date without time component.
	Date struct {
		time.Time
	}

	ExpenseEntry struct {
		Description      string
		Amount           decimal.Decimal
		Category         string
		PaymentMethod    string
		Account          string
		Date             Date
		IsInstallment    bool
		InstallmentCount int
		Paid             bool // stored with its default; nothing sets it
	}

	IncomeEntry struct {
		Description string
		Amount      decimal.Decimal
		Date        Date
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidInstallments = errors.New("invalid installment count")
	ErrEmptyDescription    = errors.New("empty description")
	ErrEmptyAccount        = errors.New("empty account")
	ErrInvalidDate         = errors.New("invalid date")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses an ISO "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String returns the ISO "YYYY-MM-DD" form used for storage and display.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// MonthRange returns the first and last day of d's month.
func (d Date) MonthRange() (Date, Date) {
	first := NewDate(d.Year(), int(d.Month()), 1)
	last := Date{Time: first.AddDate(0, 1, -1)}
	return first, last
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (e ExpenseEntry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if strings.TrimSpace(e.Account) == "" {
		return ErrEmptyAccount
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if e.InstallmentCount < 1 {
		return ErrInvalidInstallments
	}
	return nil
}

func (e IncomeEntry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}
