package amqp

import (
	"encoding/json"
	"time"

	"gastos/internal/core"
)

// Entry kinds carried by EntryRecordedMessage.
const (
	KindExpense = core.EntryKindExpense
	KindIncome  = core.EntryKindIncome
)

// EntryRecordedMessage announces one ledger row written by the bot.
// Income messages leave the expense-only fields empty.
type EntryRecordedMessage struct {
	Kind         string    `json:"kind"`
	Description  string    `json:"description"`
	AmountCents  int64     `json:"amount_cents"`
	Account      string    `json:"account,omitempty"`
	Category     string    `json:"category,omitempty"`
	Date         string    `json:"date"`
	Installment  bool      `json:"installment"`
	Installments int       `json:"installments,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewExpenseRecorded builds the message for a stored expense entry.
func NewExpenseRecorded(e core.ExpenseEntry) *EntryRecordedMessage {
	return &EntryRecordedMessage{
		Kind:         KindExpense,
		Description:  e.Description,
		AmountCents:  core.ToCents(e.Amount),
		Account:      e.Account,
		Category:     e.Category,
		Date:         e.Date.String(),
		Installment:  e.IsInstallment,
		Installments: e.InstallmentCount,
		Timestamp:    time.Now(),
	}
}

// NewIncomeRecorded builds the message for a stored income entry.
func NewIncomeRecorded(e core.IncomeEntry) *EntryRecordedMessage {
	return &EntryRecordedMessage{
		Kind:        KindIncome,
		Description: e.Description,
		AmountCents: core.ToCents(e.Amount),
		Date:        e.Date.String(),
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntryRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

