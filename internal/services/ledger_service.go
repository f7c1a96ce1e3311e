package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gastos/internal/amqp"
	"gastos/internal/core"
	"gastos/internal/ledger"
	"gastos/internal/log"
)

// EventPublisher announces recorded entries. *amqp.Client implements it.
type EventPublisher interface {
	PublishEntryRecorded(ctx context.Context, msg *amqp.EntryRecordedMessage) error
}

// LedgerService is the ledger.Store handed to the dispatcher: reads go
// straight to the store, writes are followed by an entry event.
type LedgerService struct {
	ledger.Store
	publisher EventPublisher
}

var (
	_ ledger.Store  = (*LedgerService)(nil)
	_ ledger.Pinger = (*LedgerService)(nil)
)

// NewLedgerService wraps store. publisher may be nil when AMQP is disabled.
func NewLedgerService(store ledger.Store, publisher EventPublisher) *LedgerService {
	return &LedgerService{Store: store, publisher: publisher}
}

// WriteExpense saves an expense locally and publishes its event
func (s *LedgerService) WriteExpense(ctx context.Context, e core.ExpenseEntry) error {
	if err := s.Store.WriteExpense(ctx, e); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewExpenseRecorded(e))
	return nil
}

// WriteIncome saves an income locally and publishes its event
func (s *LedgerService) WriteIncome(ctx context.Context, e core.IncomeEntry) error {
	if err := s.Store.WriteIncome(ctx, e); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewIncomeRecorded(e))
	return nil
}

// publish never fails the write: the entry is already stored.
func (s *LedgerService) publish(ctx context.Context, msg *amqp.EntryRecordedMessage) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "AMQP publisher not configured, skipping entry event", log.FieldEntryKind, msg.Kind)
		return
	}
	if err := s.publisher.PublishEntryRecorded(ctx, msg); err != nil {
		fields := log.NewFields().
			WithEntry(msg.Kind, msg.Description, msg.AmountCents, msg.Date).
			WithError(err, log.ErrorTypeNetwork)
		slog.ErrorContext(ctx, "Failed to publish entry event", fields.ToSlice()...)
	}
}

// Ping reports store connectivity; stores without a Ping are assumed healthy.
func (s *LedgerService) Ping(ctx context.Context) error {
	if p, ok := s.Store.(ledger.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close closes both the store and the publisher when they hold resources
func (s *LedgerService) Close() error {
	var errs []error

	if c, ok := s.Store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close ledger service: %w", err)
	}
	return nil
}
