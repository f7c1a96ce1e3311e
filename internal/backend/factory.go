// Package backend assembles the ledger store selected by configuration.
package backend

import (
	"context"
	"fmt"

	"gastos/internal/amqp"
	"gastos/internal/ledger"
	"gastos/internal/ledger/memory"
	"gastos/internal/log"
	"gastos/internal/services"
	"gastos/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend opens the configured store and wraps it in a LedgerService
// that publishes entry events when AMQP is configured.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store ledger.Store
		err   error
	)
	switch config.Type {
	case SQLiteBackend:
		store, err = storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case PostgresBackend:
		store, err = storage.NewPostgresRepository(config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres repository: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized postgres backend")
	case MemoryBackend:
		store = memory.New()
		f.logger.InfoContext(ctx, "Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	publisher := f.createPublisher(ctx, config)
	svc := services.NewLedgerService(store, publisher)

	return &BackendResult{
		Store:   svc,
		Cleanup: svc.Close,
	}, nil
}

// createPublisher returns nil when AMQP is disabled or unreachable; the
// ledger keeps working without events.
func (f *DefaultFactory) createPublisher(ctx context.Context, config Config) services.EventPublisher {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without entry events", "error", err)
		return nil
	}
	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}
