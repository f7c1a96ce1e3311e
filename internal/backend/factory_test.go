package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gastos/internal/config"
	"gastos/internal/core"
	"gastos/internal/ledger"
	"gastos/internal/log"
)

func TestCreateBackend(t *testing.T) {
	f := NewFactory(log.Discard())
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "memory", cfg: Config{Type: MemoryBackend}},
		{name: "sqlite", cfg: Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "gastos.db")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.CreateBackend(ctx, tt.cfg)
			require.NoError(t, err)
			defer func() { require.NoError(t, res.Cleanup()) }()

			require.NoError(t, res.Store.WriteIncome(ctx, core.IncomeEntry{
				Description: "Income - Gift", Amount: core.FromCents(1000), Date: core.NewDate(2025, 1, 1),
			}))
			pinger, ok := res.Store.(ledger.Pinger)
			require.True(t, ok)
			require.NoError(t, pinger.Ping(ctx))
		})
	}
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	f := NewFactory(nil)
	_, err := f.CreateBackend(context.Background(), Config{Type: "sheets"})
	require.ErrorContains(t, err, "invalid backend type")

	_, err = f.CreateBackend(context.Background(), Config{Type: PostgresBackend})
	require.ErrorContains(t, err, "postgres DSN is required")
}

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(&config.Config{
		LedgerBackend: "postgres",
		PostgresDSN:   "postgres://localhost/gastos",
		AMQPURL:       "amqp://localhost/",
		AMQPExchange:  "gastos",
		AMQPQueue:     "entries_recorded",
	})
	require.NoError(t, err)
	require.Equal(t, PostgresBackend, cfg.Type)
	require.Equal(t, "postgres://localhost/gastos", cfg.PostgresDSN)
	require.Equal(t, "entries_recorded", cfg.AMQPQueue)

	_, err = FromAppConfig(&config.Config{LedgerBackend: "sheets"})
	require.Error(t, err)
	_, err = FromAppConfig(nil)
	require.Error(t, err)
}
