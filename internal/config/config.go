package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"gastos/internal/log"
)

type Config struct {
	// HTTP Server
	Port     string `env:"PORT" envDefault:"5000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Ledger backend selection
	LedgerBackend  string `env:"LEDGER_BACKEND" envDefault:"sqlite"`
	SQLiteDBPath   string `env:"SQLITE_DB_PATH" envDefault:"./data/gastos.db"`
	PostgresDSN    string `env:"POSTGRES_DSN"`
	LedgerTimezone string `env:"LEDGER_TIMEZONE" envDefault:"Local"`

	// AMQP, optional
	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"gastos"`
	AMQPQueue    string `env:"AMQP_QUEUE" envDefault:"entries_recorded"`

	Telegram Telegram
	Digest   Digest

	// Interpreter
	RecentExpensesLimit int `env:"RECENT_EXPENSES_LIMIT" envDefault:"5"`
	WebhookRateLimit    int `env:"WEBHOOK_RATE_LIMIT" envDefault:"60"`
}

type Telegram struct {
	Token string `env:"TELEGRAM_TOKEN"`
	// Timeout is the long-poll timeout in seconds.
	Timeout      int   `env:"TELEGRAM_TIMEOUT" envDefault:"60"`
	DigestChatID int64 `env:"TELEGRAM_DIGEST_CHAT_ID"`
}

type Digest struct {
	Cron    string `env:"DIGEST_CRON"`
	Command string `env:"DIGEST_COMMAND" envDefault:"expenses today"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Location resolves LedgerTimezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.LedgerTimezone)
}

// TelegramEnabled reports whether the Telegram gateway should run.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.Token != ""
}

// DigestEnabled reports whether the scheduled digest should run.
func (c *Config) DigestEnabled() bool {
	return c.Digest.Cron != "" && c.Telegram.DigestChatID != 0
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	// Validate ledger backend
	switch c.LedgerBackend {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			errors = append(errors, "POSTGRES_DSN is required when using postgres backend")
		}
	case "memory":
	default:
		errors = append(errors, fmt.Sprintf("invalid ledger backend '%s': must be one of [sqlite postgres memory]", c.LedgerBackend))
	}

	if _, err := c.Location(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid ledger timezone '%s': %v", c.LedgerTimezone, err))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.Telegram.Timeout < 1 {
		errors = append(errors, fmt.Sprintf("invalid telegram timeout %d: must be at least 1 second", c.Telegram.Timeout))
	}

	// Validate digest schedule if provided
	if c.Digest.Cron != "" {
		if _, err := cron.ParseStandard(c.Digest.Cron); err != nil {
			errors = append(errors, fmt.Sprintf("invalid digest schedule '%s': %v", c.Digest.Cron, err))
		}
		if c.Telegram.Token == "" || c.Telegram.DigestChatID == 0 {
			errors = append(errors, "DIGEST_CRON requires TELEGRAM_TOKEN and TELEGRAM_DIGEST_CHAT_ID")
		}
		if strings.TrimSpace(c.Digest.Command) == "" {
			errors = append(errors, "DIGEST_COMMAND cannot be empty when DIGEST_CRON is set")
		}
	}

	if c.RecentExpensesLimit < 1 || c.RecentExpensesLimit > 100 {
		errors = append(errors, fmt.Sprintf("invalid recent expenses limit %d: must be between 1 and 100", c.RecentExpensesLimit))
	}
	if c.WebhookRateLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid webhook rate limit %d: must be at least 1 request per minute", c.WebhookRateLimit))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}
