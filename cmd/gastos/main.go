package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"gastos/internal/backend"
	"gastos/internal/config"
	"gastos/internal/digest"
	"gastos/internal/dispatch"
	apphttp "gastos/internal/http"
	"gastos/internal/ledger"
	"gastos/internal/log"
	"gastos/internal/telegram"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	bootLogger := log.New(log.DefaultConfig())

	cfg, err := config.Load()
	if err != nil {
		bootLogger.Error("Failed to load configuration",
			log.NewFields().WithError(err, log.ErrorTypeConfiguration).ToSlice()...)
		return err
	}
	if err := cfg.Validate(); err != nil {
		bootLogger.Error("Configuration validation failed",
			log.NewFields().WithError(err, log.ErrorTypeConfiguration).ToSlice()...)
		return err
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	logger := log.New(log.Config{Level: level, Component: log.ComponentApp, Format: "text", Output: os.Stdout})
	log.SetDefault(logger)

	loc, _ := cfg.Location()
	logger.Info("Starting gastos", "port", cfg.Port, "backend", cfg.LedgerBackend, "timezone", loc.String())

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", backendCfg.Type)
		return err
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	dispatcher := dispatch.New(result.Store,
		dispatch.WithLocation(loc),
		dispatch.WithRecentLimit(cfg.RecentExpensesLimit),
		dispatch.WithLogger(logger),
	)

	serverOpts := []apphttp.Option{
		apphttp.WithLogger(logger),
		apphttp.WithRateLimit(cfg.WebhookRateLimit),
	}
	if p, ok := result.Store.(ledger.Pinger); ok {
		serverOpts = append(serverOpts, apphttp.WithReadinessCheck(p))
	}
	srv := apphttp.NewServer(":"+cfg.Port, dispatcher, serverOpts...)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Webhook server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down webhook server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.TelegramEnabled() {
		api, updates, err := telegram.Connect(cfg.Telegram.Token, cfg.Telegram.Timeout)
		if err != nil {
			logger.Error("Failed to start Telegram gateway", log.FieldError, err)
			stop()
			_ = g.Wait()
			return err
		}
		logger.Info("Telegram gateway authorized", "bot", api.Self.UserName)

		bot := telegram.NewBot(api, updates, dispatcher, logger)
		g.Go(func() error {
			defer api.StopReceivingUpdates()
			return bot.Consume(gctx)
		})

		if cfg.DigestEnabled() {
			notifier := telegram.NewNotifier(api, cfg.Telegram.DigestChatID)
			scheduler, err := digest.New(cfg.Digest.Cron, cfg.Digest.Command, dispatcher, notifier,
				digest.WithLocation(loc), digest.WithLogger(logger))
			if err != nil {
				logger.Error("Failed to configure digest", log.FieldError, err)
				stop()
				_ = g.Wait()
				return err
			}
			g.Go(func() error { return scheduler.Run(gctx) })
		}
	} else {
		logger.Info("Telegram gateway disabled - no TELEGRAM_TOKEN provided")
	}

	if err := g.Wait(); err != nil {
		logger.Error("Gastos stopped with error", log.FieldError, err)
		return err
	}
	logger.Info("Gastos stopped gracefully")
	return nil
}
