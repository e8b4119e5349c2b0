package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"novi.com/app/internal/app"
	"novi.com/app/internal/config"
	"novi.com/app/internal/diagnostics"
	apphttp "novi.com/app/internal/http"
	"novi.com/app/internal/http/flash"
	"novi.com/app/internal/metrics"
	"novi.com/app/internal/shared/auth"
	"novi.com/app/internal/shared/logging"
	"novi.com/app/internal/storage"
	"novi.com/app/internal/tracing"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing.ServiceName, cfg.Tracing.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, err := app.OpenDB(cfg.DB.DSN)
	if err != nil {
		return err
	}
	if cfg.DB.AutoMigrate {
		if err := app.Migrate(ctx, db); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}

	store, err := storage.FromEnv(ctx)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	logger.Info("storage ready", slog.String("driver", store.Driver))

	m := metrics.New()
	a, err := app.New(app.Deps{Config: cfg, DB: db, Storage: store.Storage, Logger: logger, Metrics: m})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Reindex(ctx); err != nil {
		return err
	}

	if a.Consumer != nil {
		go func() {
			if err := a.Consumer.Run(ctx); err != nil {
				logger.Error("kafka consumer stopped", slog.Any("err", err))
			}
		}()
		logger.Info("kafka enabled", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("topic", cfg.Kafka.Topic))
	}

	diag := diagnostics.NewServer(cfg.DiagAddr, m.Handler(), map[string]diagnostics.Check{
		"db": func(ctx context.Context) error { return app.Ping(ctx, db) },
	})
	go func() {
		if err := diag.Start(); err != nil {
			logger.Error("diagnostics server stopped", slog.Any("err", err))
		}
	}()

	validator := auth.NewValidator(cfg.Auth.JWTSecret)
	if !validator.Enabled() {
		logger.Warn("JWT_SECRET is empty, authentication is disabled")
	}

	r := apphttp.NewRouter(apphttp.RouterDeps{
		Logger:      logger,
		App:         a,
		Flash:       flash.NewCodec(cfg.FlashSecret, "", cfg.CookieSecure),
		Auth:        validator,
		Role:        cfg.Auth.Role,
		ServiceName: cfg.Tracing.ServiceName,
		UploadDir:   store.LocalDir,
		UploadURL:   store.URLPrefix,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	logger.Info("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return errors.Join(srv.Shutdown(sctx), diag.Shutdown(sctx))
}
