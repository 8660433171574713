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

	"github.com/enserhq/enserv/internal/clock"
	"github.com/enserhq/enserv/internal/config"
	"github.com/enserhq/enserv/internal/domain/billing"
	"github.com/enserhq/enserv/internal/domain/task"
	"github.com/enserhq/enserv/internal/notify"
	"github.com/enserhq/enserv/internal/sqlite"
	"github.com/enserhq/enserv/internal/transport/rest"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	taskRepo := sqlite.NewTaskRepository(db)
	remarkRepo := sqlite.NewRemarkRepository(db)
	billingRepo := sqlite.NewBillingRepository(db)
	directoryRepo := sqlite.NewDirectoryRepository(db)

	var notifier task.Notifier
	if cfg.SMTP.Host != "" {
		notifier = notify.NewSMTPNotifier(
			cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	} else {
		logger.Warn("smtp host not configured, notifications will be logged only")
		notifier = notify.NewLogNotifier(logger)
	}

	clk := clock.System()
	taskSvc := task.NewService(taskRepo, remarkRepo, directoryRepo, notifier, clk, logger, task.Options{
		StrictInternalTransitions: cfg.Workflow.StrictInternalTransitions,
		RejectCustomerTransitions: cfg.Workflow.RejectCustomerTransitions,
		NotifyTimeout:             time.Duration(cfg.Workflow.NotifyTimeoutSeconds) * time.Second,
	})
	billingSvc := billing.NewService(billingRepo, clk, logger)

	router := rest.NewRouter(taskSvc, billingSvc, logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
