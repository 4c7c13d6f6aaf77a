package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"

	"bills-manager/internal/api"
	"bills-manager/internal/bot"
	"bills-manager/internal/config"
	"bills-manager/internal/logging"
	"bills-manager/internal/repository"
	"bills-manager/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Bills manager stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(logging.ParseLevel(cfg.LogLevel))

	db, err := repository.NewDB(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}
	slog.Info("Storage initialized", "driver", cfg.DBDriver)

	billRepo := repository.NewBillRepository(db)
	billSvc := service.NewBillService(billRepo)

	if cfg.DigestEnabled() {
		var sender service.Sender
		if cfg.TelegramEnabled() {
			notifier, err := bot.New(cfg.TelegramToken, cfg.TelegramChatID)
			if err != nil {
				return err
			}
			sender = notifier
		}
		reminderSvc := service.NewReminderService(billRepo, sender)

		digest := func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := reminderSvc.Notify(jobCtx, time.Now()); err != nil {
				slog.Error("Digest failed", "error", err)
			}
		}

		scheduler := service.NewSchedulerService(time.Local)
		var id cron.EntryID
		if cfg.DigestEvery > 0 {
			id, err = scheduler.ScheduleInterval(cfg.DigestEvery, digest)
		} else {
			id, err = scheduler.ScheduleDaily(cfg.DigestAt, digest)
		}
		if err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
		slog.Info("Digest scheduled", "next", scheduler.Next(id), "telegram", sender != nil)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := api.NewRouter(api.NewHandler(billSvc, billRepo), api.Options{
		CORSOrigins: cfg.CORSOrigins,
		Registry:    registry,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "address", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("Shutdown complete.")
	return nil
}
