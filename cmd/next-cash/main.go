package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/oscarlagatta/next-cash/internal/config"
	"github.com/oscarlagatta/next-cash/internal/events"
	apphttp "github.com/oscarlagatta/next-cash/internal/http"
	applog "github.com/oscarlagatta/next-cash/internal/log"
	"github.com/oscarlagatta/next-cash/internal/services"
	"github.com/oscarlagatta/next-cash/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}

	storageLog := logger.WithComponent(applog.ComponentStorage)
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		storageLog.Error("Failed to open database", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()
	storageLog.Info("Database ready", "path", cfg.SQLiteDBPath)

	eventsLog := logger.WithComponent(applog.ComponentEvents)
	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			eventsLog.Error("Failed to connect to AMQP broker", applog.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
		eventsLog.Info("Event publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		eventsLog.Info("Event publishing disabled")
	}

	cashflowSvc := services.NewCashflowService(repo)
	querySvc := services.NewQueryService(repo, repo)
	mutationSvc := services.NewTransactionService(repo, repo, publisher)

	srv := apphttp.NewServer(":"+cfg.Port, cashflowSvc, querySvc, mutationSvc, apphttp.Options{
		RecentLimit: cfg.RecentLimit,
		CacheTTL:    cfg.CacheTTL,
		CacheSize:   cfg.CacheSize,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server", "port", cfg.Port, "db", cfg.SQLiteDBPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
