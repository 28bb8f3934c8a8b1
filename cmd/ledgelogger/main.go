package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/aaditya574/ledgelogger/internal/app"
	"github.com/aaditya574/ledgelogger/internal/auth"
	"github.com/aaditya574/ledgelogger/internal/ledger"
	"github.com/aaditya574/ledgelogger/internal/masterdata"
	"github.com/aaditya574/ledgelogger/internal/masterdata/buyers"
	"github.com/aaditya574/ledgelogger/internal/masterdata/items"
	"github.com/aaditya574/ledgelogger/internal/masterdata/vendors"
	"github.com/aaditya574/ledgelogger/internal/observability"
	"github.com/aaditya574/ledgelogger/internal/platform/cache"
	"github.com/aaditya574/ledgelogger/internal/platform/db"
	"github.com/aaditya574/ledgelogger/internal/reports"
	"github.com/aaditya574/ledgelogger/internal/shared"
	"github.com/aaditya574/ledgelogger/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "ledgelogger_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	idempotencyStore := shared.NewIdempotencyStore(dbpool)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	reportCache := reports.NewCache(redisClient, 10*time.Minute)
	reportRepo := reports.NewRepository(dbpool)
	reportService := reports.NewService(reportRepo, reportCache)
	reportHandler := reports.NewHandler(logger, reportService)

	directory := masterdata.NewDirectory(dbpool)
	ledgerRepo := ledger.NewRepository(dbpool)
	ledgerService := ledger.NewService(ledgerRepo, directory, idempotencyStore, reportCache, logger)
	ledgerHandler := ledger.NewHandler(logger, ledgerService)

	itemsHandler := items.NewHandler(logger, items.NewService(items.NewRepository(dbpool)))
	vendorsHandler := vendors.NewHandler(logger, vendors.NewService(vendors.NewRepository(dbpool)))
	buyersHandler := buyers.NewHandler(logger, buyers.NewService(buyers.NewRepository(dbpool)))

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		AuthHandler:    authHandler,
		LedgerHandler:  ledgerHandler,
		ReportsHandler: reportHandler,
		ItemsHandler:   itemsHandler,
		VendorsHandler: vendorsHandler,
		BuyersHandler:  buyersHandler,
		JobsHandler:    jobsHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
