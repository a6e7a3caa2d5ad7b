package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/cafebooks/cafebooks/internal/accounting/accounts"
	"github.com/cafebooks/cafebooks/internal/accounting/journals"
	"github.com/cafebooks/cafebooks/internal/accounting/posting"
	"github.com/cafebooks/cafebooks/internal/app"
	"github.com/cafebooks/cafebooks/internal/fx"
	"github.com/cafebooks/cafebooks/internal/inventory"
	"github.com/cafebooks/cafebooks/internal/masterdata/products"
	"github.com/cafebooks/cafebooks/internal/masterdata/warehouses"
	"github.com/cafebooks/cafebooks/internal/observability"
	"github.com/cafebooks/cafebooks/internal/platform/cache"
	"github.com/cafebooks/cafebooks/internal/platform/db"
	"github.com/cafebooks/cafebooks/internal/procurement"
	"github.com/cafebooks/cafebooks/internal/shared"
	"github.com/cafebooks/cafebooks/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, stock totals cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	validate := validator.New()
	auditLogger := shared.NewAuditLogger(pool)
	metrics := observability.NewMetrics()

	accountsRepo := accounts.NewRepository(pool)
	accountsService := accounts.NewService(accountsRepo, logger)
	chart, err := accountsService.EnsureSeeded(ctx, cfg.ChartSeedPath)
	if err != nil {
		// A corrupt or incomplete chart means postings would dangle;
		// refuse to start.
		logger.Error("seed chart of accounts", slog.Any("error", err))
		os.Exit(1)
	}

	fxRepo := fx.NewRepository(pool)
	fxService, err := fx.LoadService(ctx, cfg.BaseCurrency, fxRepo)
	if err != nil {
		logger.Error("load fx rates", slog.Any("error", err))
		os.Exit(1)
	}

	journalsRepo := journals.NewRepository(pool)
	journalsService := journals.NewService(journalsRepo, auditLogger)
	postingService := posting.NewService(journalsService, chart, fxService.Table())

	warehousesRepo := warehouses.NewRepository(pool)
	warehousesService := warehouses.NewService(warehousesRepo)
	if _, err := warehousesService.EnsureDefault(ctx); err != nil {
		logger.Error("ensure default warehouse", slog.Any("error", err))
		os.Exit(1)
	}

	productsRepo := products.NewRepository(pool)
	productsService := products.NewService(productsRepo)

	totalsCache := inventory.NewTotalsCache(redisClient, cfg.StockCacheTTL)
	if redisClient == nil {
		totalsCache = nil
	}

	inventoryRepo := inventory.NewRepository(pool)
	inventoryService := inventory.NewService(inventoryRepo, chart, totalsCache, auditLogger, logger, inventory.Config{
		ClampToZero: cfg.StockClampToZero,
		Currency:    cfg.BaseCurrency,
	})

	procurementRepo := procurement.NewRepository(pool)
	procurementService := procurement.NewService(procurementRepo, chart, totalsCache, auditLogger, logger, procurement.Config{
		Currency: cfg.BaseCurrency,
	})

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		AccountsHandler:    accounts.NewHandler(accountsService),
		JournalsHandler:    journals.NewHandler(logger, journalsService, validate),
		PostingHandler:     posting.NewHandler(logger, postingService, validate),
		FxHandler:          fx.NewHandler(logger, fxService, validate),
		InventoryHandler:   inventory.NewHandler(logger, inventoryService, validate),
		ProcurementHandler: procurement.NewHandler(logger, procurementService, validate),
		ProductsHandler:    products.NewHandler(productsService, validate),
		WarehousesHandler:  warehouses.NewHandler(warehousesService, validate),
		JobsHandler:        jobs.NewHandler(inspector, logger),
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}
