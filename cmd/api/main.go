// cmd/api/main.go
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

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/gajahnusa/retail-be/internal/adapters/db"
	queue_a "github.com/gajahnusa/retail-be/internal/adapters/queue_adapter"
	redis_a "github.com/gajahnusa/retail-be/internal/adapters/redis_adapter"
	"github.com/gajahnusa/retail-be/internal/core/ports"
	"github.com/gajahnusa/retail-be/internal/core/services"
	"github.com/gajahnusa/retail-be/internal/handlers"
	"github.com/gajahnusa/retail-be/internal/handlers/middleware"
	"github.com/gajahnusa/retail-be/internal/pkg/config"
	"github.com/gajahnusa/retail-be/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting retail stock tracking system",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	// Load configuration
	slogger.Info("loading configuration")
	cfg, err := config.Load(slogger.Logger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger.Logger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	// Run database migrations outside production
	if cfg.App.Environment != "production" {
		if err := runMigrations(ctx, cfg, slogger.Logger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
			// Don't exit in development, just warn
		}
	}

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		if err := deps.taskQueue.Close(); err != nil {
			slogger.Error("failed to close task queue", slog.String("error", err.Error()))
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database       ports.Database
	redisClient    *redis.Client
	redisCache     ports.CacheRepository
	asynqInspector *asynq.Inspector
	taskQueue      ports.TaskQueue

	inventoryHandler     *handlers.InventoryHandler
	warehouseHandler     *handlers.WarehouseHandler
	purchaseOrderHandler *handlers.PurchaseOrderHandler
	posHandler           *handlers.PosHandler
	catalogHandler       *handlers.CatalogHandler
	healthHandler        *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.database != nil {
		d.database.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.taskQueue != nil {
		d.taskQueue.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	logger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	logger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		PoolTimeout:     cfg.Redis.PoolTimeout,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient
	deps.redisCache = redis_a.NewCache(redisClient, cfg.Redis.TTL, logger)

	logger.Info("initializing task queue")

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.taskQueue = queue_a.NewQueue(asynq.NewClient(asynqRedisOpt), logger)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	// Repositories
	inventoryRepo := db.NewInventoryRepository(database, logger)
	warehouseRepo := db.NewWarehouseRepository(database, logger)
	movementRepo := db.NewMovementRepository(database, logger)
	orderRepo := db.NewPurchaseOrderRepository(database, logger)
	transactionRepo := db.NewTransactionRepository(database, logger)
	productRepo := db.NewProductRepository(database, logger)
	storeRepo := db.NewStoreRepository(database, logger)

	// Services
	ledger := services.NewLedger(inventoryRepo, warehouseRepo, movementRepo, logger)
	inventoryService := services.NewInventoryService(
		ledger, inventoryRepo, movementRepo, productRepo,
		database, deps.redisCache, deps.taskQueue, cfg.POS.LowStockAlerts, logger,
	)
	warehouseService := services.NewWarehouseService(warehouseRepo, deps.redisCache, logger)
	purchaseOrderService := services.NewPurchaseOrderService(
		ledger, orderRepo, productRepo, storeRepo,
		database, deps.redisCache, logger,
	)
	posService := services.NewPosService(
		ledger, transactionRepo, productRepo,
		database, deps.redisCache, deps.taskQueue,
		cfg.POS.TaxRate, cfg.POS.LowStockAlerts, logger,
	)
	catalogService := services.NewCatalogService(productRepo, storeRepo, deps.redisCache, logger)

	// Handlers
	deps.inventoryHandler = handlers.NewInventoryHandler(inventoryService, logger)
	deps.warehouseHandler = handlers.NewWarehouseHandler(warehouseService, logger)
	deps.purchaseOrderHandler = handlers.NewPurchaseOrderHandler(purchaseOrderService, logger)
	deps.posHandler = handlers.NewPosHandler(posService, logger)
	deps.catalogHandler = handlers.NewCatalogHandler(catalogService, logger)
	deps.healthHandler = handlers.NewHealthHandler(
		database,
		redisClient,
		deps.asynqInspector,
		cfg,
		logger,
	)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, l *logger.Logger) *http.Server {
	mux := http.NewServeMux()

	registerRoutes(mux, deps)

	// Apply middleware in reverse order (innermost first)
	var handler http.Handler = mux

	handler = middleware.Timeout(cfg.Server.WriteTimeout)(handler)
	handler = middleware.Compression(handler)

	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}
	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	handler = middleware.Recovery(l.Logger)(handler)
	handler = middleware.Logger(l)(handler)
	handler = middleware.RequestID(handler)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(l.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies) {
	apiV1 := "/api/v1"

	// Health and readiness endpoints
	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)

	// Store inventory
	mux.HandleFunc("POST "+apiV1+"/inventory/adjust", deps.inventoryHandler.AdjustStock)
	mux.HandleFunc("GET "+apiV1+"/inventory", deps.inventoryHandler.ListInventory)
	mux.HandleFunc("GET "+apiV1+"/movements", deps.inventoryHandler.ListMovements)

	// Central warehouse
	mux.HandleFunc("GET "+apiV1+"/warehouse", deps.warehouseHandler.ListStock)
	mux.HandleFunc("GET "+apiV1+"/warehouse/{productID}", deps.warehouseHandler.GetStock)

	// Purchase orders
	mux.HandleFunc("POST "+apiV1+"/purchase-orders", deps.purchaseOrderHandler.Create)
	mux.HandleFunc("GET "+apiV1+"/purchase-orders", deps.purchaseOrderHandler.List)
	mux.HandleFunc("GET "+apiV1+"/purchase-orders/{id}", deps.purchaseOrderHandler.Get)
	mux.HandleFunc("PATCH "+apiV1+"/purchase-orders/{id}/status", deps.purchaseOrderHandler.Transition)

	// Point of sale
	mux.HandleFunc("POST "+apiV1+"/transactions", deps.posHandler.CommitSale)
	mux.HandleFunc("GET "+apiV1+"/transactions", deps.posHandler.List)
	mux.HandleFunc("GET "+apiV1+"/transactions/{id}", deps.posHandler.Get)

	// Reference data
	mux.HandleFunc("GET "+apiV1+"/products", deps.catalogHandler.ListProducts)
	mux.HandleFunc("GET "+apiV1+"/stores", deps.catalogHandler.ListStores)
}

func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}

	return db.RunMigrationsWithRetry(ctx, migrationConfig, logger, 3)
}
