package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/config"
	"storefront/handlers"
	"storefront/repository"
	"storefront/services"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cncl := context.WithTimeout(context.Background(), 5*time.Second)
	storage, catalog, closeFn, err := initStorage(ctx, cfg, logger)
	cncl()
	if err != nil {
		logger.Fatal("storage init failed",
			zap.String("backend", cfg.StorageBackend),
			zap.Error(err))
	}
	defer closeFn()
	logger.Info("storage connected", zap.String("backend", cfg.StorageBackend))

	basketR, err := repository.NewBasketRepository(storage, cfg.BasketKey, logger)
	if err != nil {
		logger.Fatal("basket repository", zap.Error(err))
	}
	notifier := services.NewLogNotifier(logger)
	pricing := services.NewPricingService(basketR, catalog, logger)
	hp := handlers.HandlerParams{
		BasketService:   services.NewBasketService(basketR, pricing, notifier, logger),
		PricingService:  pricing,
		CheckoutService: services.NewCheckoutService(basketR, pricing, notifier, []byte(cfg.FingerprintKey), logger),
		ProductService:  services.NewProductService(catalog, logger),
		Logger:          logger,
	}
	router := handlers.NewRouter(handlers.NewHandler(hp))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("starting server...", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// initStorage opens the configured backend and picks the catalog. The
// returned close function releases the connection.
func initStorage(ctx context.Context, cfg config.Config, logger *zap.Logger) (repository.Storage, repository.CatalogRepository, func(), error) {
	noop := func() {}
	switch cfg.StorageBackend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: "",
			DB:       cfg.RedisDB,
		})
		s, err := repository.NewRedisStorage(ctx, rdb, cfg.BasketTTL, logger)
		if err != nil {
			rdb.Close()
			return nil, nil, noop, err
		}
		return s, repository.NewStaticCatalog(), func() { rdb.Close() }, nil
	case config.BackendSQLite, config.BackendPostgres:
		driver, dsn := repository.DriverSQLite, cfg.SQLitePath
		if cfg.StorageBackend == config.BackendPostgres {
			driver, dsn = repository.DriverPostgres, cfg.PostgresDSN()
		}
		db, err := sql.Open(driver, dsn)
		if err != nil {
			return nil, nil, noop, err
		}
		s, err := repository.NewSQLStorage(ctx, db, driver, logger)
		if err != nil {
			db.Close()
			return nil, nil, noop, err
		}
		var catalog repository.CatalogRepository = repository.NewStaticCatalog()
		if cfg.CatalogSource == config.CatalogDatabase {
			catalog, err = repository.LoadCatalog(ctx, db, logger)
			if err != nil {
				db.Close()
				return nil, nil, noop, err
			}
		}
		return s, catalog, func() { db.Close() }, nil
	default:
		return repository.NewMemoryStorage(), repository.NewStaticCatalog(), noop, nil
	}
}
