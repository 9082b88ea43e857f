package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/catalog-service/internal/cache"
	"github.com/maxviazov/catalog-service/internal/config"
	"github.com/maxviazov/catalog-service/internal/handler"
	"github.com/maxviazov/catalog-service/internal/logger"
	"github.com/maxviazov/catalog-service/internal/middleware"
	"github.com/maxviazov/catalog-service/internal/model"
	"github.com/maxviazov/catalog-service/internal/repository"
	"github.com/maxviazov/catalog-service/internal/repository/memory"
	"github.com/maxviazov/catalog-service/internal/repository/postgres"
	"github.com/maxviazov/catalog-service/internal/service"
)

// storage is the set of repositories the services run on.
type storage struct {
	products repository.ProductRepository
	roles    repository.RoleRepository
	tx       repository.TxManager
	pinger   repository.Pinger
	close    func()
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file (empty to use defaults and env only)")
	flag.Parse()

	// Load application config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	// Initialize logger
	if cfg.Logger.ServiceVersion == "" {
		cfg.Logger.ServiceVersion = cfg.App.Version
	}
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}
	appLogger.Info().Msg("✅ Logger initialized successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg, &appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("❌ Storage initialization failed")
	}
	defer store.close()

	productCache, err := cache.New[model.Product]("Product", cfg.Cache)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("❌ Cache initialization failed")
	}

	services := handler.Services{
		Products: service.NewProductService(store.products, store.tx, productCache, appLogger),
		Roles:    service.NewRoleService(store.roles, store.tx, appLogger),
	}

	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(appLogger),
		gin.Recovery(),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Timeout(cfg.App.RequestTimeout),
		middleware.Actor(),
	)
	handler.Register(r, store.pinger, services, cfg.Pagination.DefaultPageSize)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           r,
		ReadHeaderTimeout: cfg.App.RequestTimeout,
	}

	go func() {
		appLogger.Info().Int("port", cfg.App.Port).Str("storage", cfg.Storage.Driver).Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func openStorage(ctx context.Context, cfg *config.Config, appLogger *zerolog.Logger) (storage, error) {
	if cfg.Storage.Driver == "memory" {
		appLogger.Warn().Msg("using in-memory storage; data is lost on restart")
		return storage{
			products: memory.NewProductRepository(),
			roles:    memory.NewRoleRepository(),
			tx:       memory.NewTxManager(),
			pinger:   memory.Pinger{},
			close:    func() {},
		}, nil
	}

	pool, err := postgres.Connect(ctx, cfg.Postgres, appLogger)
	if err != nil {
		return storage{}, err
	}
	if cfg.Storage.Migrate {
		if err := postgres.Migrate(ctx, pool, *appLogger); err != nil {
			pool.Close()
			return storage{}, err
		}
	}
	return storage{
		products: postgres.NewProductRepository(pool),
		roles:    postgres.NewRoleRepository(pool),
		tx:       postgres.NewTxManager(pool),
		pinger:   postgres.NewPinger(pool),
		close:    pool.Close,
	}, nil
}
