package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/telaviv/ops-dashboard/internal/api/http"
	"github.com/telaviv/ops-dashboard/internal/api/http/handlers"
	"github.com/telaviv/ops-dashboard/internal/auth"
	"github.com/telaviv/ops-dashboard/internal/backend"
	"github.com/telaviv/ops-dashboard/internal/config"
	"github.com/telaviv/ops-dashboard/internal/events"
	"github.com/telaviv/ops-dashboard/internal/navigation"
	"github.com/telaviv/ops-dashboard/internal/observability"
	"github.com/telaviv/ops-dashboard/internal/persistence"
	"github.com/telaviv/ops-dashboard/internal/service"
	"github.com/telaviv/ops-dashboard/internal/session"
	"github.com/telaviv/ops-dashboard/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, dependencies, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open session store", zap.String("driver", cfg.Session.Driver), zap.Error(err))
	}
	defer closeStore()

	catalog := navigation.Default()
	if cfg.Navigation.CatalogFile != "" {
		catalog, err = navigation.Load(cfg.Navigation.CatalogFile)
		if err != nil {
			logger.Fatal("failed to load navigation catalog", zap.Error(err))
		}
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	manager := session.NewManager(store, session.NewDecoder(), dispatcher, logger)
	client := backend.NewClient(cfg.Backend.APIRoot, cfg.Backend.Timeout(), backend.WithLogger(logger))

	registry, err := service.NewScreenRegistry(cfg.Session.CacheSize)
	if err != nil {
		logger.Fatal("failed to create screen registry", zap.Error(err))
	}
	notices, err := service.NewNotificationService(logger, cfg.Session.CacheSize)
	if err != nil {
		logger.Fatal("failed to create notification service", zap.Error(err))
	}
	worker.StartNotificationWorker(dispatcher, notices, registry)

	authService := service.NewAuthService(client, notices, cfg.Auth.RequireRecaptcha, logger)
	usersService := service.NewUsersService(client, notices, registry, cfg.Lists.UsersPageSize, logger)
	logsService := service.NewLogsService(client, notices, registry, cfg.Lists.LogsPageSize)
	exportService := service.NewExportService(client, notices, registry, cfg.Export.MaxWindowDays, cfg.Export.Location())

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies, metrics),
		Session:           handlers.NewSessionHandler(authService, notices, cfg.Auth.LoginPath, cfg.Auth.HomePath),
		Shell:             handlers.NewShellHandler(catalog, cfg.Navigation.Reports),
		Users:             handlers.NewUsersHandler(usersService),
		Logs:              handlers.NewLogsHandler(logsService),
		Export:            handlers.NewExportHandler(exportService),
		SessionMiddleware: auth.NewSessionMiddleware(manager, cfg.Session.CookieName, cfg.Session.CookieSecure, logger),
		Guard:             auth.GuardConfig{LoginPath: cfg.Auth.LoginPath, HomePath: cfg.Auth.HomePath, Metrics: metrics},
		Catalog:           catalog,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

// openStore builds the token store for the configured driver, optionally
// sealed, plus the dependencies probed by the readiness check.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.TokenStore, map[string]handlers.Pinger, func(), error) {
	var (
		store        session.TokenStore
		dependencies = map[string]handlers.Pinger{}
		closeFn      = func() {}
	)

	switch cfg.Session.Driver {
	case config.SessionDriverRedis:
		rdb, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		store = session.NewRedisStore(rdb.Client, cfg.Session.RedisKeyPrefix, cfg.Session.RedisTTL())
		dependencies["redis"] = rdb
		closeFn = rdb.Close
	case config.SessionDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
				pg.Close()
				return nil, nil, nil, err
			}
		}
		store = session.NewPostgresStore(pg.Pool)
		dependencies["postgres"] = pg
		closeFn = pg.Close
	default:
		store = session.NewMemoryStore()
	}

	if cfg.Session.SealSecret != "" {
		sealed, err := session.NewSealedStore(store, cfg.Session.SealSecret)
		if err != nil {
			closeFn()
			return nil, nil, nil, err
		}
		store = sealed
	}

	logger.Info("session store ready", zap.String("driver", cfg.Session.Driver), zap.Bool("sealed", cfg.Session.SealSecret != ""))
	return store, dependencies, closeFn, nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
