package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/odyssey-erp/stockroom/internal/app"
	"github.com/odyssey-erp/stockroom/internal/auth"
	"github.com/odyssey-erp/stockroom/internal/dashboard"
	"github.com/odyssey-erp/stockroom/internal/observability"
	"github.com/odyssey-erp/stockroom/internal/platform/cache"
	"github.com/odyssey-erp/stockroom/internal/platform/db"
	"github.com/odyssey-erp/stockroom/internal/products"
	"github.com/odyssey-erp/stockroom/internal/rbac"
	"github.com/odyssey-erp/stockroom/internal/roles"
	"github.com/odyssey-erp/stockroom/internal/security"
	"github.com/odyssey-erp/stockroom/internal/users"
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

	codec, err := security.NewCodec([]byte(cfg.JWTSecret), security.WithTTL(cfg.TokenTTL))
	if err != nil {
		logger.Error("token codec", slog.Any("error", err))
		os.Exit(1)
	}
	hasher := security.NewHasher(cfg.BcryptCost)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if cfg.PGMigrate {
		if err := db.Migrate(ctx, dbpool); err != nil {
			logger.Error("migrate", slog.Any("error", err))
			os.Exit(1)
		}
	}

	var redisClient *redis.Client
	if cfg.TokenDenylistEnabled || cfg.DashboardCacheTTL > 0 {
		redisClient, err = cache.New(ctx, cache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		switch {
		case err != nil && cfg.TokenDenylistEnabled:
			logger.Error("connect redis", slog.Any("error", err))
			os.Exit(1)
		case err != nil:
			logger.Warn("redis unavailable, dashboard cache disabled", slog.Any("error", err))
		default:
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
		}
	}

	var denylist *security.Denylist
	if cfg.TokenDenylistEnabled {
		denylist = security.NewDenylist(redisClient)
	}

	metrics := observability.NewMetrics()
	if err := db.RegisterPoolMetrics(metrics.Registerer(), dbpool); err != nil {
		logger.Warn("register pool metrics", slog.Any("error", err))
	}

	authRepo := auth.NewRepository(dbpool)
	authGate := auth.NewGate(logger, codec, authRepo, auth.WithDenylist(denylist), auth.WithMetrics(metrics))
	authService := auth.NewService(authRepo, hasher, codec, denylist)
	authHandler := auth.NewHandler(logger, authService, authGate, metrics, cfg.IsProduction())

	rbacGate := rbac.NewGate(logger, rbac.NewService(dbpool), rbac.DefaultPolicy, metrics)

	productRepo := products.NewRepository(dbpool)
	productHandler := products.NewHandler(logger, products.NewService(productRepo), authGate.Require, rbacGate)

	userRepo := users.NewRepository(dbpool)
	userHandler := users.NewHandler(logger, users.NewService(userRepo, hasher), rbacGate)

	roleRepo := roles.NewRepository(dbpool)
	roleHandler := roles.NewHandler(logger, roles.NewService(roleRepo), rbacGate)

	var summaryCache *cache.JSONCache
	if redisClient != nil {
		summaryCache = cache.NewJSONCache(redisClient, cfg.DashboardCacheTTL)
	}
	dashboardService := dashboard.NewService(dashboard.Sources{
		Users:    userRepo.CountUsers,
		Products: productRepo.Count,
		Roles:    roleRepo.CountRoles,
	}, summaryCache)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService, rbacGate)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthGate:         authGate,
		AuthHandler:      authHandler,
		ProductsHandler:  productHandler,
		UsersHandler:     userHandler,
		RolesHandler:     roleHandler,
		DashboardHandler: dashboardHandler,
		Metrics:          metrics,
		Ready: func(r *http.Request) error {
			return dbpool.Ping(r.Context())
		},
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.String("env", cfg.AppEnv),
			slog.Bool("token_denylist", cfg.TokenDenylistEnabled))
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
