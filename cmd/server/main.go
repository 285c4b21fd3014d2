package main

import (
	"context"
	"log/slog"
	"os"

	redisv9 "github.com/redis/go-redis/v9"

	"shopgraph/internal/app/di"
	"shopgraph/internal/app/router"
	authadapters "shopgraph/internal/feature/auth/adapters"
	authusecase "shopgraph/internal/feature/auth/usecase"
	cartusecase "shopgraph/internal/feature/cart/usecase"
	catalogadapters "shopgraph/internal/feature/catalog/adapters"
	catalogusecase "shopgraph/internal/feature/catalog/usecase"
	orderadapters "shopgraph/internal/feature/order/adapters"
	orderusecase "shopgraph/internal/feature/order/usecase"
	"shopgraph/internal/graph"
	"shopgraph/internal/platform/config"
	infradb "shopgraph/internal/platform/db"
	"shopgraph/internal/platform/events"
	"shopgraph/internal/platform/http/handler"
	jwtmw "shopgraph/internal/platform/jwt"
	"shopgraph/internal/platform/password"
	infraredis "shopgraph/internal/platform/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg)

	// db
	db, err := infradb.Open(infradb.Config{
		Driver:        cfg.DatabaseDriver,
		DSN:           cfg.DatabaseURL,
		RunMigrations: cfg.RunMigrations,
	})
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("failed to get sql.DB", "error", err)
		os.Exit(1)
	}

	// Redis（任意）
	var rdb *redisv9.Client
	if addr := cfg.RedisAddr(); addr != "" {
		if tmp, err := infraredis.NewRedisClient(context.Background(), addr, cfg.RedisPassword); err != nil {
			slog.Warn("Redis unavailable. Using in-process login limiter.", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// Kafka（任意）
	publisher := di.NewEventPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			slog.Error("failed to close event publisher", "error", err)
		}
	}()

	// Repository
	userRepo := authadapters.NewUserGorm(db)
	productRepo := catalogadapters.NewProductGorm(db)
	orderRepo := orderadapters.NewOrderGorm(db)

	// Usecase
	authUC := authusecase.NewAuthUsecase(
		userRepo,
		jwtmw.NewGenerator(cfg.JWTSecret, cfg.TokenTTL()),
		password.NewHasher(cfg.BcryptCost),
		di.NewLoginLimiter(rdb, cfg),
		authusecase.WithThrottleDelay(cfg.LoginThrottleDelay),
	)
	catalogUC := catalogusecase.NewCatalogUsecase(productRepo)
	cartUC := cartusecase.NewCartUsecase(userRepo)
	orderUC := orderusecase.NewOrderUsecase(userRepo, orderRepo, events.NewOrderEvents(publisher, cfg.OrderEventsTopic))

	// GraphQL
	schema, err := graph.NewSchema(&graph.Resolver{
		Auth:    authUC,
		Catalog: catalogUC,
		Cart:    cartUC,
		Orders:  orderUC,
	})
	if err != nil {
		slog.Error("failed to build GraphQL schema", "error", err)
		os.Exit(1)
	}

	// ルータ生成
	r := router.NewRouter(
		graph.NewHandler(schema),
		handler.NewHealthHandler(sqlDB),
		jwtmw.NewVerifier(cfg.JWTSecret),
		router.Options{AllowedOrigins: cfg.CORSAllowedOrigins},
	)

	slog.Info("server listening", "addr", cfg.Addr(), "driver", cfg.DatabaseDriver)
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
