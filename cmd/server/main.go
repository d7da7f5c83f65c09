package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"luct/reporting/internal/auth"
	"luct/reporting/internal/cache"
	"luct/reporting/internal/config"
	"luct/reporting/internal/db"
	reportinggrpc "luct/reporting/internal/grpc"
	internalhttp "luct/reporting/internal/http"
	"luct/reporting/internal/identity"
	"luct/reporting/internal/jobs"
	"luct/reporting/internal/repository"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		logger.Fatal("db connection failed", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Fatal("schema migration failed", zap.Error(err))
	}
	if cfg.SeedUsersPath != "" {
		inserted, err := db.SeedUsersFromFile(ctx, pool, cfg.SeedUsersPath)
		if err != nil {
			logger.Fatal("seeding users failed", zap.String("path", cfg.SeedUsersPath), zap.Error(err))
		}
		logger.Info("seeded users", zap.Int("inserted", inserted))
	}

	store := repository.NewStore(pool, cfg.DBQueryTimeout)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			logger.Fatal("redis ping failed", zap.Error(err))
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close error", zap.Error(err))
			}
		}()
	}
	ratings := cache.NewRatingCache(redisClient, cfg.RatingCacheTTL)

	if cfg.UsesDefaultJWTSecret() {
		logger.Warn("JWT_SECRET is not set; signing tokens with the development secret")
	}
	tokens := auth.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL)
	identitySvc := identity.NewService(store, tokens, cfg.IssueTokenOnRegister, logger)

	server := internalhttp.NewServer(cfg, identitySvc, tokens, store, ratings, logger)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer, err := reportinggrpc.NewServer(reportinggrpc.NewHealthServer(store, 2*time.Second, logger), cfg.ServiceAuthToken, tokens, logger)
	if err != nil {
		logger.Fatal("grpc server init failed", zap.Error(err))
	}

	jobs.StartPendingReportsJob(ctx, cfg.PendingReportsJobInterval, store, logger)

	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	go func() {
		listener, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			logger.Fatal("grpc listen error", zap.Error(err))
		}
		logger.Info("grpc listening", zap.String("addr", cfg.GRPCAddr))
		if err := grpcServer.Serve(listener); err != nil {
			logger.Fatal("grpc server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}
	grpcServer.GracefulStop()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.LogDevelopment {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
