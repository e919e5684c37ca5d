package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/adapters/http/router"
	memorystorage "github.com/Ball1992/project-management-with-nextjs-sub002/internal/adapters/storage/memory"
	redisstorage "github.com/Ball1992/project-management-with-nextjs-sub002/internal/adapters/storage/redis"
	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/config"
	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/core/ports"
	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/core/services"
	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	storage, closeFn, err := initStorage(cfg.Storage, log)
	if err != nil {
		log.Fatalw("failed to init storage", "error", err)
	}
	defer closeFn()

	limiter, err := services.NewRateLimiterService(storage, services.Config{
		DefaultPolicy:      cfg.RateLimiter.DefaultPolicy,
		RoutePolicies:      cfg.RateLimiter.RoutePolicies,
		NamedPolicies:      cfg.RateLimiter.NamedPolicies,
		CleanupProbability: cfg.RateLimiter.CleanupProbability,
		Logger:             log,
	})
	if err != nil {
		log.Fatalw("failed to create limiter", "error", err)
	}

	if cfg.IsDevelopment() {
		log.Infow("development mode, rate limiting disabled")
	}

	srv := &http.Server{
		Addr: fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router.New(router.Deps{
			Limiter:       limiter,
			Logger:        log,
			SkipRateLimit: cfg.IsDevelopment(),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server listening", "addr", srv.Addr, "storage", cfg.Storage.Type)
		err := srv.ListenAndServe()
		if err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Infow("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server error", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("graceful shutdown failed", "error", err)
	}
}

func initStorage(cfg config.StorageConfig, log *zap.SugaredLogger) (ports.Storage, func(), error) {
	switch cfg.Type {
	case "memory", "":
		return memorystorage.New(), func() {}, nil
	case "redis":
		redisCfg := redisstorage.Config{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}
		storage, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, nil, err
		}
		return storage, func() {
			if err := storage.Close(); err != nil {
				log.Errorw("failed to close redis storage", "error", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
