// Package main запускает сервис оценки температуры срабатывания теплового разгона.
// Сервис реализует:
// - оценку моды температуры срабатывания по датасету (KDE, правило Сильвермана)
// - запросы вероятности превышения порога по сохраненной модели
// - хранение результата в файле или Redis
// - экспорт метрик в Prometheus
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"

	"runaway-service/internal/analytics"
	"runaway-service/internal/config"
	"runaway-service/internal/dataset"
	"runaway-service/internal/handlers"
	"runaway-service/internal/logging"
	"runaway-service/internal/metrics"
	"runaway-service/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting runaway service",
		zap.String("go_version", runtime.Version()),
		zap.Int("num_cpu", runtime.NumCPU()),
		zap.String("store_backend", cfg.Store.Backend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var opts []analytics.EstimatorOption
	if cfg.RefineMode {
		opts = append(opts, analytics.WithRefinedMode())
	}

	handler := handlers.NewHandler(handlers.Deps{
		Estimator: analytics.NewEstimator(results, logger, opts...),
		Engine:    analytics.NewRiskEngine(results, logger),
		Source:    dataset.File{Path: cfg.DatasetPath},
		Store:     results,
		Workers:   cfg.WorkerCount,
		Logger:    logger,
	})

	// Создаем HTTP сервер с настройками таймаутов
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      handlers.NewRouter(handler, logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go updateMetricsLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
	return nil
}

// openStore создает хранилище результата с кэшем снимка в памяти.
// Для файла кэш сбрасывается по событиям fsnotify, для Redis по TTL.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*store.Cached, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		redisStore, err := connectRedis(ctx, store.RedisOptions{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
			Key:      cfg.Store.RedisKey,
		}, redisAttempts, logger)
		if err != nil {
			return nil, nil, err
		}

		cached := store.NewCached(redisStore, cfg.Store.SnapshotTTL)
		return cached, func() { redisStore.Close() }, nil

	default:
		fileStore := store.NewFileStore(cfg.Store.ResultPath)
		if !cfg.Store.WatchResult {
			return store.NewCached(fileStore, cfg.Store.SnapshotTTL), func() {}, nil
		}

		cached := store.NewCached(fileStore, 0)
		watcher, err := store.NewWatcher(fileStore.Path(), func() {
			cached.Invalidate()
			metrics.SnapshotReloads.Inc()
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		go watcher.Run(ctx)
		return cached, func() { watcher.Close() }, nil
	}
}

const redisAttempts = 5

// connectRedis подключается к Redis с повторами. Пауза между попытками
// растет линейно и прерывается отменой контекста.
func connectRedis(ctx context.Context, opts store.RedisOptions, attempts int, logger *zap.Logger) (*store.RedisStore, error) {
	var err error
	for i := 0; i < attempts; i++ {
		var redisStore *store.RedisStore
		redisStore, err = store.NewRedisStore(ctx, opts)
		if err == nil {
			logger.Info("connected to redis", zap.String("addr", opts.Addr))
			return redisStore, nil
		}
		logger.Warn("redis connection attempt failed", zap.Int("attempt", i+1), zap.Error(err))
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connect to redis: %w", ctx.Err())
		case <-time.After(time.Duration(i+1) * time.Second):
		}
	}
	return nil, err
}

// updateMetricsLoop периодически обновляет метрики Prometheus
func updateMetricsLoop(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.ActiveGoroutines.Set(float64(runtime.NumGoroutine()))
		}
	}
}
