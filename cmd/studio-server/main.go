// cmd/studio-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"carousel-studio/internal/account"
	"carousel-studio/internal/common/config"
	"carousel-studio/internal/common/database"
	"carousel-studio/internal/common/logger"
	"carousel-studio/internal/hosting"
	"carousel-studio/internal/instagram"
	"carousel-studio/internal/notify"
	"carousel-studio/internal/publish"
	"carousel-studio/internal/render"
	"carousel-studio/internal/server"
)

// retryWithBackoff attempts an operation with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting carousel studio server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("hostingMode", cfg.Hosting.Mode),
	)

	ctx := context.Background()

	// --- Graph API client ---
	graph := instagram.NewClient(cfg.Instagram.BaseURL, config.GetDuration(cfg.Instagram.Timeout))

	// --- Image hosting ---
	var uploader hosting.Uploader
	switch cfg.Hosting.Mode {
	case "s3":
		s3Up, err := hosting.NewS3Uploader(ctx, cfg.Hosting.S3.Region, cfg.Hosting.S3.Bucket,
			cfg.Hosting.S3.KeyPrefix, cfg.Hosting.S3.PublicBaseURL)
		if err != nil {
			zapLog.Fatal("s3 uploader init failed", zap.Error(err))
		}
		uploader = s3Up
		zapLog.Info("S3 hosting configured", zap.String("bucket", cfg.Hosting.S3.Bucket))
	default:
		uploader = hosting.NewSimulated(config.GetDuration(cfg.Publish.SimulatedDelay))
		zapLog.Info("Simulated hosting configured (no hosting backend)")
	}

	// --- Profile cache (optional) ---
	var resolver *account.Resolver
	if cfg.Cache.Enabled {
		var rdb *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Cache)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		zapLog.Info("Redis connected successfully")

		resolver = account.NewResolver(graph, rdb.Client, config.GetDuration(cfg.Cache.ProfileTTL), log)
	} else {
		resolver = account.NewResolver(graph, nil, config.GetDuration(cfg.Cache.ProfileTTL), log)
	}

	// --- Progress fan-out ---
	var extraSink publish.Sink = notify.NewLogSink(log)
	if cfg.Notifications.SNS.Enabled {
		snsSink, err := notify.NewSNSSink(ctx, cfg.Notifications.SNS.Region, cfg.Notifications.SNS.TopicARN, log)
		if err != nil {
			zapLog.Fatal("sns sink init failed", zap.Error(err))
		}
		extraSink = publish.MultiSink{extraSink, snsSink}
		zapLog.Info("SNS progress fan-out enabled", zap.String("topic", cfg.Notifications.SNS.TopicARN))
	}

	// --- Publisher and HTTP surface ---
	publisher := publish.NewPublisher(uploader, graph, config.GetDuration(cfg.Publish.SimulatedDelay), log)
	srv := server.New(publisher, render.Stub{}, resolver, extraSink, log)

	mux := http.NewServeMux()
	srv.Routes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      mux,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}
	zapLog.Info("Server stopped")
}
