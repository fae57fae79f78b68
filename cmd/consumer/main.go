package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/container"
	"github.com/serroba/shortlink/internal/messaging"
	"go.uber.org/zap"
)

// options reads the audit consumer configuration from the environment.
func options() *container.Options {
	return &container.Options{
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}
}

func run(ctx context.Context, injector *do.Injector, logger *zap.Logger) error {
	group, err := do.Invoke[*messaging.ConsumerGroup](injector)
	if err != nil {
		return err
	}

	if err := group.Start(ctx); err != nil {
		return err
	}

	logger.Info("audit consumer running",
		zap.String("group", container.AuditConsumerGroup),
		zap.Strings("topics", group.Topics()),
	)

	<-ctx.Done()

	return nil
}

func main() {
	opts := options()

	injector := do.New()
	do.ProvideValue(injector, opts)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.ConsumerGroupPackage(injector)

	logger := do.MustInvoke[*zap.Logger](injector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := run(ctx, injector, logger)

	stop()

	if err != nil {
		logger.Error("audit consumer failed", zap.String("redisAddr", opts.RedisAddr), zap.Error(err))
	}

	logger.Info("shutting down")

	if shutdownErr := injector.Shutdown(); shutdownErr != nil {
		logger.Error("shutdown error", zap.Error(shutdownErr))
	}

	_ = logger.Sync()

	if err != nil {
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return defaultValue
}
