// Command worker drains the notification topic and sends emails. Run it
// alongside API instances started with EMBEDDED_NOTIFICATION_WORKER=false.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"quickshow/internal/notifications"
	"quickshow/internal/shared/config"
	"quickshow/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		appLogger.Info("No .env file found, using system environment variables")
	}
	cfg := config.Load()

	if !cfg.NotificationsEnabled() {
		appLogger.Error("KAFKA_BROKERS is required for the notification worker")
		os.Exit(1)
	}

	worker, err := notifications.NewWorker(cfg)
	if err != nil {
		appLogger.Error("Failed to initialize notification worker", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := worker.Start(ctx); err != nil {
		appLogger.Error("Failed to start notification worker", slog.Any("error", err))
		os.Exit(1)
	}
	appLogger.Info("Notification worker running",
		slog.Any("brokers", cfg.Kafka.Brokers),
		slog.String("topic", cfg.Kafka.NotificationTopic),
		slog.Int("consumers", cfg.Kafka.NumWorkers),
	)

	<-ctx.Done()
	appLogger.Info("Shutting down notification worker...")
	if err := worker.Stop(); err != nil {
		appLogger.Error("Error stopping notification worker", slog.Any("error", err))
	}
}
