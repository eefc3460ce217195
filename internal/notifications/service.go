package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"quickshow/internal/shared/config"
	"quickshow/pkg/logger"
)

// NewProducerFromConfig returns a Kafka producer, or a LogProducer when no
// broker is configured.
func NewProducerFromConfig(cfg *config.Config) (NotificationProducer, error) {
	if !cfg.NotificationsEnabled() {
		logger.GetDefault().Warn("KAFKA_BROKERS not set, notifications will only be logged")
		return NewLogProducer(), nil
	}

	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = cfg.Kafka.Brokers
	producerConfig.NotificationTopic = cfg.Kafka.NotificationTopic
	return NewKafkaNotificationProducer(producerConfig)
}

// NewEmailServiceFromConfig returns an SMTP sender, or a LogEmailService when
// SMTP is not configured.
func NewEmailServiceFromConfig(cfg *config.Config) (EmailService, error) {
	smtpService, err := NewSMTPEmailService(SMTPConfigFrom(cfg.Email))
	if err != nil {
		if errors.Is(err, ErrSMTPNotConfigured) {
			logger.GetDefault().Warn("SMTP_HOST not set, emails will only be logged")
			return NewLogEmailService(), nil
		}
		return nil, err
	}
	return smtpService, nil
}

// Worker runs the email consumers
type Worker struct {
	cfg      *config.Config
	consumer NotificationConsumer
	log      *logger.Logger

	mu        sync.Mutex
	isRunning bool
}

func NewWorker(cfg *config.Config) (*Worker, error) {
	w := &Worker{cfg: cfg, log: logger.GetDefault()}
	if !cfg.NotificationsEnabled() {
		return w, nil
	}

	emailService, err := NewEmailServiceFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create email service: %w", err)
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = cfg.Kafka.Brokers
	consumerConfig.Topics = []string{cfg.Kafka.NotificationTopic}
	consumerConfig.GroupID = cfg.Kafka.ConsumerGroupID

	consumer, err := NewKafkaNotificationConsumer(consumerConfig, emailService)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification consumer: %w", err)
	}
	w.consumer = consumer
	return w, nil
}

func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.consumer == nil {
		w.log.Info("Notification worker disabled, no broker configured")
		return nil
	}
	if w.isRunning {
		return fmt.Errorf("notification worker is already running")
	}
	if err := w.consumer.StartConsumers(ctx, w.cfg.Kafka.NumWorkers); err != nil {
		return fmt.Errorf("failed to start consumers: %w", err)
	}
	w.isRunning = true
	return nil
}

func (w *Worker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.isRunning {
		return nil
	}
	w.isRunning = false
	return w.consumer.Stop()
}

func (w *Worker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}
