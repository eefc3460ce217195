package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quickshow/internal/bookings"
	"quickshow/pkg/logger"

	"github.com/IBM/sarama"
)

// NotificationProducer publishes notifications for the email workers
type NotificationProducer interface {
	PublishNotification(ctx context.Context, notification *EmailNotification) error
	PublishBatchNotifications(ctx context.Context, notifications []*EmailNotification) error
	Close() error
}

type KafkaProducerConfig struct {
	Brokers           []string
	NotificationTopic string
	RetryMax          int
	TimeoutMs         int
	RequiredAcks      sarama.RequiredAcks
	CompressionType   sarama.CompressionCodec
	IdempotentWrites  bool
	MaxMessageBytes   int
}

func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:           []string{"localhost:9092"},
		NotificationTopic: "quickshow-notifications",
		RetryMax:          3,
		TimeoutMs:         10000,
		RequiredAcks:      sarama.WaitForAll,
		CompressionType:   sarama.CompressionSnappy,
		IdempotentWrites:  true,
		MaxMessageBytes:   1000000,
	}
}

type KafkaNotificationProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

func NewKafkaNotificationProducer(config *KafkaProducerConfig) (NotificationProducer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.GetDefault().Info("Kafka notification producer created", "brokers", config.Brokers)
	return NewKafkaNotificationProducerFrom(producer, config.NotificationTopic), nil
}

// NewKafkaNotificationProducerFrom wraps an existing sync producer
func NewKafkaNotificationProducerFrom(producer sarama.SyncProducer, topic string) *KafkaNotificationProducer {
	return &KafkaNotificationProducer{
		producer: producer,
		topic:    topic,
		log:      logger.GetDefault(),
	}
}

func (knp *KafkaNotificationProducer) PublishNotification(ctx context.Context, notification *EmailNotification) error {
	message, err := knp.buildMessage(notification)
	if err != nil {
		return err
	}

	partition, offset, err := knp.producer.SendMessage(message)
	if err != nil {
		notification.MarkFailed(err)
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	knp.log.DebugContext(ctx, "Notification published",
		"topic", knp.topic,
		"partition", partition,
		"offset", offset,
		"type", notification.Type,
		"notification_id", notification.ID.String(),
	)
	return nil
}

func (knp *KafkaNotificationProducer) PublishBatchNotifications(ctx context.Context, notifications []*EmailNotification) error {
	if len(notifications) == 0 {
		return nil
	}

	messages := make([]*sarama.ProducerMessage, 0, len(notifications))
	for _, notification := range notifications {
		message, err := knp.buildMessage(notification)
		if err != nil {
			knp.log.ErrorWithContext(ctx, "skipping notification", err, map[string]interface{}{
				"notification_id": notification.ID.String(),
			})
			continue
		}
		messages = append(messages, message)
	}

	if err := knp.producer.SendMessages(messages); err != nil {
		for _, notification := range notifications {
			notification.MarkFailed(err)
		}
		return fmt.Errorf("failed to send batch notifications to Kafka: %w", err)
	}

	knp.log.InfoContext(ctx, "Notification batch published", "count", len(messages), "topic", knp.topic)
	return nil
}

func (knp *KafkaNotificationProducer) buildMessage(notification *EmailNotification) (*sarama.ProducerMessage, error) {
	notification.Status = NotificationStatusQueued
	notification.UpdatedAt = time.Now()

	messageBytes, err := notification.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification: %w", err)
	}

	return &sarama.ProducerMessage{
		Topic:     knp.topic,
		Key:       sarama.StringEncoder(notification.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   createHeaders(notification),
		Timestamp: notification.CreatedAt,
	}, nil
}

func createHeaders(notification *EmailNotification) []sarama.RecordHeader {
	headers := []sarama.RecordHeader{
		{Key: []byte("notification_id"), Value: []byte(notification.ID.String())},
		{Key: []byte("notification_type"), Value: []byte(notification.Type)},
		{Key: []byte("priority"), Value: []byte(notification.Priority)},
		{Key: []byte("recipient_id"), Value: []byte(notification.RecipientID)},
		{Key: []byte("producer"), Value: []byte("quickshow-notifications")},
		{Key: []byte("created_at"), Value: []byte(notification.CreatedAt.Format(time.RFC3339))},
	}
	if notification.BookingID != "" {
		headers = append(headers, sarama.RecordHeader{Key: []byte("booking_id"), Value: []byte(notification.BookingID)})
	}
	if notification.MovieID != "" {
		headers = append(headers, sarama.RecordHeader{Key: []byte("movie_id"), Value: []byte(notification.MovieID)})
	}
	if notification.ExpiresAt != nil {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte("expires_at"),
			Value: []byte(notification.ExpiresAt.Format(time.RFC3339)),
		})
	}
	return headers
}

func (knp *KafkaNotificationProducer) Close() error {
	if knp.producer != nil {
		if err := knp.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
		knp.log.Info("Kafka notification producer closed")
	}
	return nil
}

// LogProducer stands in when no broker is configured; it only logs
type LogProducer struct {
	log *logger.Logger
}

func NewLogProducer() *LogProducer {
	return &LogProducer{log: logger.GetDefault()}
}

func (p *LogProducer) PublishNotification(ctx context.Context, notification *EmailNotification) error {
	p.log.InfoContext(ctx, "Notification (not sent, no broker)",
		"type", notification.Type,
		"recipient", notification.RecipientEmail,
		"subject", notification.Subject,
	)
	return nil
}

func (p *LogProducer) PublishBatchNotifications(ctx context.Context, notifications []*EmailNotification) error {
	for _, n := range notifications {
		p.PublishNotification(ctx, n)
	}
	return nil
}

func (p *LogProducer) Close() error { return nil }

// RecipientDirectory lists everyone who gets announcements
type RecipientDirectory interface {
	AllRecipients(ctx context.Context) ([]Recipient, error)
}

// NotificationPublisher turns domain events into notifications
type NotificationPublisher struct {
	producer   NotificationProducer
	recipients RecipientDirectory
}

func NewNotificationPublisher(producer NotificationProducer, recipients RecipientDirectory) *NotificationPublisher {
	return &NotificationPublisher{
		producer:   producer,
		recipients: recipients,
	}
}

// BookingConfirmed satisfies bookings.ConfirmationNotifier
func (np *NotificationPublisher) BookingConfirmed(ctx context.Context, booking *bookings.Booking) error {
	if booking.User == nil || booking.User.Email == "" {
		return fmt.Errorf("booking %s has no recipient email", booking.ID)
	}

	data := map[string]interface{}{
		"booking_id": booking.ID.String(),
		"seats":      strings.Join(booking.BookedSeats, ", "),
		"amount":     booking.Amount,
	}
	title := "your movie"
	if booking.Show != nil {
		data["show_time"] = booking.Show.ShowDateTime.Format("Monday, January 2, 2006 at 3:04 PM")
		if booking.Show.Movie != nil {
			title = booking.Show.Movie.Title
		}
	}
	data["movie_title"] = title

	notification := NewNotificationBuilder().
		WithType(NotificationTypeBookingConfirmed).
		WithRecipient(Recipient{ID: booking.UserID, Email: booking.User.Email, Name: booking.User.Name}).
		WithBookingContext(booking.ID.String()).
		WithTemplateData(data).
		WithSubject(generateSubject(NotificationTypeBookingConfirmed, data)).
		Build()

	return np.producer.PublishNotification(ctx, notification)
}

// ShowsAdded satisfies shows.Announcer
func (np *NotificationPublisher) ShowsAdded(ctx context.Context, movieID, movieTitle string, count int) error {
	if np.recipients == nil {
		return nil
	}
	recipients, err := np.recipients.AllRecipients(ctx)
	if err != nil {
		return fmt.Errorf("failed to load recipients: %w", err)
	}

	data := map[string]interface{}{
		"movie_id":    movieID,
		"movie_title": movieTitle,
		"show_count":  count,
	}
	batch := make([]*EmailNotification, 0, len(recipients))
	for _, r := range recipients {
		if r.Email == "" {
			continue
		}
		batch = append(batch, NewNotificationBuilder().
			WithType(NotificationTypeShowAdded).
			WithRecipient(r).
			WithMovieContext(movieID).
			WithTemplateData(data).
			WithSubject(generateSubject(NotificationTypeShowAdded, data)).
			Build())
	}
	return np.producer.PublishBatchNotifications(ctx, batch)
}

func generateSubject(notificationType NotificationType, data map[string]interface{}) string {
	switch notificationType {
	case NotificationTypeBookingConfirmed:
		if title, ok := data["movie_title"]; ok {
			return fmt.Sprintf("Payment Confirmation: '%v' booked!", title)
		}
		return "Your booking is confirmed!"
	case NotificationTypeShowAdded:
		if title, ok := data["movie_title"]; ok {
			return fmt.Sprintf("New Show Added: %v", title)
		}
		return "New shows are available"
	default:
		return "Notification from QuickShow"
	}
}
