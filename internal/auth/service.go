package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"quickshow/internal/users"
	"quickshow/pkg/logger"

	svix "github.com/svix/svix-webhooks/go"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrUnknownEvent     = errors.New("unknown user event")
)

// UserSync is the part of users.Service the webhook drives
type UserSync interface {
	SyncUser(ctx context.Context, user *users.User) error
	DeleteUser(ctx context.Context, userID string) error
}

type Service interface {
	VerifySignature(body []byte, headers http.Header) error
	HandleEvent(ctx context.Context, event UserEvent) error
}

type service struct {
	webhook *svix.Webhook
	users   UserSync
	log     *logger.Logger
}

// NewService verifies deliveries with the provider's "whsec_" signing secret.
// A missing or malformed secret rejects every delivery.
func NewService(secret string, userSync UserSync) Service {
	s := &service{
		users: userSync,
		log:   logger.GetDefault(),
	}
	if secret == "" {
		s.log.Warn("Auth webhook secret not set, user events will be rejected")
		return s
	}
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		s.log.Error("Invalid auth webhook secret", "error", err)
		return s
	}
	s.webhook = wh
	return s
}

// VerifySignature checks the svix-id, svix-timestamp and svix-signature
// headers against the raw body. Deliveries outside the timestamp tolerance
// are rejected.
func (s *service) VerifySignature(body []byte, headers http.Header) error {
	if s.webhook == nil {
		return ErrInvalidSignature
	}
	if err := s.webhook.Verify(body, headers); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}

func (s *service) HandleEvent(ctx context.Context, event UserEvent) error {
	switch event.Type {
	case EventUserCreated, EventUserUpdated:
		return s.users.SyncUser(ctx, toUser(event.Data))
	case EventUserDeleted:
		return s.users.DeleteUser(ctx, event.Data.ID)
	default:
		s.log.InfoContext(ctx, "Ignoring user event", "type", event.Type)
		return ErrUnknownEvent
	}
}

func toUser(d UserEventData) *users.User {
	user := &users.User{
		ID:    d.ID,
		Name:  strings.TrimSpace(d.FirstName + " " + d.LastName),
		Image: d.ImageURL,
	}
	if len(d.EmailAddresses) > 0 {
		user.Email = d.EmailAddresses[0].EmailAddress
	}
	return user
}
