package auth

import (
	"context"
	"fmt"

	"quickshow/internal/notifications"
	"quickshow/internal/users"
)

// UserServiceAdapter exposes synced users to the notification publisher
// without the notifications package importing users.
type UserServiceAdapter struct {
	repo users.Repository
}

func NewUserServiceAdapter(repo users.Repository) *UserServiceAdapter {
	return &UserServiceAdapter{repo: repo}
}

// AllRecipients satisfies notifications.RecipientDirectory
func (a *UserServiceAdapter) AllRecipients(ctx context.Context) ([]notifications.Recipient, error) {
	all, err := a.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	recipients := make([]notifications.Recipient, 0, len(all))
	for _, u := range all {
		recipients = append(recipients, notifications.Recipient{ID: u.ID, Email: u.Email, Name: u.Name})
	}
	return recipients, nil
}
