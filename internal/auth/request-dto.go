package auth

const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// UserEvent is the identity provider's user lifecycle webhook body
type UserEvent struct {
	Type string        `json:"type" validate:"required"`
	Data UserEventData `json:"data"`
}

type UserEventData struct {
	ID             string         `json:"id" validate:"required"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	ImageURL       string         `json:"image_url"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
}

type EmailAddress struct {
	EmailAddress string `json:"email_address"`
}
