package application

import "time"

const (
	EventIdentityCreated         = "identity.created"
	EventIdentityPasswordChanged = "identity.password_changed"
	EventIdentityDeleted         = "identity.deleted"
)

// AccountEvent is the JSON message published for account lifecycle changes.
type AccountEvent struct {
	Type       string    `json:"type"`
	IdentityID string    `json:"identity_id"`
	Handle     string    `json:"handle"`
	OccurredAt time.Time `json:"occurred_at"`
}
