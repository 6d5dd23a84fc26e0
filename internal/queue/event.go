// Package queue defines the audit events published to the message
// broker and the background consumer that records them.
package queue

// Event types emitted by the auth and user services.
const (
	EventUserRegistered = "user.registered"
	EventUserLoggedIn   = "user.logged_in"
	EventTokenRefreshed = "token.refreshed"
	EventUserLoggedOut  = "user.logged_out"
)

// AuthEvent is published on every notable credential-lifecycle
// transition. It carries enough for downstream consumers to build
// an audit trail without querying the primary database.
type AuthEvent struct {
	Type       string `json:"type"`
	UserID     string `json:"user_id,omitempty"`
	Email      string `json:"email,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
