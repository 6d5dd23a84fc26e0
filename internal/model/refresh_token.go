package model

import "time"

// RefreshToken models an entry in the `refresh_tokens` table. The
// id itself is the opaque bearer credential handed to the client;
// because it is a server-side row and not a signed token it can be
// revoked at any time. Rotation revokes the presented row and
// inserts a fresh one.
//
// Fields:
//  ID        – uuid primary key; the value returned to the client.
//  UserID    – owner of the token (cascade-deleted with the user).
//  ExpiresAt – absolute expiry, seven days after issuance.
//  Revoked   – true once the token has been rotated or logged out.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type RefreshToken struct {
	ID        string    // refresh_tokens.id
	UserID    string    // refresh_tokens.user_id
	ExpiresAt time.Time // refresh_tokens.expires_at
	Revoked   bool      // refresh_tokens.revoked
	CreatedAt time.Time // refresh_tokens.created_at
	UpdatedAt time.Time // refresh_tokens.updated_at
}

// Usable reports whether the token may still be exchanged: not
// revoked and not past its expiry.
func (t RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
