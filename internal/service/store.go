// Package service orchestrates the credential lifecycle: login,
// token refresh and revocation, registration and profile
// management. Store access goes through the interfaces below,
// defined here on the consumer side so tests can substitute fakes
// without a database.
package service

import (
	"context"
	"time"

	"github.com/iliyamo/user-auth-service/internal/model"
)

// UserStore is the slice of the credential store the services need
// for user records. Implementations return the repository sentinel
// errors (ErrUserNotFound, ErrEmailExists) for classified cases.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	UpdateProfile(ctx context.Context, id, firstName, lastName, email string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// TokenStore persists refresh tokens. Rotate must revoke the old
// row and insert the replacement atomically.
type TokenStore interface {
	Create(ctx context.Context, t *model.RefreshToken) error
	FindUsableWithUser(ctx context.Context, id string) (model.User, error)
	Rotate(ctx context.Context, oldID string, next *model.RefreshToken) error
	Revoke(ctx context.Context, id string) error
}
