package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/user-auth-service/internal/apperr"
	"github.com/iliyamo/user-auth-service/internal/config"
	"github.com/iliyamo/user-auth-service/internal/model"
	"github.com/iliyamo/user-auth-service/internal/queue"
	"github.com/iliyamo/user-auth-service/internal/repository"
	"github.com/iliyamo/user-auth-service/internal/utils"
)

// dummyHash is a bcrypt hash of a throwaway string. When a login
// hits an unknown email we still run one bcrypt comparison against
// it so the response time does not reveal whether the account
// exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// TokenPair bundles a freshly issued access token and refresh
// token with their expiry times.
type TokenPair struct {
	AccessToken    string    `json:"token"`
	AccessExpires  time.Time `json:"token_expires"`
	RefreshToken   string    `json:"refresh_token"`
	RefreshExpires time.Time `json:"refresh_token_expires"`
}

// LoginInput is the credential pair presented at login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthService implements the credential lifecycle state machine:
// Anonymous -> Authenticated -> Rotated -> Revoked. It holds no
// per-request state; every check re-queries the store so
// revocations take effect on the next request.
type AuthService struct {
	users  UserStore
	tokens TokenStore
	cfg    config.Config
	log    *zap.Logger
	v      *validator.Validate

	// Events receives an audit event after each successful
	// operation. The default publishes to RabbitMQ from a separate
	// goroutine; tests replace it.
	Events func(queue.AuthEvent)
}

// NewAuthService wires an AuthService with the default RabbitMQ
// event sink.
func NewAuthService(users UserStore, tokens TokenStore, cfg config.Config, log *zap.Logger) *AuthService {
	s := &AuthService{
		users:  users,
		tokens: tokens,
		cfg:    cfg,
		log:    log,
		v:      newValidator(),
	}
	s.Events = func(ev queue.AuthEvent) {
		// Fire and forget: audit publishing must never slow down or
		// fail the request that produced the event.
		go func() { _ = queue.PublishAuthEvent(context.Background(), log, ev) }()
	}
	return s
}

// Login verifies a credential pair and, on success, stamps
// last_login and issues a fresh token pair. Unknown email and
// wrong password produce the same InvalidCredentials error so the
// endpoint cannot be used for email enumeration; an inactive
// account is reported as such regardless of password correctness.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (model.SafeUser, TokenPair, error) {
	if err := s.v.Struct(in); err != nil {
		return model.SafeUser{}, TokenPair{}, apperr.Validation("email and password are required")
	}
	email := strings.TrimSpace(in.Email)

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		s.log.Warn("login attempt with unknown email", zap.String("email", email))
		utils.VerifyPassword(dummyHash, in.Password) // constant-time decoy
		return model.SafeUser{}, TokenPair{}, apperr.InvalidCredentials()
	}
	if err != nil {
		return model.SafeUser{}, TokenPair{}, apperr.Internal("authentication error", err)
	}

	if !user.IsActive {
		s.log.Warn("login attempt for inactive account", zap.String("user_id", user.ID))
		return model.SafeUser{}, TokenPair{}, apperr.AccountInactive()
	}
	if !utils.VerifyPassword(user.PasswordHash, in.Password) {
		s.log.Warn("login attempt with wrong password", zap.String("user_id", user.ID))
		return model.SafeUser{}, TokenPair{}, apperr.InvalidCredentials()
	}

	now := time.Now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return model.SafeUser{}, TokenPair{}, apperr.Internal("authentication error", err)
	}
	user.LastLogin = &now

	pair, err := s.IssueTokens(ctx, user)
	if err != nil {
		return model.SafeUser{}, TokenPair{}, err
	}

	s.Events(queue.AuthEvent{
		Type:       queue.EventUserLoggedIn,
		UserID:     user.ID,
		Email:      user.Email,
		OccurredAt: now.Format(time.RFC3339),
	})
	return user.Safe(), pair, nil
}

// Refresh exchanges a usable refresh token for a new pair. The
// presented token is revoked in the same store transaction that
// persists its replacement, so a token can never be refreshed
// twice and a failed rotation leaves it untouched.
func (s *AuthService) Refresh(ctx context.Context, refreshTokenID string) (TokenPair, error) {
	refreshTokenID = strings.TrimSpace(refreshTokenID)
	if refreshTokenID == "" {
		return TokenPair{}, apperr.Validation("refresh token is required")
	}

	user, err := s.tokens.FindUsableWithUser(ctx, refreshTokenID)
	if errors.Is(err, repository.ErrTokenNotFound) {
		return TokenPair{}, apperr.InvalidOrExpiredToken()
	}
	if err != nil {
		return TokenPair{}, apperr.Internal("failed to refresh token", err)
	}

	access, err := utils.NewAccessToken(s.cfg.JWTSecret, identityOf(user), s.cfg.AccessTTLMin)
	if err != nil {
		return TokenPair{}, apperr.Internal("failed to refresh token", err)
	}

	next := s.newRefreshToken(user.ID)
	if err := s.tokens.Rotate(ctx, refreshTokenID, &next); err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			// Lost the race against a concurrent refresh of the same
			// token; treat it like any other replay.
			return TokenPair{}, apperr.InvalidOrExpiredToken()
		}
		return TokenPair{}, apperr.Internal("failed to refresh token", err)
	}

	s.Events(queue.AuthEvent{
		Type:       queue.EventTokenRefreshed,
		UserID:     user.ID,
		Email:      user.Email,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
	return TokenPair{
		AccessToken:    access.Token,
		AccessExpires:  access.Exp,
		RefreshToken:   next.ID,
		RefreshExpires: next.ExpiresAt,
	}, nil
}

// Revoke marks a refresh token as revoked. Logout must never fail
// visibly: an empty, unknown or already-revoked token is a
// successful no-op. Only a store failure surfaces, as Internal.
func (s *AuthService) Revoke(ctx context.Context, refreshTokenID string) error {
	refreshTokenID = strings.TrimSpace(refreshTokenID)
	if refreshTokenID == "" {
		return nil
	}
	if err := s.tokens.Revoke(ctx, refreshTokenID); err != nil {
		return apperr.Internal("failed to revoke token", err)
	}
	s.Events(queue.AuthEvent{
		Type:       queue.EventUserLoggedOut,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// IssueTokens signs an access token for the user's claims and
// persists a new refresh token. A persistence failure is fatal for
// the request (500-class), since the client would otherwise hold a
// pair it cannot renew.
func (s *AuthService) IssueTokens(ctx context.Context, user model.User) (TokenPair, error) {
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, identityOf(user), s.cfg.AccessTTLMin)
	if err != nil {
		return TokenPair{}, apperr.Internal("failed to generate access token", err)
	}
	refresh := s.newRefreshToken(user.ID)
	if err := s.tokens.Create(ctx, &refresh); err != nil {
		return TokenPair{}, apperr.Internal("failed to generate refresh token", err)
	}
	return TokenPair{
		AccessToken:    access.Token,
		AccessExpires:  access.Exp,
		RefreshToken:   refresh.ID,
		RefreshExpires: refresh.ExpiresAt,
	}, nil
}

// newRefreshToken builds an unguessable refresh token row expiring
// RefreshTTLDays from now.
func (s *AuthService) newRefreshToken(userID string) model.RefreshToken {
	return model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(time.Duration(s.cfg.RefreshTTLDays) * 24 * time.Hour),
	}
}

func identityOf(u model.User) model.Identity {
	return model.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}
