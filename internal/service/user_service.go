package service

import (
	"context"
	"errors"
	"net/http"
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

// TokenIssuer issues a token pair for a freshly created account so
// registration can log the user straight in. Satisfied by
// *AuthService.
type TokenIssuer interface {
	IssueTokens(ctx context.Context, user model.User) (TokenPair, error)
}

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=100,password"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
}

// UpdateProfileInput holds the optional profile changes; empty
// fields keep their current value.
type UpdateProfileInput struct {
	Email     string `json:"email" validate:"omitempty,email"`
	FirstName string `json:"first_name" validate:"omitempty,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,max=100"`
}

// ChangePasswordInput carries a password change request for an
// authenticated user. The confirmation must repeat the new password.
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=100,password"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// UserService implements registration and profile management.
type UserService struct {
	users  UserStore
	issuer TokenIssuer
	cfg    config.Config
	log    *zap.Logger
	v      *validator.Validate

	// Events mirrors AuthService.Events; see there.
	Events func(queue.AuthEvent)
}

// NewUserService wires a UserService with the default RabbitMQ
// event sink.
func NewUserService(users UserStore, issuer TokenIssuer, cfg config.Config, log *zap.Logger) *UserService {
	s := &UserService{
		users:  users,
		issuer: issuer,
		cfg:    cfg,
		log:    log,
		v:      newValidator(),
	}
	s.Events = func(ev queue.AuthEvent) {
		go func() { _ = queue.PublishAuthEvent(context.Background(), log, ev) }()
	}
	return s
}

// Register creates a new account with role "user" and returns the
// safe view together with a first token pair. The store runs the
// email check and insert in one transaction, so of two concurrent
// registrations for the same address exactly one succeeds; the
// other observes Conflict.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (model.SafeUser, TokenPair, error) {
	if err := s.v.Struct(in); err != nil {
		return model.SafeUser{}, TokenPair{}, apperr.Validation(validationMessage(err))
	}

	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return model.SafeUser{}, TokenPair{}, apperr.Internal("error creating user", err)
	}

	user := model.User{
		ID:           uuid.NewString(),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         model.RoleUser,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			s.log.Warn("registration with existing email", zap.String("email", user.Email))
			return model.SafeUser{}, TokenPair{}, apperr.Conflict("user with this email already exists")
		}
		return model.SafeUser{}, TokenPair{}, apperr.Internal("error creating user", err)
	}

	// Re-read for the store-assigned timestamps.
	created, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return model.SafeUser{}, TokenPair{}, apperr.Internal("error creating user", err)
	}

	pair, err := s.issuer.IssueTokens(ctx, created)
	if err != nil {
		return model.SafeUser{}, TokenPair{}, err
	}

	s.Events(queue.AuthEvent{
		Type:       queue.EventUserRegistered,
		UserID:     created.ID,
		Email:      created.Email,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
	return created.Safe(), pair, nil
}

// GetProfile returns the safe view of a user by id.
func (s *UserService) GetProfile(ctx context.Context, userID string) (model.SafeUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return model.SafeUser{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return model.SafeUser{}, apperr.Internal("error fetching user", err)
	}
	return user.Safe(), nil
}

// UpdateProfile merges the provided fields into the current
// profile. Changing the email re-checks uniqueness; a collision is
// a Conflict whether it is caught by the pre-check or by the
// unique index underneath.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (model.SafeUser, error) {
	if err := s.v.Struct(in); err != nil {
		return model.SafeUser{}, apperr.Validation(validationMessage(err))
	}

	current, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return model.SafeUser{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return model.SafeUser{}, apperr.Internal("error updating user", err)
	}

	firstName := current.FirstName
	if v := strings.TrimSpace(in.FirstName); v != "" {
		firstName = v
	}
	lastName := current.LastName
	if v := strings.TrimSpace(in.LastName); v != "" {
		lastName = v
	}
	email := current.Email
	if v := strings.TrimSpace(in.Email); v != "" && v != current.Email {
		if _, err := s.users.GetByEmail(ctx, v); err == nil {
			return model.SafeUser{}, apperr.Conflict("email is already in use")
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return model.SafeUser{}, apperr.Internal("error updating user", err)
		}
		email = v
	}

	if err := s.users.UpdateProfile(ctx, userID, firstName, lastName, email); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.SafeUser{}, apperr.Conflict("email is already in use")
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.SafeUser{}, apperr.NotFound("user not found")
		}
		return model.SafeUser{}, apperr.Internal("error updating user", err)
	}

	updated, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.SafeUser{}, apperr.Internal("error updating user", err)
	}
	return updated.Safe(), nil
}

// ChangePassword verifies the current password and stores a hash
// of the new one. A wrong current password is reported as 401,
// matching the login semantics for bad credentials.
func (s *UserService) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error {
	if err := s.v.Struct(in); err != nil {
		return apperr.Validation(validationMessage(err))
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return apperr.NotFound("user not found")
	}
	if err != nil {
		return apperr.Internal("error changing password", err)
	}

	if !utils.VerifyPassword(user.PasswordHash, in.CurrentPassword) {
		s.log.Warn("password change with wrong current password", zap.String("user_id", userID))
		return apperr.New(apperr.ErrInvalidCredentials, http.StatusUnauthorized, "current password is incorrect")
	}

	hash, err := utils.HashPassword(in.NewPassword, s.cfg.BcryptCost)
	if err != nil {
		return apperr.Internal("error changing password", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return apperr.Internal("error changing password", err)
	}
	return nil
}

// validationMessage flattens a validator error into a single safe
// sentence for the response envelope.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		switch f.Tag() {
		case "required":
			return strings.ToLower(f.Field()) + " is required"
		case "email":
			return "email must be a valid address"
		case "min":
			return strings.ToLower(f.Field()) + " must be at least " + f.Param() + " characters"
		case "max":
			return strings.ToLower(f.Field()) + " must be at most " + f.Param() + " characters"
		case "password":
			return "password must contain an uppercase letter, a lowercase letter and a digit"
		case "eqfield":
			return "password confirmation does not match"
		}
		return strings.ToLower(f.Field()) + " is invalid"
	}
	return "invalid input"
}
