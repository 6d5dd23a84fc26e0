package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/user-auth-service/internal/model"
)

// TokenRepo persists refresh tokens. Token ids double as the
// bearer credential, so every read filters on the usability
// predicate (revoked=0 AND expires_at in the future) instead of
// returning dead rows for callers to inspect.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Create inserts a refresh token row.
func (r *TokenRepo) Create(ctx context.Context, t *model.RefreshToken) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (id, user_id, expires_at, revoked) VALUES (?,?,?,0)",
		t.ID, t.UserID, t.ExpiresAt.UTC())
	return err
}

// FindUsableWithUser resolves a presented token id to its owning
// user, matching only tokens that are not revoked and not expired.
// Unknown, revoked and expired ids are indistinguishable to the
// caller: all come back as ErrTokenNotFound.
func (r *TokenRepo) FindUsableWithUser(ctx context.Context, id string) (model.User, error) {
	var u model.User
	var lastLogin sql.NullTime
	err := r.DB.QueryRowContext(ctx,
		`SELECT u.id, u.email, u.password, u.first_name, u.last_name, u.role, u.is_active, u.last_login, u.created_at, u.updated_at
		 FROM refresh_tokens rt
		 JOIN users u ON u.id = rt.user_id
		 WHERE rt.id=? AND rt.revoked=0 AND rt.expires_at > UTC_TIMESTAMP()
		 LIMIT 1`, id).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Role, &u.IsActive, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrTokenNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}

// Rotate atomically revokes the presented token and inserts its
// replacement. Running both statements in one transaction means
// there is never a moment with two usable tokens, and a failed
// insert rolls the revocation back so the old token is left
// untouched. The guarded UPDATE also catches replay: a second
// rotation of the same id affects zero rows and fails with
// ErrTokenNotFound.
func (r *TokenRepo) Rotate(ctx context.Context, oldID string, next *model.RefreshToken) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked=1 WHERE id=? AND revoked=0 AND expires_at > UTC_TIMESTAMP()",
		oldID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTokenNotFound
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO refresh_tokens (id, user_id, expires_at, revoked) VALUES (?,?,?,0)",
		next.ID, next.UserID, next.ExpiresAt.UTC()); err != nil {
		return err
	}
	return tx.Commit()
}

// Revoke marks a token as revoked. The transition is monotonic and
// the call is idempotent: revoking an already-revoked or unknown
// id succeeds without complaint, which is what logout needs.
func (r *TokenRepo) Revoke(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked=1 WHERE id=? AND revoked=0", id)
	return err
}
