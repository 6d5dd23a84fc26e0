package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/user-auth-service/internal/model"
)

const userColumns = "id,email,password,first_name,last_name,role,is_active,last_login,created_at,updated_at"

// UserRepo persists user records in the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a new user inside a transaction: the email is
// checked first so the common duplicate case gets a clean
// ErrEmailExists, and the unique index catches the race where two
// registrations pass the check concurrently (exactly one insert
// wins, the other maps MySQL error 1062 to the same sentinel).
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx, "SELECT id FROM users WHERE email=? LIMIT 1", u.Email).Scan(&existing)
	if err == nil {
		return ErrEmailExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO users (id, email, password, first_name, last_name, role, is_active) VALUES (?,?,?,?,?,?,?)",
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role, u.IsActive)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	return tx.Commit()
}

// GetByEmail fetches a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) get(ctx context.Context, query string, arg any) (model.User, error) {
	var u model.User
	var lastLogin sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Role, &u.IsActive, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
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

// TouchLastLogin stamps users.last_login after a successful login.
func (r *UserRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET last_login=? WHERE id=?", at.UTC(), id)
	return err
}

// UpdateProfile writes the merged profile fields. An email change
// that collides with another account surfaces as ErrEmailExists
// via the unique index.
func (r *UserRepo) UpdateProfile(ctx context.Context, id, firstName, lastName, email string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET first_name=?, last_name=?, email=? WHERE id=?",
		firstName, lastName, email, id)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Zero affected rows is also returned for a no-op update of
		// identical values, so verify the user is really gone.
		if _, err := r.GetByID(ctx, id); errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET password=? WHERE id=?", passwordHash, id)
	return err
}

// isDuplicate reports whether err is a MySQL duplicate-entry
// violation (error 1062) on a unique index.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
