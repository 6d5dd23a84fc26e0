package model

import "time"

// Role names stored in the users.role column. The set is closed:
// every account is either a regular user or an administrator.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The struct carries the password hash and is therefore
// never serialized directly; outward-facing code converts it to a
// SafeUser first.
//
// Fields:
//  ID           – uuid primary key, assigned at creation.
//  Email        – unique email address used as the login identifier.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – given name.
//  LastName     – family name.
//  Role         – role name (user or admin).
//  IsActive     – whether the account may authenticate.
//  LastLogin    – time of the most recent successful login (null until then).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           string     // users.id
	Email        string     // users.email
	PasswordHash string     // users.password
	FirstName    string     // users.first_name
	LastName     string     // users.last_name
	Role         string     // users.role
	IsActive     bool       // users.is_active
	LastLogin    *time.Time // users.last_login (nullable)
	CreatedAt    time.Time  // users.created_at
	UpdatedAt    time.Time  // users.updated_at
}

// SafeUser is the outward-facing view of a user. It mirrors User
// minus the password hash and is the only user shape handlers are
// allowed to serialize.
type SafeUser struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Safe strips the password hash from a user record.
func (u User) Safe() SafeUser {
	return SafeUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
