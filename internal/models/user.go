package models

import "time"

// UserDB represents a user record in the database
type UserDB struct {
	ID           int64     `json:"id" db:"id"`                     // Primary key
	Username     string    `json:"username" db:"username"`         // Unique username
	Email        string    `json:"email" db:"email"`               // Unique email
	PasswordHash string    `json:"-" db:"password_hash"`           // bcrypt hash, never serialized
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`         // Admin flag
	CreatedAt    time.Time `json:"created_at" db:"created_at"`     // Creation timestamp
}

// User is the public projection returned by list/detail endpoints.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Email    string `json:"email" db:"email"`
}

// UserWithRole extends the public projection with the admin flag. It is
// returned wherever the caller needs to know the role: login, profile
// update and admin edits.
type UserWithRole struct {
	User
	IsAdmin bool `json:"is_admin" db:"is_admin"`
}

// Public returns the public projection of the user.
func (u *UserDB) Public() *User {
	return &User{ID: u.ID, Username: u.Username, Email: u.Email}
}

// PublicWithRole returns the projection including the admin flag.
func (u *UserDB) PublicWithRole() *UserWithRole {
	return &UserWithRole{
		User:    User{ID: u.ID, Username: u.Username, Email: u.Email},
		IsAdmin: u.IsAdmin,
	}
}
