package model

import (
	"errors"
	"time"
)

// Roles carried in access token claims.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User represents an account known to the stub API.
type User struct {
	ID             int64     `db:"id" json:"id"`
	UserName       string    `db:"user_name" json:"userName"`
	PasswordHashed string    `db:"password_hashed" json:"-"` // "-" hides from JSON output
	Role           string    `db:"role" json:"role"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Token string `json:"token"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")
)
