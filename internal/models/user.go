package models

import "time"

// User represents a user row.
type User struct {
	UserID       string `db:"user_id"`
	Username     string `db:"username"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	AuditFields
	RefreshTokenHash      *string    `db:"refresh_token_hash"`
	RefreshTokenExpiresAt *time.Time `db:"refresh_token_expires_at"`
	DeletedAt             *time.Time `db:"deleted_at"`
}
