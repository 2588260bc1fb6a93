package model

import "time"

// UserID uniquely identifies a registered user within one game database
type UserID int64

// User is a registered account. Immutable once created.
type User struct {
	ID           UserID
	Username     string // login name, case-sensitive, unique
	Email        string // unique
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}

// LoginEvent is an append-only audit record of a successful login
type LoginEvent struct {
	ID        int64
	UserID    UserID
	CreatedAt time.Time
	IPAddress string
}
