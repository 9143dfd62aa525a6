// Package auth issues and verifies bearer tokens and hashes passwords.
package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidToken = errors.New("token is invalid")
	ErrExpiredToken = errors.New("token has expired")
)

// Payload is the verified content of a token
type Payload struct {
	ID        string
	UserID    string
	IssuedAt  time.Time
	ExpiredAt time.Time
}

// Maker creates and verifies signed, time-limited tokens. The user id is
// carried as the token subject.
type Maker interface {
	CreateToken(userID string, duration time.Duration) (string, error)
	VerifyToken(token string) (*Payload, error)
}
