package token

import (
	"context"
	"time"
)

// Token is the bearer token the terminal signed in with.
type Token struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"userId"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether t has a known expiry at or before now.
func (t Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// Repository keeps the single current token. Get returns domain.ErrNotFound
// when none is stored.
type Repository interface {
	Save(ctx context.Context, token Token) error
	Get(ctx context.Context) (*Token, error)
	Delete(ctx context.Context) error
}
