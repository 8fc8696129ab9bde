// Package session holds the server-side session records behind bearer
// tokens. A token is only honored while its session is present in the
// store, so logout and revocation work even for unexpired tokens.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// Store is the swappable backing for sessions: in-memory for tests and
// demos, Redis for production.
type Store interface {
	Save(ctx context.Context, token string, sess Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}
