package security

import (
	"context"
	"errors"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenVerifier validates a bearer credential and yields the stable
// user identifier it belongs to.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}
