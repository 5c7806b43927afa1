package security

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"

	"equiprent-backend/internal/logger"
)

type firebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier verifies bearer tokens as Firebase ID tokens
// against the project's identity service.
func NewFirebaseVerifier(ctx context.Context, app *firebase.App) (TokenVerifier, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase auth client: %w", err)
	}
	return &firebaseVerifier{client: client}, nil
}

func (v *firebaseVerifier) Verify(ctx context.Context, token string) (string, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		logger.Debug("Firebase token verification failed", "error", err)
		return "", ErrInvalidToken
	}
	return decoded.UID, nil
}
