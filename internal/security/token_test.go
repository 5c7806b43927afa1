package security

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundtrip(t *testing.T) {
	manager := NewTokenManager("unit-test-secret")

	token, err := manager.GenerateAccessToken("user-42", "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	uid, err := manager.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", uid)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	manager := NewTokenManager("unit-test-secret")

	_, err := manager.Verify(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a")
	verifier := NewTokenManager("secret-b")

	token, err := issuer.GenerateAccessToken("user-42", "")
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	secret := "unit-test-secret"
	claims := UserClaims{
		UserID: "user-42",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewTokenManager(secret).Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyFallsBackToSubject(t *testing.T) {
	secret := "unit-test-secret"
	claims := jwt.RegisteredClaims{
		Subject:   "subject-7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	uid, err := NewTokenManager(secret).Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "subject-7", uid)
}

func TestVerifyRejectsUnsignedAlg(t *testing.T) {
	claims := UserClaims{
		UserID: "user-42",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("unit-test-secret").Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
