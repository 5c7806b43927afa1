package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/security"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserID extracts the authenticated user identifier from the request
// context. The empty string means the request was not authenticated.
func UserID(ctx context.Context) string {
	uid, _ := ctx.Value(userIDKey).(string)
	return uid
}

// RequireAuth verifies the bearer credential and stores the caller's
// user identifier on the request context.
func RequireAuth(verifier security.TokenVerifier, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "authorization required")
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		uid, err := verifier.Verify(r.Context(), token)
		if err != nil {
			logger.Debug("Token verification failed", "error", err)
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, uid)
		next(w, r.WithContext(ctx))
	}
}

// LogRequests logs each request with method, path and duration.
func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("Request handled",
			"method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
