// Package middleware provides net/http middleware for authentication and
// request logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rowin21/splitledger/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// PhoneKey is the context key for storing the authenticated user's
	// phone number.
	PhoneKey contextKey = "phone"
)

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetPhone extracts the user phone number from the context.
// Returns empty string if not found.
func GetPhone(ctx context.Context) string {
	phone, _ := ctx.Value(PhoneKey).(string)
	return phone
}

// RequireAuth returns middleware that validates Bearer JWT tokens. It
// extracts the token from the Authorization header, validates it, and adds
// the user ID and phone to the request context. Requests without a valid
// token get 401.
func RequireAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, auth.ErrMissingToken.Error(), http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, auth.ErrInvalidToken.Error(), http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, PhoneKey, claims.Phone)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
