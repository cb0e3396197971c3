// Package auth provides password authentication and JWT session tokens.
package auth

import (
	"context"

	"github.com/rowin21/splitledger/internal/models"
)

// Authenticator defines the interface for user authentication operations.
// This abstraction allows swapping authentication methods (password, OTP,
// OAuth, etc.) without changing the service layer.
type Authenticator interface {
	// Register creates a new user account.
	Register(ctx context.Context, phone, name, credential string) (*models.User, error)

	// Authenticate verifies credentials and returns the user if valid.
	Authenticate(ctx context.Context, phone, credential string) (*models.User, error)

	// ValidateCredential checks if a credential meets minimum requirements.
	ValidateCredential(credential string) error
}
