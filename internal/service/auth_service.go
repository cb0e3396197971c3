package service

import (
	"context"
	"log/slog"

	"github.com/rowin21/splitledger/internal/auth"
	"github.com/rowin21/splitledger/internal/models"
)

// AuthService handles registration and login.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Register creates a new user account and returns the user with a session
// token.
func (s *AuthService) Register(ctx context.Context, phone, name, password string) (*models.User, string, error) {
	s.logger.Info("Register request", "phone", phone)

	if phone == "" || name == "" {
		return nil, "", auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Register(ctx, phone, name, password)
	if err != nil {
		s.logger.Error("Registration failed", "phone", phone, "error", err)
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	s.logger.Info("User registered", "user_id", user.ID)
	return user, token, nil
}

// Login authenticates a user and returns the user with a session token.
func (s *AuthService) Login(ctx context.Context, phone, password string) (*models.User, string, error) {
	s.logger.Info("Login request", "phone", phone)

	user, err := s.authenticator.Authenticate(ctx, phone, password)
	if err != nil {
		s.logger.Warn("Login failed", "phone", phone, "error", err)
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	return user, token, nil
}
