package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/greencampus/greencampus/internal/app/models"
	"github.com/greencampus/greencampus/internal/pkg/config"
)

// Ensure implementation satisfies the interface
var _ AuthService = (*AuthServiceImpl)(nil)

const minPasswordLength = 6

// AuthService defines the business logic contract.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, user *models.UserAuth, err error)
	Register(ctx context.Context, fullName, email, password string, role models.Role) (token string, user *models.UserAuth, err error)
	GetUserByID(ctx context.Context, userID string) (*models.UserAuth, error)
}

// AuthServiceImpl provides the implementation for AuthService.
type AuthServiceImpl struct {
	logger *zap.Logger
	repo   AuthRepo
	cfg    *config.Config
}

// NewAuthService creates a new authentication service instance.
func NewAuthService(repo AuthRepo, cfg *config.Config, logger *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{logger: logger, repo: repo, cfg: cfg}
}

// Login validates credentials and issues an access token.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, *models.UserAuth, error) {
	l := s.logger.With(zap.String("method", "Login"), zap.String("email", email))
	l.Debug("Attempting login")

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		l.Warn("GetUserByEmail failed")
		// Don't reveal whether the email exists or the password is wrong
		return "", nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	if !CheckPassword(user.PasswordHash, password) {
		l.Warn("Password comparison failed", zap.String("user_id", user.ID))
		return "", nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	token, err := GenerateAccessToken(s.cfg.JWT, user)
	if err != nil {
		l.Error("Failed to generate token", zap.String("user_id", user.ID), zap.Error(err))
		return "", nil, fmt.Errorf("app error generating token: %w", err)
	}

	l.Info("Login successful", zap.String("user_id", user.ID))
	return token, user, nil
}

// Register validates the input, stores the user and issues a token so the
// new account is signed in immediately.
func (s *AuthServiceImpl) Register(ctx context.Context, fullName, email, password string, role models.Role) (string, *models.UserAuth, error) {
	l := s.logger.With(zap.String("method", "Register"), zap.String("email", email))
	l.Debug("Attempting registration")

	ctx, span := otel.Tracer("AuthService").Start(ctx, "AuthService.Register", trace.WithAttributes(
		attribute.String("email", email),
		attribute.String("role", string(role)),
	))
	defer span.End()

	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))

	if fullName == "" {
		return "", nil, fmt.Errorf("full name is required: %w", models.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", nil, fmt.Errorf("invalid email address: %w", models.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return "", nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, models.ErrValidation)
	}
	if !role.Registerable() {
		return "", nil, fmt.Errorf("role %q cannot be registered: %w", role, models.ErrValidation)
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		l.Error("Failed to hash password", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Password hashing failed")
		return "", nil, fmt.Errorf("could not process password")
	}

	userID, err := s.repo.Register(ctx, fullName, email, hashedPassword, role)
	if err != nil {
		l.Error("Repository registration failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository registration failed")
		return "", nil, fmt.Errorf("registration failed: %w", err)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		l.Error("Failed to load newly registered user", zap.Error(err))
		span.RecordError(err)
		return "", nil, fmt.Errorf("registration failed: %w", err)
	}

	token, err := GenerateAccessToken(s.cfg.JWT, user)
	if err != nil {
		l.Error("Failed to generate token", zap.String("user_id", user.ID), zap.Error(err))
		return "", nil, fmt.Errorf("app error generating token: %w", err)
	}

	l.Info("Registration successful", zap.String("user_id", userID))
	span.SetStatus(codes.Ok, "User registered")
	return token, user, nil
}

func (s *AuthServiceImpl) GetUserByID(ctx context.Context, userID string) (*models.UserAuth, error) {
	l := s.logger.With(zap.String("method", "GetUserByID"), zap.String("user_id", userID))
	l.Debug("Fetching user by ID")
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		l.Warn("Failed to fetch user by ID", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user, nil
}
