package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/giftregistry/server/internal/shared/metrics"
	"github.com/giftregistry/server/internal/shared/ratelimit"
	"go.uber.org/zap"
)

const minPasswordLength = 8

// Config holds login throttling settings.
type Config struct {
	LoginMaxAttempts int
	LoginWindow      time.Duration
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresAt   time.Time        `json:"expires_at"`
	Admin       *AdminCredential `json:"admin"`
}

// Service authenticates admins.
type Service struct {
	repo    Repository
	jwt     *JWTManager
	limiter ratelimit.Limiter
	config  *Config
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewService creates a new auth service.
func NewService(
	repo Repository,
	jwt *JWTManager,
	limiter ratelimit.Limiter,
	config *Config,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	if config.LoginMaxAttempts <= 0 {
		config.LoginMaxAttempts = 5
	}
	if config.LoginWindow <= 0 {
		config.LoginWindow = 15 * time.Minute
	}
	return &Service{
		repo:    repo,
		jwt:     jwt,
		limiter: limiter,
		config:  config,
		metrics: m,
		logger:  logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func loginKey(email string) string {
	return "login:" + email
}

// Login verifies credentials and issues an access token.
// Unknown, inactive and wrong-password logins all return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)

	res, err := s.limiter.Allow(ctx, loginKey(email), s.config.LoginMaxAttempts, s.config.LoginWindow)
	if err != nil {
		s.logger.Warn("login rate limiter unavailable", zap.Error(err))
	} else if !res.Allowed {
		s.metrics.RecordAdminLogin("rate_limited")
		s.logger.Warn("login rate limited", zap.String("email", email))
		return nil, &TooManyAttemptsError{RetryAt: res.ResetAt}
	}

	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			s.metrics.RecordAdminLogin("invalid")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !admin.IsActive || !VerifyPassword(password, admin.PasswordHash) {
		s.metrics.RecordAdminLogin("invalid")
		s.logger.Info("admin login failed", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	if err := s.limiter.Reset(ctx, loginKey(email)); err != nil {
		s.logger.Warn("failed to reset login limiter", zap.Error(err))
	}

	now := time.Now()
	if err := s.repo.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		return nil, err
	}
	admin.LastLoginAt = &now

	token, expiresAt, err := s.jwt.GenerateAccessToken(admin)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAdminLogin("success")
	s.logger.Info("admin logged in", zap.Uint("admin_id", admin.ID))

	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Admin:       admin,
	}, nil
}

// Setup creates the first admin. It fails once any admin exists; the
// check is repeated inside the insert transaction.
func (s *Service) Setup(ctx context.Context, email, password string) (*AdminCredential, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrAdminExists
	}
	return s.createAdmin(ctx, email, password)
}

// EnsureBootstrapAdmin creates the configured admin when none exists.
// Empty email or password disables bootstrapping.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	admin, err := s.Setup(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrAdminExists) {
			return nil
		}
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	s.logger.Info("bootstrap admin created", zap.Uint("admin_id", admin.ID), zap.String("email", admin.Email))
	return nil
}

func (s *Service) createAdmin(ctx context.Context, email, password string) (*AdminCredential, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	admin := &AdminCredential{
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.repo.CreateOwner(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// ValidateToken validates an access token.
func (s *Service) ValidateToken(token string) (*Claims, error) {
	return s.jwt.ValidateAccessToken(token)
}

// GetAdmin returns an admin by id.
func (s *Service) GetAdmin(ctx context.Context, id uint) (*AdminCredential, error) {
	return s.repo.GetByID(ctx, id)
}
