package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mindtrace/mindtrace/internal/auth"
	"github.com/mindtrace/mindtrace/internal/metrics"
	"github.com/mindtrace/mindtrace/internal/model"
	"github.com/mindtrace/mindtrace/internal/repository"
	"github.com/mindtrace/mindtrace/internal/session"
)

const minPasswordLength = 8

// AuthService handles signup, login, logout, and session refresh.
type AuthService struct {
	repo       *repository.Repository
	identities session.IdentityCache
	sessionTTL time.Duration
	metrics    metrics.Recorder
	logger     *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *repository.Repository, identities session.IdentityCache, sessionTTL time.Duration, recorder metrics.Recorder, logger *slog.Logger) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		repo:       repo,
		identities: identities,
		sessionTTL: sessionTTL,
		metrics:    recorder,
		logger:     logger,
	}
}

// SignupInput defines input for registering a user.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Signup registers a new user with an argon2id password hash.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*model.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	email := normalizeEmail(input.Email)
	if !validEmail(email) {
		return nil, ErrEmailRequired
	}

	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           generateULID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", slog.String("user_id", user.ID))

	return user, nil
}

// LoginResult is a freshly established session.
type LoginResult struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

// Login verifies credentials and establishes a session: a durable
// record in Postgres plus a write-through identity cache entry. A bad
// email and a bad password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	expiresAt := time.Now().UTC().Add(s.sessionTTL)
	if err := s.repo.CreateSession(ctx, token.Hash, user.ID, expiresAt); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	identity := &model.Identity{UserID: user.ID, Email: user.Email, Name: user.Name}
	if err := s.identities.SetIdentity(ctx, token.Hash, identity, s.sessionTTL); err != nil {
		// The durable record stands; the gate refreshes on first use.
		s.logger.Warn("identity cache write failed on login", slog.String("error", err.Error()))
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))

	return &LoginResult{
		User:      user,
		Token:     token.Plaintext,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout tears down the session in both stores. An unknown or malformed
// token is not an error; logout always succeeds from the caller's view.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if !auth.ValidateTokenFormat(token) {
		return nil
	}

	tokenHash := auth.QuickHash(token)

	if err := s.identities.DeleteIdentity(ctx, tokenHash); err != nil {
		s.logger.Warn("identity cache delete failed on logout", slog.String("error", err.Error()))
	}
	if err := s.repo.DeleteSession(ctx, tokenHash); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// normalizeEmail lowercases and trims an email address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail applies a minimal shape check: one @ with something on
// both sides and a dot in the domain.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.Contains(email[at+1:], "@")
}
