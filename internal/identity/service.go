// Package identity manages accounts: registration, login and profile edits.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/tablebell/restaurant-api/internal/domain"
	"github.com/tablebell/restaurant-api/internal/pkg/ctxlog"
	"github.com/tablebell/restaurant-api/internal/pkg/metrics"
	"github.com/tablebell/restaurant-api/internal/ratelimit"
)

const bcryptCost = 10

// TokenSigner issues session tokens.
type TokenSigner interface {
	Sign(subjectID int64) (string, error)
}

// VerificationIssuer starts (or restarts) email verification for a user.
type VerificationIssuer interface {
	Issue(ctx context.Context, user *domain.User) error
}

// Service implements identity business logic.
type Service struct {
	repo     Repository
	tokens   TokenSigner
	verifier VerificationIssuer
	limiter  ratelimit.Limiter
}

// NewService creates a new identity service. A nil limiter disables
// login throttling.
func NewService(repo Repository, tokens TokenSigner, verifier VerificationIssuer, limiter ratelimit.Limiter) *Service {
	if limiter == nil {
		limiter = ratelimit.Noop{}
	}
	return &Service{
		repo:     repo,
		tokens:   tokens,
		verifier: verifier,
		limiter:  limiter,
	}
}

// CreateAccountInput contains data for account creation.
type CreateAccountInput struct {
	Email    string
	Password string
	Role     domain.Role
}

// CreateAccount registers a user and sends a verification code. A failure to
// start verification does not fail the registration.
func (s *Service) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.User, error) {
	if !input.Role.IsValid() {
		return nil, ErrInvalidRole
	}

	email := normalizeEmail(input.Email)

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:    email,
		Password: hash,
		Role:     input.Role,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.verifier.Issue(ctx, user); err != nil {
		ctxlog.FromContext(ctx).Error("failed to start email verification",
			"user_id", user.ID,
			"error", err,
		)
	}

	return user, nil
}

// LoginInput contains credentials.
type LoginInput struct {
	Email    string
	Password string
}

// Login checks credentials and returns a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, input LoginInput) (string, error) {
	logger := ctxlog.FromContext(ctx)
	email := normalizeEmail(input.Email)

	allowed, err := s.limiter.Allow(ctx, email)
	if err != nil {
		logger.Warn("login limiter unavailable, allowing attempt", "error", err)
		allowed = true
	}
	if !allowed {
		metrics.LoginAttempts.WithLabelValues("limited").Inc()
		return "", ErrTooManyAttempts
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return "", ErrInvalidCredentials
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		logger.Warn("failed to reset login limiter", "error", err)
	}

	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return token, nil
}

// GetUserByID returns a user by id.
func (s *Service) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// UpdateProfileInput holds optional profile changes.
type UpdateProfileInput struct {
	Email    *string
	Password *string
}

// UpdateProfile changes the actor's own email and/or password. A changed
// email restarts verification.
func (s *Service) UpdateProfile(ctx context.Context, actor *domain.User, input UpdateProfileInput) error {
	user, err := s.repo.GetUserByID(ctx, actor.ID)
	if err != nil {
		return err
	}

	emailChanged := false
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email != user.Email {
			if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
				return ErrEmailTaken
			} else if !errors.Is(err, ErrUserNotFound) {
				return fmt.Errorf("check email: %w", err)
			}
			user.Email = email
			emailChanged = true
		}
	}

	if input.Password != nil {
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return err
		}
		user.Password = hash
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if emailChanged {
		if err := s.verifier.Issue(ctx, user); err != nil {
			ctxlog.FromContext(ctx).Error("failed to restart email verification",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	return nil
}

// hashPassword rejects passwords over bcrypt's 72-byte input limit.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrInvalidPassword
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
