// Package verification confirms that users own the email they signed up with.
package verification

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/tablebell/restaurant-api/internal/domain"
	"github.com/tablebell/restaurant-api/internal/pkg/ctxlog"
)

const codeLength = 6

// CodeSender delivers a code to an address. Delivery is asynchronous.
type CodeSender interface {
	SendVerificationCode(ctx context.Context, address, code string)
}

// Service implements the verification flow.
type Service struct {
	repo     Repository
	sender   CodeSender
	generate func() (string, error)
}

// NewService creates a verification service.
func NewService(repo Repository, sender CodeSender) *Service {
	return &Service{repo: repo, sender: sender, generate: generateCode}
}

// Issue stores a fresh unverified code for user and mails it.
func (s *Service) Issue(ctx context.Context, user *domain.User) error {
	code, err := s.generate()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	v := &domain.EmailVerification{
		UserID: user.ID,
		Code:   code,
	}
	if err := s.repo.Upsert(ctx, v); err != nil {
		return fmt.Errorf("store verification: %w", err)
	}

	s.sender.SendVerificationCode(ctx, user.Email, v.Code)
	ctxlog.FromContext(ctx).Info("verification code issued", "user_id", user.ID)
	return nil
}

// SendCode re-issues a code for an unverified actor.
func (s *Service) SendCode(ctx context.Context, actor *domain.User) error {
	v, err := s.repo.GetByUserID(ctx, actor.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if v != nil && v.Verified {
		return ErrAlreadyVerified
	}
	return s.Issue(ctx, actor)
}

// Verify confirms the actor's email when code matches.
func (s *Service) Verify(ctx context.Context, actor *domain.User, code string) error {
	v, err := s.repo.GetByUserID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if v.Verified {
		return ErrAlreadyVerified
	}
	if subtle.ConstantTimeCompare([]byte(code), []byte(v.Code)) != 1 {
		return ErrWrongCode
	}
	if err := s.repo.MarkVerified(ctx, v.ID); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

// IsVerified reports whether userID has confirmed their email.
func (s *Service) IsVerified(ctx context.Context, userID int64) (bool, error) {
	v, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return v.Verified, nil
}

// generateCode returns a cryptographically secure 6-digit code.
func generateCode() (string, error) {
	return codeFrom(rand.Reader)
}

func codeFrom(r io.Reader) (string, error) {
	var code [codeLength]byte
	for i := range code {
		n, err := rand.Int(r, big.NewInt(10))
		if err != nil {
			return "", err
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code[:]), nil
}
