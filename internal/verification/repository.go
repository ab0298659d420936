package verification

import (
	"context"

	"github.com/tablebell/restaurant-api/internal/domain"
)

// Repository stores one verification record per user.
type Repository interface {
	// Upsert replaces the user's code and marks the record unverified.
	Upsert(ctx context.Context, v *domain.EmailVerification) error
	GetByUserID(ctx context.Context, userID int64) (*domain.EmailVerification, error)
	MarkVerified(ctx context.Context, id int64) error
}
