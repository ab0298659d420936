package identity

import (
	"context"

	"github.com/tablebell/restaurant-api/internal/domain"
)

// Repository defines the interface for identity data access.
type Repository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
}
