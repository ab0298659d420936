package category

import (
	"context"

	"github.com/tablebell/restaurant-api/internal/domain"
)

// Repository defines the interface for category data access.
type Repository interface {
	// GetOrCreate returns the category with slug, inserting it when absent.
	GetOrCreate(ctx context.Context, name, slug string) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}
