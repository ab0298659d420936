package dish

import (
	"context"

	"github.com/tablebell/restaurant-api/internal/domain"
)

// Repository defines the interface for dish data access.
type Repository interface {
	Create(ctx context.Context, d *domain.Dish) error
	// GetForUpdate locks the dish and populates Dish.Restaurant with at least
	// the owner id.
	GetForUpdate(ctx context.Context, id int64) (*domain.Dish, error)
	Update(ctx context.Context, d *domain.Dish) error
	Delete(ctx context.Context, id int64) error
}
