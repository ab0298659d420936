package restaurant

import (
	"context"

	"github.com/tablebell/restaurant-api/internal/domain"
)

// Repository defines the interface for restaurant data access. List methods
// populate Restaurant.Category.
type Repository interface {
	Create(ctx context.Context, r *domain.Restaurant) error
	GetByID(ctx context.Context, id int64) (*domain.Restaurant, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*domain.Restaurant, error)
	Update(ctx context.Context, r *domain.Restaurant) error
	Delete(ctx context.Context, id int64) error

	List(ctx context.Context, limit, offset int) ([]domain.Restaurant, error)
	Count(ctx context.Context) (int, error)
	Search(ctx context.Context, query string, limit, offset int) ([]domain.Restaurant, error)
	CountSearch(ctx context.Context, query string) (int, error)
	ListByCategory(ctx context.Context, categoryID int64, limit, offset int) ([]domain.Restaurant, error)
	CountByCategory(ctx context.Context, categoryID int64) (int, error)

	ListDishes(ctx context.Context, restaurantID int64) ([]domain.Dish, error)
}
