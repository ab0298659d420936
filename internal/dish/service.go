// Package dish manages the dishes on a restaurant's menu.
package dish

import (
	"context"
	"fmt"

	"github.com/tablebell/restaurant-api/internal/domain"
	"github.com/tablebell/restaurant-api/internal/ownership"
)

// RestaurantFinder loads the restaurant a new dish is added to.
type RestaurantFinder interface {
	GetForUpdate(ctx context.Context, id int64) (*domain.Restaurant, error)
}

// Service implements dish business logic.
type Service struct {
	repo        Repository
	restaurants RestaurantFinder
	tx          ownership.Tx
}

// NewService creates a dish service.
func NewService(repo Repository, restaurants RestaurantFinder, tx ownership.Tx) *Service {
	return &Service{repo: repo, restaurants: restaurants, tx: tx}
}

// CreateInput contains data for a new dish.
type CreateInput struct {
	RestaurantID int64
	Name         string
	Price        float64
	Description  string
	Image        *string
}

// Create adds a dish to a restaurant owned by actor.
func (s *Service) Create(ctx context.Context, actor *domain.User, input CreateInput) error {
	return ownership.Mutate(ctx, s.tx, actor, ownership.Mutation[*domain.Restaurant]{
		Load: func(ctx context.Context) (*domain.Restaurant, error) {
			return s.restaurants.GetForUpdate(ctx, input.RestaurantID)
		},
		OwnerID: func(r *domain.Restaurant) int64 { return r.OwnerID },
		Apply: func(ctx context.Context, r *domain.Restaurant) error {
			d := &domain.Dish{
				Name:         input.Name,
				Price:        input.Price,
				Description:  input.Description,
				Image:        input.Image,
				RestaurantID: r.ID,
			}
			if err := s.repo.Create(ctx, d); err != nil {
				return fmt.Errorf("create dish: %w", err)
			}
			return nil
		},
	})
}

// UpdateInput holds optional dish changes.
type UpdateInput struct {
	ID          int64
	Name        *string
	Price       *float64
	Description *string
	Image       *string
}

// Update changes a dish whose restaurant is owned by actor.
func (s *Service) Update(ctx context.Context, actor *domain.User, input UpdateInput) error {
	return ownership.Mutate(ctx, s.tx, actor, ownership.Mutation[*domain.Dish]{
		Load:    s.loader(input.ID),
		OwnerID: dishOwner,
		Apply: func(ctx context.Context, d *domain.Dish) error {
			if input.Name != nil {
				d.Name = *input.Name
			}
			if input.Price != nil {
				d.Price = *input.Price
			}
			if input.Description != nil {
				d.Description = *input.Description
			}
			if input.Image != nil {
				d.Image = input.Image
			}
			return s.repo.Update(ctx, d)
		},
	})
}

// Delete removes a dish whose restaurant is owned by actor.
func (s *Service) Delete(ctx context.Context, actor *domain.User, id int64) error {
	return ownership.Mutate(ctx, s.tx, actor, ownership.Mutation[*domain.Dish]{
		Load:    s.loader(id),
		OwnerID: dishOwner,
		Apply: func(ctx context.Context, d *domain.Dish) error {
			return s.repo.Delete(ctx, d.ID)
		},
	})
}

func (s *Service) loader(id int64) func(context.Context) (*domain.Dish, error) {
	return func(ctx context.Context) (*domain.Dish, error) {
		return s.repo.GetForUpdate(ctx, id)
	}
}

// dishOwner returns the owner of the dish's restaurant. A dish loaded without
// its restaurant is owned by nobody.
func dishOwner(d *domain.Dish) int64 {
	if d.Restaurant == nil {
		return 0
	}
	return d.Restaurant.OwnerID
}
