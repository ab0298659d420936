// Package restaurant manages restaurants and their public listings.
package restaurant

import (
	"context"
	"fmt"
	"strings"

	"github.com/tablebell/restaurant-api/internal/domain"
	"github.com/tablebell/restaurant-api/internal/ownership"
	"github.com/tablebell/restaurant-api/internal/pkg/ctxlog"
	pagination "github.com/tablebell/restaurant-api/internal/pkg/page"
)

// CategoryResolver maps a free-form category name to a stored category.
type CategoryResolver interface {
	GetOrCreate(ctx context.Context, name string) (*domain.Category, error)
}

// Service implements restaurant business logic.
type Service struct {
	repo       Repository
	categories CategoryResolver
	tx         ownership.Tx
}

// NewService creates a restaurant service.
func NewService(repo Repository, categories CategoryResolver, tx ownership.Tx) *Service {
	return &Service{repo: repo, categories: categories, tx: tx}
}

// CreateInput contains data for a new restaurant.
type CreateInput struct {
	Name            string
	BackgroundImage string
	Address         string
	CategoryName    string
}

// Create stores a restaurant owned by actor.
func (s *Service) Create(ctx context.Context, actor *domain.User, input CreateInput) (*domain.Restaurant, error) {
	c, err := s.categories.GetOrCreate(ctx, input.CategoryName)
	if err != nil {
		return nil, err
	}

	r := &domain.Restaurant{
		Name:            input.Name,
		BackgroundImage: input.BackgroundImage,
		Address:         input.Address,
		CategoryID:      &c.ID,
		Category:        c,
		OwnerID:         actor.ID,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create restaurant: %w", err)
	}

	ctxlog.FromContext(ctx).Info("restaurant created", "restaurant_id", r.ID, "owner_id", actor.ID)
	return r, nil
}

// UpdateInput holds optional restaurant changes.
type UpdateInput struct {
	ID              int64
	Name            *string
	BackgroundImage *string
	Address         *string
	CategoryName    *string
}

// Update changes a restaurant owned by actor.
func (s *Service) Update(ctx context.Context, actor *domain.User, input UpdateInput) error {
	return ownership.Mutate(ctx, s.tx, actor, ownership.Mutation[*domain.Restaurant]{
		Load:    s.loader(input.ID),
		OwnerID: restaurantOwner,
		Apply: func(ctx context.Context, r *domain.Restaurant) error {
			if input.Name != nil {
				r.Name = *input.Name
			}
			if input.BackgroundImage != nil {
				r.BackgroundImage = *input.BackgroundImage
			}
			if input.Address != nil {
				r.Address = *input.Address
			}
			if input.CategoryName != nil {
				c, err := s.categories.GetOrCreate(ctx, *input.CategoryName)
				if err != nil {
					return err
				}
				r.CategoryID = &c.ID
				r.Category = c
			}
			return s.repo.Update(ctx, r)
		},
	})
}

// Delete removes a restaurant owned by actor together with its dishes.
func (s *Service) Delete(ctx context.Context, actor *domain.User, id int64) error {
	return ownership.Mutate(ctx, s.tx, actor, ownership.Mutation[*domain.Restaurant]{
		Load:    s.loader(id),
		OwnerID: restaurantOwner,
		Apply: func(ctx context.Context, r *domain.Restaurant) error {
			return s.repo.Delete(ctx, r.ID)
		},
	})
}

// GetForUpdate loads and locks a restaurant for a caller-managed transaction.
func (s *Service) GetForUpdate(ctx context.Context, id int64) (*domain.Restaurant, error) {
	return s.repo.GetForUpdate(ctx, id)
}

// Get returns a restaurant with its dishes.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Restaurant, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dishes, err := s.repo.ListDishes(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	r.Dishes = dishes
	return r, nil
}

// Page is one page of restaurants.
type Page struct {
	Restaurants []domain.Restaurant
	TotalPages  int
}

// List returns a page of all restaurants.
func (s *Service) List(ctx context.Context, page int) (*Page, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count restaurants: %w", err)
	}
	list, err := s.repo.List(ctx, pagination.Size, pagination.Offset(page))
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return &Page{Restaurants: list, TotalPages: pagination.Total(count)}, nil
}

// Search returns a page of restaurants whose name contains query, ignoring
// case. A blank query lists every restaurant.
func (s *Service) Search(ctx context.Context, query string, page int) (*Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx, page)
	}

	count, err := s.repo.CountSearch(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count search: %w", err)
	}
	list, err := s.repo.Search(ctx, query, pagination.Size, pagination.Offset(page))
	if err != nil {
		return nil, fmt.Errorf("search restaurants: %w", err)
	}
	return &Page{Restaurants: list, TotalPages: pagination.Total(count)}, nil
}

func (s *Service) loader(id int64) func(context.Context) (*domain.Restaurant, error) {
	return func(ctx context.Context) (*domain.Restaurant, error) {
		return s.repo.GetForUpdate(ctx, id)
	}
}

func restaurantOwner(r *domain.Restaurant) int64 { return r.OwnerID }
