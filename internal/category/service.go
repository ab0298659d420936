// Package category groups restaurants under normalized, slugged names.
package category

import (
	"context"
	"fmt"

	"github.com/tablebell/restaurant-api/internal/domain"
	pagination "github.com/tablebell/restaurant-api/internal/pkg/page"
)

// RestaurantLister reads restaurants that belong to a category.
type RestaurantLister interface {
	ListByCategory(ctx context.Context, categoryID int64, limit, offset int) ([]domain.Restaurant, error)
	CountByCategory(ctx context.Context, categoryID int64) (int, error)
}

// Service implements category business logic.
type Service struct {
	repo        Repository
	restaurants RestaurantLister
}

// NewService creates a category service.
func NewService(repo Repository, restaurants RestaurantLister) *Service {
	return &Service{repo: repo, restaurants: restaurants}
}

// GetOrCreate resolves a free-form name to a category, creating it on first
// use.
func (s *Service) GetOrCreate(ctx context.Context, name string) (*domain.Category, error) {
	normalized, slug := Normalize(name)
	if slug == "" {
		return nil, ErrEmptyName
	}
	c, err := s.repo.GetOrCreate(ctx, normalized, slug)
	if err != nil {
		return nil, fmt.Errorf("get or create category: %w", err)
	}
	return c, nil
}

// List returns every category.
func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

// CategoryPage is one page of restaurants in a category.
type CategoryPage struct {
	Category    *domain.Category
	Restaurants []domain.Restaurant
	TotalPages  int
}

// GetBySlug returns the category and one page of its restaurants.
func (s *Service) GetBySlug(ctx context.Context, slug string, page int) (*CategoryPage, error) {
	c, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	count, err := s.restaurants.CountByCategory(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("count category restaurants: %w", err)
	}
	restaurants, err := s.restaurants.ListByCategory(ctx, c.ID, pagination.Size, pagination.Offset(page))
	if err != nil {
		return nil, fmt.Errorf("list category restaurants: %w", err)
	}

	return &CategoryPage{Category: c, Restaurants: restaurants, TotalPages: pagination.Total(count)}, nil
}

// CountRestaurants returns how many restaurants are in the category.
func (s *Service) CountRestaurants(ctx context.Context, categoryID int64) (int, error) {
	return s.restaurants.CountByCategory(ctx, categoryID)
}
