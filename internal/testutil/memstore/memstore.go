// Package memstore is an in-memory implementation of every repository, used
// by service and GraphQL tests that do not need PostgreSQL.
package memstore

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/tablebell/restaurant-api/internal/category"
	"github.com/tablebell/restaurant-api/internal/dish"
	"github.com/tablebell/restaurant-api/internal/domain"
	"github.com/tablebell/restaurant-api/internal/identity"
	"github.com/tablebell/restaurant-api/internal/restaurant"
	"github.com/tablebell/restaurant-api/internal/verification"
)

// Store holds all rows. The zero value is not usable; call New.
type Store struct {
	mu            sync.Mutex
	nextID        int64
	users         map[int64]domain.User
	verifications map[int64]domain.EmailVerification
	categories    map[int64]domain.Category
	restaurants   map[int64]domain.Restaurant
	dishes        map[int64]domain.Dish
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:         map[int64]domain.User{},
		verifications: map[int64]domain.EmailVerification{},
		categories:    map[int64]domain.Category{},
		restaurants:   map[int64]domain.Restaurant{},
		dishes:        map[int64]domain.Dish{},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// WithinTx runs fn directly; the store has no isolation to offer.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Users returns the identity repository.
func (s *Store) Users() *Users { return &Users{s} }

// Verifications returns the verification repository.
func (s *Store) Verifications() *Verifications { return &Verifications{s} }

// Categories returns the category repository.
func (s *Store) Categories() *Categories { return &Categories{s} }

// Restaurants returns the restaurant repository.
func (s *Store) Restaurants() *Restaurants { return &Restaurants{s} }

// Dishes returns the dish repository.
func (s *Store) Dishes() *Dishes { return &Dishes{s} }

// Users implements identity.Repository.
type Users struct{ s *Store }

var _ identity.Repository = (*Users)(nil)

func (r *Users) CreateUser(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return identity.ErrEmailTaken
		}
	}
	now := time.Now()
	u.ID = r.s.id()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = *u
	return nil
}

func (r *Users) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	return &u, nil
}

func (r *Users) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, identity.ErrUserNotFound
}

func (r *Users) UpdateUser(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.users[u.ID]
	if !ok {
		return identity.ErrUserNotFound
	}
	for id, other := range r.s.users {
		if id != u.ID && other.Email == u.Email {
			return identity.ErrEmailTaken
		}
	}
	existing.Email = u.Email
	existing.Password = u.Password
	existing.UpdatedAt = time.Now()
	u.UpdatedAt = existing.UpdatedAt
	r.s.users[u.ID] = existing
	return nil
}

// Verifications implements verification.Repository.
type Verifications struct{ s *Store }

var _ verification.Repository = (*Verifications)(nil)

func (r *Verifications) Upsert(_ context.Context, v *domain.EmailVerification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	existing, ok := r.s.verifications[v.UserID]
	if !ok {
		existing = domain.EmailVerification{ID: r.s.id(), UserID: v.UserID, CreatedAt: now}
	}
	existing.Code = v.Code
	existing.Verified = false
	existing.UpdatedAt = now
	r.s.verifications[v.UserID] = existing

	v.ID, v.Verified, v.CreatedAt, v.UpdatedAt = existing.ID, false, existing.CreatedAt, now
	return nil
}

func (r *Verifications) GetByUserID(_ context.Context, userID int64) (*domain.EmailVerification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.verifications[userID]
	if !ok {
		return nil, verification.ErrNotFound
	}
	return &v, nil
}

func (r *Verifications) MarkVerified(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for userID, v := range r.s.verifications {
		if v.ID == id {
			v.Verified = true
			v.UpdatedAt = time.Now()
			r.s.verifications[userID] = v
			return nil
		}
	}
	return verification.ErrNotFound
}

// Categories implements category.Repository.
type Categories struct{ s *Store }

var _ category.Repository = (*Categories)(nil)

func (r *Categories) GetOrCreate(_ context.Context, name, slug string) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	now := time.Now()
	c := domain.Category{ID: r.s.id(), Name: name, Slug: slug, CreatedAt: now, UpdatedAt: now}
	r.s.categories[c.ID] = c
	return &c, nil
}

func (r *Categories) GetBySlug(_ context.Context, slug string) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, category.ErrCategoryNotFound
}

func (r *Categories) List(_ context.Context) ([]domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	list := make([]domain.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		list = append(list, c)
	}
	slices.SortFunc(list, func(a, b domain.Category) int { return strings.Compare(a.Name, b.Name) })
	return list, nil
}

// Restaurants implements restaurant.Repository.
type Restaurants struct{ s *Store }

var _ restaurant.Repository = (*Restaurants)(nil)

func (r *Restaurants) Create(_ context.Context, rest *domain.Restaurant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	rest.ID = r.s.id()
	rest.CreatedAt, rest.UpdatedAt = now, now
	stored := *rest
	stored.Category = nil
	stored.Dishes = nil
	r.s.restaurants[rest.ID] = stored
	return nil
}

func (r *Restaurants) GetByID(_ context.Context, id int64) (*domain.Restaurant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.get(id)
}

func (r *Restaurants) GetForUpdate(_ context.Context, id int64) (*domain.Restaurant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.get(id)
}

func (r *Restaurants) get(id int64) (*domain.Restaurant, error) {
	rest, ok := r.s.restaurants[id]
	if !ok {
		return nil, restaurant.ErrRestaurantNotFound
	}
	r.attachCategory(&rest)
	return &rest, nil
}

func (r *Restaurants) attachCategory(rest *domain.Restaurant) {
	if rest.CategoryID == nil {
		return
	}
	if c, ok := r.s.categories[*rest.CategoryID]; ok {
		rest.Category = &c
	}
}

func (r *Restaurants) Update(_ context.Context, rest *domain.Restaurant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.restaurants[rest.ID]
	if !ok {
		return restaurant.ErrRestaurantNotFound
	}
	existing.Name = rest.Name
	existing.BackgroundImage = rest.BackgroundImage
	existing.Address = rest.Address
	existing.CategoryID = rest.CategoryID
	existing.UpdatedAt = time.Now()
	rest.UpdatedAt = existing.UpdatedAt
	r.s.restaurants[rest.ID] = existing
	return nil
}

func (r *Restaurants) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.restaurants[id]; !ok {
		return restaurant.ErrRestaurantNotFound
	}
	delete(r.s.restaurants, id)
	for dishID, d := range r.s.dishes {
		if d.RestaurantID == id {
			delete(r.s.dishes, dishID)
		}
	}
	return nil
}

// filter returns matching restaurants newest first.
func (r *Restaurants) filter(keep func(domain.Restaurant) bool) []domain.Restaurant {
	var list []domain.Restaurant
	for _, rest := range r.s.restaurants {
		if keep(rest) {
			r.attachCategory(&rest)
			list = append(list, rest)
		}
	}
	slices.SortFunc(list, func(a, b domain.Restaurant) int { return int(b.ID - a.ID) })
	return list
}

func window(list []domain.Restaurant, limit, offset int) []domain.Restaurant {
	if offset >= len(list) {
		return []domain.Restaurant{}
	}
	end := min(offset+limit, len(list))
	return list[offset:end]
}

func all(domain.Restaurant) bool { return true }

func nameContains(query string) func(domain.Restaurant) bool {
	query = strings.ToLower(query)
	return func(rest domain.Restaurant) bool {
		return strings.Contains(strings.ToLower(rest.Name), query)
	}
}

func inCategory(id int64) func(domain.Restaurant) bool {
	return func(rest domain.Restaurant) bool {
		return rest.CategoryID != nil && *rest.CategoryID == id
	}
}

func (r *Restaurants) List(_ context.Context, limit, offset int) ([]domain.Restaurant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return window(r.filter(all), limit, offset), nil
}

func (r *Restaurants) Count(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.restaurants), nil
}

func (r *Restaurants) Search(_ context.Context, query string, limit, offset int) ([]domain.Restaurant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return window(r.filter(nameContains(query)), limit, offset), nil
}

func (r *Restaurants) CountSearch(_ context.Context, query string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.filter(nameContains(query))), nil
}

func (r *Restaurants) ListByCategory(_ context.Context, categoryID int64, limit, offset int) ([]domain.Restaurant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return window(r.filter(inCategory(categoryID)), limit, offset), nil
}

func (r *Restaurants) CountByCategory(_ context.Context, categoryID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.filter(inCategory(categoryID))), nil
}

func (r *Restaurants) ListDishes(_ context.Context, restaurantID int64) ([]domain.Dish, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	list := []domain.Dish{}
	for _, d := range r.s.dishes {
		if d.RestaurantID == restaurantID {
			list = append(list, d)
		}
	}
	slices.SortFunc(list, func(a, b domain.Dish) int { return int(a.ID - b.ID) })
	return list, nil
}

// Dishes implements dish.Repository.
type Dishes struct{ s *Store }

var _ dish.Repository = (*Dishes)(nil)

func (r *Dishes) Create(_ context.Context, d *domain.Dish) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	d.ID = r.s.id()
	d.CreatedAt, d.UpdatedAt = now, now
	stored := *d
	stored.Restaurant = nil
	r.s.dishes[d.ID] = stored
	return nil
}

func (r *Dishes) GetForUpdate(_ context.Context, id int64) (*domain.Dish, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.dishes[id]
	if !ok {
		return nil, dish.ErrDishNotFound
	}
	rest := r.s.restaurants[d.RestaurantID]
	d.Restaurant = &domain.Restaurant{ID: rest.ID, OwnerID: rest.OwnerID}
	return &d, nil
}

func (r *Dishes) Update(_ context.Context, d *domain.Dish) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.dishes[d.ID]
	if !ok {
		return dish.ErrDishNotFound
	}
	existing.Name = d.Name
	existing.Price = d.Price
	existing.Description = d.Description
	existing.Image = d.Image
	existing.UpdatedAt = time.Now()
	d.UpdatedAt = existing.UpdatedAt
	r.s.dishes[d.ID] = existing
	return nil
}

func (r *Dishes) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.dishes[id]; !ok {
		return dish.ErrDishNotFound
	}
	delete(r.s.dishes, id)
	return nil
}
