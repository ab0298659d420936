// Package graph exposes the restaurant services as a GraphQL schema.
package graph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/graphql-go/graphql"

	"github.com/tablebell/restaurant-api/internal/auth"
	"github.com/tablebell/restaurant-api/internal/category"
	"github.com/tablebell/restaurant-api/internal/dish"
	"github.com/tablebell/restaurant-api/internal/domain"
	"github.com/tablebell/restaurant-api/internal/identity"
	"github.com/tablebell/restaurant-api/internal/pkg/ctxlog"
	"github.com/tablebell/restaurant-api/internal/restaurant"
)

// AccountService is the account surface used by the schema.
type AccountService interface {
	CreateAccount(ctx context.Context, input identity.CreateAccountInput) (*domain.User, error)
	Login(ctx context.Context, input identity.LoginInput) (string, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor *domain.User, input identity.UpdateProfileInput) error
}

// VerificationService is the email verification surface used by the schema.
type VerificationService interface {
	SendCode(ctx context.Context, actor *domain.User) error
	Verify(ctx context.Context, actor *domain.User, code string) error
	IsVerified(ctx context.Context, userID int64) (bool, error)
}

// CategoryService is the category surface used by the schema.
type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetBySlug(ctx context.Context, slug string, page int) (*category.CategoryPage, error)
	CountRestaurants(ctx context.Context, categoryID int64) (int, error)
}

// RestaurantService is the restaurant surface used by the schema.
type RestaurantService interface {
	Create(ctx context.Context, actor *domain.User, input restaurant.CreateInput) (*domain.Restaurant, error)
	Update(ctx context.Context, actor *domain.User, input restaurant.UpdateInput) error
	Delete(ctx context.Context, actor *domain.User, id int64) error
	Get(ctx context.Context, id int64) (*domain.Restaurant, error)
	List(ctx context.Context, page int) (*restaurant.Page, error)
	Search(ctx context.Context, query string, page int) (*restaurant.Page, error)
}

// DishService is the dish surface used by the schema.
type DishService interface {
	Create(ctx context.Context, actor *domain.User, input dish.CreateInput) error
	Update(ctx context.Context, actor *domain.User, input dish.UpdateInput) error
	Delete(ctx context.Context, actor *domain.User, id int64) error
}

// Services groups the dependencies of the schema.
type Services struct {
	Accounts      AccountService
	Verifications VerificationService
	Categories    CategoryService
	Restaurants   RestaurantService
	Dishes        DishService
}

// Server owns the executable schema.
type Server struct {
	accounts      AccountService
	verifications VerificationService
	categories    CategoryService
	restaurants   RestaurantService
	dishes        DishService
	gate          *auth.Gate
	logger        *slog.Logger
	schema        graphql.Schema
}

// NewServer builds the schema. It fails when an operation has no access
// requirement.
func NewServer(svc Services, gate *auth.Gate, logger *slog.Logger) (*Server, error) {
	s := &Server{
		accounts:      svc.Accounts,
		verifications: svc.Verifications,
		categories:    svc.Categories,
		restaurants:   svc.Restaurants,
		dishes:        svc.Dishes,
		gate:          gate,
		logger:        logger,
	}

	t := s.buildTypes()
	queries := graphql.Fields{}
	mutations := graphql.Fields{}
	for _, op := range s.operations(t) {
		resolve, err := s.guard(op)
		if err != nil {
			return nil, err
		}
		f := &graphql.Field{Name: op.Name, Type: op.Type, Args: op.Args, Resolve: resolve}
		if op.Kind == mutation {
			mutations[op.Name] = f
		} else {
			queries[op.Name] = f
		}
	}

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    graphql.NewObject(graphql.ObjectConfig{Name: "Query", Fields: queries}),
		Mutation: graphql.NewObject(graphql.ObjectConfig{Name: "Mutation", Fields: mutations}),
	})
	if err != nil {
		return nil, fmt.Errorf("build schema: %w", err)
	}
	s.schema = schema
	return s, nil
}

// Execute runs a GraphQL document against the schema.
func (s *Server) Execute(ctx context.Context, query, operationName string, variables map[string]interface{}) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  query,
		OperationName:  operationName,
		VariableValues: variables,
		Context:        ctx,
	})
}

func (s *Server) resolveUserVerified(p graphql.ResolveParams) (interface{}, error) {
	var id int64
	switch u := p.Source.(type) {
	case *domain.User:
		id = u.ID
	case domain.User:
		id = u.ID
	default:
		return false, nil
	}

	ok, err := s.verifications.IsVerified(p.Context, id)
	if err != nil {
		ctxlog.FromContext(p.Context).Error("failed to resolve verification state", "user_id", id, "error", err)
		return false, nil
	}
	return ok, nil
}

func (s *Server) resolveCountRestaurants(p graphql.ResolveParams) (interface{}, error) {
	var id int64
	switch c := p.Source.(type) {
	case *domain.Category:
		id = c.ID
	case domain.Category:
		id = c.ID
	default:
		return 0, nil
	}

	n, err := s.categories.CountRestaurants(p.Context, id)
	if err != nil {
		ctxlog.FromContext(p.Context).Error("failed to count restaurants", "category_id", id, "error", err)
		return 0, nil
	}
	return n, nil
}

func (s *Server) resolveRestaurantOwner(p graphql.ResolveParams) (interface{}, error) {
	var ownerID int64
	switch r := p.Source.(type) {
	case *domain.Restaurant:
		ownerID = r.OwnerID
	case domain.Restaurant:
		ownerID = r.OwnerID
	default:
		return nil, nil
	}

	u, err := s.accounts.GetUserByID(p.Context, ownerID)
	if err != nil {
		ctxlog.FromContext(p.Context).Warn("failed to resolve restaurant owner", "owner_id", ownerID, "error", err)
		return nil, nil
	}
	return u, nil
}
