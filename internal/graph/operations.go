package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/tablebell/restaurant-api/internal/auth"
	"github.com/tablebell/restaurant-api/internal/domain"
	"github.com/tablebell/restaurant-api/internal/pkg/metrics"
)

// Requirements lists who may invoke each root operation. Every operation in
// the schema must have an entry; building the schema fails otherwise.
var Requirements = map[string]auth.Requirement{
	"createAccount":     auth.Public(),
	"login":             auth.Public(),
	"self":              auth.AnyRole(),
	"userProfile":       auth.AnyRole(),
	"updateProfile":     auth.AnyRole(),
	"sendCode":          auth.AnyRole(),
	"verifyEmail":       auth.AnyRole(),
	"allCategories":     auth.Public(),
	"category":          auth.Public(),
	"restaurants":       auth.Public(),
	"restaurant":        auth.Public(),
	"searchRestaurants": auth.Public(),
	"createRestaurant":  auth.Roles(domain.RoleOwner),
	"updateRestaurant":  auth.Roles(domain.RoleOwner),
	"deleteRestaurant":  auth.Roles(domain.RoleOwner),
	"createDish":        auth.Roles(domain.RoleOwner),
	"updateDish":        auth.Roles(domain.RoleOwner),
	"deleteDish":        auth.Roles(domain.RoleOwner),
}

type kind int

const (
	query kind = iota
	mutation
)

// Request is what an operation handler receives once the gate has passed.
// Identity is nil for anonymous callers of public operations.
type Request struct {
	Ctx      context.Context
	Identity *domain.User
	Args     map[string]interface{}
}

// Operation is one root field of the schema.
type Operation struct {
	Name    string
	Kind    kind
	Type    graphql.Output
	Args    graphql.FieldConfigArgument
	Handler func(Request) (interface{}, error)
}

// guard wraps op so the gate runs exactly once before the handler.
func (s *Server) guard(op Operation) (graphql.FieldResolveFn, error) {
	req, ok := Requirements[op.Name]
	if !ok {
		return nil, fmt.Errorf("operation %q has no access requirement", op.Name)
	}

	return func(p graphql.ResolveParams) (interface{}, error) {
		start := time.Now()
		defer func() {
			metrics.GraphQLOperationDuration.WithLabelValues(op.Name).Observe(time.Since(start).Seconds())
		}()

		identity := auth.IdentityFromContext(p.Context)
		decision := s.gate.Evaluate(identity, req)
		metrics.GateDecisions.WithLabelValues(op.Name, decision.String()).Inc()
		if decision == auth.Denied {
			return nil, auth.ErrForbidden
		}

		return op.Handler(Request{Ctx: p.Context, Identity: identity, Args: p.Args})
	}, nil
}

func (s *Server) operations(t *types) []Operation {
	return []Operation{
		{
			Name: "createAccount", Kind: mutation, Type: t.mutationResult,
			Args: inputArg(inputObject("CreateAccountInput", graphql.InputObjectConfigFieldMap{
				"email":    field(nonNullString),
				"password": field(nonNullString),
				"role":     field(graphql.NewNonNull(t.role)),
			})),
			Handler: s.handleCreateAccount,
		},
		{
			Name: "login", Kind: mutation, Type: t.loginResult,
			Args: inputArg(inputObject("LoginInput", graphql.InputObjectConfigFieldMap{
				"email":    field(nonNullString),
				"password": field(nonNullString),
			})),
			Handler: s.handleLogin,
		},
		{
			Name: "self", Kind: query, Type: t.user,
			Handler: s.handleSelf,
		},
		{
			Name: "userProfile", Kind: query, Type: t.userProfileResult,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: nonNullInt},
			},
			Handler: s.handleUserProfile,
		},
		{
			Name: "updateProfile", Kind: mutation, Type: t.mutationResult,
			Args: inputArg(inputObject("UpdateProfileInput", graphql.InputObjectConfigFieldMap{
				"email":    field(graphql.String),
				"password": field(graphql.String),
			})),
			Handler: s.handleUpdateProfile,
		},
		{
			Name: "sendCode", Kind: mutation, Type: t.mutationResult,
			Handler: s.handleSendCode,
		},
		{
			Name: "verifyEmail", Kind: mutation, Type: t.mutationResult,
			Args: inputArg(inputObject("VerifyEmailInput", graphql.InputObjectConfigFieldMap{
				"code": field(nonNullString),
			})),
			Handler: s.handleVerifyEmail,
		},
		{
			Name: "allCategories", Kind: query, Type: t.categoriesResult,
			Handler: s.handleAllCategories,
		},
		{
			Name: "category", Kind: query, Type: t.categoryResult,
			Args: inputArg(inputObject("CategoryInput", graphql.InputObjectConfigFieldMap{
				"categorySlug": field(nonNullString),
				"page":         pageField,
			})),
			Handler: s.handleCategory,
		},
		{
			Name: "restaurants", Kind: query, Type: t.restaurantsResult,
			Args: inputArg(inputObject("RestaurantsInput", graphql.InputObjectConfigFieldMap{
				"page": pageField,
			})),
			Handler: s.handleRestaurants,
		},
		{
			Name: "restaurant", Kind: query, Type: t.restaurantResult,
			Args: inputArg(inputObject("RestaurantInput", graphql.InputObjectConfigFieldMap{
				"id": field(nonNullInt),
			})),
			Handler: s.handleRestaurant,
		},
		{
			Name: "searchRestaurants", Kind: query, Type: t.restaurantsResult,
			Args: inputArg(inputObject("SearchRestaurantsInput", graphql.InputObjectConfigFieldMap{
				"query": field(graphql.String),
				"page":  pageField,
			})),
			Handler: s.handleSearchRestaurants,
		},
		{
			Name: "createRestaurant", Kind: mutation, Type: t.mutationResult,
			Args: inputArg(inputObject("CreateRestaurantInput", graphql.InputObjectConfigFieldMap{
				"name":            field(nonNullString),
				"backgroundImage": field(nonNullString),
				"address":         field(nonNullString),
				"categoryName":    field(nonNullString),
			})),
			Handler: s.handleCreateRestaurant,
		},
		{
			Name: "updateRestaurant", Kind: mutation, Type: t.mutationResult,
			Args: inputArg(inputObject("UpdateRestaurantInput", graphql.InputObjectConfigFieldMap{
				"id":              field(nonNullInt),
				"name":            field(graphql.String),
				"backgroundImage": field(graphql.String),
				"address":         field(graphql.String),
				"categoryName":    field(graphql.String),
			})),
			Handler: s.handleUpdateRestaurant,
		},
		{
			Name: "deleteRestaurant", Kind: mutation, Type: t.mutationResult,
			Args: inputArg(inputObject("DeleteRestaurantInput", graphql.InputObjectConfigFieldMap{
				"id": field(nonNullInt),
			})),
			Handler: s.handleDeleteRestaurant,
		},
		{
			Name: "createDish", Kind: mutation, Type: t.mutationResult,
			Args: inputArg(inputObject("CreateDishInput", graphql.InputObjectConfigFieldMap{
				"restaurantId": field(nonNullInt),
				"name":         field(nonNullString),
				"price":        field(nonNullFloat),
				"description":  field(nonNullString),
				"image":        field(graphql.String),
			})),
			Handler: s.handleCreateDish,
		},
		{
			Name: "updateDish", Kind: mutation, Type: t.mutationResult,
			Args: inputArg(inputObject("UpdateDishInput", graphql.InputObjectConfigFieldMap{
				"id":          field(nonNullInt),
				"name":        field(graphql.String),
				"price":       field(graphql.Float),
				"description": field(graphql.String),
				"image":       field(graphql.String),
			})),
			Handler: s.handleUpdateDish,
		},
		{
			Name: "deleteDish", Kind: mutation, Type: t.mutationResult,
			Args: inputArg(inputObject("DeleteDishInput", graphql.InputObjectConfigFieldMap{
				"id": field(nonNullInt),
			})),
			Handler: s.handleDeleteDish,
		},
	}
}
