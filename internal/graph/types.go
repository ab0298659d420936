package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/tablebell/restaurant-api/internal/domain"
)

// types holds the GraphQL object and input types shared by operations.
type types struct {
	role       *graphql.Enum
	user       *graphql.Object
	category   *graphql.Object
	dish       *graphql.Object
	restaurant *graphql.Object

	mutationResult    *graphql.Object
	loginResult       *graphql.Object
	userProfileResult *graphql.Object
	categoriesResult  *graphql.Object
	categoryResult    *graphql.Object
	restaurantsResult *graphql.Object
	restaurantResult  *graphql.Object
}

var (
	nonNullInt    = graphql.NewNonNull(graphql.Int)
	nonNullString = graphql.NewNonNull(graphql.String)
	nonNullBool   = graphql.NewNonNull(graphql.Boolean)
	nonNullFloat  = graphql.NewNonNull(graphql.Float)
	nonNullTime   = graphql.NewNonNull(graphql.DateTime)
)

func (s *Server) buildTypes() *types {
	t := &types{}

	values := graphql.EnumValueConfigMap{}
	for _, r := range domain.Roles {
		values[string(r)] = &graphql.EnumValueConfig{Value: r}
	}
	t.role = graphql.NewEnum(graphql.EnumConfig{Name: "UserRole", Values: values})

	t.user = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: nonNullInt},
			"email":      &graphql.Field{Type: nonNullString},
			"role":       &graphql.Field{Type: graphql.NewNonNull(t.role)},
			"isVerified": &graphql.Field{Type: nonNullBool, Resolve: s.resolveUserVerified},
			"createdAt":  &graphql.Field{Type: nonNullTime},
			"updatedAt":  &graphql.Field{Type: nonNullTime},
		},
	})

	t.category = graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: nonNullInt},
			"name":             &graphql.Field{Type: nonNullString},
			"slug":             &graphql.Field{Type: nonNullString},
			"image":            &graphql.Field{Type: graphql.String},
			"countRestaurants": &graphql.Field{Type: nonNullInt, Resolve: s.resolveCountRestaurants},
			"createdAt":        &graphql.Field{Type: nonNullTime},
			"updatedAt":        &graphql.Field{Type: nonNullTime},
		},
	})

	t.dish = graphql.NewObject(graphql.ObjectConfig{
		Name: "Dish",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: nonNullInt},
			"name":         &graphql.Field{Type: nonNullString},
			"price":        &graphql.Field{Type: nonNullFloat},
			"description":  &graphql.Field{Type: nonNullString},
			"image":        &graphql.Field{Type: graphql.String},
			"restaurantId": &graphql.Field{Type: nonNullInt},
			"createdAt":    &graphql.Field{Type: nonNullTime},
			"updatedAt":    &graphql.Field{Type: nonNullTime},
		},
	})

	t.restaurant = graphql.NewObject(graphql.ObjectConfig{
		Name: "Restaurant",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: nonNullInt},
			"name":            &graphql.Field{Type: nonNullString},
			"backgroundImage": &graphql.Field{Type: nonNullString},
			"address":         &graphql.Field{Type: nonNullString},
			"category":        &graphql.Field{Type: t.category},
			"owner":           &graphql.Field{Type: t.user, Resolve: s.resolveRestaurantOwner},
			"dishes":          &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(t.dish))},
			"createdAt":       &graphql.Field{Type: nonNullTime},
			"updatedAt":       &graphql.Field{Type: nonNullTime},
		},
	})

	t.mutationResult = resultObject("MutationResponse", nil)
	t.loginResult = resultObject("LoginResponse", graphql.Fields{
		"token": &graphql.Field{Type: graphql.String},
	})
	t.userProfileResult = resultObject("UserProfileResponse", graphql.Fields{
		"user": &graphql.Field{Type: t.user},
	})
	t.categoriesResult = resultObject("AllCategoriesResponse", graphql.Fields{
		"categories": &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(t.category))},
	})
	t.categoryResult = resultObject("CategoryResponse", graphql.Fields{
		"totalPages":  &graphql.Field{Type: graphql.Int},
		"category":    &graphql.Field{Type: t.category},
		"restaurants": &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(t.restaurant))},
	})
	t.restaurantsResult = resultObject("RestaurantsResponse", graphql.Fields{
		"totalPages":  &graphql.Field{Type: graphql.Int},
		"restaurants": &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(t.restaurant))},
	})
	t.restaurantResult = resultObject("RestaurantResponse", graphql.Fields{
		"restaurant": &graphql.Field{Type: t.restaurant},
	})

	return t
}

// resultObject declares an envelope type: isSuccess, error and extra fields.
func resultObject(name string, extra graphql.Fields) *graphql.Object {
	fields := graphql.Fields{
		"isSuccess": &graphql.Field{Type: nonNullBool},
		"error":     &graphql.Field{Type: graphql.String},
	}
	for k, v := range extra {
		fields[k] = v
	}
	return graphql.NewObject(graphql.ObjectConfig{Name: name, Fields: fields})
}

func inputObject(name string, fields graphql.InputObjectConfigFieldMap) *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{Name: name, Fields: fields})
}

func inputArg(t graphql.Input) graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(t)},
	}
}

func field(t graphql.Input) *graphql.InputObjectFieldConfig {
	return &graphql.InputObjectFieldConfig{Type: t}
}

var pageField = &graphql.InputObjectFieldConfig{Type: graphql.Int, DefaultValue: 1}
