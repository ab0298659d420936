package graph

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablebell/restaurant-api/internal/dish"
	"github.com/tablebell/restaurant-api/internal/identity"
	"github.com/tablebell/restaurant-api/internal/ownership"
	"github.com/tablebell/restaurant-api/internal/pkg/httputil"
	"github.com/tablebell/restaurant-api/internal/restaurant"
)

func TestDecodeInput(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]interface{}
		wantErr string
	}{
		{
			name: "valid",
			args: map[string]interface{}{"input": map[string]interface{}{
				"restaurantId": 1, "name": "Soup", "price": 3.5,
				"description": "Hot tomato soup with basil",
			}},
		},
		{
			name: "negative price",
			args: map[string]interface{}{"input": map[string]interface{}{
				"restaurantId": 1, "name": "Soup", "price": -1.0,
				"description": "Hot tomato soup with basil",
			}},
			wantErr: "price is invalid",
		},
		{
			name: "wrong type",
			args: map[string]interface{}{"input": map[string]interface{}{
				"restaurantId": 1, "name": 42, "price": 3.5,
				"description": "Hot tomato soup with basil",
			}},
			wantErr: "name is invalid",
		},
		{
			name:    "missing input",
			args:    map[string]interface{}{},
			wantErr: "restaurantId is invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in createDishInput
			err := decodeInput(tt.args, &in)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "Soup", in.Name)
				assert.Equal(t, int64(1), in.RestaurantID)
				return
			}
			var inputErr *InputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, tt.wantErr, inputErr.Error())
		})
	}
}

func TestErrorMessage(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, "Restaurant not found",
		errorMessage(ctx, fmt.Errorf("load: %w", restaurant.ErrRestaurantNotFound)))
	assert.Equal(t, "You haven't permission", errorMessage(ctx, ownership.ErrPermissionDenied))
	assert.Equal(t, "role is invalid", errorMessage(ctx, identity.ErrInvalidRole))
	assert.Equal(t, "id is invalid", errorMessage(ctx, &InputError{Field: "id"}))
	assert.Equal(t, httputil.InternalErrorMessage, errorMessage(ctx, errors.New("connection reset")))
}

func TestEnvelope(t *testing.T) {
	assert.Equal(t, map[string]interface{}{"isSuccess": true, "error": nil}, envelope(context.Background(), nil))
	assert.Equal(t, map[string]interface{}{"isSuccess": false, "error": "Dish not found"},
		envelope(context.Background(), fmt.Errorf("x: %w", dish.ErrDishNotFound)))
}
