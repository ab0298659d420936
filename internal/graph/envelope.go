package graph

import (
	"context"
	"errors"

	"github.com/tablebell/restaurant-api/internal/category"
	"github.com/tablebell/restaurant-api/internal/dish"
	"github.com/tablebell/restaurant-api/internal/identity"
	"github.com/tablebell/restaurant-api/internal/ownership"
	"github.com/tablebell/restaurant-api/internal/pkg/ctxlog"
	"github.com/tablebell/restaurant-api/internal/pkg/httputil"
	"github.com/tablebell/restaurant-api/internal/restaurant"
	"github.com/tablebell/restaurant-api/internal/verification"
)

// envelopeErrors maps domain errors to envelope messages. Status is unused:
// executed documents always answer 200.
var envelopeErrors = []httputil.ErrorMapping{
	{Error: identity.ErrEmailTaken, Message: "This email is already taken"},
	{Error: identity.ErrInvalidCredentials, Message: "Email or password are wrong"},
	{Error: identity.ErrUserNotFound, Message: "User not found"},
	{Error: identity.ErrTooManyAttempts, Message: "Too many login attempts, try again later"},
	{Error: identity.ErrInvalidRole, Message: "role is invalid"},
	{Error: identity.ErrInvalidPassword, Message: "password is invalid"},
	{Error: verification.ErrAlreadyVerified, Message: "Email already verified"},
	{Error: verification.ErrWrongCode, Message: "Wrong confirmation code"},
	{Error: verification.ErrNotFound, Message: "Verification not found"},
	{Error: category.ErrCategoryNotFound, Message: "Category not found"},
	{Error: category.ErrEmptyName, Message: "categoryName is invalid"},
	{Error: restaurant.ErrRestaurantNotFound, Message: "Restaurant not found"},
	{Error: dish.ErrDishNotFound, Message: "Dish not found"},
	{Error: ownership.ErrPermissionDenied, Message: "You haven't permission"},
}

// envelope builds the {isSuccess, error} result for err. Unmapped errors are
// logged and reported as a generic message.
func envelope(ctx context.Context, err error) map[string]interface{} {
	if err == nil {
		return map[string]interface{}{"isSuccess": true, "error": nil}
	}
	return map[string]interface{}{"isSuccess": false, "error": errorMessage(ctx, err)}
}

func errorMessage(ctx context.Context, err error) string {
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return inputErr.Error()
	}
	if m, ok := httputil.Match(err, envelopeErrors); ok {
		return m.Message
	}
	ctxlog.FromContext(ctx).Error("internal error", "error", err)
	return httputil.InternalErrorMessage
}
