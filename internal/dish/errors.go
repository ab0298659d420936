package dish

import "errors"

// Dish errors.
var (
	ErrDishNotFound = errors.New("dish not found")
)
