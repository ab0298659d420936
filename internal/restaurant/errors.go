package restaurant

import "errors"

// Restaurant errors.
var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
)
