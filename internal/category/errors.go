package category

import "errors"

// Category errors.
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrEmptyName        = errors.New("category name is empty")
)
