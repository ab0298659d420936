package graph

import "github.com/tablebell/restaurant-api/internal/domain"

type createAccountInput struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,max=72"`
	Role     domain.Role `json:"role" validate:"required"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userProfileArgs struct {
	ID int64 `json:"id" validate:"gt=0"`
}

type updateProfileInput struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=1,max=72"`
}

type verifyEmailInput struct {
	Code string `json:"code" validate:"required"`
}

type categoryInput struct {
	CategorySlug string `json:"categorySlug" validate:"required"`
	Page         int    `json:"page"`
}

type pageInput struct {
	Page int `json:"page"`
}

type idInput struct {
	ID int64 `json:"id" validate:"gt=0"`
}

type searchInput struct {
	Query *string `json:"query"`
	Page  int     `json:"page"`
}

type createRestaurantInput struct {
	Name            string `json:"name" validate:"required"`
	BackgroundImage string `json:"backgroundImage" validate:"required"`
	Address         string `json:"address" validate:"required"`
	CategoryName    string `json:"categoryName" validate:"required"`
}

type updateRestaurantInput struct {
	ID              int64   `json:"id" validate:"gt=0"`
	Name            *string `json:"name" validate:"omitempty,min=1"`
	BackgroundImage *string `json:"backgroundImage" validate:"omitempty,min=1"`
	Address         *string `json:"address" validate:"omitempty,min=1"`
	CategoryName    *string `json:"categoryName" validate:"omitempty,min=1"`
}

type createDishInput struct {
	RestaurantID int64   `json:"restaurantId" validate:"gt=0"`
	Name         string  `json:"name" validate:"min=2,max=30"`
	Price        float64 `json:"price" validate:"gte=0"`
	Description  string  `json:"description" validate:"min=20,max=400"`
	Image        *string `json:"image"`
}

type updateDishInput struct {
	ID          int64    `json:"id" validate:"gt=0"`
	Name        *string  `json:"name" validate:"omitempty,min=2,max=30"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Description *string  `json:"description" validate:"omitempty,min=20,max=400"`
	Image       *string  `json:"image"`
}
