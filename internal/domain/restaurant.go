package domain

import "time"

// Category groups restaurants. Name is stored lower-cased and Slug is unique.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Restaurant is owned by the user referenced by OwnerID.
type Restaurant struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	BackgroundImage string    `json:"backgroundImage"`
	Address         string    `json:"address"`
	CategoryID      *int64    `json:"categoryId"`
	Category        *Category `json:"category"`
	OwnerID         int64     `json:"ownerId"`
	Dishes          []Dish    `json:"dishes"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Dish belongs to a restaurant. Restaurant is populated only by lookups that
// need the owner, such as ownership checks.
type Dish struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Price        float64     `json:"price"`
	Description  string      `json:"description"`
	Image        *string     `json:"image"`
	RestaurantID int64       `json:"restaurantId"`
	Restaurant   *Restaurant `json:"-"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}
