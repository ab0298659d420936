package postgres

import (
	"time"

	"github.com/tablebell/restaurant-api/internal/domain"
)

type nullableCategory struct {
	ID        *int64
	Name      *string
	Slug      *string
	Image     *string
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

func (c nullableCategory) toDomain() *domain.Category {
	if c.ID == nil {
		return nil
	}
	out := &domain.Category{ID: *c.ID, Image: c.Image}
	if c.Name != nil {
		out.Name = *c.Name
	}
	if c.Slug != nil {
		out.Slug = *c.Slug
	}
	if c.CreatedAt != nil {
		out.CreatedAt = *c.CreatedAt
	}
	if c.UpdatedAt != nil {
		out.UpdatedAt = *c.UpdatedAt
	}
	return out
}
