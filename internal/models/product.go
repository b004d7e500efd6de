package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	CategoryID   uuid.UUID `json:"category_id"`
	BrandID      uuid.UUID `json:"brand_id"`
	Images       []string  `json:"images"`
	Price        float64   `json:"price"`
	Description  string    `json:"description"`
	Sizes        []string  `json:"sizes,omitempty"`
	Colors       []string  `json:"colors,omitempty"`
	CountInStock int       `json:"count_in_stock"`
	IsFeatured   bool      `json:"is_featured"`
	Banner       string    `json:"banner,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Category *Category `json:"category,omitempty"`
	Brand    *Brand    `json:"brand,omitempty"`
}

// FirstImage is what gets frozen into an order item snapshot.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}

	return p.Images[0]
}

type CreateProductRequest struct {
	Name         string   `json:"name" validate:"required,min=3,max=200"`
	CategoryID   uuid.UUID `json:"category_id" validate:"required"`
	BrandID      uuid.UUID `json:"brand_id" validate:"required"`
	Images       []string `json:"images" validate:"required,min=1,dive,url"`
	Price        float64  `json:"price" validate:"required,gte=0.5"`
	Description  string   `json:"description,omitempty"`
	Sizes        []string `json:"sizes,omitempty"`
	Colors       []string `json:"colors,omitempty"`
	CountInStock int      `json:"count_in_stock" validate:"gte=0"`
	IsFeatured   bool     `json:"is_featured"`
	Banner       string   `json:"banner,omitempty" validate:"omitempty,url"`
}

type UpdateProductRequest struct {
	Name         *string   `json:"name,omitempty" validate:"omitempty,min=3,max=200"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	BrandID      *uuid.UUID `json:"brand_id,omitempty"`
	Images       *[]string `json:"images,omitempty" validate:"omitempty,min=1,dive,url"`
	Price        *float64  `json:"price,omitempty" validate:"omitempty,gte=0.5"`
	Description  *string   `json:"description,omitempty"`
	Sizes        *[]string `json:"sizes,omitempty"`
	Colors       *[]string `json:"colors,omitempty"`
	CountInStock *int      `json:"count_in_stock,omitempty" validate:"omitempty,gte=0"`
	IsFeatured   *bool     `json:"is_featured,omitempty"`
	Banner       *string   `json:"banner,omitempty" validate:"omitempty,url"`
}

type ProductFilter struct {
	CategorySlug string
	BrandSlug    string
	FeaturedOnly bool
}
