package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Brand struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Logo      string    `json:"logo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Image string `json:"image,omitempty" validate:"omitempty,url"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Image *string `json:"image,omitempty" validate:"omitempty,url"`
}

type CreateBrandRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
	Logo string `json:"logo,omitempty" validate:"omitempty,url"`
}

type UpdateBrandRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Logo *string `json:"logo,omitempty" validate:"omitempty,url"`
}
