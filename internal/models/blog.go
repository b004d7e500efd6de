package models

import (
	"time"

	"github.com/google/uuid"
)

type BlogPost struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	AuthorID  uuid.UUID `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateBlogPostRequest struct {
	Title   string `json:"title" validate:"required,min=3,max=200"`
	Content string `json:"content" validate:"required"`
	Image   string `json:"image,omitempty" validate:"omitempty,url"`
}

type UpdateBlogPostRequest struct {
	Title   *string `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Content *string `json:"content,omitempty"`
	Image   *string `json:"image,omitempty" validate:"omitempty,url"`
}
