package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/models"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/utils"
	"github.com/google/uuid"
)

type BlogRepository interface {
	CreatePost(ctx context.Context, post *models.BlogPost) error
	GetPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	ListPosts(ctx context.Context, page, size int) ([]*models.BlogPost, int, error)
	UpdatePost(ctx context.Context, post *models.BlogPost) error
	DeletePost(ctx context.Context, id uuid.UUID) error
}

type blogRepository struct {
	DB *sql.DB
}

func NewBlogRepo(db *sql.DB) BlogRepository {
	return &blogRepository{DB: db}
}

func (r *blogRepository) CreatePost(ctx context.Context, post *models.BlogPost) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO blog_posts (id, title, slug, content, image, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, post.ID, post.Title, post.Slug, post.Content, post.Image, post.AuthorID).
		Scan(&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("post slug %q: %w", post.Slug, ErrDuplicate)
		}

		return fmt.Errorf("failed to insert blog post: %w", err)
	}

	return nil
}

func (r *blogRepository) GetPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	post := &models.BlogPost{}

	query := `
		SELECT id, title, slug, content, image, author_id, created_at, updated_at
		FROM blog_posts
		WHERE slug = $1`

	err := r.DB.QueryRowContext(dbCtx, query, slug).
		Scan(&post.ID, &post.Title, &post.Slug, &post.Content, &post.Image, &post.AuthorID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return post, nil
}

func (r *blogRepository) ListPosts(ctx context.Context, page, size int) ([]*models.BlogPost, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM blog_posts`).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT id, title, slug, content, image, author_id, created_at, updated_at
		FROM blog_posts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var posts []*models.BlogPost

	for rows.Next() {
		post := &models.BlogPost{}

		err := rows.Scan(&post.ID, &post.Title, &post.Slug, &post.Content, &post.Image, &post.AuthorID, &post.CreatedAt, &post.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}

		posts = append(posts, post)
	}

	return posts, total, rows.Err()
}

func (r *blogRepository) UpdatePost(ctx context.Context, post *models.BlogPost) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE blog_posts SET title = $1, slug = $2, content = $3, image = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`

	return r.DB.QueryRowContext(dbCtx, query, post.Title, post.Slug, post.Content, post.Image, post.ID).
		Scan(&post.UpdatedAt)
}

func (r *blogRepository) DeletePost(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.DB, "blog_posts", id)
}
