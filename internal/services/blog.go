package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/errors"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/models"
	repository "github.com/AbdelazizSleem01/zooz-commerce-platform/internal/repositories"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
)

type BlogService interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, req *models.CreateBlogPostRequest) (*models.BlogPost, error)
	GetPostBySlug(ctx context.Context, postSlug string) (*models.BlogPost, error)
	ListPosts(ctx context.Context, page, size int) ([]*models.BlogPost, int, error)
	UpdatePost(ctx context.Context, postSlug string, req *models.UpdateBlogPostRequest) (*models.BlogPost, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
}

type blogService struct {
	blogRepo  repository.BlogRepository
	sanitizer *bluemonday.Policy
}

func NewBlogService(blogRepo repository.BlogRepository) BlogService {
	return &blogService{
		blogRepo:  blogRepo,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Post content is author-supplied HTML, sanitized on the way in so the
// storefront can render it verbatim.
func (s *blogService) CreatePost(ctx context.Context, authorID uuid.UUID, req *models.CreateBlogPostRequest) (*models.BlogPost, error) {

	post := &models.BlogPost{
		ID:        uuid.New(),
		Title:     req.Title,
		Slug:      slug.Make(req.Title),
		Content:   s.sanitizer.Sanitize(req.Content),
		Image:     req.Image,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.blogRepo.CreatePost(ctx, post); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.DuplicateEntryError("A post with this title already exists").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to create post").WithError(err)
	}

	return post, nil
}

func (s *blogService) GetPostBySlug(ctx context.Context, postSlug string) (*models.BlogPost, error) {

	post, err := s.blogRepo.GetPostBySlug(ctx, postSlug)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Post not found")
		}

		return nil, errors.DatabaseError("Failed to fetch post").WithError(err)
	}

	return post, nil
}

func (s *blogService) ListPosts(ctx context.Context, page, size int) ([]*models.BlogPost, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 50 {
		size = 10
	}

	posts, total, err := s.blogRepo.ListPosts(ctx, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch posts").WithError(err)
	}

	return posts, total, nil
}

func (s *blogService) UpdatePost(ctx context.Context, postSlug string, req *models.UpdateBlogPostRequest) (*models.BlogPost, error) {

	post, err := s.blogRepo.GetPostBySlug(ctx, postSlug)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Post not found")
		}

		return nil, errors.DatabaseError("Failed to fetch post").WithError(err)
	}

	if req.Title != nil {
		post.Title = *req.Title
		post.Slug = slug.Make(*req.Title)
	}

	if req.Content != nil {
		post.Content = s.sanitizer.Sanitize(*req.Content)
	}

	if req.Image != nil {
		post.Image = *req.Image
	}

	post.UpdatedAt = time.Now()

	if err := s.blogRepo.UpdatePost(ctx, post); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.DuplicateEntryError("A post with this title already exists").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to update post").WithError(err)
	}

	return post, nil
}

func (s *blogService) DeletePost(ctx context.Context, id uuid.UUID) error {

	if err := s.blogRepo.DeletePost(ctx, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("Post not found")
		}

		return errors.DatabaseError("Failed to delete post").WithError(err)
	}

	return nil
}
