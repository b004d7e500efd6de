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
)

type CatalogService interface {
	CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *models.UpdateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateBrand(ctx context.Context, req *models.CreateBrandRequest) (*models.Brand, error)
	ListBrands(ctx context.Context) ([]*models.Brand, error)
	UpdateBrand(ctx context.Context, id uuid.UUID, req *models.UpdateBrandRequest) (*models.Brand, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	brandRepo    repository.BrandRepository
}

func NewCatalogService(categoryRepo repository.CategoryRepository, brandRepo repository.BrandRepository) CatalogService {
	return &catalogService{categoryRepo: categoryRepo, brandRepo: brandRepo}
}

func (s *catalogService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {

	category := &models.Category{
		ID:        uuid.New(),
		Name:      req.Name,
		Slug:      slug.Make(req.Name),
		Image:     req.Image,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.categoryRepo.CreateCategory(ctx, category); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.DuplicateEntryError("A category with this name already exists").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to create category").WithError(err)
	}

	return category, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {

	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	return categories, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req *models.UpdateCategoryRequest) (*models.Category, error) {

	category, err := s.categoryRepo.GetCategoryByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Category not found")
		}

		return nil, errors.DatabaseError("Failed to fetch category").WithError(err)
	}

	if req.Name != nil {
		category.Name = *req.Name
		category.Slug = slug.Make(*req.Name)
	}

	if req.Image != nil {
		category.Image = *req.Image
	}

	category.UpdatedAt = time.Now()

	if err := s.categoryRepo.UpdateCategory(ctx, category); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.DuplicateEntryError("A category with this name already exists").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to update category").WithError(err)
	}

	return category, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {

	if err := s.categoryRepo.DeleteCategory(ctx, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("Category not found")
		}

		return errors.DatabaseError("Failed to delete category").WithError(err)
	}

	return nil
}

func (s *catalogService) CreateBrand(ctx context.Context, req *models.CreateBrandRequest) (*models.Brand, error) {

	brand := &models.Brand{
		ID:        uuid.New(),
		Name:      req.Name,
		Slug:      slug.Make(req.Name),
		Logo:      req.Logo,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.brandRepo.CreateBrand(ctx, brand); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.DuplicateEntryError("A brand with this name already exists").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to create brand").WithError(err)
	}

	return brand, nil
}

func (s *catalogService) ListBrands(ctx context.Context) ([]*models.Brand, error) {

	brands, err := s.brandRepo.ListBrands(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch brands").WithError(err)
	}

	return brands, nil
}

func (s *catalogService) UpdateBrand(ctx context.Context, id uuid.UUID, req *models.UpdateBrandRequest) (*models.Brand, error) {

	brand, err := s.brandRepo.GetBrandByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Brand not found")
		}

		return nil, errors.DatabaseError("Failed to fetch brand").WithError(err)
	}

	if req.Name != nil {
		brand.Name = *req.Name
		brand.Slug = slug.Make(*req.Name)
	}

	if req.Logo != nil {
		brand.Logo = *req.Logo
	}

	brand.UpdatedAt = time.Now()

	if err := s.brandRepo.UpdateBrand(ctx, brand); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.DuplicateEntryError("A brand with this name already exists").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to update brand").WithError(err)
	}

	return brand, nil
}

func (s *catalogService) DeleteBrand(ctx context.Context, id uuid.UUID) error {

	if err := s.brandRepo.DeleteBrand(ctx, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("Brand not found")
		}

		return errors.DatabaseError("Failed to delete brand").WithError(err)
	}

	return nil
}
