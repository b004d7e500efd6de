package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/models"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/utils"
	"github.com/google/uuid"
)

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type BrandRepository interface {
	CreateBrand(ctx context.Context, brand *models.Brand) error
	GetBrandByID(ctx context.Context, id uuid.UUID) (*models.Brand, error)
	ListBrands(ctx context.Context) ([]*models.Brand, error)
	UpdateBrand(ctx context.Context, brand *models.Brand) error
	DeleteBrand(ctx context.Context, id uuid.UUID) error
}

type categoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepo(db *sql.DB) CategoryRepository {
	return &categoryRepository{DB: db}
}

func (r *categoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO categories (id, name, slug, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, category.ID, category.Name, category.Slug, category.Image).
		Scan(&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category slug %q: %w", category.Slug, ErrDuplicate)
		}

		return fmt.Errorf("failed to insert category: %w", err)
	}

	return nil
}

func (r *categoryRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	category := &models.Category{}

	query := `SELECT id, name, slug, image, created_at, updated_at FROM categories WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&category.ID, &category.Name, &category.Slug, &category.Image, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return category, nil
}

func (r *categoryRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, `SELECT id, name, slug, image, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var categories []*models.Category

	for rows.Next() {
		category := &models.Category{}

		if err := rows.Scan(&category.ID, &category.Name, &category.Slug, &category.Image, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, err
		}

		categories = append(categories, category)
	}

	return categories, rows.Err()
}

func (r *categoryRepository) UpdateCategory(ctx context.Context, category *models.Category) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE categories SET name = $1, slug = $2, image = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`

	return r.DB.QueryRowContext(dbCtx, query, category.Name, category.Slug, category.Image, category.ID).
		Scan(&category.UpdatedAt)
}

func (r *categoryRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.DB, "categories", id)
}

type brandRepository struct {
	DB *sql.DB
}

func NewBrandRepo(db *sql.DB) BrandRepository {
	return &brandRepository{DB: db}
}

func (r *brandRepository) CreateBrand(ctx context.Context, brand *models.Brand) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO brands (id, name, slug, logo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, brand.ID, brand.Name, brand.Slug, brand.Logo).
		Scan(&brand.CreatedAt, &brand.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("brand slug %q: %w", brand.Slug, ErrDuplicate)
		}

		return fmt.Errorf("failed to insert brand: %w", err)
	}

	return nil
}

func (r *brandRepository) GetBrandByID(ctx context.Context, id uuid.UUID) (*models.Brand, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	brand := &models.Brand{}

	query := `SELECT id, name, slug, logo, created_at, updated_at FROM brands WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&brand.ID, &brand.Name, &brand.Slug, &brand.Logo, &brand.CreatedAt, &brand.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return brand, nil
}

func (r *brandRepository) ListBrands(ctx context.Context) ([]*models.Brand, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, `SELECT id, name, slug, logo, created_at, updated_at FROM brands ORDER BY name`)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var brands []*models.Brand

	for rows.Next() {
		brand := &models.Brand{}

		if err := rows.Scan(&brand.ID, &brand.Name, &brand.Slug, &brand.Logo, &brand.CreatedAt, &brand.UpdatedAt); err != nil {
			return nil, err
		}

		brands = append(brands, brand)
	}

	return brands, rows.Err()
}

func (r *brandRepository) UpdateBrand(ctx context.Context, brand *models.Brand) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE brands SET name = $1, slug = $2, logo = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`

	return r.DB.QueryRowContext(dbCtx, query, brand.Name, brand.Slug, brand.Logo, brand.ID).
		Scan(&brand.UpdatedAt)
}

func (r *brandRepository) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.DB, "brands", id)
}

func deleteByID(ctx context.Context, db *sql.DB, table string, id uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := db.ExecContext(dbCtx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if deleted == 0 {
		return sql.ErrNoRows
	}

	return nil
}
