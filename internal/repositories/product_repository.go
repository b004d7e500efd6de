package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/models"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, filter models.ProductFilter, page, size int) ([]*models.Product, int, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `
	p.id, p.name, p.slug, p.category_id, p.brand_id, p.images, p.price, p.description,
	p.sizes, p.colors, p.count_in_stock, p.is_featured, p.banner, p.created_at, p.updated_at,
	c.id, c.name, c.slug, b.id, b.name, b.slug`

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO products (id, name, slug, category_id, brand_id, images, price, description, sizes, colors, count_in_stock, is_featured, banner, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query,
		product.ID, product.Name, product.Slug, product.CategoryID, product.BrandID,
		pq.Array(product.Images), product.Price, product.Description,
		pq.Array(product.Sizes), pq.Array(product.Colors),
		product.CountInStock, product.IsFeatured, product.Banner).
		Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("product slug %q: %w", product.Slug, ErrDuplicate)
		}

		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		LEFT JOIN brands b ON p.brand_id = b.id
		WHERE p.id = $1`

	return scanProduct(r.DB.QueryRowContext(dbCtx, query, id))
}

func (r *productRepository) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		LEFT JOIN brands b ON p.brand_id = b.id
		WHERE p.slug = $1`

	return scanProduct(r.DB.QueryRowContext(dbCtx, query, slug))
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET name = $1, slug = $2, category_id = $3, brand_id = $4, images = $5, price = $6,
		    description = $7, sizes = $8, colors = $9, count_in_stock = $10, is_featured = $11,
		    banner = $12, updated_at = NOW()
		WHERE id = $13
		RETURNING updated_at`

	return r.DB.QueryRowContext(dbCtx, query,
		product.Name, product.Slug, product.CategoryID, product.BrandID,
		pq.Array(product.Images), product.Price, product.Description,
		pq.Array(product.Sizes), pq.Array(product.Colors),
		product.CountInStock, product.IsFeatured, product.Banner, product.ID).
		Scan(&product.UpdatedAt)
}

func (r *productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
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

func (r *productRepository) ListProducts(ctx context.Context, filter models.ProductFilter, page, size int) ([]*models.Product, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	where := ` WHERE ($1 = '' OR c.slug = $1) AND ($2 = '' OR b.slug = $2) AND ($3 = FALSE OR p.is_featured)`

	var total int

	countQuery := `
		SELECT COUNT(*)
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		LEFT JOIN brands b ON p.brand_id = b.id` + where

	err := r.DB.QueryRowContext(dbCtx, countQuery, filter.CategorySlug, filter.BrandSlug, filter.FeaturedOnly).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		LEFT JOIN brands b ON p.brand_id = b.id` + where + `
		ORDER BY p.created_at DESC
		LIMIT $4 OFFSET $5`

	rows, err := r.DB.QueryContext(dbCtx, query, filter.CategorySlug, filter.BrandSlug, filter.FeaturedOnly, size, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var products []*models.Product

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {

	product := &models.Product{}

	var (
		images, sizes, colors                            pq.StringArray
		categoryID, brandID                              sql.NullString
		categoryName, categorySlug, brandName, brandSlug sql.NullString
	)

	err := row.Scan(
		&product.ID, &product.Name, &product.Slug, &product.CategoryID, &product.BrandID,
		&images, &product.Price, &product.Description, &sizes, &colors,
		&product.CountInStock, &product.IsFeatured, &product.Banner,
		&product.CreatedAt, &product.UpdatedAt,
		&categoryID, &categoryName, &categorySlug,
		&brandID, &brandName, &brandSlug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	product.Images = images
	product.Sizes = sizes
	product.Colors = colors

	if categoryID.Valid {
		product.Category = &models.Category{
			ID:   uuid.MustParse(categoryID.String),
			Name: categoryName.String,
			Slug: categorySlug.String,
		}
	}

	if brandID.Valid {
		product.Brand = &models.Brand{
			ID:   uuid.MustParse(brandID.String),
			Name: brandName.String,
			Slug: brandSlug.String,
		}
	}

	return product, nil
}
