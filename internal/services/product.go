package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/cache"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/config"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/errors"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/models"
	repository "github.com/AbdelazizSleem01/zooz-commerce-platform/internal/repositories"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductBySlug(ctx context.Context, productSlug string) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, filter models.ProductFilter, page, size int) ([]*models.Product, int, error)
}

type productService struct {
	productRepo repository.ProductRepository
	cache       cache.Cache
	cacheCfg    *config.CacheConfig
}

func NewProductService(productRepo repository.ProductRepository, productCache cache.Cache, cacheCfg *config.CacheConfig) ProductService {
	return &productService{productRepo: productRepo, cache: productCache, cacheCfg: cacheCfg}
}

func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	product := &models.Product{
		ID:           uuid.New(),
		Name:         req.Name,
		Slug:         slug.Make(req.Name),
		CategoryID:   req.CategoryID,
		BrandID:      req.BrandID,
		Images:       req.Images,
		Price:        req.Price,
		Description:  req.Description,
		Sizes:        req.Sizes,
		Colors:       req.Colors,
		CountInStock: req.CountInStock,
		IsFeatured:   req.IsFeatured,
		Banner:       req.Banner,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.DuplicateEntryError("A product with this name already exists").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to create product").WithError(err)
	}

	return product, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	key := cache.Key(cache.ProductKeyPrefix, id.String())

	var cached models.Product

	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		slog.Warn("Product cache read failed", slog.Any("error", err))
	}

	if found {
		return &cached, nil
	}

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Product not found")
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if err := s.cache.Set(ctx, key, product, s.cacheCfg.ProductTTL); err != nil {
		slog.Warn("Product cache write failed", slog.Any("error", err))
	}

	return product, nil
}

func (s *productService) GetProductBySlug(ctx context.Context, productSlug string) (*models.Product, error) {

	product, err := s.productRepo.GetProductBySlug(ctx, productSlug)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Product not found")
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Product not found")
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	applyProductUpdates(product, req)
	product.UpdatedAt = time.Now()

	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.DuplicateEntryError("A product with this name already exists").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to update product").WithError(err)
	}

	s.invalidate(ctx, id)

	return product, nil
}

func applyProductUpdates(product *models.Product, req *models.UpdateProductRequest) {

	if req.Name != nil {
		product.Name = *req.Name
		product.Slug = slug.Make(*req.Name)
	}

	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}

	if req.BrandID != nil {
		product.BrandID = *req.BrandID
	}

	if req.Images != nil {
		product.Images = *req.Images
	}

	if req.Price != nil {
		product.Price = *req.Price
	}

	if req.Description != nil {
		product.Description = *req.Description
	}

	if req.Sizes != nil {
		product.Sizes = *req.Sizes
	}

	if req.Colors != nil {
		product.Colors = *req.Colors
	}

	if req.CountInStock != nil {
		product.CountInStock = *req.CountInStock
	}

	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}

	if req.Banner != nil {
		product.Banner = *req.Banner
	}
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {

	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("Product not found")
		}

		return errors.DatabaseError("Failed to delete product").WithError(err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *productService) ListProducts(ctx context.Context, filter models.ProductFilter, page, size int) ([]*models.Product, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 100 {
		size = 12
	}

	products, total, err := s.productRepo.ListProducts(ctx, filter, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, total, nil
}

func (s *productService) invalidate(ctx context.Context, id uuid.UUID) {

	if err := s.cache.Delete(ctx, cache.Key(cache.ProductKeyPrefix, id.String())); err != nil {
		slog.Warn("Product cache invalidation failed", slog.Any("error", err))
	}
}
