package repository_test

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/models"
	repository "github.com/AbdelazizSleem01/zooz-commerce-platform/internal/repositories"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProductRepoTest(t *testing.T) (repository.ProductRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	repo := repository.NewProductRepo(db)
	require.NotNil(t, repo, "NewProductRepo should return a non-nil repository")

	return repo, mock
}

var productRowColumns = []string{
	"id", "name", "slug", "category_id", "brand_id", "images", "price", "description",
	"sizes", "colors", "count_in_stock", "is_featured", "banner", "created_at", "updated_at",
	"c_id", "c_name", "c_slug", "b_id", "b_name", "b_slug",
}

func TestCreateProduct(t *testing.T) {
	repo, mock := setupProductRepoTest(t)
	ctx := t.Context()

	product := &models.Product{
		ID:           uuid.New(),
		Name:         "Runner Sneaker",
		Slug:         "runner-sneaker",
		CategoryID:   uuid.New(),
		BrandID:      uuid.New(),
		Images:       []string{"https://cdn.zooz.shop/p1.jpg"},
		Price:        59.99,
		Description:  "Lightweight everyday runner",
		Sizes:        []string{"41", "42"},
		Colors:       []string{"black"},
		CountInStock: 10,
	}

	expectedSQL := `INSERT INTO products`

	t.Run("Success", func(t *testing.T) {
		// Arrange
		now := time.Now()
		mock.ExpectQuery(expectedSQL).
			WithArgs(product.ID, product.Name, product.Slug, product.CategoryID, product.BrandID,
				pq.Array(product.Images), product.Price, product.Description,
				pq.Array(product.Sizes), pq.Array(product.Colors),
				product.CountInStock, product.IsFeatured, product.Banner).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		// Act
		err := repo.CreateProduct(ctx, product)

		// Assert
		require.NoError(t, err, "CreateProduct should not return an error on success")
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Failure - Duplicate Slug", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(expectedSQL).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "products_slug_key"})

		// Act
		err := repo.CreateProduct(ctx, product)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, repository.ErrDuplicate)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})
}

func TestGetProductByID(t *testing.T) {
	repo, mock := setupProductRepoTest(t)
	ctx := t.Context()

	productID := uuid.New()
	categoryID := uuid.New()
	brandID := uuid.New()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		rows := sqlmock.NewRows(productRowColumns).
			AddRow(productID, "Runner Sneaker", "runner-sneaker", categoryID, brandID,
				pq.StringArray{"https://cdn.zooz.shop/p1.jpg"}, 59.99, "desc",
				pq.StringArray{"42"}, pq.StringArray{"black"}, 10, false, "", now, now,
				categoryID.String(), "Shoes", "shoes", brandID.String(), "Zooz", "zooz")

		mock.ExpectQuery(`SELECT (.+) FROM products p LEFT JOIN categories c`).
			WithArgs(productID).
			WillReturnRows(rows)

		// Act
		product, err := repo.GetProductByID(ctx, productID)

		// Assert
		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, productID, product.ID)
		assert.Equal(t, []string{"https://cdn.zooz.shop/p1.jpg"}, product.Images)
		require.NotNil(t, product.Category)
		assert.Equal(t, "shoes", product.Category.Slug)
		require.NotNil(t, product.Brand)
		assert.Equal(t, "zooz", product.Brand.Slug)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(`SELECT (.+) FROM products p LEFT JOIN categories c`).
			WithArgs(productID).
			WillReturnError(sql.ErrNoRows)

		// Act
		product, err := repo.GetProductByID(ctx, productID)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, product)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})
}

func TestListProducts(t *testing.T) {
	repo, mock := setupProductRepoTest(t)
	ctx := t.Context()

	productID := uuid.New()
	categoryID := uuid.New()
	brandID := uuid.New()
	now := time.Now()

	t.Run("Success - Category Filter", func(t *testing.T) {
		// Arrange
		filter := models.ProductFilter{CategorySlug: "shoes"}

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*)`)).
			WithArgs("shoes", "", false).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows(productRowColumns).
			AddRow(productID, "Runner Sneaker", "runner-sneaker", categoryID, brandID,
				pq.StringArray{}, 59.99, "", pq.StringArray{}, pq.StringArray{}, 10, false, "", now, now,
				categoryID.String(), "Shoes", "shoes", brandID.String(), "Zooz", "zooz")

		mock.ExpectQuery(`SELECT (.+) FROM products p LEFT JOIN categories c (.+) ORDER BY p.created_at DESC`).
			WithArgs("shoes", "", false, 12, 0).
			WillReturnRows(rows)

		// Act
		products, total, err := repo.ListProducts(ctx, filter, 1, 12)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, products, 1)
		assert.Equal(t, productID, products[0].ID)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})
}
