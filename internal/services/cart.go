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
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

// GetCart never 404s: a user without a cart sees an empty one.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
		}

		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	return cart, nil
}

// AddItem creates the cart lazily on first use. Adding a line that already
// exists (same product, size and color) merges the quantities.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error) {

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Product not found")
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if product.CountInStock < req.Quantity {
		return nil, errors.OutOfStockError("Insufficient stock for "+product.Name, product.CountInStock)
	}

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {

		if !stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
		}

		cart = &models.Cart{
			ID:        uuid.New(),
			UserID:    userID,
			Items:     []models.CartItem{},
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.cartRepo.CreateCart(ctx, cart); err != nil {
			return nil, errors.DatabaseError("Failed to create cart").WithError(err)
		}
	}

	merged := false

	for i := range cart.Items {
		if sameLine(cart.Items[i], req.ProductID, req.Size, req.Color) {
			cart.Items[i].Quantity += req.Quantity
			merged = true

			break
		}
	}

	if !merged {
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Size:      req.Size,
			Color:     req.Color,
		})
	}

	cart.UpdatedAt = time.Now()

	if err := s.cartRepo.UpdateCart(ctx, cart); err != nil {
		return nil, errors.DatabaseError("Failed to update cart").WithError(err)
	}

	return cart, nil
}

// UpdateQuantity sets a line to an absolute quantity. Zero removes the line.
func (s *cartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Cart not found")
		}

		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	idx := -1

	for i := range cart.Items {
		if sameLine(cart.Items[i], req.ProductID, req.Size, req.Color) {
			idx = i

			break
		}
	}

	if idx == -1 {
		return nil, errors.NotFoundError("Item not found in cart")
	}

	if req.Quantity == 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Quantity = req.Quantity
	}

	cart.UpdatedAt = time.Now()

	if err := s.cartRepo.UpdateCart(ctx, cart); err != nil {
		return nil, errors.DatabaseError("Failed to update cart").WithError(err)
	}

	return cart, nil
}

func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil
		}

		return errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if err := s.cartRepo.DeleteCart(ctx, cart.ID); err != nil {
		return errors.DatabaseError("Failed to clear cart").WithError(err)
	}

	return nil
}

func sameLine(item models.CartItem, productID uuid.UUID, size, color string) bool {
	return item.ProductID == productID && item.Size == size && item.Color == color
}
