package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/errors"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/models"
	repository "github.com/AbdelazizSleem01/zooz-commerce-platform/internal/repositories"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/pkg/sendgrid"
	"github.com/google/uuid"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
	UpdateTracking(ctx context.Context, id uuid.UUID, status models.TrackingStatus) (*models.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	email       sendgrid.EmailService
}

func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, productRepo repository.ProductRepository, userRepo repository.UserRepository, email sendgrid.EmailService) OrderService {
	return &orderService{orderRepo: orderRepo, cartRepo: cartRepo, productRepo: productRepo, userRepo: userRepo, email: email}
}

const standardDeliveryDays = 3

// PlaceOrder converts the user's cart into an order. The confirmed payment
// amount is trusted as the order total; a recomputed cart total that
// disagrees is logged, not rejected. All four mutations (stock decrement,
// order insert, cart delete, admin notification) commit atomically in the
// repository, where the stock floor check is re-evaluated; the per-product
// reads here only build the snapshot and produce early, friendly errors.
func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.BadRequestError("Cart is empty")
		}

		return nil, errors.DatabaseError("Failed to load cart").WithError(err)
	}

	if len(cart.Items) == 0 {
		return nil, errors.BadRequestError("Cart is empty")
	}

	now := time.Now()
	items := make([]models.OrderItem, 0, len(cart.Items))

	var expectedTotal float64

	for _, line := range cart.Items {

		product, err := s.productRepo.GetProductByID(ctx, line.ProductID)
		if err != nil {
			if stderrors.Is(err, sql.ErrNoRows) {
				return nil, errors.NotFoundError("Product not found: " + line.ProductID.String())
			}

			return nil, errors.DatabaseError("Failed to load product").WithError(err)
		}

		if product.CountInStock < line.Quantity {
			return nil, errors.OutOfStockError("Insufficient stock for "+product.Name, product.CountInStock)
		}

		// Frozen snapshot: later product edits never rewrite this order.
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			Image:     product.FirstImage(),
			Price:     product.Price,
			Size:      line.Size,
			Color:     line.Color,
		})

		expectedTotal += product.Price * float64(line.Quantity)
	}

	if math.Abs(expectedTotal-req.Amount) > 0.01 {
		slog.Warn("amount_mismatch between confirmed payment and cart total",
			slog.String("userId", userID.String()),
			slog.Float64("confirmed", req.Amount),
			slog.Float64("computed", expectedTotal))
	}

	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		Items:         items,
		TotalPrice:    req.Amount,
		PaymentMethod: req.PaymentMethod,
		PaymentResult: models.PaymentResult{
			ID:     req.PaymentIntentID,
			Status: "succeeded",
		},
		ShippingAddress: req.ShippingAddress,
		ShippingMethod:  req.ShippingMethod,
		Tracking:        newTracking(req.ShippingMethod, now),
		IsPaid:          true,
		PaidAt:          &now,
		Status:          models.OrderStatusProcessing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	adminIDs, err := s.userRepo.ListAdminIDs(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load admin recipients").WithError(err)
	}

	notification := &models.Notification{
		ID:          uuid.New(),
		Message:     fmt.Sprintf("New order for $%.2f placed by a customer", order.TotalPrice),
		Link:        "/admin/orders/" + order.ID.String(),
		Type:        models.NotificationTypeOrder,
		Recipients:  adminIDs,
		ReadBy:      []uuid.UUID{},
		RelatedUser: &userID,
	}

	if err := s.orderRepo.PlaceOrder(ctx, order, cart.ID, notification); err != nil {
		return nil, mapPlacementError(err)
	}

	s.sendOrderConfirmation(order)

	return order, nil
}

func mapPlacementError(err error) error {

	var stockErr *repository.StockError
	if stderrors.As(err, &stockErr) {
		return errors.OutOfStockError("Insufficient stock for product: "+stockErr.ProductID.String(), stockErr.Available).WithError(err)
	}

	var missingErr *repository.MissingProductError
	if stderrors.As(err, &missingErr) {
		return errors.NotFoundError("Product not found: " + missingErr.ProductID.String()).WithError(err)
	}

	if stderrors.Is(err, repository.ErrDuplicatePayment) {
		return errors.DuplicateEntryError("An order already exists for this payment").WithError(err)
	}

	if stderrors.Is(err, repository.ErrCartConverted) {
		return errors.BadRequestError("Cart is empty").WithError(err)
	}

	return errors.DatabaseError("Failed to place order").WithError(err)
}

func newTracking(method models.ShippingMethod, now time.Time) models.Tracking {

	carrier := "UPS"
	days := standardDeliveryDays

	if method == models.ShippingMethodExpress {
		carrier = "DHL Express"
		days = 1
	}

	return models.Tracking{
		Number:            newTrackingNumber(),
		Carrier:           carrier,
		Status:            models.TrackingStatusProcessing,
		EstimatedDelivery: now.AddDate(0, 0, days),
		LastUpdated:       now,
	}
}

// newTrackingNumber builds a short human-readable code like ZZ-1A2B3C4D5E.
func newTrackingNumber() string {

	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))

	return "ZZ-" + raw[:10]
}

// Confirmation email is best effort: failure is logged, never surfaced.
func (s *orderService) sendOrderConfirmation(order *models.Order) {

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := s.userRepo.GetUserByID(ctx, order.UserID)
		if err != nil {
			slog.Error("Failed to load user for order confirmation email", slog.Any("error", err))
			return
		}

		msg := &sendgrid.Message{
			To:        user.Email,
			ToName:    user.Name,
			Subject:   "Your ZOOZ order is confirmed",
			PlainText: fmt.Sprintf("Thanks %s! Your order of $%.2f is confirmed. Track it with %s.", user.Name, order.TotalPrice, order.Tracking.Number),
		}

		if err := s.email.Send(ctx, msg); err != nil {
			slog.Error("Failed to send order confirmation email", slog.Any("error", err))
		}
	}()
}

func (s *orderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Order not found").WithError(err)
	}

	return order, nil
}

func (s *orderService) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 100 {
		size = 10
	}

	orders, total, err := s.orderRepo.ListOrdersByUser(ctx, userID, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

func (s *orderService) UpdateTracking(ctx context.Context, id uuid.UUID, status models.TrackingStatus) (*models.Order, error) {

	order, err := s.orderRepo.UpdateTracking(ctx, id, status)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Order not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to update tracking").WithError(err)
	}

	return order, nil
}
