package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	appErrors "github.com/AbdelazizSleem01/zooz-commerce-platform/internal/errors"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/models"
	repository "github.com/AbdelazizSleem01/zooz-commerce-platform/internal/repositories"
	service "github.com/AbdelazizSleem01/zooz-commerce-platform/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderServiceMocks struct {
	orderRepo   *mockOrderRepo
	cartRepo    *mockCartRepo
	productRepo *mockProductRepo
	userRepo    *mockUserRepo
	email       *mockEmailService
}

func setupOrderService(t *testing.T) (service.OrderService, *orderServiceMocks) {
	t.Helper()

	mocks := &orderServiceMocks{
		orderRepo:   &mockOrderRepo{},
		cartRepo:    &mockCartRepo{},
		productRepo: &mockProductRepo{},
		userRepo:    &mockUserRepo{},
		email:       &mockEmailService{},
	}

	svc := service.NewOrderService(mocks.orderRepo, mocks.cartRepo, mocks.productRepo, mocks.userRepo, mocks.email)

	return svc, mocks
}

func placementRequest() *models.CreateOrderRequest {
	return &models.CreateOrderRequest{
		PaymentIntentID: "pi_123",
		Amount:          119.98,
		PaymentMethod:   "card",
		ShippingAddress: models.Address{
			FullName: "Test Buyer", Street: "1 Main St", City: "Cairo", PostalCode: "11311", Country: "EG",
		},
		ShippingMethod: models.ShippingMethodStandard,
	}
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()

	userID := uuid.New()
	adminID := uuid.New()
	cartID := uuid.New()
	productID := uuid.New()

	cart := &models.Cart{
		ID:     cartID,
		UserID: userID,
		Items: []models.CartItem{
			{ProductID: productID, Quantity: 2, Size: "42"},
		},
	}

	product := &models.Product{
		ID:           productID,
		Name:         "Runner Sneaker",
		Images:       []string{"https://cdn.zooz.shop/p1.jpg"},
		Price:        59.99,
		CountInStock: 5,
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		svc, mocks := setupOrderService(t)

		mocks.cartRepo.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		mocks.productRepo.On("GetProductByID", ctx, productID).Return(product, nil).Once()
		mocks.userRepo.On("ListAdminIDs", ctx).Return([]uuid.UUID{adminID}, nil).Once()
		mocks.orderRepo.On("PlaceOrder", ctx, mock.AnythingOfType("*models.Order"), cartID, mock.AnythingOfType("*models.Notification")).
			Return(nil).Once()

		// The confirmation email runs on its own goroutine; it may or may
		// not fire before the test finishes.
		mocks.userRepo.On("GetUserByID", mock.Anything, userID).
			Return(&models.User{ID: userID, Name: "Test Buyer", Email: "buyer@example.com"}, nil).Maybe()
		mocks.email.On("Send", mock.Anything, mock.AnythingOfType("*sendgrid.Message")).Return(nil).Maybe()

		// Act
		order, err := svc.PlaceOrder(ctx, userID, placementRequest())

		// Assert
		require.NoError(t, err)
		require.NotNil(t, order)
		assert.Equal(t, userID, order.UserID)
		assert.Equal(t, 119.98, order.TotalPrice)
		assert.True(t, order.IsPaid)
		assert.Equal(t, models.OrderStatusProcessing, order.Status)
		assert.Equal(t, "pi_123", order.PaymentResult.ID)

		// Snapshot is frozen from the catalog at placement time.
		require.Len(t, order.Items, 1)
		assert.Equal(t, "Runner Sneaker", order.Items[0].Name)
		assert.Equal(t, 59.99, order.Items[0].Price)
		assert.Equal(t, "https://cdn.zooz.shop/p1.jpg", order.Items[0].Image)
		assert.Equal(t, "42", order.Items[0].Size)

		// Standard shipping: UPS, three day window.
		assert.Equal(t, "UPS", order.Tracking.Carrier)
		assert.Contains(t, order.Tracking.Number, "ZZ-")
		assert.WithinDuration(t, time.Now().AddDate(0, 0, 3), order.Tracking.EstimatedDelivery, time.Minute)

		mocks.cartRepo.AssertExpectations(t)
		mocks.orderRepo.AssertExpectations(t)

		// Verify the admin fan-out that rode along in the transaction.
		notification := mocks.orderRepo.Calls[0].Arguments.Get(3).(*models.Notification)
		assert.Equal(t, models.NotificationTypeOrder, notification.Type)
		assert.Equal(t, []uuid.UUID{adminID}, notification.Recipients)
		assert.Empty(t, notification.ReadBy)
	})

	t.Run("Success - Express Shipping", func(t *testing.T) {
		// Arrange
		svc, mocks := setupOrderService(t)

		req := placementRequest()
		req.ShippingMethod = models.ShippingMethodExpress

		mocks.cartRepo.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		mocks.productRepo.On("GetProductByID", ctx, productID).Return(product, nil).Once()
		mocks.userRepo.On("ListAdminIDs", ctx).Return([]uuid.UUID{adminID}, nil).Once()
		mocks.orderRepo.On("PlaceOrder", ctx, mock.Anything, cartID, mock.Anything).Return(nil).Once()
		mocks.userRepo.On("GetUserByID", mock.Anything, userID).Return(nil, errors.New("skip")).Maybe()

		// Act
		order, err := svc.PlaceOrder(ctx, userID, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "DHL Express", order.Tracking.Carrier)
		assert.WithinDuration(t, time.Now().AddDate(0, 0, 1), order.Tracking.EstimatedDelivery, time.Minute)
	})

	t.Run("Failure - No Cart", func(t *testing.T) {
		// Arrange
		svc, mocks := setupOrderService(t)
		mocks.cartRepo.On("GetCartByUserID", ctx, userID).Return(nil, sql.ErrNoRows).Once()

		// Act
		order, err := svc.PlaceOrder(ctx, userID, placementRequest())

		// Assert
		require.Error(t, err)
		assert.Nil(t, order)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
		assert.Equal(t, "Cart is empty", appErr.Message)
		mocks.cartRepo.AssertExpectations(t)
	})

	t.Run("Failure - Empty Cart", func(t *testing.T) {
		// Arrange
		svc, mocks := setupOrderService(t)
		mocks.cartRepo.On("GetCartByUserID", ctx, userID).
			Return(&models.Cart{ID: cartID, UserID: userID, Items: []models.CartItem{}}, nil).Once()

		// Act
		order, err := svc.PlaceOrder(ctx, userID, placementRequest())

		// Assert
		require.Error(t, err)
		assert.Nil(t, order)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
	})

	t.Run("Failure - Product Missing At Snapshot", func(t *testing.T) {
		// Arrange
		svc, mocks := setupOrderService(t)
		mocks.cartRepo.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		mocks.productRepo.On("GetProductByID", ctx, productID).Return(nil, sql.ErrNoRows).Once()

		// Act
		order, err := svc.PlaceOrder(ctx, userID, placementRequest())

		// Assert
		require.Error(t, err)
		assert.Nil(t, order)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})

	t.Run("Failure - Insufficient Stock At Snapshot", func(t *testing.T) {
		// Arrange
		svc, mocks := setupOrderService(t)
		lowStock := &models.Product{ID: productID, Name: "Runner Sneaker", Price: 59.99, CountInStock: 1}

		mocks.cartRepo.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		mocks.productRepo.On("GetProductByID", ctx, productID).Return(lowStock, nil).Once()

		// Act
		order, err := svc.PlaceOrder(ctx, userID, placementRequest())

		// Assert
		require.Error(t, err)
		assert.Nil(t, order)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeOutOfStock, appErr.Code)
		assert.Contains(t, appErr.Detail, "available quantity: 1")
	})

	t.Run("Failure - Stock Race Lost In Transaction", func(t *testing.T) {
		// Arrange: the snapshot check passed but another checkout drained
		// the stock before this transaction committed.
		svc, mocks := setupOrderService(t)

		mocks.cartRepo.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		mocks.productRepo.On("GetProductByID", ctx, productID).Return(product, nil).Once()
		mocks.userRepo.On("ListAdminIDs", ctx).Return([]uuid.UUID{adminID}, nil).Once()
		mocks.orderRepo.On("PlaceOrder", ctx, mock.Anything, cartID, mock.Anything).
			Return(&repository.StockError{ProductID: productID, Requested: 2, Available: 0}).Once()

		// Act
		order, err := svc.PlaceOrder(ctx, userID, placementRequest())

		// Assert
		require.Error(t, err)
		assert.Nil(t, order)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeOutOfStock, appErr.Code)
	})

	t.Run("Failure - Duplicate Payment Intent", func(t *testing.T) {
		// Arrange
		svc, mocks := setupOrderService(t)

		mocks.cartRepo.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		mocks.productRepo.On("GetProductByID", ctx, productID).Return(product, nil).Once()
		mocks.userRepo.On("ListAdminIDs", ctx).Return([]uuid.UUID{adminID}, nil).Once()
		mocks.orderRepo.On("PlaceOrder", ctx, mock.Anything, cartID, mock.Anything).
			Return(repository.ErrDuplicatePayment).Once()

		// Act
		order, err := svc.PlaceOrder(ctx, userID, placementRequest())

		// Assert
		require.Error(t, err)
		assert.Nil(t, order)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDuplicateEntry, appErr.Code)
	})

	t.Run("Failure - Unexpected Repository Error", func(t *testing.T) {
		// Arrange
		svc, mocks := setupOrderService(t)
		dbError := errors.New("connection reset")

		mocks.cartRepo.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		mocks.productRepo.On("GetProductByID", ctx, productID).Return(product, nil).Once()
		mocks.userRepo.On("ListAdminIDs", ctx).Return([]uuid.UUID{adminID}, nil).Once()
		mocks.orderRepo.On("PlaceOrder", ctx, mock.Anything, cartID, mock.Anything).Return(dbError).Once()

		// Act
		order, err := svc.PlaceOrder(ctx, userID, placementRequest())

		// Assert
		require.Error(t, err)
		assert.Nil(t, order)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
		assert.ErrorIs(t, err, dbError)
	})
}

func TestGetOrderByID(t *testing.T) {
	ctx := context.Background()

	svc, mocks := setupOrderService(t)
	orderID := uuid.New()

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		mocks.orderRepo.On("GetOrderByID", ctx, orderID).Return(nil, sql.ErrNoRows).Once()

		// Act
		order, err := svc.GetOrderByID(ctx, orderID)

		// Assert
		require.Error(t, err)
		assert.Nil(t, order)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestUpdateTracking(t *testing.T) {
	ctx := context.Background()

	svc, mocks := setupOrderService(t)
	orderID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		updated := &models.Order{ID: orderID, Status: models.OrderStatusShipped,
			Tracking: models.Tracking{Status: models.TrackingStatusShipped}}
		mocks.orderRepo.On("UpdateTracking", ctx, orderID, models.TrackingStatusShipped).Return(updated, nil).Once()

		// Act
		order, err := svc.UpdateTracking(ctx, orderID, models.TrackingStatusShipped)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.TrackingStatusShipped, order.Tracking.Status)
		mocks.orderRepo.AssertExpectations(t)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		mocks.orderRepo.On("UpdateTracking", ctx, orderID, models.TrackingStatusDelivered).Return(nil, sql.ErrNoRows).Once()

		// Act
		order, err := svc.UpdateTracking(ctx, orderID, models.TrackingStatusDelivered)

		// Assert
		require.Error(t, err)
		assert.Nil(t, order)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}
