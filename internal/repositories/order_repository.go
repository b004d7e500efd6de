package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/models"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/utils"
	"github.com/google/uuid"
)

type OrderRepository interface {
	PlaceOrder(ctx context.Context, order *models.Order, cartID uuid.UUID, notification *models.Notification) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
	UpdateTracking(ctx context.Context, id uuid.UUID, status models.TrackingStatus) (*models.Order, error)
	MarkPaidByIntent(ctx context.Context, paymentIntentID, status string) error
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

// PlaceOrder runs the whole placement unit in one transaction: stock
// decrements, order insert, cart delete and admin notification either all
// commit or all roll back. The decrement carries its own floor check, so
// stock validation and mutation are a single statement and two concurrent
// checkouts of the same product serialize on the row lock.
func (r *orderRepository) PlaceOrder(ctx context.Context, order *models.Order, cartID uuid.UUID, notification *models.Notification) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	decrementQuery := `
		UPDATE products
		SET count_in_stock = count_in_stock - $1, updated_at = NOW()
		WHERE id = $2 AND count_in_stock >= $1
	`

	for _, item := range order.Items {

		result, err := tx.ExecContext(dbCtx, decrementQuery, item.Quantity, item.ProductID)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}

		updated, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if updated == 0 {

			// Distinguish a vanished product from exhausted stock.
			var available int

			err := tx.QueryRowContext(dbCtx, `SELECT count_in_stock FROM products WHERE id = $1`, item.ProductID).Scan(&available)
			if err == sql.ErrNoRows {
				return &MissingProductError{ProductID: item.ProductID}
			}

			if err != nil {
				return fmt.Errorf("failed to read stock: %w", err)
			}

			return &StockError{ProductID: item.ProductID, Requested: item.Quantity, Available: available}
		}
	}

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	shippingJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	insertOrderQuery := `
		INSERT INTO orders (id, user_id, order_items, total_price, payment_method, payment_intent_id, payment_status,
		                    shipping_address, shipping_method, tracking_number, tracking_carrier, tracking_status,
		                    tracking_eta, tracking_updated_at, is_paid, paid_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
	`

	_, err = tx.ExecContext(dbCtx, insertOrderQuery,
		order.ID, order.UserID, itemsJSON, order.TotalPrice, order.PaymentMethod,
		order.PaymentResult.ID, order.PaymentResult.Status,
		shippingJSON, order.ShippingMethod,
		order.Tracking.Number, order.Tracking.Carrier, order.Tracking.Status,
		order.Tracking.EstimatedDelivery, order.Tracking.LastUpdated,
		order.IsPaid, order.PaidAt, order.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("payment %s: %w", order.PaymentResult.ID, ErrDuplicatePayment)
		}

		return fmt.Errorf("failed to insert order: %w", err)
	}

	result, err := tx.ExecContext(dbCtx, `DELETE FROM carts WHERE id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if deleted == 0 {
		return ErrCartConverted
	}

	if err := insertNotification(dbCtx, tx, notification); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order placement: %w", err)
	}

	return nil
}

const orderColumns = `
	id, user_id, order_items, total_price, payment_method, payment_intent_id, payment_status,
	shipping_address, shipping_method, tracking_number, tracking_carrier, tracking_status,
	tracking_eta, tracking_updated_at, is_paid, paid_at, status, created_at, updated_at`

func scanOrder(row rowScanner) (*models.Order, error) {

	order := &models.Order{}

	var itemsJSON, shippingJSON []byte

	err := row.Scan(
		&order.ID, &order.UserID, &itemsJSON, &order.TotalPrice, &order.PaymentMethod,
		&order.PaymentResult.ID, &order.PaymentResult.Status,
		&shippingJSON, &order.ShippingMethod,
		&order.Tracking.Number, &order.Tracking.Carrier, &order.Tracking.Status,
		&order.Tracking.EstimatedDelivery, &order.Tracking.LastUpdated,
		&order.IsPaid, &order.PaidAt, &order.Status,
		&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}

	if err := json.Unmarshal(shippingJSON, &order.ShippingAddress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shipping address: %w", err)
	}

	return order, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	return order, nil
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.DB.QueryContext(dbCtx, query, userID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan the orders: %w", err)
		}

		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) UpdateTracking(ctx context.Context, id uuid.UUID, status models.TrackingStatus) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	// Cancelled and delivered tracking states close the order as well.
	query := `
		UPDATE orders
		SET tracking_status = $1, tracking_updated_at = $2,
		    status = CASE WHEN $1 IN ('delivered', 'cancelled') THEN $1::text ELSE status END,
		    updated_at = $2
		WHERE id = $3
		RETURNING ` + orderColumns

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, query, status, time.Now(), id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("failed to update tracking: %w", err)
	}

	return order, nil
}

// MarkPaidByIntent records a webhook confirmation against an existing order.
func (r *orderRepository) MarkPaidByIntent(ctx context.Context, paymentIntentID, status string) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE orders
		SET payment_status = $1, is_paid = ($1 = 'succeeded'), paid_at = CASE WHEN $1 = 'succeeded' THEN NOW() ELSE paid_at END, updated_at = NOW()
		WHERE payment_intent_id = $2
	`

	result, err := r.DB.ExecContext(dbCtx, query, status, paymentIntentID)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if updated == 0 {
		return sql.ErrNoRows
	}

	return nil
}
