package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	// ErrDuplicate is the generic unique-constraint failure (slug, email).
	ErrDuplicate = errors.New("duplicate record")

	// ErrDuplicatePayment fires on the unique index over the payment
	// confirmation id: one payment yields at most one order.
	ErrDuplicatePayment = errors.New("an order already exists for this payment")

	// ErrCartConverted means the cart row vanished between the service
	// reading it and the transaction deleting it, i.e. a concurrent
	// checkout of the same cart won.
	ErrCartConverted = errors.New("cart no longer exists")
)

// StockError reports a conditional decrement that found fewer units than
// requested. Raised inside the placement transaction, so the whole unit
// rolls back.
type StockError struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

// MissingProductError reports a cart line whose product was deleted.
type MissingProductError struct {
	ProductID uuid.UUID
}

func (e *MissingProductError) Error() string {
	return fmt.Sprintf("product no longer exists: %s", e.ProductID)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
