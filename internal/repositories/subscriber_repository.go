package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/models"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/utils"
)

type SubscriberRepository interface {
	CreateSubscriber(ctx context.Context, subscriber *models.Subscriber) error
	DeleteSubscriber(ctx context.Context, email string) error
	ListSubscribers(ctx context.Context, page, size int) ([]*models.Subscriber, int, error)
}

type subscriberRepository struct {
	DB *sql.DB
}

func NewSubscriberRepo(db *sql.DB) SubscriberRepository {
	return &subscriberRepository{DB: db}
}

func (r *subscriberRepository) CreateSubscriber(ctx context.Context, subscriber *models.Subscriber) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO subscribers (id, email, created_at)
		VALUES ($1, $2, NOW())
		RETURNING created_at`

	err := r.DB.QueryRowContext(dbCtx, query, subscriber.ID, subscriber.Email).Scan(&subscriber.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("subscriber %s: %w", subscriber.Email, ErrDuplicate)
		}

		return fmt.Errorf("failed to insert subscriber: %w", err)
	}

	return nil
}

func (r *subscriberRepository) DeleteSubscriber(ctx context.Context, email string) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM subscribers WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("failed to delete subscriber: %w", err)
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

func (r *subscriberRepository) ListSubscribers(ctx context.Context, page, size int) ([]*models.Subscriber, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM subscribers`).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT id, email, created_at
		FROM subscribers
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var subscribers []*models.Subscriber

	for rows.Next() {
		subscriber := &models.Subscriber{}

		if err := rows.Scan(&subscriber.ID, &subscriber.Email, &subscriber.CreatedAt); err != nil {
			return nil, 0, err
		}

		subscribers = append(subscribers, subscriber)
	}

	return subscribers, total, rows.Err()
}
