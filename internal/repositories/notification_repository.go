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

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetNotificationByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	ListForRecipient(ctx context.Context, userID uuid.UUID, page, size int) ([]*models.Notification, int, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepo(db *sql.DB) NotificationRepository {
	return &notificationRepository{DB: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertNotification is shared with the order placement transaction, which
// writes the admin fan-out inside its own tx.
func insertNotification(ctx context.Context, db execer, notification *models.Notification) error {

	query := `
		INSERT INTO notifications (id, message, link, type, recipients, read_by, created_by, related_user, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`

	_, err := db.ExecContext(ctx, query,
		notification.ID, notification.Message, notification.Link, notification.Type,
		pq.Array(uuidStrings(notification.Recipients)), pq.Array(uuidStrings(notification.ReadBy)),
		notification.CreatedBy, notification.RelatedUser)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

func (r *notificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	return insertNotification(dbCtx, r.DB, notification)
}

const notificationColumns = `id, message, link, type, recipients, read_by, created_by, related_user, created_at`

func scanNotification(row rowScanner) (*models.Notification, error) {

	notification := &models.Notification{}

	var recipients, readBy pq.StringArray

	err := row.Scan(&notification.ID, &notification.Message, &notification.Link, &notification.Type,
		&recipients, &readBy, &notification.CreatedBy, &notification.RelatedUser, &notification.CreatedAt)
	if err != nil {
		return nil, err
	}

	if notification.Recipients, err = parseUUIDs(recipients); err != nil {
		return nil, err
	}

	if notification.ReadBy, err = parseUUIDs(readBy); err != nil {
		return nil, err
	}

	return notification, nil
}

func (r *notificationRepository) GetNotificationByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	return scanNotification(r.DB.QueryRowContext(dbCtx, query, id))
}

func (r *notificationRepository) ListForRecipient(ctx context.Context, userID uuid.UUID, page, size int) ([]*models.Notification, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM notifications WHERE $1 = ANY(recipients)`

	if err := r.DB.QueryRowContext(dbCtx, countQuery, userID.String()).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE $1 = ANY(recipients)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.DB.QueryContext(dbCtx, query, userID.String(), size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query notifications: %w", err)
	}

	defer rows.Close()

	notifications := []*models.Notification{}

	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notifications: %w", err)
		}

		notifications = append(notifications, notification)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating over the rows: %w", err)
	}

	return notifications, total, nil
}

// MarkRead appends the reader to read_by. The guards keep it idempotent
// and keep read_by a subset of recipients; marking twice is a no-op, not
// an error.
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE notifications
		SET read_by = array_append(read_by, $1)
		WHERE id = $2 AND $1 = ANY(recipients) AND NOT ($1 = ANY(read_by))
	`

	_, err := r.DB.ExecContext(dbCtx, query, userID.String(), id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return nil
}

func uuidStrings(ids []uuid.UUID) []string {

	out := make([]string, 0, len(ids))

	for _, id := range ids {
		out = append(out, id.String())
	}

	return out
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {

	out := make([]uuid.UUID, 0, len(raw))

	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid uuid in array: %w", err)
		}

		out = append(out, id)
	}

	return out, nil
}
