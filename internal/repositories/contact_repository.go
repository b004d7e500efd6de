package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/models"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/utils"
)

type ContactRepository interface {
	CreateMessage(ctx context.Context, message *models.ContactMessage) error
	ListMessages(ctx context.Context, page, size int) ([]*models.ContactMessage, int, error)
}

type contactRepository struct {
	DB *sql.DB
}

func NewContactRepo(db *sql.DB) ContactRepository {
	return &contactRepository{DB: db}
}

func (r *contactRepository) CreateMessage(ctx context.Context, message *models.ContactMessage) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO contact_messages (id, name, email, subject, message, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at`

	err := r.DB.QueryRowContext(dbCtx, query, message.ID, message.Name, message.Email, message.Subject, message.Message).
		Scan(&message.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert contact message: %w", err)
	}

	return nil
}

func (r *contactRepository) ListMessages(ctx context.Context, page, size int) ([]*models.ContactMessage, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM contact_messages`).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT id, name, email, subject, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var messages []*models.ContactMessage

	for rows.Next() {
		message := &models.ContactMessage{}

		err := rows.Scan(&message.ID, &message.Name, &message.Email, &message.Subject, &message.Message, &message.CreatedAt)
		if err != nil {
			return nil, 0, err
		}

		messages = append(messages, message)
	}

	return messages, total, rows.Err()
}
