package service

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/errors"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/models"
	repository "github.com/AbdelazizSleem01/zooz-commerce-platform/internal/repositories"
	"github.com/google/uuid"
)

type NotificationService interface {
	ListForUser(ctx context.Context, userID uuid.UUID, page, size int) ([]*models.Notification, int, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) (*models.Notification, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) ListForUser(ctx context.Context, userID uuid.UUID, page, size int) ([]*models.Notification, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 100 {
		size = 20
	}

	notifications, total, err := s.notificationRepo.ListForRecipient(ctx, userID, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch notifications").WithError(err)
	}

	return notifications, total, nil
}

// MarkRead is idempotent: acknowledging twice leaves a single read entry.
// Users can only acknowledge notifications addressed to them.
func (s *notificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) (*models.Notification, error) {

	notification, err := s.notificationRepo.GetNotificationByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Notification not found")
		}

		return nil, errors.DatabaseError("Failed to fetch notification").WithError(err)
	}

	isRecipient := false

	for _, r := range notification.Recipients {
		if r == userID {
			isRecipient = true

			break
		}
	}

	if !isRecipient {
		return nil, errors.ForbiddenError("Notification is not addressed to you")
	}

	if err := s.notificationRepo.MarkRead(ctx, id, userID); err != nil {
		return nil, errors.DatabaseError("Failed to mark notification as read").WithError(err)
	}

	if !notification.ReadByUser(userID) {
		notification.ReadBy = append(notification.ReadBy, userID)
	}

	return notification, nil
}
