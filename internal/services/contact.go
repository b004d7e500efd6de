package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/config"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/errors"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/models"
	repository "github.com/AbdelazizSleem01/zooz-commerce-platform/internal/repositories"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/pkg/sendgrid"
	"github.com/google/uuid"
)

type ContactService interface {
	SubmitMessage(ctx context.Context, req *models.ContactRequest) (*models.ContactMessage, error)
	ListMessages(ctx context.Context, page, size int) ([]*models.ContactMessage, int, error)
}

type contactService struct {
	contactRepo      repository.ContactRepository
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	email            sendgrid.EmailService
	cfg              *config.SendGrid
}

func NewContactService(contactRepo repository.ContactRepository, notificationRepo repository.NotificationRepository, userRepo repository.UserRepository, email sendgrid.EmailService, cfg *config.SendGrid) ContactService {
	return &contactService{contactRepo: contactRepo, notificationRepo: notificationRepo, userRepo: userRepo, email: email, cfg: cfg}
}

// SubmitMessage persists the message first. The admin notification and
// the forwarded email are best effort on top of that.
func (s *contactService) SubmitMessage(ctx context.Context, req *models.ContactRequest) (*models.ContactMessage, error) {

	message := &models.ContactMessage{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		CreatedAt: time.Now(),
	}

	if err := s.contactRepo.CreateMessage(ctx, message); err != nil {
		return nil, errors.DatabaseError("Failed to save message").WithError(err)
	}

	s.notifyAdmins(ctx, message)
	s.forwardToSupport(message)

	return message, nil
}

func (s *contactService) notifyAdmins(ctx context.Context, message *models.ContactMessage) {

	adminIDs, err := s.userRepo.ListAdminIDs(ctx)
	if err != nil {
		slog.Error("Failed to load admin recipients for contact notification", slog.Any("error", err))
		return
	}

	notification := &models.Notification{
		ID:         uuid.New(),
		Message:    fmt.Sprintf("New contact message from %s", message.Name),
		Link:       "/admin/contacts/" + message.ID.String(),
		Type:       models.NotificationTypeContacts,
		Recipients: adminIDs,
		ReadBy:     []uuid.UUID{},
	}

	if err := s.notificationRepo.CreateNotification(ctx, notification); err != nil {
		slog.Error("Failed to create contact notification", slog.Any("error", err))
	}
}

func (s *contactService) forwardToSupport(message *models.ContactMessage) {

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		subject := message.Subject
		if subject == "" {
			subject = "New contact message"
		}

		msg := &sendgrid.Message{
			To:        s.cfg.SupportEmail,
			ToName:    "Support",
			Subject:   "[Contact] " + subject,
			PlainText: fmt.Sprintf("From: %s <%s>\n\n%s", message.Name, message.Email, message.Message),
		}

		if err := s.email.Send(ctx, msg); err != nil {
			slog.Error("Failed to forward contact message to support", slog.Any("error", err))
		}
	}()
}

func (s *contactService) ListMessages(ctx context.Context, page, size int) ([]*models.ContactMessage, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 100 {
		size = 20
	}

	messages, total, err := s.contactRepo.ListMessages(ctx, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch messages").WithError(err)
	}

	return messages, total, nil
}
