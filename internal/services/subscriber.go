package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/errors"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/models"
	repository "github.com/AbdelazizSleem01/zooz-commerce-platform/internal/repositories"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/pkg/sendgrid"
	"github.com/google/uuid"
)

type SubscriberService interface {
	Subscribe(ctx context.Context, req *models.SubscribeRequest) (*models.Subscriber, error)
	Unsubscribe(ctx context.Context, email string) error
	ListSubscribers(ctx context.Context, page, size int) ([]*models.Subscriber, int, error)
}

type subscriberService struct {
	subscriberRepo repository.SubscriberRepository
	email          sendgrid.EmailService
}

func NewSubscriberService(subscriberRepo repository.SubscriberRepository, email sendgrid.EmailService) SubscriberService {
	return &subscriberService{subscriberRepo: subscriberRepo, email: email}
}

func (s *subscriberService) Subscribe(ctx context.Context, req *models.SubscribeRequest) (*models.Subscriber, error) {

	subscriber := &models.Subscriber{
		ID:        uuid.New(),
		Email:     req.Email,
		CreatedAt: time.Now(),
	}

	if err := s.subscriberRepo.CreateSubscriber(ctx, subscriber); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.DuplicateEntryError("This email is already subscribed").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to subscribe").WithError(err)
	}

	s.sendWelcome(subscriber.Email)

	return subscriber, nil
}

func (s *subscriberService) sendWelcome(email string) {

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		msg := &sendgrid.Message{
			To:        email,
			Subject:   "Welcome to the ZOOZ newsletter",
			PlainText: "Thanks for subscribing! You'll hear from us when new drops land.",
		}

		if err := s.email.Send(ctx, msg); err != nil {
			slog.Error("Failed to send welcome email", slog.Any("error", err))
		}
	}()
}

func (s *subscriberService) Unsubscribe(ctx context.Context, email string) error {

	if err := s.subscriberRepo.DeleteSubscriber(ctx, email); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("Subscriber not found")
		}

		return errors.DatabaseError("Failed to unsubscribe").WithError(err)
	}

	return nil
}

func (s *subscriberService) ListSubscribers(ctx context.Context, page, size int) ([]*models.Subscriber, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 200 {
		size = 50
	}

	subscribers, total, err := s.subscriberRepo.ListSubscribers(ctx, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch subscribers").WithError(err)
	}

	return subscribers, total, nil
}
