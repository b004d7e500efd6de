package service

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/config"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/errors"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/models"
	repository "github.com/AbdelazizSleem01/zooz-commerce-platform/internal/repositories"
	zoozstripe "github.com/AbdelazizSleem01/zooz-commerce-platform/pkg/stripe"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
)

type PaymentService interface {
	CreatePaymentIntent(ctx context.Context, userID uuid.UUID, req *models.CreatePaymentIntentRequest) (*models.PaymentIntentResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type paymentService struct {
	stripeClient zoozstripe.Client
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	cfg          *config.Stripe
}

func NewPaymentService(stripeClient zoozstripe.Client, cartRepo repository.CartRepository, productRepo repository.ProductRepository, orderRepo repository.OrderRepository, cfg *config.Stripe) PaymentService {
	return &paymentService{stripeClient: stripeClient, cartRepo: cartRepo, productRepo: productRepo, orderRepo: orderRepo, cfg: cfg}
}

// CreatePaymentIntent prices the user's current cart server side. The
// client never supplies an amount, only an optional display currency.
func (s *paymentService) CreatePaymentIntent(ctx context.Context, userID uuid.UUID, req *models.CreatePaymentIntentRequest) (*models.PaymentIntentResponse, error) {

	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = s.cfg.Currency
	}

	if !slices.Contains(s.cfg.SupportedCurrencies, currency) {
		return nil, errors.BadRequestError("Unsupported currency: " + currency)
	}

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

	var total float64

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

		total += product.Price * float64(line.Quantity)
	}

	amount := int64(math.Round(total * 100))

	intent, err := s.stripeClient.CreatePaymentIntent(amount, currency, "ZOOZ order for user "+userID.String())
	if err != nil {
		return nil, errors.ThirdPartyError("Failed to create payment intent").WithError(err)
	}

	return &models.PaymentIntentResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          amount,
		Currency:        currency,
	}, nil
}

// HandleWebhook reconciles asynchronous payment outcomes. Events for
// intents with no matching order yet are acknowledged and skipped; the
// synchronous checkout path records those payments itself.
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {

	event, err := s.stripeClient.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return errors.UnauthorizedError("Invalid webhook signature").WithError(err)
	}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":

		var intent stripe.PaymentIntent

		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return errors.BadRequestError("Malformed webhook payload").WithError(err)
		}

		status := "succeeded"
		if event.Type == "payment_intent.payment_failed" {
			status = "failed"
		}

		if err := s.orderRepo.MarkPaidByIntent(ctx, intent.ID, status); err != nil {

			if stderrors.Is(err, sql.ErrNoRows) {
				slog.Info("Webhook for payment intent with no order yet",
					slog.String("paymentIntentId", intent.ID),
					slog.String("eventType", string(event.Type)))

				return nil
			}

			return errors.DatabaseError("Failed to record payment result").WithError(err)
		}

	default:
		slog.Debug("Ignoring unhandled webhook event", slog.String("eventType", string(event.Type)))
	}

	return nil
}
