package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/api/middleware"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/errors"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/models"
	service "github.com/AbdelazizSleem01/zooz-commerce-platform/internal/services"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/utils"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type SubscriberHandler struct {
	subscriberService service.SubscriberService
	validator         *validator.Validate
}

func NewSubscriberHandler(subscriberService service.SubscriberService) *SubscriberHandler {
	return &SubscriberHandler{subscriberService: subscriberService, validator: validator.New()}
}

func (h *SubscriberHandler) Subscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.SubscribeRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		subscriber, err := h.subscriberService.Subscribe(r.Context(), &req)
		if err != nil {
			logger.Warn("Failed to subscribe", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("New newsletter subscriber")
		response.Success(w, http.StatusCreated, subscriber)
	}
}

func (h *SubscriberHandler) Unsubscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		email := r.URL.Query().Get("email")
		if email == "" {
			response.Error(w, errors.BadRequestError("Email is required"))
			return
		}

		if err := h.subscriberService.Unsubscribe(r.Context(), email); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]bool{"unsubscribed": true})
	}
}

func (h *SubscriberHandler) ListSubscribers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}

		pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
		if err != nil || pageSize < 1 || pageSize > 200 {
			pageSize = 50
		}

		subscribers, total, err := h.subscriberService.ListSubscribers(r.Context(), page, pageSize)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list subscribers", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.NewPaginatedResponse(subscribers, total, page, pageSize))
	}
}
