package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/api/middleware"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/models"
	service "github.com/AbdelazizSleem01/zooz-commerce-platform/internal/services"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/utils"
	"github.com/AbdelazizSleem01/zooz-commerce-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type ContactHandler struct {
	contactService service.ContactService
	validator      *validator.Validate
}

func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService, validator: validator.New()}
}

func (h *ContactHandler) SubmitMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.ContactRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		message, err := h.contactService.SubmitMessage(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to submit contact message", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Contact message submitted", slog.String("messageId", message.ID.String()))
		response.Success(w, http.StatusCreated, message)
	}
}

func (h *ContactHandler) ListMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}

		pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
		if err != nil || pageSize < 1 || pageSize > 100 {
			pageSize = 20
		}

		messages, total, err := h.contactService.ListMessages(r.Context(), page, pageSize)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list contact messages", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.NewPaginatedResponse(messages, total, page, pageSize))
	}
}
