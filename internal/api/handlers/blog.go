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

type BlogHandler struct {
	blogService service.BlogService
	validator   *validator.Validate
}

func NewBlogHandler(blogService service.BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService, validator: validator.New()}
}

func (h *BlogHandler) CreatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.CreateBlogPostRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		post, err := h.blogService.CreatePost(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to create post", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Post created", slog.String("slug", post.Slug))
		response.Success(w, http.StatusCreated, post)
	}
}

func (h *BlogHandler) GetPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		postSlug := r.PathValue("slug")
		if postSlug == "" {
			response.Error(w, errors.BadRequestError("Post slug is required"))
			return
		}

		post, err := h.blogService.GetPostBySlug(r.Context(), postSlug)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, post)
	}
}

func (h *BlogHandler) ListPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}

		pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
		if err != nil || pageSize < 1 || pageSize > 50 {
			pageSize = 10
		}

		posts, total, err := h.blogService.ListPosts(r.Context(), page, pageSize)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list posts", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.NewPaginatedResponse(posts, total, page, pageSize))
	}
}

func (h *BlogHandler) UpdatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		postSlug := r.PathValue("slug")
		if postSlug == "" {
			response.Error(w, errors.BadRequestError("Post slug is required"))
			return
		}

		var req models.UpdateBlogPostRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		post, err := h.blogService.UpdatePost(r.Context(), postSlug, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, post)
	}
}

func (h *BlogHandler) DeletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.blogService.DeletePost(r.Context(), id); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}
