package transport

import (
	"errors"
	"net/http"

	"product-catalog/internal/middleware"
	"product-catalog/internal/repository"
	"product-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateCategoryRequest represents the category creation payload
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// UpdateCategoryRequest represents a partial category update
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
}

// CategoryHandler handles HTTP requests for category operations
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// RegisterRoutes registers all category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/name/{name}", h.GetByName)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles listing all categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithErrorCause(w, http.StatusInternalServerError, "Server error", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// Create handles category creation
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Category validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithErrorCause(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	category, err := h.categoryService.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "Category already exists")
			return
		}

		h.logger.Error("Failed to create category", zap.Error(err))
		middleware.RespondWithErrorCause(w, http.StatusBadRequest, "Bad request", err)
		return
	}

	h.logger.Info("Category created", zap.String("category_id", category.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

// GetByID handles fetching a single category by id
func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithErrorCause(w, http.StatusBadRequest, "Invalid ID", err)
		return
	}

	category, err := h.categoryService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "Category not found")
			return
		}

		h.logger.Error("Failed to get category", zap.String("category_id", id.String()), zap.Error(err))
		middleware.RespondWithErrorCause(w, http.StatusInternalServerError, "Server error", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// GetByName handles fetching a single category by its exact name
func (h *CategoryHandler) GetByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	category, err := h.categoryService.GetByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "Category not found")
			return
		}

		h.logger.Error("Failed to get category", zap.String("category_name", name), zap.Error(err))
		middleware.RespondWithErrorCause(w, http.StatusInternalServerError, "Server error", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Update handles a partial category update
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithErrorCause(w, http.StatusBadRequest, "Invalid ID", err)
		return
	}

	var req UpdateCategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Category update validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithErrorCause(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	input := service.UpdateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	}

	category, err := h.categoryService.Update(r.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "Category not found")
		case errors.Is(err, repository.ErrCategoryAlreadyExists):
			middleware.RespondWithError(w, http.StatusConflict, "Category already exists")
		default:
			h.logger.Error("Failed to update category", zap.String("category_id", id.String()), zap.Error(err))
			middleware.RespondWithErrorCause(w, http.StatusInternalServerError, "Server error", err)
		}
		return
	}

	h.logger.Info("Category updated", zap.String("category_id", category.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Delete handles category deletion. Deleting a category still referenced by
// products is rejected.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithErrorCause(w, http.StatusBadRequest, "Invalid ID", err)
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "Category not found")
		case errors.Is(err, repository.ErrCategoryInUse):
			middleware.RespondWithError(w, http.StatusConflict, "Category is referenced by existing products")
		default:
			h.logger.Error("Failed to delete category", zap.String("category_id", id.String()), zap.Error(err))
			middleware.RespondWithErrorCause(w, http.StatusInternalServerError, "Server error", err)
		}
		return
	}

	h.logger.Info("Category deleted", zap.String("category_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}
