package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"product-catalog/internal/domain"
	"product-catalog/internal/middleware"
	"product-catalog/internal/repository"
	"product-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VariantRequest represents one product variant in a write payload
type VariantRequest struct {
	Color   string   `json:"color"`
	RAM     string   `json:"ram"`
	Storage string   `json:"storage"`
	Stock   int      `json:"stock" validate:"gte=0"`
	Price   *float64 `json:"price" validate:"omitempty,gte=0"`
	Images  []string `json:"images"`
}

// CreateProductRequest represents the product creation payload. Stock and
// discountedPrice are intentionally absent: both are derived server-side.
type CreateProductRequest struct {
	Name              string           `json:"name" validate:"required"`
	Description       string           `json:"description" validate:"required"`
	Brand             string           `json:"brand" validate:"required"`
	Price             *float64         `json:"price" validate:"required,gte=0"`
	DiscountPercent   float64          `json:"discountPercent" validate:"gte=0,lte=100"`
	DiscountStartDate *time.Time       `json:"discountStartDate"`
	DiscountEndDate   *time.Time       `json:"discountEndDate"`
	CategoryName      string           `json:"categoryName" validate:"required"`
	Images            []string         `json:"images" validate:"required,min=1"`
	Variants          []VariantRequest `json:"variants" validate:"omitempty,dive"`
	Metadata          map[string]any   `json:"metadata"`
}

// UpdateProductRequest represents a partial product update. Absent fields
// leave the stored value untouched.
type UpdateProductRequest struct {
	Name              *string           `json:"name" validate:"omitempty,min=1"`
	Description       *string           `json:"description" validate:"omitempty,min=1"`
	Brand             *string           `json:"brand" validate:"omitempty,min=1"`
	Price             *float64          `json:"price" validate:"omitempty,gte=0"`
	DiscountPercent   *float64          `json:"discountPercent" validate:"omitempty,gte=0,lte=100"`
	DiscountStartDate *time.Time        `json:"discountStartDate"`
	DiscountEndDate   *time.Time        `json:"discountEndDate"`
	CategoryName      *string           `json:"categoryName" validate:"omitempty,min=1"`
	Images            *[]string         `json:"images" validate:"omitempty,min=1"`
	Variants          *[]VariantRequest `json:"variants" validate:"omitempty,dive"`
	Metadata          map[string]any    `json:"metadata"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/low-stock", h.ListLowStock)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles product search with optional query parameters
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	query := service.SearchQuery{
		Search:     params.Get("search"),
		Category:   params.Get("category"),
		Brand:      params.Get("brand"),
		Discounted: params.Get("discounted") == "true",
	}

	minPrice, err := parsePriceParam(params.Get("minPrice"))
	if err != nil {
		middleware.RespondWithErrorCause(w, http.StatusBadRequest, "invalid minPrice", err)
		return
	}
	query.MinPrice = minPrice

	maxPrice, err := parsePriceParam(params.Get("maxPrice"))
	if err != nil {
		middleware.RespondWithErrorCause(w, http.StatusBadRequest, "invalid maxPrice", err)
		return
	}
	query.MaxPrice = maxPrice

	products, err := h.productService.List(r.Context(), query)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound,
				fmt.Sprintf("Category '%s' not found", query.Category))
			return
		}

		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithErrorCause(w, http.StatusInternalServerError, "Server error", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// ListLowStock handles listing products below a stock threshold
func (h *ProductHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	threshold := service.DefaultLowStockThreshold

	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			middleware.RespondWithErrorCause(w, http.StatusBadRequest, "invalid threshold", err)
			return
		}
		threshold = parsed
	}

	products, err := h.productService.ListLowStock(r.Context(), threshold)
	if err != nil {
		h.logger.Error("Failed to list low stock products", zap.Error(err))
		middleware.RespondWithErrorCause(w, http.StatusInternalServerError, "Server error", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetByID handles fetching a single product
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithErrorCause(w, http.StatusBadRequest, "Invalid ID", err)
		return
	}

	product, err := h.productService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}

		h.logger.Error("Failed to get product", zap.String("product_id", id.String()), zap.Error(err))
		middleware.RespondWithErrorCause(w, http.StatusInternalServerError, "Server error", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithErrorCause(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	input := service.CreateProductInput{
		Name:              req.Name,
		Description:       req.Description,
		Brand:             req.Brand,
		Price:             *req.Price,
		DiscountPercent:   req.DiscountPercent,
		DiscountStartDate: req.DiscountStartDate,
		DiscountEndDate:   req.DiscountEndDate,
		CategoryName:      req.CategoryName,
		Images:            req.Images,
		Variants:          toDomainVariants(req.Variants),
		Metadata:          req.Metadata,
	}

	product, err := h.productService.Create(r.Context(), input)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			middleware.RespondWithError(w, http.StatusBadRequest,
				fmt.Sprintf("Category '%s' not found", req.CategoryName))
			return
		}

		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithErrorCause(w, http.StatusBadRequest, "Bad request", err)
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update handles a partial product update
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithErrorCause(w, http.StatusBadRequest, "Invalid ID", err)
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product update validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithErrorCause(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	input := service.UpdateProductInput{
		Name:              req.Name,
		Description:       req.Description,
		Brand:             req.Brand,
		Price:             req.Price,
		DiscountPercent:   req.DiscountPercent,
		DiscountStartDate: req.DiscountStartDate,
		DiscountEndDate:   req.DiscountEndDate,
		CategoryName:      req.CategoryName,
		Images:            req.Images,
		Metadata:          req.Metadata,
	}
	if req.Variants != nil {
		variants := toDomainVariants(*req.Variants)
		input.Variants = &variants
	}

	product, err := h.productService.Update(r.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
		case errors.Is(err, repository.ErrCategoryNotFound) && req.CategoryName != nil:
			middleware.RespondWithError(w, http.StatusBadRequest,
				fmt.Sprintf("Category '%s' not found", *req.CategoryName))
		default:
			h.logger.Error("Failed to update product", zap.String("product_id", id.String()), zap.Error(err))
			middleware.RespondWithErrorCause(w, http.StatusInternalServerError, "Server error", err)
		}
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete handles product deletion
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithErrorCause(w, http.StatusBadRequest, "Invalid ID", err)
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}

		h.logger.Error("Failed to delete product", zap.String("product_id", id.String()), zap.Error(err))
		middleware.RespondWithErrorCause(w, http.StatusInternalServerError, "Server error", err)
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

func toDomainVariants(variants []VariantRequest) []domain.Variant {
	result := make([]domain.Variant, 0, len(variants))
	for _, v := range variants {
		result = append(result, domain.Variant{
			Color:   v.Color,
			RAM:     v.RAM,
			Storage: v.Storage,
			Stock:   v.Stock,
			Price:   v.Price,
			Images:  v.Images,
		})
	}
	return result
}

func parsePriceParam(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
