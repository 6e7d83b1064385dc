package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"product-catalog/internal/domain"
	"product-catalog/internal/repository"

	"github.com/google/uuid"
)

// CreateProductInput is a draft product as supplied by the client. The
// category is addressed by name and resolved to its id before persisting;
// stock and discounted price are derived, never taken from the draft.
type CreateProductInput struct {
	Name              string
	Description       string
	Brand             string
	Price             float64
	DiscountPercent   float64
	DiscountStartDate *time.Time
	DiscountEndDate   *time.Time
	CategoryName      string
	Images            []string
	Variants          []domain.Variant
	Metadata          map[string]any
}

// UpdateProductInput is a partial patch. Nil fields leave the stored value
// unchanged.
type UpdateProductInput struct {
	Name              *string
	Description       *string
	Brand             *string
	Price             *float64
	DiscountPercent   *float64
	DiscountStartDate *time.Time
	DiscountEndDate   *time.Time
	CategoryName      *string
	Images            *[]string
	Variants          *[]domain.Variant
	Metadata          map[string]any
}

// SearchQuery holds the optional product search parameters. Each supplied
// parameter adds one predicate; absent parameters add no constraint.
type SearchQuery struct {
	Search     string
	Category   string
	Brand      string
	MinPrice   *float64
	MaxPrice   *float64
	Discounted bool
}

// DefaultLowStockThreshold is used when the client does not supply one.
const DefaultLowStockThreshold = 5

// ProductService defines the interface for product business logic
type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, query SearchQuery) ([]*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListLowStock(ctx context.Context, threshold int) ([]*domain.Product, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	now          func() time.Time
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		now:          time.Now,
	}
}

// Create resolves the category name, derives stock and discounted price, and
// persists the new product.
func (s *productService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	category, err := s.categoryRepo.FindByName(ctx, input.CategoryName)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	now := s.now()
	product := &domain.Product{
		ID:                uuid.New(),
		Name:              input.Name,
		Description:       strings.TrimSpace(input.Description),
		Brand:             input.Brand,
		Price:             input.Price,
		DiscountPercent:   input.DiscountPercent,
		DiscountStartDate: input.DiscountStartDate,
		DiscountEndDate:   input.DiscountEndDate,
		CategoryID:        category.ID,
		Images:            input.Images,
		Variants:          input.Variants,
		Metadata:          input.Metadata,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	applyDerivedFields(product, now)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	product.Category = category
	return product, nil
}

// GetByID retrieves a product with its category populated
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// List translates the search query into a repository filter and runs it.
// An unresolvable category name fails the whole operation rather than
// matching nothing.
func (s *productService) List(ctx context.Context, query SearchQuery) ([]*domain.Product, error) {
	filter := repository.ProductFilter{
		NameSearch:  query.Search,
		BrandSearch: query.Brand,
		MinPrice:    query.MinPrice,
		MaxPrice:    query.MaxPrice,
		Discounted:  query.Discounted,
	}

	if query.Category != "" {
		category, err := s.categoryRepo.FindByName(ctx, query.Category)
		if err != nil {
			if err == repository.ErrCategoryNotFound {
				return nil, err
			}
			return nil, fmt.Errorf("failed to resolve category: %w", err)
		}
		filter.CategoryID = &category.ID
	}

	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// Update applies a partial patch and re-runs the full derivation before
// persisting. The derivation always runs, even when no pricing field
// changed, because discount activity depends on the current time.
func (s *productService) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CategoryName != nil {
		category, err := s.categoryRepo.FindByName(ctx, *input.CategoryName)
		if err != nil {
			if err == repository.ErrCategoryNotFound {
				return nil, err
			}
			return nil, fmt.Errorf("failed to resolve category: %w", err)
		}
		product.CategoryID = category.ID
		product.Category = category
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.DiscountPercent != nil {
		product.DiscountPercent = *input.DiscountPercent
	}
	if input.DiscountStartDate != nil {
		product.DiscountStartDate = input.DiscountStartDate
	}
	if input.DiscountEndDate != nil {
		product.DiscountEndDate = input.DiscountEndDate
	}
	if input.Images != nil {
		product.Images = *input.Images
	}
	if input.Variants != nil {
		product.Variants = *input.Variants
	}
	if input.Metadata != nil {
		product.Metadata = input.Metadata
	}

	now := s.now()
	product.UpdatedAt = now
	applyDerivedFields(product, now)

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Delete removes a product
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// ListLowStock retrieves products whose stock is below the threshold
func (s *productService) ListLowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	products, err := s.productRepo.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}
	return products, nil
}
