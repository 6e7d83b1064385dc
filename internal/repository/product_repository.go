package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"product-catalog/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductFilter is the set of optional search constraints for List. Zero or
// nil fields contribute no predicate; the rest compose conjunctively.
type ProductFilter struct {
	NameSearch  string
	BrandSearch string
	CategoryID  *uuid.UUID
	MinPrice    *float64
	MaxPrice    *float64
	Discounted  bool
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `
	p.id, p.name, p.description, p.brand, p.price, p.discount_percent,
	p.discounted_price, p.discount_start_date, p.discount_end_date,
	p.category_id, p.stock, p.images, p.variants, p.metadata,
	p.created_at, p.updated_at,
	c.id, c.name, c.description, c.created_at, c.updated_at`

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	images, variants, metadata, err := marshalDocumentFields(product)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (
			id, name, description, brand, price, discount_percent,
			discounted_price, discount_start_date, discount_end_date,
			category_id, stock, images, variants, metadata, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Brand,
		product.Price,
		product.DiscountPercent,
		product.DiscountedPrice,
		product.DiscountStartDate,
		product.DiscountEndDate,
		product.CategoryID,
		product.Stock,
		images,
		variants,
		metadata,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update updates an existing product in the database using parameterized queries
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	images, variants, metadata, err := marshalDocumentFields(product)
	if err != nil {
		return err
	}

	query := `
		UPDATE products
		SET name = $2, description = $3, brand = $4, price = $5,
		    discount_percent = $6, discounted_price = $7,
		    discount_start_date = $8, discount_end_date = $9,
		    category_id = $10, stock = $11, images = $12, variants = $13,
		    metadata = $14, updated_at = $15
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Brand,
		product.Price,
		product.DiscountPercent,
		product.DiscountedPrice,
		product.DiscountStartDate,
		product.DiscountEndDate,
		product.CategoryID,
		product.Stock,
		images,
		variants,
		metadata,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the database using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID with its category populated
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products matching the filter, each with its category
// populated. Every supplied constraint contributes one predicate; the
// predicates are joined with AND.
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	conditions := []string{}
	args := []any{}
	argIndex := 1

	if filter.NameSearch != "" {
		conditions = append(conditions, fmt.Sprintf("p.name ILIKE $%d", argIndex))
		args = append(args, "%"+filter.NameSearch+"%")
		argIndex++
	}

	if filter.BrandSearch != "" {
		conditions = append(conditions, fmt.Sprintf("p.brand ILIKE $%d", argIndex))
		args = append(args, "%"+filter.BrandSearch+"%")
		argIndex++
	}

	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argIndex))
		args = append(args, *filter.CategoryID)
		argIndex++
	}

	// Price bounds apply to the discounted price, not the list price
	if filter.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("p.discounted_price >= $%d", argIndex))
		args = append(args, *filter.MinPrice)
		argIndex++
	}

	if filter.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("p.discounted_price <= $%d", argIndex))
		args = append(args, *filter.MaxPrice)
		argIndex++
	}

	if filter.Discounted {
		conditions = append(conditions, "p.discounted_price < p.price")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN categories c ON c.id = p.category_id
		%s
		ORDER BY p.created_at DESC
	`, productColumns, whereClause)

	return r.queryProducts(ctx, query, args...)
}

// ListLowStock retrieves products whose stock is strictly below the threshold
func (r *productRepository) ListLowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.stock < $1
		ORDER BY p.stock ASC
	`, productColumns)

	return r.queryProducts(ctx, query, threshold)
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	category := &domain.Category{}
	var images, variants, metadata []byte

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Brand,
		&product.Price,
		&product.DiscountPercent,
		&product.DiscountedPrice,
		&product.DiscountStartDate,
		&product.DiscountEndDate,
		&product.CategoryID,
		&product.Stock,
		&images,
		&variants,
		&metadata,
		&product.CreatedAt,
		&product.UpdatedAt,
		&category.ID,
		&category.Name,
		&category.Description,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(images, &product.Images); err != nil {
		return nil, fmt.Errorf("failed to decode images: %w", err)
	}
	if err := json.Unmarshal(variants, &product.Variants); err != nil {
		return nil, fmt.Errorf("failed to decode variants: %w", err)
	}
	if err := json.Unmarshal(metadata, &product.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}

	product.Category = category
	return product, nil
}

// marshalDocumentFields encodes the JSONB-backed fields, normalizing nil
// slices and maps so the columns never hold SQL NULL.
func marshalDocumentFields(product *domain.Product) (images, variants, metadata []byte, err error) {
	if product.Images == nil {
		product.Images = []string{}
	}
	if product.Variants == nil {
		product.Variants = []domain.Variant{}
	}
	if product.Metadata == nil {
		product.Metadata = map[string]any{}
	}

	images, err = json.Marshal(product.Images)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode images: %w", err)
	}
	variants, err = json.Marshal(product.Variants)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode variants: %w", err)
	}
	metadata, err = json.Marshal(product.Metadata)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode metadata: %w", err)
	}

	return images, variants, metadata, nil
}
