package domain

import (
	"time"

	"github.com/google/uuid"
)

// Variant is a purchasable variation of a product. Variants are owned by
// their parent product and have no independent lifecycle.
type Variant struct {
	Color   string   `json:"color,omitempty"`
	RAM     string   `json:"ram,omitempty"`
	Storage string   `json:"storage,omitempty"`
	Stock   int      `json:"stock"`
	Price   *float64 `json:"price,omitempty"`
	Images  []string `json:"images"`
}

// Product represents a product in the catalog.
//
// Stock and DiscountedPrice are derived fields: they are recomputed from the
// variants and the discount window on every write and never taken from the
// client verbatim.
type Product struct {
	ID                uuid.UUID      `json:"id" db:"id"`
	Name              string         `json:"name" db:"name"`
	Description       string         `json:"description" db:"description"`
	Brand             string         `json:"brand" db:"brand"`
	Price             float64        `json:"price" db:"price"`
	DiscountPercent   float64        `json:"discountPercent" db:"discount_percent"`
	DiscountedPrice   float64        `json:"discountedPrice" db:"discounted_price"`
	DiscountStartDate *time.Time     `json:"discountStartDate,omitempty" db:"discount_start_date"`
	DiscountEndDate   *time.Time     `json:"discountEndDate,omitempty" db:"discount_end_date"`
	CategoryID        uuid.UUID      `json:"categoryId" db:"category_id"`
	Category          *Category      `json:"category,omitempty"`
	Stock             int            `json:"stock" db:"stock"`
	Images            []string       `json:"images" db:"images"`
	Variants          []Variant      `json:"variants" db:"variants"`
	Metadata          map[string]any `json:"metadata" db:"metadata"`
	CreatedAt         time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time      `json:"updatedAt" db:"updated_at"`
}
