package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a product category. Products reference categories by
// id; clients address them by human-readable name.
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
