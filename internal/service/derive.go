package service

import (
	"time"

	"product-catalog/internal/domain"

	"github.com/shopspring/decimal"
)

// applyDerivedFields recomputes the derived product fields from their
// authoritative inputs. It runs immediately before every persist, on create
// and update alike, so client-supplied stock and discountedPrice values are
// always overwritten.
func applyDerivedFields(product *domain.Product, now time.Time) {
	product.Stock = totalVariantStock(product.Variants)
	product.DiscountedPrice = discountedPrice(
		product.Price,
		product.DiscountPercent,
		product.DiscountStartDate,
		product.DiscountEndDate,
		now,
	)
}

// totalVariantStock sums the stock across all variants. A product with no
// variants has zero stock.
func totalVariantStock(variants []domain.Variant) int {
	total := 0
	for _, v := range variants {
		total += v.Stock
	}
	return total
}

// discountedPrice returns the effective price: the list price reduced by the
// discount percent and rounded to two decimal places while the discount
// window is active, the list price exactly otherwise. Absent window bounds
// are treated as unbounded.
func discountedPrice(price, percent float64, start, end *time.Time, now time.Time) float64 {
	if percent <= 0 || !discountActive(start, end, now) {
		return price
	}

	p := decimal.NewFromFloat(price)
	pct := decimal.NewFromFloat(percent)
	reduced := p.Sub(p.Mul(pct).Div(decimal.NewFromInt(100))).Round(2)

	value, _ := reduced.Float64()
	return value
}

func discountActive(start, end *time.Time, now time.Time) bool {
	if start != nil && start.After(now) {
		return false
	}
	if end != nil && end.Before(now) {
		return false
	}
	return true
}
