package service

import (
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domains/coupon/model"
)

// DiscountCalculator computes the monetary benefit of a qualified coupon.
type DiscountCalculator struct{}

func NewDiscountCalculator() *DiscountCalculator {
	return &DiscountCalculator{}
}

// DiscountResult is the outcome of applying a coupon to a subtotal.
type DiscountResult struct {
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	GrantsFreeDelivery bool            `json:"grants_free_delivery"`
}

// Calculate computes the discount for a subtotal.
//
// Percentage: discount = subtotal × rate / 100.
// Fixed: discount = rate.
// Both are clamped so the discount never exceeds the subtotal, and the
// result is rounded half-up to 2 decimal places at the end only.
//
// The free-delivery grant is the coupon's flag, independent of the
// discount type. A coupon with offer_discount=false yields a zero amount
// but can still grant free delivery.
func (c *DiscountCalculator) Calculate(coupon *model.Coupon, subtotal decimal.Decimal) DiscountResult {
	result := DiscountResult{
		DiscountAmount:     decimal.Zero,
		GrantsFreeDelivery: coupon.OfferFreeDelivery,
	}

	if !coupon.OfferDiscount {
		return result
	}

	var discount decimal.Decimal
	switch coupon.DiscountType {
	case model.DiscountTypePercentage:
		discount = subtotal.Mul(coupon.DiscountRate).Div(decimal.NewFromInt(100))

	case model.DiscountTypeFixed:
		discount = coupon.DiscountRate

	default:
		return result
	}

	// A discount can never exceed what the order is worth.
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	result.DiscountAmount = discount.Round(2)
	return result
}
