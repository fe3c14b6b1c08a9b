package model

import (
	"github.com/shopspring/decimal"

	"storefront-backend/pkg/money"
)

// CouponEvaluationResult is what checkout receives after a coupon is held
// against an order context. A non-qualifying coupon is a normal result,
// never an error.
type CouponEvaluationResult struct {
	Qualifies      bool            `json:"qualifies"`
	FailedRules    []string        `json:"failed_rules,omitempty"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Discount       money.Display   `json:"discount"`
	FreeDelivery   bool            `json:"free_delivery"`
	Coupon         *CouponResponse `json:"coupon,omitempty"`
}
