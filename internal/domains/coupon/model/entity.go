package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// DiscountType represents valid discount types
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

func (dt DiscountType) IsValid() bool {
	switch dt {
	case DiscountTypePercentage, DiscountTypeFixed:
		return true
	}
	return false
}

func (dt DiscountType) String() string {
	return string(dt)
}

// Coupon represents a discount offer scoped to a store.
//
// Every activation switch is a boolean toggle paired with its constraint
// value. Enabled switches are AND-combined at evaluation time; a disabled
// switch imposes no constraint. Set-valued constraints are stored as
// lowercase string tokens: hours "00:00".."23:00", weekdays
// "monday".."sunday", month-days "01".."31", months "january".."december".
type Coupon struct {
	ID          uuid.UUID `json:"id" db:"id"`
	StoreID     uuid.UUID `json:"store_id" db:"store_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Code        string    `json:"code" db:"code"`
	Active      bool      `json:"active" db:"active"`
	Currency    string    `json:"currency" db:"currency"`

	// Benefits. At least one of the two must be offered.
	OfferDiscount     bool            `json:"offer_discount" db:"offer_discount"`
	DiscountType      DiscountType    `json:"discount_type" db:"discount_type"`
	DiscountRate      decimal.Decimal `json:"discount_rate" db:"discount_rate"`
	OfferFreeDelivery bool            `json:"offer_free_delivery" db:"offer_free_delivery"`

	// Activation switches
	ActivateUsingCode          bool       `json:"activate_using_code" db:"activate_using_code"`
	ActivateUsingStartDatetime bool       `json:"activate_using_start_datetime" db:"activate_using_start_datetime"`
	StartDatetime              *time.Time `json:"start_datetime,omitempty" db:"start_datetime"`
	ActivateUsingEndDatetime   bool       `json:"activate_using_end_datetime" db:"activate_using_end_datetime"`
	EndDatetime                *time.Time `json:"end_datetime,omitempty" db:"end_datetime"`

	ActivateUsingHoursOfDay      bool           `json:"activate_using_hours_of_day" db:"activate_using_hours_of_day"`
	HoursOfDay                   pq.StringArray `json:"hours_of_day,omitempty" db:"hours_of_day"`
	ActivateUsingDaysOfTheWeek   bool           `json:"activate_using_days_of_the_week" db:"activate_using_days_of_the_week"`
	DaysOfTheWeek                pq.StringArray `json:"days_of_the_week,omitempty" db:"days_of_the_week"`
	ActivateUsingDaysOfTheMonth  bool           `json:"activate_using_days_of_the_month" db:"activate_using_days_of_the_month"`
	DaysOfTheMonth               pq.StringArray `json:"days_of_the_month,omitempty" db:"days_of_the_month"`
	ActivateUsingMonthsOfTheYear bool           `json:"activate_using_months_of_the_year" db:"activate_using_months_of_the_year"`
	MonthsOfTheYear              pq.StringArray `json:"months_of_the_year,omitempty" db:"months_of_the_year"`

	ActivateUsingUsageLimit bool `json:"activate_using_usage_limit" db:"activate_using_usage_limit"`
	RemainingQuantity       int  `json:"remaining_quantity" db:"remaining_quantity"`

	ActivateUsingMinimumGrandTotal             bool            `json:"activate_using_minimum_grand_total" db:"activate_using_minimum_grand_total"`
	MinimumGrandTotal                          decimal.Decimal `json:"minimum_grand_total" db:"minimum_grand_total"`
	ActivateUsingMinimumTotalProducts          bool            `json:"activate_using_minimum_total_products" db:"activate_using_minimum_total_products"`
	MinimumTotalProducts                       int             `json:"minimum_total_products" db:"minimum_total_products"`
	ActivateUsingMinimumTotalProductQuantities bool            `json:"activate_using_minimum_total_product_quantities" db:"activate_using_minimum_total_product_quantities"`
	MinimumTotalProductQuantities              int             `json:"minimum_total_product_quantities" db:"minimum_total_product_quantities"`

	ActivateForNewCustomer      bool `json:"activate_for_new_customer" db:"activate_for_new_customer"`
	ActivateForExistingCustomer bool `json:"activate_for_existing_customer" db:"activate_for_existing_customer"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// EvaluationContext is the ephemeral order snapshot a coupon is evaluated
// against. It is never persisted by this service.
type EvaluationContext struct {
	SuppliedCode           string
	Subtotal               decimal.Decimal
	TotalProducts          int
	TotalProductQuantities int
	IsNewCustomer          bool
}

// HasUsageLeft reports whether the usage-limited coupon can still be
// redeemed. Coupons without the usage-limit switch always have usage left.
func (c *Coupon) HasUsageLeft() bool {
	if !c.ActivateUsingUsageLimit {
		return true
	}
	return c.RemainingQuantity > 0
}

// CodeMatches compares the supplied code to the configured one,
// case-insensitive and trimmed.
func (c *Coupon) CodeMatches(supplied string) bool {
	if c.Code == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(supplied), strings.TrimSpace(c.Code))
}

// NormalizeCode uppercases and trims a coupon code for storage and lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizeCode uppercases and trims the stored code.
func (c *Coupon) NormalizeCode() {
	c.Code = NormalizeCode(c.Code)
}
