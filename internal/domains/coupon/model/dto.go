package model

import (
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"storefront-backend/pkg/money"
)

var (
	hourTokenPattern     = regexp.MustCompile(`^([01][0-9]|2[0-3]):00$`)
	monthDayTokenPattern = regexp.MustCompile(`^(0[1-9]|[12][0-9]|3[01])$`)
)

var weekdayTokens = []interface{}{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

var monthTokens = []interface{}{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// CreateCouponRequest - request to create a coupon for a store
type CreateCouponRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Code        string  `json:"code"`
	Active      bool    `json:"active"`
	Currency    string  `json:"currency"`

	OfferDiscount     bool    `json:"offer_discount"`
	DiscountType      string  `json:"discount_type"`
	DiscountRate      float64 `json:"discount_rate"`
	OfferFreeDelivery bool    `json:"offer_free_delivery"`

	ActivateUsingCode          bool    `json:"activate_using_code"`
	ActivateUsingStartDatetime bool    `json:"activate_using_start_datetime"`
	StartDatetime              *string `json:"start_datetime"` // RFC3339
	ActivateUsingEndDatetime   bool    `json:"activate_using_end_datetime"`
	EndDatetime                *string `json:"end_datetime"` // RFC3339

	ActivateUsingHoursOfDay      bool     `json:"activate_using_hours_of_day"`
	HoursOfDay                   []string `json:"hours_of_day"`
	ActivateUsingDaysOfTheWeek   bool     `json:"activate_using_days_of_the_week"`
	DaysOfTheWeek                []string `json:"days_of_the_week"`
	ActivateUsingDaysOfTheMonth  bool     `json:"activate_using_days_of_the_month"`
	DaysOfTheMonth               []string `json:"days_of_the_month"`
	ActivateUsingMonthsOfTheYear bool     `json:"activate_using_months_of_the_year"`
	MonthsOfTheYear              []string `json:"months_of_the_year"`

	ActivateUsingUsageLimit bool `json:"activate_using_usage_limit"`
	RemainingQuantity       int  `json:"remaining_quantity"`

	ActivateUsingMinimumGrandTotal             bool    `json:"activate_using_minimum_grand_total"`
	MinimumGrandTotal                          float64 `json:"minimum_grand_total"`
	ActivateUsingMinimumTotalProducts          bool    `json:"activate_using_minimum_total_products"`
	MinimumTotalProducts                       int     `json:"minimum_total_products"`
	ActivateUsingMinimumTotalProductQuantities bool    `json:"activate_using_minimum_total_product_quantities"`
	MinimumTotalProductQuantities              int     `json:"minimum_total_product_quantities"`

	ActivateForNewCustomer      bool `json:"activate_for_new_customer"`
	ActivateForExistingCustomer bool `json:"activate_for_existing_customer"`
}

// Validate enforces the write-time schema so evaluation never sees a
// malformed configuration.
func (r CreateCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("coupon name is required"),
			validation.Length(3, 200),
		),
		validation.Field(&r.Description,
			validation.When(r.Description != nil, validation.Length(0, 1000)),
		),
		validation.Field(&r.Code,
			validation.When(r.ActivateUsingCode,
				validation.Required.Error("code is required when activate_using_code is enabled"),
				validation.Length(3, 50),
				validation.Match(regexp.MustCompile(`^[A-Za-z0-9]+$`)).Error("code may only contain letters and digits"),
			),
		),
		validation.Field(&r.Currency,
			validation.Required,
			validation.Length(3, 3).Error("currency must be a 3-letter ISO code"),
		),
		validation.Field(&r.OfferFreeDelivery,
			validation.By(r.validateBenefit),
		),
		validation.Field(&r.DiscountType,
			validation.When(r.OfferDiscount,
				validation.Required,
				validation.In("percentage", "fixed").Error("discount_type must be 'percentage' or 'fixed'"),
			),
		),
		validation.Field(&r.DiscountRate,
			validation.When(r.OfferDiscount,
				validation.Required.Error("discount_rate is required when offering a discount"),
				validation.Min(0.01).Error("discount_rate must be > 0"),
				validation.By(r.validateDiscountRate),
			),
		),
		validation.Field(&r.StartDatetime,
			validation.When(r.ActivateUsingStartDatetime,
				validation.Required.Error("start_datetime is required when its switch is enabled"),
				validation.By(validateRFC3339Ptr),
			),
		),
		validation.Field(&r.EndDatetime,
			validation.When(r.ActivateUsingEndDatetime,
				validation.Required.Error("end_datetime is required when its switch is enabled"),
				validation.By(validateRFC3339Ptr),
				validation.By(r.validateDateRange),
			),
		),
		validation.Field(&r.HoursOfDay,
			validation.When(r.ActivateUsingHoursOfDay,
				validation.Required.Error("hours_of_day is required when its switch is enabled"),
				validation.Each(validation.Match(hourTokenPattern).Error("hour tokens look like \"09:00\"")),
			),
		),
		validation.Field(&r.DaysOfTheWeek,
			validation.When(r.ActivateUsingDaysOfTheWeek,
				validation.Required.Error("days_of_the_week is required when its switch is enabled"),
				validation.Each(validation.In(weekdayTokens...).Error("weekday tokens are lowercase names")),
			),
		),
		validation.Field(&r.DaysOfTheMonth,
			validation.When(r.ActivateUsingDaysOfTheMonth,
				validation.Required.Error("days_of_the_month is required when its switch is enabled"),
				validation.Each(validation.Match(monthDayTokenPattern).Error("month-day tokens look like \"01\"..\"31\"")),
			),
		),
		validation.Field(&r.MonthsOfTheYear,
			validation.When(r.ActivateUsingMonthsOfTheYear,
				validation.Required.Error("months_of_the_year is required when its switch is enabled"),
				validation.Each(validation.In(monthTokens...).Error("month tokens are lowercase names")),
			),
		),
		// Required precedes Min below: ozzo skips non-required rules on
		// zero values, and zero is exactly what these switches must reject.
		validation.Field(&r.RemainingQuantity,
			validation.When(r.ActivateUsingUsageLimit,
				validation.Required.Error("remaining_quantity must be >= 1 when usage limit is enabled"),
				validation.Min(1).Error("remaining_quantity must be >= 1 when usage limit is enabled"),
			),
		),
		validation.Field(&r.MinimumGrandTotal,
			validation.When(r.ActivateUsingMinimumGrandTotal,
				validation.Required.Error("minimum_grand_total must be > 0"),
				validation.Min(0.01).Error("minimum_grand_total must be > 0"),
			),
		),
		validation.Field(&r.MinimumTotalProducts,
			validation.When(r.ActivateUsingMinimumTotalProducts,
				validation.Required.Error("minimum_total_products must be >= 1"),
				validation.Min(1).Error("minimum_total_products must be >= 1"),
			),
		),
		validation.Field(&r.MinimumTotalProductQuantities,
			validation.When(r.ActivateUsingMinimumTotalProductQuantities,
				validation.Required.Error("minimum_total_product_quantities must be >= 1"),
				validation.Min(1).Error("minimum_total_product_quantities must be >= 1"),
			),
		),
		validation.Field(&r.ActivateForExistingCustomer,
			validation.By(r.validateCustomerFlags),
		),
	)
}

// validateBenefit: a coupon that offers no discount must offer free
// delivery. At least one benefit is always present.
func (r CreateCouponRequest) validateBenefit(value interface{}) error {
	if !r.OfferDiscount && !r.OfferFreeDelivery {
		return errors.New("coupon must offer a discount or free delivery")
	}
	return nil
}

// validateDiscountRate caps percentage discounts at 100.
func (r CreateCouponRequest) validateDiscountRate(value interface{}) error {
	if r.DiscountType == "percentage" && r.DiscountRate > 100 {
		return errors.New("percentage discount cannot exceed 100")
	}
	return nil
}

// validateCustomerFlags rejects the contradictory configuration where both
// customer-type restrictions are enabled: each enabled flag is an
// independent AND-constraint, so together they match no customer.
func (r CreateCouponRequest) validateCustomerFlags(value interface{}) error {
	if r.ActivateForNewCustomer && r.ActivateForExistingCustomer {
		return errors.New("activate_for_new_customer and activate_for_existing_customer cannot both be enabled")
	}
	return nil
}

// validateDateRange ensures end_datetime comes after start_datetime when
// both switches are enabled.
func (r CreateCouponRequest) validateDateRange(value interface{}) error {
	if !r.ActivateUsingStartDatetime || r.StartDatetime == nil || r.EndDatetime == nil {
		return nil
	}
	start, err := time.Parse(time.RFC3339, *r.StartDatetime)
	if err != nil {
		return nil // format already reported on its own field
	}
	end, err := time.Parse(time.RFC3339, *r.EndDatetime)
	if err != nil {
		return nil
	}
	if !end.After(start) {
		return errors.New("end_datetime must be after start_datetime")
	}
	return nil
}

func validateRFC3339Ptr(value interface{}) error {
	s, _ := value.(*string)
	if s == nil {
		return nil
	}
	if _, err := time.Parse(time.RFC3339, *s); err != nil {
		return errors.New("must be an RFC3339 datetime")
	}
	return nil
}

// NormalizeCode uppercases and trims the code before persistence.
func (r *CreateCouponRequest) NormalizeCode() {
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
}

// UpdateCouponRequest - partial update; nil means "leave unchanged"
type UpdateCouponRequest struct {
	Name              *string  `json:"name"`
	Description       *string  `json:"description"`
	Active            *bool    `json:"active"`
	OfferDiscount     *bool    `json:"offer_discount"`
	DiscountType      *string  `json:"discount_type"`
	DiscountRate      *float64 `json:"discount_rate"`
	OfferFreeDelivery *bool    `json:"offer_free_delivery"`
	RemainingQuantity *int     `json:"remaining_quantity"`
}

func (r UpdateCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.When(r.Name != nil, validation.Length(3, 200)),
		),
		validation.Field(&r.DiscountType,
			validation.When(r.DiscountType != nil, validation.In("percentage", "fixed")),
		),
		validation.Field(&r.DiscountRate,
			validation.When(r.DiscountRate != nil, validation.Min(0.01)),
		),
		validation.Field(&r.RemainingQuantity,
			validation.When(r.RemainingQuantity != nil, validation.Min(0)),
		),
	)
}

// ListCouponsFilter - admin list filter
type ListCouponsFilter struct {
	StoreID uuid.UUID `form:"-"`
	Status  string    `form:"status"` // active, inactive, all
	Search  string    `form:"search"`
	Page    int       `form:"page"`
	Limit   int       `form:"limit"`
}

func (f *ListCouponsFilter) Validate() error {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Status == "" {
		f.Status = "all"
	}
	return validation.ValidateStruct(f,
		validation.Field(&f.Status, validation.In("active", "inactive", "all")),
	)
}

// CouponResponse - display-ready coupon
type CouponResponse struct {
	ID                uuid.UUID      `json:"id"`
	StoreID           uuid.UUID      `json:"store_id"`
	Name              string         `json:"name"`
	Description       *string        `json:"description,omitempty"`
	Code              string         `json:"code,omitempty"`
	Active            bool           `json:"active"`
	OfferDiscount     bool           `json:"offer_discount"`
	DiscountType      string         `json:"discount_type,omitempty"`
	DiscountRate      string         `json:"discount_rate,omitempty"`
	OfferFreeDelivery bool           `json:"offer_free_delivery"`
	RemainingQuantity *int           `json:"remaining_quantity,omitempty"`
	MinimumGrandTotal *money.Display `json:"minimum_grand_total,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// ToResponse converts a Coupon into its display form, formatting money and
// percentage values through pkg/money.
func (c *Coupon) ToResponse() *CouponResponse {
	resp := &CouponResponse{
		ID:                c.ID,
		StoreID:           c.StoreID,
		Name:              c.Name,
		Description:       c.Description,
		Code:              c.Code,
		Active:            c.Active,
		OfferDiscount:     c.OfferDiscount,
		OfferFreeDelivery: c.OfferFreeDelivery,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}

	if c.OfferDiscount {
		resp.DiscountType = string(c.DiscountType)
		switch c.DiscountType {
		case DiscountTypePercentage:
			resp.DiscountRate = money.NewPercentage(c.DiscountRate).Format()
		case DiscountTypeFixed:
			resp.DiscountRate = money.New(c.DiscountRate, c.Currency).String()
		}
	}

	if c.ActivateUsingUsageLimit {
		remaining := c.RemainingQuantity
		resp.RemainingQuantity = &remaining
	}

	if c.ActivateUsingMinimumGrandTotal {
		display := money.New(c.MinimumGrandTotal, c.Currency).Format()
		resp.MinimumGrandTotal = &display
	}

	return resp
}
