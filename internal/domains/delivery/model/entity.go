package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeType selects how a delivery method prices an order. Exactly one fee
// type is active on a method at a time.
type FeeType string

const (
	FeeTypeFlat         FeeType = "flat"
	FeeTypePercentage   FeeType = "percentage"
	FeeTypeByDistance   FeeType = "fee_by_distance"
	FeeTypeByPostalCode FeeType = "fee_by_postal_code"
)

func (ft FeeType) IsValid() bool {
	switch ft {
	case FeeTypeFlat, FeeTypePercentage, FeeTypeByDistance, FeeTypeByPostalCode:
		return true
	}
	return false
}

// FallbackFeeType is the subset usable when no zone matches.
func (ft FeeType) IsValidFallback() bool {
	return ft == FeeTypeFlat || ft == FeeTypePercentage
}

// DistanceZone prices destinations up to a distance boundary. Zones are
// kept sorted ascending by boundary; the first zone containing the
// destination wins.
type DistanceZone struct {
	UpToKM decimal.Decimal `json:"up_to_km"`
	Fee    decimal.Decimal `json:"fee"`
}

// PostalCodeZone prices an exact postal code.
type PostalCodeZone struct {
	PostalCode string          `json:"postal_code"`
	Fee        decimal.Decimal `json:"fee"`
}

// HoursWindow is one operational window within a day, "HH:MM" bounds.
type HoursWindow struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// OperationalHours maps lowercase weekday tokens to that day's windows.
type OperationalHours map[string][]HoursWindow

// TimeSlotUnit is the interval unit for auto-generated slots.
type TimeSlotUnit string

const (
	TimeSlotUnitMinute TimeSlotUnit = "minute"
	TimeSlotUnitHour   TimeSlotUnit = "hour"
)

// DeliveryMethod represents a shipping/delivery option scoped to a store.
type DeliveryMethod struct {
	ID          uuid.UUID `json:"id" db:"id"`
	StoreID     uuid.UUID `json:"store_id" db:"store_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Active      bool      `json:"active" db:"active"`
	Currency    string    `json:"currency" db:"currency"`

	// Qualification: the method is only offered once the cart reaches this
	// total.
	QualifyOnMinimumGrandTotal bool            `json:"qualify_on_minimum_grand_total" db:"qualify_on_minimum_grand_total"`
	MinimumGrandTotal          decimal.Decimal `json:"minimum_grand_total" db:"minimum_grand_total"`

	// Free delivery threshold: carts at or above it pay no fee.
	OfferFreeDeliveryOnMinimumGrandTotal bool            `json:"offer_free_delivery_on_minimum_grand_total" db:"offer_free_delivery_on_minimum_grand_total"`
	FreeDeliveryMinimumGrandTotal        decimal.Decimal `json:"free_delivery_minimum_grand_total" db:"free_delivery_minimum_grand_total"`

	// Fee configuration
	ChargeFee         bool             `json:"charge_fee" db:"charge_fee"`
	FeeType           FeeType          `json:"fee_type" db:"fee_type"`
	FlatFeeRate       decimal.Decimal  `json:"flat_fee_rate" db:"flat_fee_rate"`
	PercentageFeeRate decimal.Decimal  `json:"percentage_fee_rate" db:"percentage_fee_rate"`
	DistanceZones     []DistanceZone   `json:"distance_zones,omitempty" db:"distance_zones"`
	PostalCodeZones   []PostalCodeZone `json:"postal_code_zones,omitempty" db:"postal_code_zones"`

	// Fallback used when no zone matches the destination. Fee charging
	// must never silently price a delivery at zero.
	FallbackFeeType           FeeType         `json:"fallback_fee_type" db:"fallback_fee_type"`
	FallbackFlatFeeRate       decimal.Decimal `json:"fallback_flat_fee_rate" db:"fallback_flat_fee_rate"`
	FallbackPercentageFeeRate decimal.Decimal `json:"fallback_percentage_fee_rate" db:"fallback_percentage_fee_rate"`

	// Schedule configuration
	OperationalHours      OperationalHours `json:"operational_hours" db:"operational_hours"`
	AutoGenerateTimeSlots bool             `json:"auto_generate_time_slots" db:"auto_generate_time_slots"`
	TimeSlotIntervalValue int              `json:"time_slot_interval_value" db:"time_slot_interval_value"`
	TimeSlotIntervalUnit  TimeSlotUnit     `json:"time_slot_interval_unit" db:"time_slot_interval_unit"`

	// Notice windows, both in hours so earliest <= latest is directly
	// comparable.
	RequireMinimumNoticeForOrders  bool `json:"require_minimum_notice_for_orders" db:"require_minimum_notice_for_orders"`
	EarliestDeliveryTime           int  `json:"earliest_delivery_time" db:"earliest_delivery_time"`
	RestrictMaximumNoticeForOrders bool `json:"restrict_maximum_notice_for_orders" db:"restrict_maximum_notice_for_orders"`
	LatestDeliveryTime             int  `json:"latest_delivery_time" db:"latest_delivery_time"`

	SetDailyOrderLimit bool `json:"set_daily_order_limit" db:"set_daily_order_limit"`
	DailyOrderLimit    int  `json:"daily_order_limit" db:"daily_order_limit"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// DeliveryContext is the destination/cart snapshot a fee is computed for.
type DeliveryContext struct {
	Subtotal   decimal.Decimal
	DistanceKM *decimal.Decimal
	PostalCode string
}

// TimeSlot is one bounded delivery window on a concrete date.
type TimeSlot struct {
	Window   string    `json:"window"` // "09:00 - 11:00"
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// Qualifies reports whether the cart total reaches the method's
// qualification threshold.
func (m *DeliveryMethod) Qualifies(subtotal decimal.Decimal) bool {
	if !m.QualifyOnMinimumGrandTotal {
		return true
	}
	return subtotal.GreaterThanOrEqual(m.MinimumGrandTotal)
}
