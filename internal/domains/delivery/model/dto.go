package model

import (
	"fmt"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-backend/pkg/money"
)

var clockTokenPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

var weekdayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// DistanceZoneRequest mirrors DistanceZone with plain numbers for binding.
type DistanceZoneRequest struct {
	UpToKM float64 `json:"up_to_km"`
	Fee    float64 `json:"fee"`
}

type PostalCodeZoneRequest struct {
	PostalCode string  `json:"postal_code"`
	Fee        float64 `json:"fee"`
}

// CreateDeliveryMethodRequest is the admin payload for a new method.
type CreateDeliveryMethodRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Active      bool    `json:"active"`
	Currency    string  `json:"currency"`

	QualifyOnMinimumGrandTotal bool    `json:"qualify_on_minimum_grand_total"`
	MinimumGrandTotal          float64 `json:"minimum_grand_total"`

	OfferFreeDeliveryOnMinimumGrandTotal bool    `json:"offer_free_delivery_on_minimum_grand_total"`
	FreeDeliveryMinimumGrandTotal        float64 `json:"free_delivery_minimum_grand_total"`

	ChargeFee         bool                    `json:"charge_fee"`
	FeeType           string                  `json:"fee_type"`
	FlatFeeRate       float64                 `json:"flat_fee_rate"`
	PercentageFeeRate float64                 `json:"percentage_fee_rate"`
	DistanceZones     []DistanceZoneRequest   `json:"distance_zones"`
	PostalCodeZones   []PostalCodeZoneRequest `json:"postal_code_zones"`

	FallbackFeeType           string  `json:"fallback_fee_type"`
	FallbackFlatFeeRate       float64 `json:"fallback_flat_fee_rate"`
	FallbackPercentageFeeRate float64 `json:"fallback_percentage_fee_rate"`

	OperationalHours      OperationalHours `json:"operational_hours"`
	AutoGenerateTimeSlots bool             `json:"auto_generate_time_slots"`
	TimeSlotIntervalValue int              `json:"time_slot_interval_value"`
	TimeSlotIntervalUnit  string           `json:"time_slot_interval_unit"`

	RequireMinimumNoticeForOrders  bool `json:"require_minimum_notice_for_orders"`
	EarliestDeliveryTime           int  `json:"earliest_delivery_time"`
	RestrictMaximumNoticeForOrders bool `json:"restrict_maximum_notice_for_orders"`
	LatestDeliveryTime             int  `json:"latest_delivery_time"`

	SetDailyOrderLimit bool `json:"set_daily_order_limit"`
	DailyOrderLimit    int  `json:"daily_order_limit"`
}

func (r *CreateDeliveryMethodRequest) Validate() error {
	if err := validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Currency, validation.Required, validation.Length(3, 3)),
		validation.Field(&r.MinimumGrandTotal, validation.Min(0.0)),
		validation.Field(&r.FreeDeliveryMinimumGrandTotal, validation.Min(0.0)),
		validation.Field(&r.FeeType,
			validation.When(r.ChargeFee, validation.Required,
				validation.In("flat", "percentage", "fee_by_distance", "fee_by_postal_code"))),
		validation.Field(&r.TimeSlotIntervalValue,
			validation.When(r.AutoGenerateTimeSlots, validation.Required, validation.Min(1))),
		validation.Field(&r.TimeSlotIntervalUnit,
			validation.When(r.AutoGenerateTimeSlots, validation.Required,
				validation.In("minute", "hour"))),
		// Required precedes Min: ozzo skips non-required rules on zero
		// values, and a zero notice window must be rejected here.
		validation.Field(&r.EarliestDeliveryTime,
			validation.When(r.RequireMinimumNoticeForOrders, validation.Required, validation.Min(1))),
		validation.Field(&r.LatestDeliveryTime,
			validation.When(r.RestrictMaximumNoticeForOrders, validation.Required, validation.Min(1))),
		validation.Field(&r.DailyOrderLimit,
			validation.When(r.SetDailyOrderLimit, validation.Required, validation.Min(1))),
	); err != nil {
		return err
	}

	if err := r.validateFeeRates(); err != nil {
		return err
	}
	if err := r.validateNoticeWindow(); err != nil {
		return err
	}
	return r.validateOperationalHours()
}

func (r *CreateDeliveryMethodRequest) validateFeeRates() error {
	if !r.ChargeFee {
		return nil
	}

	switch FeeType(r.FeeType) {
	case FeeTypeFlat:
		if r.FlatFeeRate <= 0 {
			return validation.Errors{"flat_fee_rate": fmt.Errorf("must be positive when fee_type is flat")}
		}
	case FeeTypePercentage:
		if r.PercentageFeeRate <= 0 || r.PercentageFeeRate > 100 {
			return validation.Errors{"percentage_fee_rate": fmt.Errorf("must be between 0 and 100")}
		}
	case FeeTypeByDistance:
		if len(r.DistanceZones) == 0 {
			return validation.Errors{"distance_zones": fmt.Errorf("at least one zone is required")}
		}
		for i, z := range r.DistanceZones {
			if z.UpToKM <= 0 {
				return validation.Errors{"distance_zones": fmt.Errorf("zone %d: up_to_km must be positive", i)}
			}
			if z.Fee < 0 {
				return validation.Errors{"distance_zones": fmt.Errorf("zone %d: fee cannot be negative", i)}
			}
		}
		return r.validateFallback()
	case FeeTypeByPostalCode:
		if len(r.PostalCodeZones) == 0 {
			return validation.Errors{"postal_code_zones": fmt.Errorf("at least one zone is required")}
		}
		for i, z := range r.PostalCodeZones {
			if z.PostalCode == "" {
				return validation.Errors{"postal_code_zones": fmt.Errorf("zone %d: postal_code is required", i)}
			}
			if z.Fee < 0 {
				return validation.Errors{"postal_code_zones": fmt.Errorf("zone %d: fee cannot be negative", i)}
			}
		}
		return r.validateFallback()
	}
	return nil
}

// validateFallback ensures zone based methods can always price an order
// that misses every zone.
func (r *CreateDeliveryMethodRequest) validateFallback() error {
	ft := FeeType(r.FallbackFeeType)
	if !ft.IsValidFallback() {
		return validation.Errors{"fallback_fee_type": fmt.Errorf("must be flat or percentage")}
	}
	if ft == FeeTypeFlat && r.FallbackFlatFeeRate <= 0 {
		return validation.Errors{"fallback_flat_fee_rate": fmt.Errorf("must be positive")}
	}
	if ft == FeeTypePercentage && (r.FallbackPercentageFeeRate <= 0 || r.FallbackPercentageFeeRate > 100) {
		return validation.Errors{"fallback_percentage_fee_rate": fmt.Errorf("must be between 0 and 100")}
	}
	return nil
}

func (r *CreateDeliveryMethodRequest) validateNoticeWindow() error {
	if r.RequireMinimumNoticeForOrders && r.RestrictMaximumNoticeForOrders &&
		r.EarliestDeliveryTime > r.LatestDeliveryTime {
		return validation.Errors{"earliest_delivery_time": fmt.Errorf("cannot exceed latest_delivery_time")}
	}
	return nil
}

func (r *CreateDeliveryMethodRequest) validateOperationalHours() error {
	for day, windows := range r.OperationalHours {
		if !isWeekdayName(day) {
			return validation.Errors{"operational_hours": fmt.Errorf("unknown weekday %q", day)}
		}
		for i, w := range windows {
			if !clockTokenPattern.MatchString(w.From) || !clockTokenPattern.MatchString(w.To) {
				return validation.Errors{"operational_hours": fmt.Errorf("%s window %d: times must be HH:MM", day, i)}
			}
			if w.From >= w.To {
				return validation.Errors{"operational_hours": fmt.Errorf("%s window %d: from must precede to", day, i)}
			}
		}
	}
	return nil
}

func isWeekdayName(day string) bool {
	for _, name := range weekdayNames {
		if name == day {
			return true
		}
	}
	return false
}

// UpdateDeliveryMethodRequest carries a partial update. Only non-nil
// fields are applied; fee reconfiguration goes through the same checks
// as create after merging.
type UpdateDeliveryMethodRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`

	QualifyOnMinimumGrandTotal *bool    `json:"qualify_on_minimum_grand_total"`
	MinimumGrandTotal          *float64 `json:"minimum_grand_total"`

	OfferFreeDeliveryOnMinimumGrandTotal *bool    `json:"offer_free_delivery_on_minimum_grand_total"`
	FreeDeliveryMinimumGrandTotal        *float64 `json:"free_delivery_minimum_grand_total"`

	ChargeFee         *bool    `json:"charge_fee"`
	FeeType           *string  `json:"fee_type"`
	FlatFeeRate       *float64 `json:"flat_fee_rate"`
	PercentageFeeRate *float64 `json:"percentage_fee_rate"`

	SetDailyOrderLimit *bool `json:"set_daily_order_limit"`
	DailyOrderLimit    *int  `json:"daily_order_limit"`
}

func (r *UpdateDeliveryMethodRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.FeeType,
			validation.In("flat", "percentage", "fee_by_distance", "fee_by_postal_code")),
		validation.Field(&r.DailyOrderLimit, validation.Min(1)),
	)
}

// ListDeliveryMethodsFilter narrows the admin listing.
type ListDeliveryMethodsFilter struct {
	StoreID uuid.UUID `form:"-"`
	Status  string    `form:"status"`
	Page    int       `form:"page"`
	Limit   int       `form:"limit"`
}

func (f *ListDeliveryMethodsFilter) Validate() error {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return validation.ValidateStruct(f,
		validation.Field(&f.Status, validation.In("active", "inactive")),
	)
}

// DeliveryMethodResponse is the API shape of a method.
type DeliveryMethodResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Active      bool      `json:"active"`
	Currency    string    `json:"currency"`

	QualifyOnMinimumGrandTotal bool           `json:"qualify_on_minimum_grand_total"`
	MinimumGrandTotal          *money.Display `json:"minimum_grand_total,omitempty"`

	OfferFreeDeliveryOnMinimumGrandTotal bool           `json:"offer_free_delivery_on_minimum_grand_total"`
	FreeDeliveryMinimumGrandTotal        *money.Display `json:"free_delivery_minimum_grand_total,omitempty"`

	ChargeFee bool   `json:"charge_fee"`
	FeeType   string `json:"fee_type,omitempty"`
	FeeRate   string `json:"fee_rate,omitempty"`

	DistanceZones   []DistanceZone   `json:"distance_zones,omitempty"`
	PostalCodeZones []PostalCodeZone `json:"postal_code_zones,omitempty"`

	AutoGenerateTimeSlots bool             `json:"auto_generate_time_slots"`
	OperationalHours      OperationalHours `json:"operational_hours,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *DeliveryMethod) ToResponse() *DeliveryMethodResponse {
	resp := &DeliveryMethodResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Active:      m.Active,
		Currency:    m.Currency,

		QualifyOnMinimumGrandTotal:           m.QualifyOnMinimumGrandTotal,
		OfferFreeDeliveryOnMinimumGrandTotal: m.OfferFreeDeliveryOnMinimumGrandTotal,

		ChargeFee: m.ChargeFee,

		DistanceZones:   m.DistanceZones,
		PostalCodeZones: m.PostalCodeZones,

		AutoGenerateTimeSlots: m.AutoGenerateTimeSlots,
		OperationalHours:      m.OperationalHours,

		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}

	if m.QualifyOnMinimumGrandTotal {
		d := money.New(m.MinimumGrandTotal, m.Currency).Format()
		resp.MinimumGrandTotal = &d
	}
	if m.OfferFreeDeliveryOnMinimumGrandTotal {
		d := money.New(m.FreeDeliveryMinimumGrandTotal, m.Currency).Format()
		resp.FreeDeliveryMinimumGrandTotal = &d
	}

	if m.ChargeFee {
		resp.FeeType = string(m.FeeType)
		switch m.FeeType {
		case FeeTypeFlat:
			resp.FeeRate = money.New(m.FlatFeeRate, m.Currency).String()
		case FeeTypePercentage:
			resp.FeeRate = money.Percentage{Value: m.PercentageFeeRate}.Format()
		}
	}

	return resp
}

// FeeResult pairs the raw decimal fee with its display form.
type FeeResult struct {
	Fee          decimal.Decimal `json:"fee"`
	FeeDisplay   money.Display   `json:"fee_display"`
	FreeDelivery bool            `json:"free_delivery"`
}
