package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	couponmodel "storefront-backend/internal/domains/coupon/model"
	deliverymodel "storefront-backend/internal/domains/delivery/model"
	"storefront-backend/pkg/money"
)

// EvaluateCouponRequest is the public checkout payload for coupon
// evaluation. Code is optional; without one the store's automatic
// coupons are considered.
type EvaluateCouponRequest struct {
	StoreID                string  `json:"store_id"`
	Code                   string  `json:"code"`
	Subtotal               float64 `json:"subtotal"`
	TotalProducts          int     `json:"total_products"`
	TotalProductQuantities int     `json:"total_product_quantities"`
	IsNewCustomer          bool    `json:"is_new_customer"`
}

func (r *EvaluateCouponRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.StoreID, validation.Required, is.UUIDv4),
		validation.Field(&r.Subtotal, validation.Min(0.0)),
		validation.Field(&r.TotalProducts, validation.Min(0)),
		validation.Field(&r.TotalProductQuantities, validation.Min(0)),
	)
}

// DeliveryMethodsRequest asks which delivery methods a cart qualifies for.
type DeliveryMethodsRequest struct {
	StoreID  string  `json:"store_id"`
	Subtotal float64 `json:"subtotal"`
}

func (r *DeliveryMethodsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.StoreID, validation.Required, is.UUIDv4),
		validation.Field(&r.Subtotal, validation.Min(0.0)),
	)
}

// DeliveryFeeRequest asks for the fee of a chosen method and destination.
type DeliveryFeeRequest struct {
	StoreID          string   `json:"store_id"`
	DeliveryMethodID string   `json:"delivery_method_id"`
	Subtotal         float64  `json:"subtotal"`
	DistanceKM       *float64 `json:"distance_km"`
	PostalCode       string   `json:"postal_code"`
}

func (r *DeliveryFeeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.StoreID, validation.Required, is.UUIDv4),
		validation.Field(&r.DeliveryMethodID, validation.Required, is.UUIDv4),
		validation.Field(&r.Subtotal, validation.Min(0.0)),
	)
}

// DeliverySlotsRequest asks for the bookable slots of a method on a date.
type DeliverySlotsRequest struct {
	StoreID          string `json:"store_id" form:"store_id"`
	DeliveryMethodID string `json:"delivery_method_id" form:"delivery_method_id"`
	Date             string `json:"date" form:"date"` // "2006-01-02"
}

func (r *DeliverySlotsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.StoreID, validation.Required, is.UUIDv4),
		validation.Field(&r.DeliveryMethodID, validation.Required, is.UUIDv4),
		validation.Field(&r.Date, validation.Required, validation.Date("2006-01-02")),
	)
}

// CouponEvaluationResponse is the public shape of an evaluation outcome.
type CouponEvaluationResponse struct {
	Qualifies    bool          `json:"qualifies"`
	FailedRules  []string      `json:"failed_rules,omitempty"`
	Discount     money.Display `json:"discount"`
	FreeDelivery bool          `json:"free_delivery"`

	Coupon *couponmodel.CouponResponse `json:"coupon,omitempty"`
}

// DeliveryFeeResponse is the public shape of a priced delivery.
type DeliveryFeeResponse struct {
	Fee          money.Display `json:"fee"`
	FreeDelivery bool          `json:"free_delivery"`
}

// DeliverySlotsResponse lists the bookable windows for the requested day.
type DeliverySlotsResponse struct {
	Date  string                   `json:"date"`
	Slots []deliverymodel.TimeSlot `json:"slots"`
}
