package service

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"storefront-backend/internal/domains/delivery/model"
)

var oneHundred = decimal.NewFromInt(100)

// FeeCalculator prices a delivery for a method and destination. A method
// that charges a fee must always resolve to a concrete amount; holes in
// the configuration surface as errors, never as a free delivery.
type FeeCalculator struct{}

func NewFeeCalculator() *FeeCalculator {
	return &FeeCalculator{}
}

// Calculate returns the delivery fee rounded to 2 decimal places.
//
// Order of resolution:
//  1. Fee charging disabled: zero.
//  2. Free delivery threshold reached: zero, short-circuits everything.
//  3. Otherwise dispatch on the configured fee type; zone based types fall
//     back to the fallback fee when no zone matches.
func (f *FeeCalculator) Calculate(m *model.DeliveryMethod, delivery *model.DeliveryContext) (decimal.Decimal, error) {
	if !m.ChargeFee {
		return decimal.Zero, nil
	}

	if m.OfferFreeDeliveryOnMinimumGrandTotal &&
		delivery.Subtotal.GreaterThanOrEqual(m.FreeDeliveryMinimumGrandTotal) {
		return decimal.Zero, nil
	}

	switch m.FeeType {
	case model.FeeTypeFlat:
		return f.flatFee(m.FlatFeeRate, "flat_fee_rate")
	case model.FeeTypePercentage:
		return f.percentageFee(delivery.Subtotal, m.PercentageFeeRate, "percentage_fee_rate")
	case model.FeeTypeByDistance:
		return f.distanceFee(m, delivery)
	case model.FeeTypeByPostalCode:
		return f.postalCodeFee(m, delivery)
	default:
		return decimal.Zero, model.NewFeeConfigError(
			fmt.Sprintf("unsupported fee_type %q", m.FeeType))
	}
}

func (f *FeeCalculator) flatFee(rate decimal.Decimal, field string) (decimal.Decimal, error) {
	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, model.NewFeeConfigError(field + " is not set")
	}
	return rate.Round(2), nil
}

func (f *FeeCalculator) percentageFee(subtotal, rate decimal.Decimal, field string) (decimal.Decimal, error) {
	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, model.NewFeeConfigError(field + " is not set")
	}
	return subtotal.Mul(rate).Div(oneHundred).Round(2), nil
}

// distanceFee matches the destination against zones sorted ascending by
// boundary; the first zone whose boundary covers the distance wins.
func (f *FeeCalculator) distanceFee(m *model.DeliveryMethod, delivery *model.DeliveryContext) (decimal.Decimal, error) {
	if delivery.DistanceKM == nil {
		return decimal.Zero, &model.AppError{
			Code:       model.ErrCodeValidationFailed,
			Message:    model.ErrMissingDistance.Error(),
			HTTPStatus: http.StatusBadRequest,
		}
	}
	if len(m.DistanceZones) == 0 {
		return decimal.Zero, model.NewFeeConfigError("distance_zones is empty")
	}

	zones := make([]model.DistanceZone, len(m.DistanceZones))
	copy(zones, m.DistanceZones)
	sort.Slice(zones, func(i, j int) bool {
		return zones[i].UpToKM.LessThan(zones[j].UpToKM)
	})

	for _, zone := range zones {
		if delivery.DistanceKM.LessThanOrEqual(zone.UpToKM) {
			return zone.Fee.Round(2), nil
		}
	}

	return f.fallbackFee(m, delivery)
}

// postalCodeFee matches the destination's postal code exactly, ignoring
// case and surrounding whitespace.
func (f *FeeCalculator) postalCodeFee(m *model.DeliveryMethod, delivery *model.DeliveryContext) (decimal.Decimal, error) {
	if delivery.PostalCode == "" {
		return decimal.Zero, &model.AppError{
			Code:       model.ErrCodeValidationFailed,
			Message:    model.ErrMissingPostalCode.Error(),
			HTTPStatus: http.StatusBadRequest,
		}
	}
	if len(m.PostalCodeZones) == 0 {
		return decimal.Zero, model.NewFeeConfigError("postal_code_zones is empty")
	}

	target := strings.TrimSpace(delivery.PostalCode)
	for _, zone := range m.PostalCodeZones {
		if strings.EqualFold(strings.TrimSpace(zone.PostalCode), target) {
			return zone.Fee.Round(2), nil
		}
	}

	return f.fallbackFee(m, delivery)
}

func (f *FeeCalculator) fallbackFee(m *model.DeliveryMethod, delivery *model.DeliveryContext) (decimal.Decimal, error) {
	switch m.FallbackFeeType {
	case model.FeeTypeFlat:
		return f.flatFee(m.FallbackFlatFeeRate, "fallback_flat_fee_rate")
	case model.FeeTypePercentage:
		return f.percentageFee(delivery.Subtotal, m.FallbackPercentageFeeRate, "fallback_percentage_fee_rate")
	default:
		return decimal.Zero, model.NewFeeConfigError(
			fmt.Sprintf("no zone matched and fallback_fee_type %q cannot price the delivery", m.FallbackFeeType))
	}
}
