package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-backend/internal/domains/delivery/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestNoFeeWhenChargingDisabled(t *testing.T) {
	calc := NewFeeCalculator()
	m := &model.DeliveryMethod{ChargeFee: false}

	fee, err := calc.Calculate(m, &model.DeliveryContext{Subtotal: dec("100")})
	require.NoError(t, err)
	assert.True(t, fee.IsZero())
}

func TestFlatFee(t *testing.T) {
	calc := NewFeeCalculator()
	m := &model.DeliveryMethod{
		ChargeFee:   true,
		FeeType:     model.FeeTypeFlat,
		FlatFeeRate: dec("25.00"),
	}

	fee, err := calc.Calculate(m, &model.DeliveryContext{Subtotal: dec("80.00")})
	require.NoError(t, err)
	assert.Equal(t, "25.00", fee.StringFixed(2))
}

func TestPercentageFee(t *testing.T) {
	calc := NewFeeCalculator()
	m := &model.DeliveryMethod{
		ChargeFee:         true,
		FeeType:           model.FeeTypePercentage,
		PercentageFeeRate: dec("10"),
	}

	fee, err := calc.Calculate(m, &model.DeliveryContext{Subtotal: dec("200.00")})
	require.NoError(t, err)
	assert.Equal(t, "20.00", fee.StringFixed(2))
}

func TestFreeDeliveryThresholdShortCircuits(t *testing.T) {
	calc := NewFeeCalculator()
	m := &model.DeliveryMethod{
		ChargeFee:                            true,
		FeeType:                              model.FeeTypeFlat,
		FlatFeeRate:                          dec("25.00"),
		OfferFreeDeliveryOnMinimumGrandTotal: true,
		FreeDeliveryMinimumGrandTotal:        dec("100.00"),
	}

	// At the threshold: free.
	fee, err := calc.Calculate(m, &model.DeliveryContext{Subtotal: dec("100.00")})
	require.NoError(t, err)
	assert.True(t, fee.IsZero())

	// Below it: the flat fee applies.
	fee, err = calc.Calculate(m, &model.DeliveryContext{Subtotal: dec("99.99")})
	require.NoError(t, err)
	assert.Equal(t, "25.00", fee.StringFixed(2))
}

func distanceMethod() *model.DeliveryMethod {
	return &model.DeliveryMethod{
		ChargeFee: true,
		FeeType:   model.FeeTypeByDistance,
		DistanceZones: []model.DistanceZone{
			{UpToKM: dec("10"), Fee: dec("20.00")},
			{UpToKM: dec("50"), Fee: dec("40.00")},
		},
		FallbackFeeType:     model.FeeTypeFlat,
		FallbackFlatFeeRate: dec("50.00"),
	}
}

func TestDistanceFeeMatchesFirstCoveringZone(t *testing.T) {
	calc := NewFeeCalculator()

	fee, err := calc.Calculate(distanceMethod(), &model.DeliveryContext{
		Subtotal:   dec("60.00"),
		DistanceKM: decPtr("15"),
	})
	require.NoError(t, err)
	assert.Equal(t, "40.00", fee.StringFixed(2))
}

func TestDistanceZoneBoundaryIsInclusive(t *testing.T) {
	calc := NewFeeCalculator()

	fee, err := calc.Calculate(distanceMethod(), &model.DeliveryContext{
		Subtotal:   dec("60.00"),
		DistanceKM: decPtr("10"),
	})
	require.NoError(t, err)
	assert.Equal(t, "20.00", fee.StringFixed(2))
}

func TestDistanceBeyondAllZonesUsesFallback(t *testing.T) {
	calc := NewFeeCalculator()

	fee, err := calc.Calculate(distanceMethod(), &model.DeliveryContext{
		Subtotal:   dec("60.00"),
		DistanceKM: decPtr("100"),
	})
	require.NoError(t, err)
	assert.Equal(t, "50.00", fee.StringFixed(2))
}

func TestUnsortedZonesStillMatchAscending(t *testing.T) {
	calc := NewFeeCalculator()
	m := distanceMethod()
	m.DistanceZones = []model.DistanceZone{
		{UpToKM: dec("50"), Fee: dec("40.00")},
		{UpToKM: dec("10"), Fee: dec("20.00")},
	}

	fee, err := calc.Calculate(m, &model.DeliveryContext{
		Subtotal:   dec("60.00"),
		DistanceKM: decPtr("5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "20.00", fee.StringFixed(2))
}

func TestDistanceFeeWithoutDistanceIsRejected(t *testing.T) {
	calc := NewFeeCalculator()

	_, err := calc.Calculate(distanceMethod(), &model.DeliveryContext{Subtotal: dec("60.00")})
	require.Error(t, err)

	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, model.ErrCodeValidationFailed, appErr.Code)
}

func TestPostalCodeFee(t *testing.T) {
	calc := NewFeeCalculator()
	m := &model.DeliveryMethod{
		ChargeFee: true,
		FeeType:   model.FeeTypeByPostalCode,
		PostalCodeZones: []model.PostalCodeZone{
			{PostalCode: "SW1A", Fee: dec("8.00")},
			{PostalCode: "E1", Fee: dec("12.00")},
		},
		FallbackFeeType:           model.FeeTypePercentage,
		FallbackPercentageFeeRate: dec("5"),
	}

	fee, err := calc.Calculate(m, &model.DeliveryContext{
		Subtotal:   dec("100.00"),
		PostalCode: "sw1a",
	})
	require.NoError(t, err)
	assert.Equal(t, "8.00", fee.StringFixed(2))

	// Unknown postal code falls back to the percentage fee.
	fee, err = calc.Calculate(m, &model.DeliveryContext{
		Subtotal:   dec("100.00"),
		PostalCode: "N7",
	})
	require.NoError(t, err)
	assert.Equal(t, "5.00", fee.StringFixed(2))
}

func TestMisconfiguredMethodIsNeverFree(t *testing.T) {
	calc := NewFeeCalculator()
	ctx := &model.DeliveryContext{Subtotal: dec("100.00"), DistanceKM: decPtr("200")}

	// Flat fee type with no rate.
	_, err := calc.Calculate(&model.DeliveryMethod{
		ChargeFee: true,
		FeeType:   model.FeeTypeFlat,
	}, ctx)
	require.Error(t, err)

	// Distance type with no zones.
	_, err = calc.Calculate(&model.DeliveryMethod{
		ChargeFee: true,
		FeeType:   model.FeeTypeByDistance,
	}, ctx)
	require.Error(t, err)

	// Zone miss with an unusable fallback.
	m := distanceMethod()
	m.FallbackFeeType = ""
	_, err = calc.Calculate(m, ctx)
	require.Error(t, err)

	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, model.ErrCodeFeeConfigInvalid, appErr.Code)
}
