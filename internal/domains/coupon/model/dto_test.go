package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() CreateCouponRequest {
	return CreateCouponRequest{
		Name:          "Summer Sale",
		Currency:      "USD",
		Active:        true,
		OfferDiscount: true,
		DiscountType:  "percentage",
		DiscountRate:  20,
	}
}

func TestCreateRequestValid(t *testing.T) {
	req := validCreateRequest()
	require.NoError(t, req.Validate())
}

func TestCreateRequestNeedsABenefit(t *testing.T) {
	req := validCreateRequest()
	req.OfferDiscount = false
	req.OfferFreeDelivery = false

	assert.Error(t, req.Validate())
}

func TestFreeDeliveryOnlyCouponIsValid(t *testing.T) {
	req := validCreateRequest()
	req.OfferDiscount = false
	req.DiscountType = ""
	req.DiscountRate = 0
	req.OfferFreeDelivery = true

	assert.NoError(t, req.Validate())
}

func TestPercentageRateCappedAtHundred(t *testing.T) {
	req := validCreateRequest()
	req.DiscountRate = 150

	assert.Error(t, req.Validate())

	// A fixed discount above 100 is fine.
	req.DiscountType = "fixed"
	assert.NoError(t, req.Validate())
}

func TestCodeRequiredWhenSwitchEnabled(t *testing.T) {
	req := validCreateRequest()
	req.ActivateUsingCode = true
	assert.Error(t, req.Validate())

	req.Code = "SUMMER20"
	assert.NoError(t, req.Validate())

	req.Code = "HAS SPACES"
	assert.Error(t, req.Validate())
}

func TestTokenListValidation(t *testing.T) {
	req := validCreateRequest()
	req.ActivateUsingHoursOfDay = true
	req.HoursOfDay = []string{"09:00", "14:00"}
	require.NoError(t, req.Validate())

	req.HoursOfDay = []string{"9am"}
	assert.Error(t, req.Validate())

	req = validCreateRequest()
	req.ActivateUsingDaysOfTheWeek = true
	req.DaysOfTheWeek = []string{"monday", "Friday"}
	assert.Error(t, req.Validate(), "weekday tokens are lowercase")

	req.DaysOfTheWeek = []string{"monday", "friday"}
	assert.NoError(t, req.Validate())

	req = validCreateRequest()
	req.ActivateUsingDaysOfTheMonth = true
	req.DaysOfTheMonth = []string{"1"}
	assert.Error(t, req.Validate(), "month days are zero padded")

	req.DaysOfTheMonth = []string{"01", "15", "31"}
	assert.NoError(t, req.Validate())

	req = validCreateRequest()
	req.ActivateUsingMonthsOfTheYear = true
	req.MonthsOfTheYear = []string{"smarch"}
	assert.Error(t, req.Validate())

	req.MonthsOfTheYear = []string{"march", "december"}
	assert.NoError(t, req.Validate())
}

func TestDatetimeSwitchesRequireValues(t *testing.T) {
	req := validCreateRequest()
	req.ActivateUsingStartDatetime = true
	assert.Error(t, req.Validate())

	start := "2026-06-01T00:00:00Z"
	req.StartDatetime = &start
	assert.NoError(t, req.Validate())

	bad := "June 1st"
	req.StartDatetime = &bad
	assert.Error(t, req.Validate())
}

func TestEndMustFollowStart(t *testing.T) {
	req := validCreateRequest()
	start := "2026-06-30T00:00:00Z"
	end := "2026-06-01T00:00:00Z"
	req.ActivateUsingStartDatetime = true
	req.StartDatetime = &start
	req.ActivateUsingEndDatetime = true
	req.EndDatetime = &end

	assert.Error(t, req.Validate())

	end = "2026-07-31T00:00:00Z"
	req.EndDatetime = &end
	assert.NoError(t, req.Validate())
}

func TestUsageLimitRequiresQuantity(t *testing.T) {
	req := validCreateRequest()
	req.ActivateUsingUsageLimit = true
	req.RemainingQuantity = 0

	assert.Error(t, req.Validate())

	req.RemainingQuantity = 100
	assert.NoError(t, req.Validate())
}

func TestThresholdSwitchesRejectZeroValues(t *testing.T) {
	req := validCreateRequest()
	req.ActivateUsingMinimumGrandTotal = true
	req.MinimumGrandTotal = 0
	assert.Error(t, req.Validate())

	req = validCreateRequest()
	req.ActivateUsingMinimumTotalProducts = true
	req.MinimumTotalProducts = 0
	assert.Error(t, req.Validate())

	req = validCreateRequest()
	req.ActivateUsingMinimumTotalProductQuantities = true
	req.MinimumTotalProductQuantities = 0
	assert.Error(t, req.Validate())

	req = validCreateRequest()
	req.ActivateUsingMinimumGrandTotal = true
	req.MinimumGrandTotal = 50
	req.ActivateUsingMinimumTotalProducts = true
	req.MinimumTotalProducts = 3
	req.ActivateUsingMinimumTotalProductQuantities = true
	req.MinimumTotalProductQuantities = 5
	assert.NoError(t, req.Validate())
}

func TestBothCustomerFlagsRejected(t *testing.T) {
	req := validCreateRequest()
	req.ActivateForNewCustomer = true
	req.ActivateForExistingCustomer = true

	assert.Error(t, req.Validate())
}

func TestNormalizeCode(t *testing.T) {
	req := validCreateRequest()
	req.Code = "  summer20 "
	req.Currency = "usd"
	req.NormalizeCode()

	assert.Equal(t, "SUMMER20", req.Code)
	assert.Equal(t, "USD", req.Currency)
}

func TestCodeMatchesIgnoresCaseAndWhitespace(t *testing.T) {
	c := &Coupon{Code: "SUMMER20"}

	assert.True(t, c.CodeMatches("summer20"))
	assert.True(t, c.CodeMatches(" SUMMER20 "))
	assert.False(t, c.CodeMatches("SUMMER2"))
	assert.False(t, c.CodeMatches(""))
}

func TestListFilterDefaults(t *testing.T) {
	f := &ListCouponsFilter{}
	require.NoError(t, f.Validate())

	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.Limit)
	assert.Equal(t, "all", f.Status)
}

func TestToResponseFormatsBenefits(t *testing.T) {
	c := &Coupon{
		Name:          "Summer Sale",
		Currency:      "USD",
		Active:        true,
		OfferDiscount: true,
		DiscountType:  DiscountTypePercentage,
		DiscountRate:  decimal.RequireFromString("20"),

		ActivateUsingMinimumGrandTotal: true,
		MinimumGrandTotal:              decimal.RequireFromString("50"),

		ActivateUsingUsageLimit: true,
		RemainingQuantity:       7,

		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	resp := c.ToResponse()
	assert.Equal(t, "20%", resp.DiscountRate)
	require.NotNil(t, resp.MinimumGrandTotal)
	assert.Equal(t, "$50.00", resp.MinimumGrandTotal.AmountFormatted)
	require.NotNil(t, resp.RemainingQuantity)
	assert.Equal(t, 7, *resp.RemainingQuantity)
}

func TestToResponseFixedDiscountUsesCurrency(t *testing.T) {
	c := &Coupon{
		Currency:      "NGN",
		OfferDiscount: true,
		DiscountType:  DiscountTypeFixed,
		DiscountRate:  decimal.RequireFromString("500"),
	}

	assert.Equal(t, "₦500.00", c.ToResponse().DiscountRate)
}
