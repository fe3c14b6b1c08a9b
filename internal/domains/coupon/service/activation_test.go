package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"storefront-backend/internal/domains/coupon/model"
)

// 2026-03-14 is a Saturday.
var testNow = time.Date(2026, time.March, 14, 14, 30, 0, 0, time.UTC)

func activeCoupon() *model.Coupon {
	return &model.Coupon{
		Active:   true,
		Currency: "USD",
	}
}

func TestNoSwitchesEnabledAlwaysQualifies(t *testing.T) {
	rules := NewActivationRuleSet()

	assert.True(t, rules.IsActive(activeCoupon(), &model.EvaluationContext{}, testNow))
	assert.Empty(t, rules.FailedRules(activeCoupon(), nil, testNow))
}

func TestInactiveCouponNeverQualifies(t *testing.T) {
	rules := NewActivationRuleSet()
	c := activeCoupon()
	c.Active = false

	assert.Equal(t, []string{"active"}, rules.FailedRules(c, &model.EvaluationContext{}, testNow))
}

func TestCodeRule(t *testing.T) {
	rules := NewActivationRuleSet()
	c := activeCoupon()
	c.ActivateUsingCode = true
	c.Code = "SUMMER20"

	assert.True(t, rules.IsActive(c, &model.EvaluationContext{SuppliedCode: "SUMMER20"}, testNow))
	assert.True(t, rules.IsActive(c, &model.EvaluationContext{SuppliedCode: "summer20"}, testNow))
	assert.True(t, rules.IsActive(c, &model.EvaluationContext{SuppliedCode: "  summer20  "}, testNow))
	assert.False(t, rules.IsActive(c, &model.EvaluationContext{SuppliedCode: "WINTER10"}, testNow))
	assert.Equal(t, []string{"code"}, rules.FailedRules(c, &model.EvaluationContext{}, testNow))
}

func TestDatetimeWindowRules(t *testing.T) {
	rules := NewActivationRuleSet()
	before := testNow.Add(-time.Hour)
	after := testNow.Add(time.Hour)

	c := activeCoupon()
	c.ActivateUsingStartDatetime = true
	c.StartDatetime = &before
	c.ActivateUsingEndDatetime = true
	c.EndDatetime = &after
	assert.True(t, rules.IsActive(c, nil, testNow))

	// Window boundaries are inclusive.
	assert.True(t, rules.IsActive(c, nil, before))
	assert.True(t, rules.IsActive(c, nil, after))

	assert.False(t, rules.IsActive(c, nil, before.Add(-time.Minute)))
	assert.False(t, rules.IsActive(c, nil, after.Add(time.Minute)))
}

func TestEnabledWindowWithoutDatetimeFailsClosed(t *testing.T) {
	rules := NewActivationRuleSet()
	c := activeCoupon()
	c.ActivateUsingStartDatetime = true
	c.StartDatetime = nil

	assert.Equal(t, []string{"start_datetime"}, rules.FailedRules(c, nil, testNow))
}

func TestCalendarRules(t *testing.T) {
	rules := NewActivationRuleSet()

	c := activeCoupon()
	c.ActivateUsingHoursOfDay = true
	c.HoursOfDay = []string{"13:00", "14:00"}
	c.ActivateUsingDaysOfTheWeek = true
	c.DaysOfTheWeek = []string{"friday", "saturday"}
	c.ActivateUsingDaysOfTheMonth = true
	c.DaysOfTheMonth = []string{"01", "14"}
	c.ActivateUsingMonthsOfTheYear = true
	c.MonthsOfTheYear = []string{"march", "december"}

	assert.True(t, rules.IsActive(c, nil, testNow))

	// Monday 15th of June, 09:xx fails every calendar rule.
	otherNow := time.Date(2026, time.June, 15, 9, 5, 0, 0, time.UTC)
	assert.Equal(t,
		[]string{"hours_of_day", "days_of_the_week", "days_of_the_month", "months_of_the_year"},
		rules.FailedRules(c, nil, otherNow))
}

func TestUsageLimitRule(t *testing.T) {
	rules := NewActivationRuleSet()
	c := activeCoupon()
	c.ActivateUsingUsageLimit = true

	c.RemainingQuantity = 1
	assert.True(t, rules.IsActive(c, nil, testNow))

	// Zero remaining quantity disables the coupon entirely.
	c.RemainingQuantity = 0
	assert.Equal(t, []string{"usage_limit"}, rules.FailedRules(c, nil, testNow))
}

func TestMinimumGrandTotalRule(t *testing.T) {
	rules := NewActivationRuleSet()
	c := activeCoupon()
	c.ActivateUsingMinimumGrandTotal = true
	c.MinimumGrandTotal = decimal.RequireFromString("50.00")

	ctx := &model.EvaluationContext{Subtotal: decimal.RequireFromString("50.00")}
	assert.True(t, rules.IsActive(c, ctx, testNow))

	ctx.Subtotal = decimal.RequireFromString("49.99")
	assert.Equal(t, []string{"minimum_grand_total"}, rules.FailedRules(c, ctx, testNow))
}

func TestMinimumCartSizeRules(t *testing.T) {
	rules := NewActivationRuleSet()
	c := activeCoupon()
	c.ActivateUsingMinimumTotalProducts = true
	c.MinimumTotalProducts = 3
	c.ActivateUsingMinimumTotalProductQuantities = true
	c.MinimumTotalProductQuantities = 5

	ctx := &model.EvaluationContext{TotalProducts: 3, TotalProductQuantities: 5}
	assert.True(t, rules.IsActive(c, ctx, testNow))

	ctx = &model.EvaluationContext{TotalProducts: 2, TotalProductQuantities: 4}
	assert.Equal(t,
		[]string{"minimum_total_products", "minimum_total_product_quantities"},
		rules.FailedRules(c, ctx, testNow))
}

func TestCustomerSegmentRules(t *testing.T) {
	rules := NewActivationRuleSet()

	c := activeCoupon()
	c.ActivateForNewCustomer = true
	assert.True(t, rules.IsActive(c, &model.EvaluationContext{IsNewCustomer: true}, testNow))
	assert.False(t, rules.IsActive(c, &model.EvaluationContext{IsNewCustomer: false}, testNow))

	c = activeCoupon()
	c.ActivateForExistingCustomer = true
	assert.False(t, rules.IsActive(c, &model.EvaluationContext{IsNewCustomer: true}, testNow))
	assert.True(t, rules.IsActive(c, &model.EvaluationContext{IsNewCustomer: false}, testNow))
}

func TestAllEnabledRulesMustPass(t *testing.T) {
	rules := NewActivationRuleSet()
	c := activeCoupon()
	c.ActivateUsingCode = true
	c.Code = "VIP"
	c.ActivateUsingMinimumGrandTotal = true
	c.MinimumGrandTotal = decimal.RequireFromString("100")

	// Code matches but the minimum does not: the coupon fails.
	ctx := &model.EvaluationContext{
		SuppliedCode: "VIP",
		Subtotal:     decimal.RequireFromString("10"),
	}
	assert.Equal(t, []string{"minimum_grand_total"}, rules.FailedRules(c, ctx, testNow))
}

func TestCalendarTokens(t *testing.T) {
	at := time.Date(2026, time.January, 5, 9, 45, 0, 0, time.UTC) // a Monday

	assert.Equal(t, "09:00", HourToken(at))
	assert.Equal(t, "monday", WeekdayToken(at))
	assert.Equal(t, "05", MonthDayToken(at))
	assert.Equal(t, "january", MonthToken(at))

	midnight := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "00:00", HourToken(midnight))
}
