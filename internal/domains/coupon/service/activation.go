package service

import (
	"fmt"
	"strings"
	"time"

	"storefront-backend/internal/domains/coupon/model"
)

// ActivationRule is one qualification constraint on a coupon. Enabled tells
// whether the coupon's switch for this rule is on; Passes decides whether
// the order context satisfies it. Disabled rules impose nothing.
type ActivationRule struct {
	Name    string
	Enabled func(c *model.Coupon) bool
	Passes  func(c *model.Coupon, ctx *model.EvaluationContext, now time.Time) bool
}

// ActivationRuleSet evaluates a coupon's enabled switches as AND-combined
// predicates. All rules are pure over their inputs; the clock is injected.
type ActivationRuleSet struct {
	rules []ActivationRule
}

func NewActivationRuleSet() *ActivationRuleSet {
	return &ActivationRuleSet{rules: defaultRules()}
}

// IsActive reports whether the coupon currently qualifies for the given
// order context. A coupon with zero enabled switches qualifies whenever its
// active flag is set. Predicates never panic: an unusable context field
// fails its own rule closed.
func (s *ActivationRuleSet) IsActive(c *model.Coupon, ctx *model.EvaluationContext, now time.Time) bool {
	return len(s.FailedRules(c, ctx, now)) == 0
}

// FailedRules returns the names of every enabled rule the context does not
// satisfy, in rule order. Empty means the coupon qualifies.
func (s *ActivationRuleSet) FailedRules(c *model.Coupon, ctx *model.EvaluationContext, now time.Time) []string {
	var failed []string

	if !c.Active {
		return []string{"active"}
	}
	if ctx == nil {
		ctx = &model.EvaluationContext{}
	}

	for _, rule := range s.rules {
		if !rule.Enabled(c) {
			continue
		}
		if !rule.Passes(c, ctx, now) {
			failed = append(failed, rule.Name)
		}
	}
	return failed
}

// defaultRules builds the full switch catalogue. Order matches the column
// order on the coupon record; evaluation is order-independent since every
// enabled rule must pass.
func defaultRules() []ActivationRule {
	return []ActivationRule{
		{
			Name:    "code",
			Enabled: func(c *model.Coupon) bool { return c.ActivateUsingCode },
			Passes: func(c *model.Coupon, ctx *model.EvaluationContext, _ time.Time) bool {
				return c.CodeMatches(ctx.SuppliedCode)
			},
		},
		{
			Name:    "start_datetime",
			Enabled: func(c *model.Coupon) bool { return c.ActivateUsingStartDatetime },
			Passes: func(c *model.Coupon, _ *model.EvaluationContext, now time.Time) bool {
				// A switched-on window with no datetime fails closed.
				return c.StartDatetime != nil && !now.Before(*c.StartDatetime)
			},
		},
		{
			Name:    "end_datetime",
			Enabled: func(c *model.Coupon) bool { return c.ActivateUsingEndDatetime },
			Passes: func(c *model.Coupon, _ *model.EvaluationContext, now time.Time) bool {
				return c.EndDatetime != nil && !now.After(*c.EndDatetime)
			},
		},
		{
			Name:    "hours_of_day",
			Enabled: func(c *model.Coupon) bool { return c.ActivateUsingHoursOfDay },
			Passes: func(c *model.Coupon, _ *model.EvaluationContext, now time.Time) bool {
				return containsToken(c.HoursOfDay, HourToken(now))
			},
		},
		{
			Name:    "days_of_the_week",
			Enabled: func(c *model.Coupon) bool { return c.ActivateUsingDaysOfTheWeek },
			Passes: func(c *model.Coupon, _ *model.EvaluationContext, now time.Time) bool {
				return containsToken(c.DaysOfTheWeek, WeekdayToken(now))
			},
		},
		{
			Name:    "days_of_the_month",
			Enabled: func(c *model.Coupon) bool { return c.ActivateUsingDaysOfTheMonth },
			Passes: func(c *model.Coupon, _ *model.EvaluationContext, now time.Time) bool {
				return containsToken(c.DaysOfTheMonth, MonthDayToken(now))
			},
		},
		{
			Name:    "months_of_the_year",
			Enabled: func(c *model.Coupon) bool { return c.ActivateUsingMonthsOfTheYear },
			Passes: func(c *model.Coupon, _ *model.EvaluationContext, now time.Time) bool {
				return containsToken(c.MonthsOfTheYear, MonthToken(now))
			},
		},
		{
			Name:    "usage_limit",
			Enabled: func(c *model.Coupon) bool { return c.ActivateUsingUsageLimit },
			Passes: func(c *model.Coupon, _ *model.EvaluationContext, _ time.Time) bool {
				return c.HasUsageLeft()
			},
		},
		{
			Name:    "minimum_grand_total",
			Enabled: func(c *model.Coupon) bool { return c.ActivateUsingMinimumGrandTotal },
			Passes: func(c *model.Coupon, ctx *model.EvaluationContext, _ time.Time) bool {
				return ctx.Subtotal.GreaterThanOrEqual(c.MinimumGrandTotal)
			},
		},
		{
			Name:    "minimum_total_products",
			Enabled: func(c *model.Coupon) bool { return c.ActivateUsingMinimumTotalProducts },
			Passes: func(c *model.Coupon, ctx *model.EvaluationContext, _ time.Time) bool {
				return ctx.TotalProducts >= c.MinimumTotalProducts
			},
		},
		{
			Name:    "minimum_total_product_quantities",
			Enabled: func(c *model.Coupon) bool { return c.ActivateUsingMinimumTotalProductQuantities },
			Passes: func(c *model.Coupon, ctx *model.EvaluationContext, _ time.Time) bool {
				return ctx.TotalProductQuantities >= c.MinimumTotalProductQuantities
			},
		},
		{
			Name:    "new_customer",
			Enabled: func(c *model.Coupon) bool { return c.ActivateForNewCustomer },
			Passes: func(_ *model.Coupon, ctx *model.EvaluationContext, _ time.Time) bool {
				return ctx.IsNewCustomer
			},
		},
		{
			Name:    "existing_customer",
			Enabled: func(c *model.Coupon) bool { return c.ActivateForExistingCustomer },
			Passes: func(_ *model.Coupon, ctx *model.EvaluationContext, _ time.Time) bool {
				return !ctx.IsNewCustomer
			},
		},
	}
}

// Calendar tokens, matching the stored lowercase enumerations.

// HourToken formats the hour of t as "00:00".."23:00".
func HourToken(t time.Time) string {
	return fmt.Sprintf("%02d:00", t.Hour())
}

// WeekdayToken formats the weekday of t as "monday".."sunday".
func WeekdayToken(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// MonthDayToken formats the day of month of t as "01".."31".
func MonthDayToken(t time.Time) string {
	return fmt.Sprintf("%02d", t.Day())
}

// MonthToken formats the month of t as "january".."december".
func MonthToken(t time.Time) string {
	return strings.ToLower(t.Month().String())
}

func containsToken(set []string, token string) bool {
	for _, v := range set {
		if strings.EqualFold(strings.TrimSpace(v), token) {
			return true
		}
	}
	return false
}
