package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-backend/internal/domains/coupon/model"
)

// stubRepo serves a fixed coupon set from memory.
type stubRepo struct {
	coupons     []*model.Coupon
	redeemed    int
	redeemError error
}

func (r *stubRepo) FindByID(_ context.Context, _, id uuid.UUID) (*model.Coupon, error) {
	for _, c := range r.coupons {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, model.ErrAppCouponNotFound
}

func (r *stubRepo) FindByCode(_ context.Context, _ uuid.UUID, code string) (*model.Coupon, error) {
	for _, c := range r.coupons {
		if c.CodeMatches(code) {
			return c, nil
		}
	}
	return nil, model.ErrAppCouponNotFound
}

func (r *stubRepo) ListActiveByStore(_ context.Context, _ uuid.UUID) ([]*model.Coupon, error) {
	var active []*model.Coupon
	for _, c := range r.coupons {
		if c.Active {
			active = append(active, c)
		}
	}
	return active, nil
}

func (r *stubRepo) List(_ context.Context, _ *model.ListCouponsFilter) ([]*model.Coupon, int, error) {
	return r.coupons, len(r.coupons), nil
}

func (r *stubRepo) Create(_ context.Context, coupon *model.Coupon) error {
	coupon.ID = uuid.New()
	r.coupons = append(r.coupons, coupon)
	return nil
}

func (r *stubRepo) Update(_ context.Context, _ *model.Coupon) error { return nil }

func (r *stubRepo) SoftDelete(_ context.Context, _, _ uuid.UUID) error { return nil }

func (r *stubRepo) Redeem(_ context.Context, _, _ uuid.UUID) error {
	if r.redeemError != nil {
		return r.redeemError
	}
	r.redeemed++
	return nil
}

func (r *stubRepo) CheckCodeExists(_ context.Context, _ uuid.UUID, code string, _ *uuid.UUID) (bool, error) {
	for _, c := range r.coupons {
		if c.CodeMatches(code) {
			return true, nil
		}
	}
	return false, nil
}

// noopCache always misses.
type noopCache struct{}

func (noopCache) Get(_ context.Context, _ string, _ interface{}) (bool, error) { return false, nil }
func (noopCache) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}
func (noopCache) Delete(_ context.Context, _ ...string) error     { return nil }
func (noopCache) DeletePattern(_ context.Context, _ string) error { return nil }
func (noopCache) Ping(_ context.Context) error                    { return nil }

func percentCoupon(code string, rate string) *model.Coupon {
	return &model.Coupon{
		ID:                uuid.New(),
		Name:              "Summer Sale",
		Code:              code,
		Active:            true,
		Currency:          "USD",
		OfferDiscount:     true,
		DiscountType:      model.DiscountTypePercentage,
		DiscountRate:      decimal.RequireFromString(rate),
		ActivateUsingCode: code != "",
	}
}

func TestEvaluateByCode(t *testing.T) {
	repo := &stubRepo{coupons: []*model.Coupon{percentCoupon("SUMMER20", "20")}}
	svc := NewCouponService(repo, noopCache{}, time.Minute)

	result, err := svc.Evaluate(context.Background(), uuid.New(), &model.EvaluationContext{
		SuppliedCode: "summer20",
		Subtotal:     decimal.RequireFromString("100.00"),
	}, testNow)

	require.NoError(t, err)
	assert.True(t, result.Qualifies)
	assert.Equal(t, "20.00", result.DiscountAmount.StringFixed(2))
	assert.Equal(t, "$20.00", result.Discount.AmountFormatted)
}

func TestEvaluateUnknownCode(t *testing.T) {
	repo := &stubRepo{}
	svc := NewCouponService(repo, noopCache{}, time.Minute)

	_, err := svc.Evaluate(context.Background(), uuid.New(), &model.EvaluationContext{
		SuppliedCode: "NOPE",
	}, testNow)

	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, model.ErrCodeCouponNotFound, appErr.Code)
}

func TestEvaluateNonQualifyingCouponIsNotAnError(t *testing.T) {
	coupon := percentCoupon("SUMMER20", "20")
	coupon.ActivateUsingMinimumGrandTotal = true
	coupon.MinimumGrandTotal = decimal.RequireFromString("100")

	repo := &stubRepo{coupons: []*model.Coupon{coupon}}
	svc := NewCouponService(repo, noopCache{}, time.Minute)

	result, err := svc.Evaluate(context.Background(), uuid.New(), &model.EvaluationContext{
		SuppliedCode: "SUMMER20",
		Subtotal:     decimal.RequireFromString("50.00"),
	}, testNow)

	require.NoError(t, err)
	assert.False(t, result.Qualifies)
	assert.Equal(t, []string{"minimum_grand_total"}, result.FailedRules)
	assert.True(t, result.DiscountAmount.IsZero())
	assert.Equal(t, "$0.00", result.Discount.AmountFormatted)
}

func TestEvaluateWithoutCodeSkipsCodeCoupons(t *testing.T) {
	coded := percentCoupon("SECRET", "50")
	automatic := percentCoupon("", "10")

	repo := &stubRepo{coupons: []*model.Coupon{coded, automatic}}
	svc := NewCouponService(repo, noopCache{}, time.Minute)

	result, err := svc.Evaluate(context.Background(), uuid.New(), &model.EvaluationContext{
		Subtotal: decimal.RequireFromString("100.00"),
	}, testNow)

	require.NoError(t, err)
	assert.True(t, result.Qualifies)
	// The coded coupon must not apply itself; the automatic 10% one wins.
	assert.Equal(t, "10.00", result.DiscountAmount.StringFixed(2))
}

func TestEvaluateWithoutCodeNoMatch(t *testing.T) {
	repo := &stubRepo{coupons: []*model.Coupon{percentCoupon("SECRET", "50")}}
	svc := NewCouponService(repo, noopCache{}, time.Minute)

	result, err := svc.Evaluate(context.Background(), uuid.New(), &model.EvaluationContext{
		Subtotal: decimal.RequireFromString("100.00"),
	}, testNow)

	require.NoError(t, err)
	assert.False(t, result.Qualifies)
	assert.True(t, result.DiscountAmount.IsZero())
}

func TestRedeemPropagatesExhaustion(t *testing.T) {
	repo := &stubRepo{redeemError: model.ErrCouponExhausted}
	svc := NewCouponService(repo, noopCache{}, time.Minute)

	err := svc.Redeem(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, model.ErrCouponExhausted)
}

func TestCreateCouponRejectsDuplicateCode(t *testing.T) {
	repo := &stubRepo{coupons: []*model.Coupon{percentCoupon("SUMMER20", "20")}}
	svc := NewCouponService(repo, noopCache{}, time.Minute)

	req := &model.CreateCouponRequest{
		Name:              "Second Summer",
		Currency:          "USD",
		Active:            true,
		OfferDiscount:     true,
		DiscountType:      "percentage",
		DiscountRate:      10,
		ActivateUsingCode: true,
		Code:              "summer20",
	}

	_, err := svc.CreateCoupon(context.Background(), uuid.New(), req)

	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, model.ErrCodeDuplicateCode, appErr.Code)
}

func TestUpdateCannotRemoveLastBenefit(t *testing.T) {
	coupon := percentCoupon("SUMMER20", "20")
	repo := &stubRepo{coupons: []*model.Coupon{coupon}}
	svc := NewCouponService(repo, noopCache{}, time.Minute)

	off := false
	_, err := svc.UpdateCoupon(context.Background(), coupon.StoreID, coupon.ID, &model.UpdateCouponRequest{
		OfferDiscount: &off,
	})

	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, model.ErrCodeValidationFailed, appErr.Code)
}
