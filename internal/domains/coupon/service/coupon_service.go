package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domains/coupon/model"
	"storefront-backend/internal/domains/coupon/repository"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/money"
)

// couponService carries the coupon business logic: admin CRUD plus the
// checkout-facing evaluation and guarded redemption.
type couponService struct {
	repo       repository.CouponRepository
	rules      *ActivationRuleSet
	calculator *DiscountCalculator
	cache      cache.Cache
	cacheTTL   time.Duration
}

func NewCouponService(repo repository.CouponRepository, c cache.Cache, cacheTTL time.Duration) ServiceInterface {
	return &couponService{
		repo:       repo,
		rules:      NewActivationRuleSet(),
		calculator: NewDiscountCalculator(),
		cache:      c,
		cacheTTL:   cacheTTL,
	}
}

func couponCodeKey(storeID uuid.UUID, code string) string {
	return fmt.Sprintf("coupon:%s:code:%s", storeID, code)
}

func couponStorePattern(storeID uuid.UUID) string {
	return fmt.Sprintf("coupon:%s:*", storeID)
}

// -------------------------------------------------------------------
// CHECKOUT-FACING
// -------------------------------------------------------------------

// Evaluate holds a store's coupon against the order context.
//
// Flow:
//  1. Resolve the coupon: by supplied code when present, otherwise the
//     store's active codeless coupons are tried in recency order and the
//     first qualifying one wins.
//  2. Run the activation rule set against the context and injected clock.
//  3. Compute the discount for qualifying coupons.
//
// A coupon that does not qualify is a normal result with Qualifies=false
// and the failed rule names; only lookup/config problems are errors.
func (s *couponService) Evaluate(ctx context.Context, storeID uuid.UUID, evalCtx *model.EvaluationContext, now time.Time) (*model.CouponEvaluationResult, error) {
	if evalCtx.SuppliedCode != "" {
		coupon, err := s.findByCodeCached(ctx, storeID, evalCtx.SuppliedCode)
		if err != nil {
			return nil, err
		}
		return s.evaluateOne(coupon, evalCtx, now), nil
	}

	// No code supplied: consider only coupons that do not require one.
	coupons, err := s.repo.ListActiveByStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list active coupons: %w", err)
	}

	for _, coupon := range coupons {
		if coupon.ActivateUsingCode {
			continue
		}
		if result := s.evaluateOne(coupon, evalCtx, now); result.Qualifies {
			return result, nil
		}
	}

	return &model.CouponEvaluationResult{
		Qualifies:      false,
		DiscountAmount: decimal.Zero,
	}, nil
}

func (s *couponService) evaluateOne(coupon *model.Coupon, evalCtx *model.EvaluationContext, now time.Time) *model.CouponEvaluationResult {
	failed := s.rules.FailedRules(coupon, evalCtx, now)
	if len(failed) > 0 {
		return &model.CouponEvaluationResult{
			Qualifies:      false,
			FailedRules:    failed,
			DiscountAmount: decimal.Zero,
			Discount:       money.Zero(coupon.Currency).Format(),
			Coupon:         coupon.ToResponse(),
		}
	}

	discount := s.calculator.Calculate(coupon, evalCtx.Subtotal)
	return &model.CouponEvaluationResult{
		Qualifies:      true,
		DiscountAmount: discount.DiscountAmount,
		Discount:       money.New(discount.DiscountAmount, coupon.Currency).Format(),
		FreeDelivery:   discount.GrantsFreeDelivery,
		Coupon:         coupon.ToResponse(),
	}
}

// Redeem burns one use of a usage-limited coupon. The repository performs
// the decrement under a row guard; exhaustion surfaces as
// model.ErrCouponExhausted.
func (s *couponService) Redeem(ctx context.Context, storeID, id uuid.UUID) error {
	if err := s.repo.Redeem(ctx, storeID, id); err != nil {
		return err
	}
	s.invalidateStore(ctx, storeID)
	return nil
}

func (s *couponService) findByCodeCached(ctx context.Context, storeID uuid.UUID, code string) (*model.Coupon, error) {
	key := couponCodeKey(storeID, code)

	var cached model.Coupon
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	coupon, err := s.repo.FindByCode(ctx, storeID, code)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, coupon, s.cacheTTL); err != nil {
		logger.Warn("coupon cache set failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return coupon, nil
}

func (s *couponService) invalidateStore(ctx context.Context, storeID uuid.UUID) {
	if err := s.cache.DeletePattern(ctx, couponStorePattern(storeID)); err != nil {
		logger.Warn("coupon cache invalidation failed", map[string]interface{}{
			"store_id": storeID.String(),
			"error":    err.Error(),
		})
	}
}

// -------------------------------------------------------------------
// ADMIN METHODS
// -------------------------------------------------------------------

func (s *couponService) CreateCoupon(ctx context.Context, storeID uuid.UUID, req *model.CreateCouponRequest) (*model.Coupon, error) {
	req.NormalizeCode()

	if req.ActivateUsingCode {
		exists, err := s.repo.CheckCodeExists(ctx, storeID, req.Code, nil)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &model.AppError{
				Code:       model.ErrCodeDuplicateCode,
				Message:    fmt.Sprintf("coupon code %q already exists for this store", req.Code),
				HTTPStatus: 400,
			}
		}
	}

	coupon, err := buildCoupon(storeID, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, coupon); err != nil {
		return nil, err
	}

	s.invalidateStore(ctx, storeID)
	return coupon, nil
}

func (s *couponService) GetCoupon(ctx context.Context, storeID, id uuid.UUID) (*model.Coupon, error) {
	return s.repo.FindByID(ctx, storeID, id)
}

func (s *couponService) ListCoupons(ctx context.Context, filter *model.ListCouponsFilter) ([]*model.Coupon, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *couponService) UpdateCoupon(ctx context.Context, storeID, id uuid.UUID, req *model.UpdateCouponRequest) (*model.Coupon, error) {
	existing, err := s.repo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Description != nil {
		updated.Description = req.Description
	}
	if req.Active != nil {
		updated.Active = *req.Active
	}
	if req.OfferDiscount != nil {
		updated.OfferDiscount = *req.OfferDiscount
	}
	if req.DiscountType != nil {
		updated.DiscountType = model.DiscountType(*req.DiscountType)
	}
	if req.DiscountRate != nil {
		updated.DiscountRate = decimal.NewFromFloat(*req.DiscountRate)
	}
	if req.OfferFreeDelivery != nil {
		updated.OfferFreeDelivery = *req.OfferFreeDelivery
	}
	if req.RemainingQuantity != nil {
		updated.RemainingQuantity = *req.RemainingQuantity
	}

	// The one-benefit invariant must survive partial updates.
	if !updated.OfferDiscount && !updated.OfferFreeDelivery {
		return nil, &model.AppError{
			Code:       model.ErrCodeValidationFailed,
			Message:    model.ErrNoBenefitConfigured.Error(),
			HTTPStatus: 400,
		}
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	s.invalidateStore(ctx, storeID)
	return &updated, nil
}

func (s *couponService) DeleteCoupon(ctx context.Context, storeID, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, storeID, id); err != nil {
		return err
	}
	s.invalidateStore(ctx, storeID)
	return nil
}

// buildCoupon maps a validated create request onto the entity.
func buildCoupon(storeID uuid.UUID, req *model.CreateCouponRequest) (*model.Coupon, error) {
	coupon := &model.Coupon{
		StoreID:           storeID,
		Name:              req.Name,
		Description:       req.Description,
		Code:              req.Code,
		Active:            req.Active,
		Currency:          req.Currency,
		OfferDiscount:     req.OfferDiscount,
		DiscountType:      model.DiscountType(req.DiscountType),
		DiscountRate:      decimal.NewFromFloat(req.DiscountRate),
		OfferFreeDelivery: req.OfferFreeDelivery,

		ActivateUsingCode:          req.ActivateUsingCode,
		ActivateUsingStartDatetime: req.ActivateUsingStartDatetime,
		ActivateUsingEndDatetime:   req.ActivateUsingEndDatetime,

		ActivateUsingHoursOfDay:      req.ActivateUsingHoursOfDay,
		HoursOfDay:                   req.HoursOfDay,
		ActivateUsingDaysOfTheWeek:   req.ActivateUsingDaysOfTheWeek,
		DaysOfTheWeek:                req.DaysOfTheWeek,
		ActivateUsingDaysOfTheMonth:  req.ActivateUsingDaysOfTheMonth,
		DaysOfTheMonth:               req.DaysOfTheMonth,
		ActivateUsingMonthsOfTheYear: req.ActivateUsingMonthsOfTheYear,
		MonthsOfTheYear:              req.MonthsOfTheYear,

		ActivateUsingUsageLimit: req.ActivateUsingUsageLimit,
		RemainingQuantity:       req.RemainingQuantity,

		ActivateUsingMinimumGrandTotal:             req.ActivateUsingMinimumGrandTotal,
		MinimumGrandTotal:                          decimal.NewFromFloat(req.MinimumGrandTotal),
		ActivateUsingMinimumTotalProducts:          req.ActivateUsingMinimumTotalProducts,
		MinimumTotalProducts:                       req.MinimumTotalProducts,
		ActivateUsingMinimumTotalProductQuantities: req.ActivateUsingMinimumTotalProductQuantities,
		MinimumTotalProductQuantities:              req.MinimumTotalProductQuantities,

		ActivateForNewCustomer:      req.ActivateForNewCustomer,
		ActivateForExistingCustomer: req.ActivateForExistingCustomer,
	}

	if req.StartDatetime != nil {
		t, err := time.Parse(time.RFC3339, *req.StartDatetime)
		if err != nil {
			return nil, &model.AppError{
				Code:       model.ErrCodeValidationFailed,
				Message:    "invalid start_datetime format",
				HTTPStatus: 400,
			}
		}
		coupon.StartDatetime = &t
	}

	if req.EndDatetime != nil {
		t, err := time.Parse(time.RFC3339, *req.EndDatetime)
		if err != nil {
			return nil, &model.AppError{
				Code:       model.ErrCodeValidationFailed,
				Message:    "invalid end_datetime format",
				HTTPStatus: 400,
			}
		}
		coupon.EndDatetime = &t
	}

	return coupon, nil
}
