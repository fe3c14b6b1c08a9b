package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"storefront-backend/internal/domains/coupon/model"
)

type ServiceInterface interface {
	// Checkout-facing
	Evaluate(ctx context.Context, storeID uuid.UUID, evalCtx *model.EvaluationContext, now time.Time) (*model.CouponEvaluationResult, error)
	Redeem(ctx context.Context, storeID, id uuid.UUID) error

	// Admin methods
	CreateCoupon(ctx context.Context, storeID uuid.UUID, req *model.CreateCouponRequest) (*model.Coupon, error)
	GetCoupon(ctx context.Context, storeID, id uuid.UUID) (*model.Coupon, error)
	ListCoupons(ctx context.Context, filter *model.ListCouponsFilter) ([]*model.Coupon, int, error)
	UpdateCoupon(ctx context.Context, storeID, id uuid.UUID, req *model.UpdateCouponRequest) (*model.Coupon, error)
	DeleteCoupon(ctx context.Context, storeID, id uuid.UUID) error
}
