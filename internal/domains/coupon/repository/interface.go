package repository

import (
	"context"

	"github.com/google/uuid"

	"storefront-backend/internal/domains/coupon/model"
)

// CouponRepository defines data access for coupons. All lookups are scoped
// by store.
type CouponRepository interface {
	// Read operations
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Coupon, error)
	FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*model.Coupon, error)
	ListActiveByStore(ctx context.Context, storeID uuid.UUID) ([]*model.Coupon, error)
	List(ctx context.Context, filter *model.ListCouponsFilter) ([]*model.Coupon, int, error)

	// Write operations
	Create(ctx context.Context, coupon *model.Coupon) error
	Update(ctx context.Context, coupon *model.Coupon) error
	SoftDelete(ctx context.Context, storeID, id uuid.UUID) error

	// Redeem decrements remaining_quantity under a row-level guard so two
	// concurrent checkouts cannot over-redeem a limited coupon. Returns
	// model.ErrCouponExhausted when nothing was decremented.
	Redeem(ctx context.Context, storeID, id uuid.UUID) error

	// Utility
	CheckCodeExists(ctx context.Context, storeID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error)
}
