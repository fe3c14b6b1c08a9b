package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domains/delivery/model"
)

type ServiceInterface interface {
	// Checkout-facing
	ComputeFee(ctx context.Context, storeID, methodID uuid.UUID, delivery *model.DeliveryContext) (*model.FeeResult, error)
	ListSlots(ctx context.Context, storeID, methodID uuid.UUID, requestedDate, now time.Time) ([]model.TimeSlot, error)
	ListAvailableMethods(ctx context.Context, storeID uuid.UUID, subtotal decimal.Decimal) ([]*model.DeliveryMethod, error)

	// Admin methods
	CreateMethod(ctx context.Context, storeID uuid.UUID, req *model.CreateDeliveryMethodRequest) (*model.DeliveryMethod, error)
	GetMethod(ctx context.Context, storeID, id uuid.UUID) (*model.DeliveryMethod, error)
	ListMethods(ctx context.Context, filter *model.ListDeliveryMethodsFilter) ([]*model.DeliveryMethod, int, error)
	UpdateMethod(ctx context.Context, storeID, id uuid.UUID, req *model.UpdateDeliveryMethodRequest) (*model.DeliveryMethod, error)
	DeleteMethod(ctx context.Context, storeID, id uuid.UUID) error
}
