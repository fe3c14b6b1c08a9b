package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"storefront-backend/internal/domains/delivery/model"
)

type DeliveryRepository interface {
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.DeliveryMethod, error)
	ListActiveByStore(ctx context.Context, storeID uuid.UUID) ([]*model.DeliveryMethod, error)
	List(ctx context.Context, filter *model.ListDeliveryMethodsFilter) ([]*model.DeliveryMethod, int, error)
	Create(ctx context.Context, method *model.DeliveryMethod) error
	Update(ctx context.Context, method *model.DeliveryMethod) error
	SoftDelete(ctx context.Context, storeID, id uuid.UUID) error

	// CountBookingsByWindow returns, per slot window label, how many orders
	// are already booked against the method on the given date.
	CountBookingsByWindow(ctx context.Context, methodID uuid.UUID, date time.Time) (map[string]int, error)
}
