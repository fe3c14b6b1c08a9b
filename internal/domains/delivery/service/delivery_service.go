package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domains/delivery/model"
	"storefront-backend/internal/domains/delivery/repository"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/money"
)

// deliveryService carries delivery pricing, scheduling and admin CRUD.
type deliveryService struct {
	repo      repository.DeliveryRepository
	fees      *FeeCalculator
	scheduler *ScheduleGenerator
	cache     cache.Cache
	cacheTTL  time.Duration
}

func NewDeliveryService(repo repository.DeliveryRepository, c cache.Cache, cacheTTL time.Duration) ServiceInterface {
	return &deliveryService{
		repo:      repo,
		fees:      NewFeeCalculator(),
		scheduler: NewScheduleGenerator(),
		cache:     c,
		cacheTTL:  cacheTTL,
	}
}

func methodKey(storeID, id uuid.UUID) string {
	return fmt.Sprintf("delivery:%s:method:%s", storeID, id)
}

func deliveryStorePattern(storeID uuid.UUID) string {
	return fmt.Sprintf("delivery:%s:*", storeID)
}

// -------------------------------------------------------------------
// CHECKOUT-FACING
// -------------------------------------------------------------------

func (s *deliveryService) ComputeFee(ctx context.Context, storeID, methodID uuid.UUID, delivery *model.DeliveryContext) (*model.FeeResult, error) {
	method, err := s.findByIDCached(ctx, storeID, methodID)
	if err != nil {
		return nil, err
	}

	fee, err := s.fees.Calculate(method, delivery)
	if err != nil {
		return nil, err
	}

	return &model.FeeResult{
		Fee:          fee,
		FeeDisplay:   money.New(fee, method.Currency).Format(),
		FreeDelivery: fee.IsZero(),
	}, nil
}

func (s *deliveryService) ListSlots(ctx context.Context, storeID, methodID uuid.UUID, requestedDate, now time.Time) ([]model.TimeSlot, error) {
	method, err := s.findByIDCached(ctx, storeID, methodID)
	if err != nil {
		return nil, err
	}

	var counts map[string]int
	if method.SetDailyOrderLimit {
		counts, err = s.repo.CountBookingsByWindow(ctx, methodID, requestedDate)
		if err != nil {
			return nil, err
		}
	}

	return s.scheduler.Generate(method, requestedDate, now, counts)
}

// ListAvailableMethods returns the store's active methods the cart
// currently qualifies for.
func (s *deliveryService) ListAvailableMethods(ctx context.Context, storeID uuid.UUID, subtotal decimal.Decimal) ([]*model.DeliveryMethod, error) {
	methods, err := s.repo.ListActiveByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	available := make([]*model.DeliveryMethod, 0, len(methods))
	for _, method := range methods {
		if method.Qualifies(subtotal) {
			available = append(available, method)
		}
	}
	return available, nil
}

func (s *deliveryService) findByIDCached(ctx context.Context, storeID, id uuid.UUID) (*model.DeliveryMethod, error) {
	key := methodKey(storeID, id)

	var cached model.DeliveryMethod
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	method, err := s.repo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, method, s.cacheTTL); err != nil {
		logger.Warn("delivery cache set failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return method, nil
}

func (s *deliveryService) invalidateStore(ctx context.Context, storeID uuid.UUID) {
	if err := s.cache.DeletePattern(ctx, deliveryStorePattern(storeID)); err != nil {
		logger.Warn("delivery cache invalidation failed", map[string]interface{}{
			"store_id": storeID.String(),
			"error":    err.Error(),
		})
	}
}

// -------------------------------------------------------------------
// ADMIN METHODS
// -------------------------------------------------------------------

func (s *deliveryService) CreateMethod(ctx context.Context, storeID uuid.UUID, req *model.CreateDeliveryMethodRequest) (*model.DeliveryMethod, error) {
	method := buildMethod(storeID, req)
	if err := s.repo.Create(ctx, method); err != nil {
		return nil, err
	}
	s.invalidateStore(ctx, storeID)
	return method, nil
}

func (s *deliveryService) GetMethod(ctx context.Context, storeID, id uuid.UUID) (*model.DeliveryMethod, error) {
	return s.repo.FindByID(ctx, storeID, id)
}

func (s *deliveryService) ListMethods(ctx context.Context, filter *model.ListDeliveryMethodsFilter) ([]*model.DeliveryMethod, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *deliveryService) UpdateMethod(ctx context.Context, storeID, id uuid.UUID, req *model.UpdateDeliveryMethodRequest) (*model.DeliveryMethod, error) {
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
	if req.QualifyOnMinimumGrandTotal != nil {
		updated.QualifyOnMinimumGrandTotal = *req.QualifyOnMinimumGrandTotal
	}
	if req.MinimumGrandTotal != nil {
		updated.MinimumGrandTotal = decimal.NewFromFloat(*req.MinimumGrandTotal)
	}
	if req.OfferFreeDeliveryOnMinimumGrandTotal != nil {
		updated.OfferFreeDeliveryOnMinimumGrandTotal = *req.OfferFreeDeliveryOnMinimumGrandTotal
	}
	if req.FreeDeliveryMinimumGrandTotal != nil {
		updated.FreeDeliveryMinimumGrandTotal = decimal.NewFromFloat(*req.FreeDeliveryMinimumGrandTotal)
	}
	if req.ChargeFee != nil {
		updated.ChargeFee = *req.ChargeFee
	}
	if req.FeeType != nil {
		updated.FeeType = model.FeeType(*req.FeeType)
	}
	if req.FlatFeeRate != nil {
		updated.FlatFeeRate = decimal.NewFromFloat(*req.FlatFeeRate)
	}
	if req.PercentageFeeRate != nil {
		updated.PercentageFeeRate = decimal.NewFromFloat(*req.PercentageFeeRate)
	}
	if req.SetDailyOrderLimit != nil {
		updated.SetDailyOrderLimit = *req.SetDailyOrderLimit
	}
	if req.DailyOrderLimit != nil {
		updated.DailyOrderLimit = *req.DailyOrderLimit
	}

	// A method that charges a fee must still be able to price one after
	// the merge.
	if updated.ChargeFee {
		switch updated.FeeType {
		case model.FeeTypeFlat:
			if updated.FlatFeeRate.LessThanOrEqual(decimal.Zero) {
				return nil, model.NewFeeConfigError("flat_fee_rate is not set")
			}
		case model.FeeTypePercentage:
			if updated.PercentageFeeRate.LessThanOrEqual(decimal.Zero) {
				return nil, model.NewFeeConfigError("percentage_fee_rate is not set")
			}
		}
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	s.invalidateStore(ctx, storeID)
	return &updated, nil
}

func (s *deliveryService) DeleteMethod(ctx context.Context, storeID, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, storeID, id); err != nil {
		return err
	}
	s.invalidateStore(ctx, storeID)
	return nil
}

func buildMethod(storeID uuid.UUID, req *model.CreateDeliveryMethodRequest) *model.DeliveryMethod {
	method := &model.DeliveryMethod{
		StoreID:     storeID,
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
		Currency:    req.Currency,

		QualifyOnMinimumGrandTotal: req.QualifyOnMinimumGrandTotal,
		MinimumGrandTotal:          decimal.NewFromFloat(req.MinimumGrandTotal),

		OfferFreeDeliveryOnMinimumGrandTotal: req.OfferFreeDeliveryOnMinimumGrandTotal,
		FreeDeliveryMinimumGrandTotal:        decimal.NewFromFloat(req.FreeDeliveryMinimumGrandTotal),

		ChargeFee:         req.ChargeFee,
		FeeType:           model.FeeType(req.FeeType),
		FlatFeeRate:       decimal.NewFromFloat(req.FlatFeeRate),
		PercentageFeeRate: decimal.NewFromFloat(req.PercentageFeeRate),

		FallbackFeeType:           model.FeeType(req.FallbackFeeType),
		FallbackFlatFeeRate:       decimal.NewFromFloat(req.FallbackFlatFeeRate),
		FallbackPercentageFeeRate: decimal.NewFromFloat(req.FallbackPercentageFeeRate),

		OperationalHours:      req.OperationalHours,
		AutoGenerateTimeSlots: req.AutoGenerateTimeSlots,
		TimeSlotIntervalValue: req.TimeSlotIntervalValue,
		TimeSlotIntervalUnit:  model.TimeSlotUnit(req.TimeSlotIntervalUnit),

		RequireMinimumNoticeForOrders:  req.RequireMinimumNoticeForOrders,
		EarliestDeliveryTime:           req.EarliestDeliveryTime,
		RestrictMaximumNoticeForOrders: req.RestrictMaximumNoticeForOrders,
		LatestDeliveryTime:             req.LatestDeliveryTime,

		SetDailyOrderLimit: req.SetDailyOrderLimit,
		DailyOrderLimit:    req.DailyOrderLimit,
	}

	for _, z := range req.DistanceZones {
		method.DistanceZones = append(method.DistanceZones, model.DistanceZone{
			UpToKM: decimal.NewFromFloat(z.UpToKM),
			Fee:    decimal.NewFromFloat(z.Fee),
		})
	}
	for _, z := range req.PostalCodeZones {
		method.PostalCodeZones = append(method.PostalCodeZones, model.PostalCodeZone{
			PostalCode: z.PostalCode,
			Fee:        decimal.NewFromFloat(z.Fee),
		})
	}

	return method
}
