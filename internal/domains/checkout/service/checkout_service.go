package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domains/checkout/model"
	couponmodel "storefront-backend/internal/domains/coupon/model"
	couponservice "storefront-backend/internal/domains/coupon/service"
	deliverymodel "storefront-backend/internal/domains/delivery/model"
	deliveryservice "storefront-backend/internal/domains/delivery/service"
)

type ServiceInterface interface {
	EvaluateCoupon(ctx context.Context, req *model.EvaluateCouponRequest, now time.Time) (*model.CouponEvaluationResponse, error)
	ListDeliveryMethods(ctx context.Context, req *model.DeliveryMethodsRequest) ([]*deliverymodel.DeliveryMethodResponse, error)
	EvaluateDeliveryFee(ctx context.Context, req *model.DeliveryFeeRequest) (*model.DeliveryFeeResponse, error)
	ListDeliverySlots(ctx context.Context, req *model.DeliverySlotsRequest, now time.Time) (*model.DeliverySlotsResponse, error)
}

// checkoutService is a thin orchestration layer over the coupon and
// delivery domains. It owns no business rules of its own; it translates
// public checkout requests into domain calls.
type checkoutService struct {
	coupons  couponservice.ServiceInterface
	delivery deliveryservice.ServiceInterface
}

func NewCheckoutService(coupons couponservice.ServiceInterface, delivery deliveryservice.ServiceInterface) ServiceInterface {
	return &checkoutService{coupons: coupons, delivery: delivery}
}

func (s *checkoutService) EvaluateCoupon(ctx context.Context, req *model.EvaluateCouponRequest, now time.Time) (*model.CouponEvaluationResponse, error) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, err
	}

	evalCtx := &couponmodel.EvaluationContext{
		SuppliedCode:           couponmodel.NormalizeCode(req.Code),
		Subtotal:               decimal.NewFromFloat(req.Subtotal),
		TotalProducts:          req.TotalProducts,
		TotalProductQuantities: req.TotalProductQuantities,
		IsNewCustomer:          req.IsNewCustomer,
	}

	result, err := s.coupons.Evaluate(ctx, storeID, evalCtx, now)
	if err != nil {
		return nil, err
	}

	return &model.CouponEvaluationResponse{
		Qualifies:    result.Qualifies,
		FailedRules:  result.FailedRules,
		Discount:     result.Discount,
		FreeDelivery: result.FreeDelivery,
		Coupon:       result.Coupon,
	}, nil
}

func (s *checkoutService) ListDeliveryMethods(ctx context.Context, req *model.DeliveryMethodsRequest) ([]*deliverymodel.DeliveryMethodResponse, error) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, err
	}

	methods, err := s.delivery.ListAvailableMethods(ctx, storeID, decimal.NewFromFloat(req.Subtotal))
	if err != nil {
		return nil, err
	}

	items := make([]*deliverymodel.DeliveryMethodResponse, len(methods))
	for i, method := range methods {
		items[i] = method.ToResponse()
	}
	return items, nil
}

func (s *checkoutService) EvaluateDeliveryFee(ctx context.Context, req *model.DeliveryFeeRequest) (*model.DeliveryFeeResponse, error) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, err
	}
	methodID, err := uuid.Parse(req.DeliveryMethodID)
	if err != nil {
		return nil, err
	}

	delivery := &deliverymodel.DeliveryContext{
		Subtotal:   decimal.NewFromFloat(req.Subtotal),
		PostalCode: req.PostalCode,
	}
	if req.DistanceKM != nil {
		d := decimal.NewFromFloat(*req.DistanceKM)
		delivery.DistanceKM = &d
	}

	result, err := s.delivery.ComputeFee(ctx, storeID, methodID, delivery)
	if err != nil {
		return nil, err
	}

	return &model.DeliveryFeeResponse{
		Fee:          result.FeeDisplay,
		FreeDelivery: result.FreeDelivery,
	}, nil
}

func (s *checkoutService) ListDeliverySlots(ctx context.Context, req *model.DeliverySlotsRequest, now time.Time) (*model.DeliverySlotsResponse, error) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, err
	}
	methodID, err := uuid.Parse(req.DeliveryMethodID)
	if err != nil {
		return nil, err
	}

	requestedDate, err := time.ParseInLocation("2006-01-02", req.Date, now.Location())
	if err != nil {
		return nil, err
	}

	slots, err := s.delivery.ListSlots(ctx, storeID, methodID, requestedDate, now)
	if err != nil {
		return nil, err
	}

	return &model.DeliverySlotsResponse{
		Date:  req.Date,
		Slots: slots,
	}, nil
}
