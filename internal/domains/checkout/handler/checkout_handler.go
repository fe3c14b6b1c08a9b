package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/domains/checkout/model"
	"storefront-backend/internal/domains/checkout/service"
	couponmodel "storefront-backend/internal/domains/coupon/model"
	deliverymodel "storefront-backend/internal/domains/delivery/model"
	"storefront-backend/internal/shared/response"
	"storefront-backend/pkg/logger"
)

// CheckoutHandler exposes the public, unauthenticated checkout endpoints.
// The wall clock enters the domain here, anchored to the store platform's
// configured timezone; everything below receives an explicit timestamp.
type CheckoutHandler struct {
	service service.ServiceInterface
	nowFunc func() time.Time
}

func NewCheckoutHandler(checkoutService service.ServiceInterface, loc *time.Location) *CheckoutHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &CheckoutHandler{
		service: checkoutService,
		nowFunc: func() time.Time { return time.Now().In(loc) },
	}
}

// EvaluateCoupon handles POST /checkout/coupon/evaluate
func (h *CheckoutHandler) EvaluateCoupon(c *gin.Context) {
	var req model.EvaluateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest,
			string(couponmodel.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	result, err := h.service.EvaluateCoupon(c.Request.Context(), &req, h.nowFunc())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ListDeliveryMethods handles POST /checkout/delivery-methods
func (h *CheckoutHandler) ListDeliveryMethods(c *gin.Context) {
	var req model.DeliveryMethodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest,
			string(deliverymodel.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	methods, err := h.service.ListDeliveryMethods(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, methods)
}

// EvaluateDeliveryFee handles POST /checkout/delivery-fee
func (h *CheckoutHandler) EvaluateDeliveryFee(c *gin.Context) {
	var req model.DeliveryFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest,
			string(deliverymodel.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	result, err := h.service.EvaluateDeliveryFee(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ListDeliverySlots handles GET /checkout/delivery-slots
func (h *CheckoutHandler) ListDeliverySlots(c *gin.Context) {
	var req model.DeliverySlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest,
			string(deliverymodel.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	result, err := h.service.ListDeliverySlots(c.Request.Context(), &req, h.nowFunc())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *CheckoutHandler) handleError(c *gin.Context, err error) {
	var couponErr *couponmodel.AppError
	if errors.As(err, &couponErr) {
		response.ErrorWithDetails(c, couponErr.HTTPStatus, string(couponErr.Code), couponErr.Message, couponErr.Details)
		return
	}

	var deliveryErr *deliverymodel.AppError
	if errors.As(err, &deliveryErr) {
		response.ErrorWithDetails(c, deliveryErr.HTTPStatus, string(deliveryErr.Code), deliveryErr.Message, deliveryErr.Details)
		return
	}

	logger.Error("checkout handler error", err)
	response.InternalServerError(c, "something went wrong")
}
