package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-backend/internal/domains/coupon/model"
	"storefront-backend/internal/domains/coupon/service"
	"storefront-backend/internal/shared/middleware"
	"storefront-backend/internal/shared/response"
	"storefront-backend/pkg/logger"
)

// CouponHandler exposes admin CRUD and redemption for a store's coupons.
type CouponHandler struct {
	service service.ServiceInterface
}

func NewCouponHandler(couponService service.ServiceInterface) *CouponHandler {
	return &CouponHandler{service: couponService}
}

// Create handles POST /admin/coupons
func (h *CouponHandler) Create(c *gin.Context) {
	var req model.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest,
			string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	storeID := middleware.StoreIDFromContext(c)
	coupon, err := h.service.CreateCoupon(c.Request.Context(), storeID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, coupon.ToResponse())
}

// Get handles GET /admin/coupons/:id
func (h *CouponHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid coupon id")
		return
	}

	storeID := middleware.StoreIDFromContext(c)
	coupon, err := h.service.GetCoupon(c.Request.Context(), storeID, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, coupon.ToResponse())
}

// List handles GET /admin/coupons
func (h *CouponHandler) List(c *gin.Context) {
	var filter model.ListCouponsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	if err := filter.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest,
			string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	filter.StoreID = middleware.StoreIDFromContext(c)
	coupons, total, err := h.service.ListCoupons(c.Request.Context(), &filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	items := make([]*model.CouponResponse, len(coupons))
	for i, coupon := range coupons {
		items[i] = coupon.ToResponse()
	}

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

// Update handles PATCH /admin/coupons/:id
func (h *CouponHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid coupon id")
		return
	}

	var req model.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest,
			string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	storeID := middleware.StoreIDFromContext(c)
	coupon, err := h.service.UpdateCoupon(c.Request.Context(), storeID, id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, coupon.ToResponse())
}

// Delete handles DELETE /admin/coupons/:id
func (h *CouponHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid coupon id")
		return
	}

	storeID := middleware.StoreIDFromContext(c)
	if err := h.service.DeleteCoupon(c.Request.Context(), storeID, id); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Redeem handles POST /admin/coupons/:id/redeem. Called by the order
// pipeline once payment succeeds.
func (h *CouponHandler) Redeem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid coupon id")
		return
	}

	storeID := middleware.StoreIDFromContext(c)
	if err := h.service.Redeem(c.Request.Context(), storeID, id); err != nil {
		if errors.Is(err, model.ErrCouponExhausted) {
			response.ErrorResponse(c, http.StatusConflict,
				string(model.ErrCodeCannotRedeem), "coupon has no remaining uses")
			return
		}
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"redeemed": true})
}

func (h *CouponHandler) handleError(c *gin.Context, err error) {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		response.ErrorWithDetails(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message, appErr.Details)
		return
	}

	logger.Error("coupon handler error", err)
	response.InternalServerError(c, "something went wrong")
}
