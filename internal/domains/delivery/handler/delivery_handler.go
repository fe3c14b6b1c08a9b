package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-backend/internal/domains/delivery/model"
	"storefront-backend/internal/domains/delivery/service"
	"storefront-backend/internal/shared/middleware"
	"storefront-backend/internal/shared/response"
	"storefront-backend/pkg/logger"
)

// DeliveryHandler exposes admin CRUD for a store's delivery methods.
type DeliveryHandler struct {
	service service.ServiceInterface
}

func NewDeliveryHandler(deliveryService service.ServiceInterface) *DeliveryHandler {
	return &DeliveryHandler{service: deliveryService}
}

// Create handles POST /admin/delivery-methods
func (h *DeliveryHandler) Create(c *gin.Context) {
	var req model.CreateDeliveryMethodRequest
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
	method, err := h.service.CreateMethod(c.Request.Context(), storeID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, method.ToResponse())
}

// Get handles GET /admin/delivery-methods/:id
func (h *DeliveryHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid delivery method id")
		return
	}

	storeID := middleware.StoreIDFromContext(c)
	method, err := h.service.GetMethod(c.Request.Context(), storeID, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, method.ToResponse())
}

// List handles GET /admin/delivery-methods
func (h *DeliveryHandler) List(c *gin.Context) {
	var filter model.ListDeliveryMethodsFilter
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
	methods, total, err := h.service.ListMethods(c.Request.Context(), &filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	items := make([]*model.DeliveryMethodResponse, len(methods))
	for i, method := range methods {
		items[i] = method.ToResponse()
	}

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

// Update handles PATCH /admin/delivery-methods/:id
func (h *DeliveryHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid delivery method id")
		return
	}

	var req model.UpdateDeliveryMethodRequest
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
	method, err := h.service.UpdateMethod(c.Request.Context(), storeID, id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, method.ToResponse())
}

// Delete handles DELETE /admin/delivery-methods/:id
func (h *DeliveryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid delivery method id")
		return
	}

	storeID := middleware.StoreIDFromContext(c)
	if err := h.service.DeleteMethod(c.Request.Context(), storeID, id); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *DeliveryHandler) handleError(c *gin.Context, err error) {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		response.ErrorWithDetails(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message, appErr.Details)
		return
	}

	logger.Error("delivery handler error", err)
	response.InternalServerError(c, "something went wrong")
}
