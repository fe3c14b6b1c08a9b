package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/shared/middleware"
	"storefront-backend/internal/shared/response"
	"storefront-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupCheckoutRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// setupCheckoutRoutes wires the public storefront endpoints. They are
// unauthenticated; the store is identified by the request payload.
func setupCheckoutRoutes(v1 *gin.RouterGroup, c *container.Container) {
	checkout := v1.Group("/checkout")
	{
		checkout.POST("/coupon/evaluate", c.CheckoutHandler.EvaluateCoupon)
		checkout.POST("/delivery-methods", c.CheckoutHandler.ListDeliveryMethods)
		checkout.POST("/delivery-fee", c.CheckoutHandler.EvaluateDeliveryFee)
		checkout.GET("/delivery-slots", c.CheckoutHandler.ListDeliverySlots)
	}
}

// setupAdminRoutes wires the store owner API. The JWT carries the store
// scope; every handler reads it from the request context.
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.Auth(c.JWTManager))
	{
		coupons := admin.Group("/coupons")
		{
			coupons.POST("", c.CouponHandler.Create)
			coupons.GET("", c.CouponHandler.List)
			coupons.GET("/:id", c.CouponHandler.Get)
			coupons.PATCH("/:id", c.CouponHandler.Update)
			coupons.DELETE("/:id", c.CouponHandler.Delete)
			coupons.POST("/:id/redeem", c.CouponHandler.Redeem)
		}

		methods := admin.Group("/delivery-methods")
		{
			methods.POST("", c.DeliveryHandler.Create)
			methods.GET("", c.DeliveryHandler.List)
			methods.GET("/:id", c.DeliveryHandler.Get)
			methods.PATCH("/:id", c.DeliveryHandler.Update)
			methods.DELETE("/:id", c.DeliveryHandler.Delete)
		}
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := gin.H{
			"status":  "ok",
			"version": c.Config.App.Version,
		}

		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			response.Success(ctx, http.StatusServiceUnavailable, status)
			return
		}

		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			status["cache"] = err.Error()
		}

		response.Success(ctx, http.StatusOK, status)
	}
}
