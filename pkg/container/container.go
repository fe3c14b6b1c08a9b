package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"storefront-backend/internal/config"
	infraCache "storefront-backend/internal/infrastructure/cache"
	"storefront-backend/internal/infrastructure/database"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/jwt"

	checkoutHandler "storefront-backend/internal/domains/checkout/handler"
	checkoutService "storefront-backend/internal/domains/checkout/service"
	couponHandler "storefront-backend/internal/domains/coupon/handler"
	couponRepo "storefront-backend/internal/domains/coupon/repository"
	couponService "storefront-backend/internal/domains/coupon/service"
	deliveryHandler "storefront-backend/internal/domains/delivery/handler"
	deliveryRepo "storefront-backend/internal/domains/delivery/repository"
	deliveryService "storefront-backend/internal/domains/delivery/service"
)

// Container holds the full dependency graph. Everything in it is a
// singleton for the app lifetime.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	// Repositories
	CouponRepo   couponRepo.CouponRepository
	DeliveryRepo deliveryRepo.DeliveryRepository

	// Services
	CouponService   couponService.ServiceInterface
	DeliveryService deliveryService.ServiceInterface
	CheckoutService checkoutService.ServiceInterface

	// Handlers
	CouponHandler   *couponHandler.CouponHandler
	DeliveryHandler *deliveryHandler.DeliveryHandler
	CheckoutHandler *checkoutHandler.CheckoutHandler
}

// NewContainer builds the dependency graph. Initialization order matters:
// config, then infrastructure, then repositories, services and handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	c.Config = cfg

	log.Println("connecting to PostgreSQL...")
	db := database.NewPostgresDB(&cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	log.Println("connecting to Redis...")
	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			// Cache is an optimization, not a dependency; start anyway.
			log.Printf("redis connection failed (non-critical): %v", err)
		}
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	// Already validated by cfg.Validate; anchors the checkout clock.
	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	c.initRepositories()
	c.initServices()
	c.initHandlers(loc)

	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.CouponRepo = couponRepo.NewPostgresRepository(pool)
	c.DeliveryRepo = deliveryRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	cacheTTL := c.Config.Cache.PricingTTL

	c.CouponService = couponService.NewCouponService(c.CouponRepo, c.Cache, cacheTTL)
	c.DeliveryService = deliveryService.NewDeliveryService(c.DeliveryRepo, c.Cache, cacheTTL)
	c.CheckoutService = checkoutService.NewCheckoutService(c.CouponService, c.DeliveryService)
}

func (c *Container) initHandlers(loc *time.Location) {
	c.CouponHandler = couponHandler.NewCouponHandler(c.CouponService)
	c.DeliveryHandler = deliveryHandler.NewDeliveryHandler(c.DeliveryService)
	c.CheckoutHandler = checkoutHandler.NewCheckoutHandler(c.CheckoutService, loc)
}

// Close releases infrastructure resources in reverse init order.
func (c *Container) Close() {
	if c.DB != nil {
		c.DB.Close()
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("redis close failed: %v", err)
		}
	}
}
