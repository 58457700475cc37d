package api

import (
	"crypto/ed25519"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tablechain/restaurant-protocol/internal/api/handler"
	"github.com/tablechain/restaurant-protocol/internal/api/middleware"
	"github.com/tablechain/restaurant-protocol/internal/core/domain"
	"github.com/tablechain/restaurant-protocol/internal/core/ports"
	"github.com/tablechain/restaurant-protocol/internal/core/service"
	mongodb "github.com/tablechain/restaurant-protocol/internal/infrastructure/db/mongo"
	redisdb "github.com/tablechain/restaurant-protocol/internal/infrastructure/db/redis"
	"github.com/tablechain/restaurant-protocol/pkg/logger"
)

// RouterConfig carries everything the router needs beyond its connections.
type RouterConfig struct {
	JWTSecret string
	// MultisigKey is the protocol root authority.
	MultisigKey string
	// AirdropKey verifies airdrop grant signatures.
	AirdropKey ed25519.PublicKey
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, publisher ports.OrderPublisher, cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.For("http"))

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("restaurant_protocol"))

	// --- Repositories ---
	protocolRepo := mongodb.NewProtocolRepository(db)
	capabilityRepo := mongodb.NewCapabilityRepository(db)
	restaurantRepo := mongodb.NewRestaurantRepository(db)
	catalogRepo := mongodb.NewCatalogRepository(db)
	customerRepo := mongodb.NewCustomerRepository(db)
	orderRepo := mongodb.NewOrderRepository(db)
	rewardRepo := mongodb.NewRewardRepository(db)
	authRepo := mongodb.NewAuthRepository(db)
	tokens := mongodb.NewTokenLedger(db)
	grants := redisdb.NewGrantStore(rdb)

	// --- Services ---
	protocolService := service.NewProtocolService(protocolRepo, cfg.MultisigKey, logger.For("protocol"))
	capabilityService := service.NewCapabilityService(capabilityRepo, restaurantRepo, protocolService, cfg.MultisigKey, logger.For("capability"))
	restaurantService := service.NewRestaurantService(restaurantRepo, capabilityService, tokens, protocolService, logger.For("restaurant"))
	catalogService := service.NewCatalogService(catalogRepo, capabilityService, protocolService, logger.For("catalog"))
	membershipService := service.NewMembershipService(customerRepo, restaurantRepo, capabilityService, tokens, protocolService, logger.For("membership"))
	orderService := service.NewOrderService(orderRepo, customerRepo, restaurantRepo, catalogRepo, capabilityService, tokens, publisher, protocolService, logger.For("order"))
	rewardService := service.NewRewardService(rewardRepo, customerRepo, restaurantRepo, capabilityService, tokens, grants, protocolService, cfg.AirdropKey, logger.For("reward"))
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, 24*time.Hour)

	// --- Handlers ---
	protocolHandler := handler.NewProtocolHandler(protocolService)
	capabilityHandler := handler.NewCapabilityHandler(capabilityService)
	restaurantHandler := handler.NewRestaurantHandler(restaurantService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	membershipHandler := handler.NewMembershipHandler(membershipService)
	orderHandler := handler.NewOrderHandler(orderService)
	rewardHandler := handler.NewRewardHandler(rewardService)
	authHandler := handler.NewAuthHandler(authService)

	auth := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	staffOrAdmin := middleware.RBAC(domain.RoleAdmin, domain.RoleStaff)
	customerOnly := middleware.RBAC(domain.RoleCustomer)
	anyRole := middleware.RBAC(domain.RoleAdmin, domain.RoleStaff, domain.RoleCustomer)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	v1 := e.Group("/v1")

	// --- Protocol gate ---
	v1.GET("/protocol", protocolHandler.Status)
	v1.POST("/protocol", protocolHandler.Initialize, auth, adminOnly)
	v1.POST("/protocol/toggle", protocolHandler.Toggle, auth, adminOnly)

	// --- Protocol admins ---
	v1.POST("/admins", capabilityHandler.CreateAdmin, auth, adminOnly)
	v1.DELETE("/admins/:key", capabilityHandler.RemoveAdmin, auth, adminOnly)

	// --- Restaurants ---
	v1.POST("/restaurants", restaurantHandler.Create, auth, adminOnly)
	v1.GET("/restaurants/:ref", restaurantHandler.Get)
	v1.DELETE("/restaurants/:ref", restaurantHandler.Close, auth, adminOnly)

	// --- Restaurant capabilities ---
	v1.POST("/restaurants/:ref/admins", capabilityHandler.CreateRestaurantAdmin, auth, adminOnly)
	v1.DELETE("/restaurants/:ref/admins/:key", capabilityHandler.RemoveRestaurantAdmin, auth, adminOnly)
	v1.POST("/restaurants/:ref/employees", capabilityHandler.CreateEmployee, auth, staffOrAdmin)
	v1.DELETE("/restaurants/:ref/employees/:key", capabilityHandler.RemoveEmployee, auth, staffOrAdmin)

	// --- Catalog ---
	v1.POST("/restaurants/:ref/inventory", catalogHandler.AddInventory, auth, staffOrAdmin)
	v1.PUT("/restaurants/:ref/inventory/:sku", catalogHandler.UpdateInventory, auth, staffOrAdmin)
	v1.DELETE("/restaurants/:ref/inventory/:sku", catalogHandler.RemoveInventory, auth, staffOrAdmin)
	v1.POST("/restaurants/:ref/menu", catalogHandler.AddMenuItem, auth, staffOrAdmin)
	v1.PATCH("/restaurants/:ref/menu/:sku/active", catalogHandler.SetMenuItemActive, auth, staffOrAdmin)
	v1.DELETE("/restaurants/:ref/menu/:sku", catalogHandler.RemoveMenuItem, auth, staffOrAdmin)
	v1.GET("/restaurants/:ref/menu", catalogHandler.ListMenu)

	// --- Membership ---
	v1.POST("/restaurants/:ref/customers", membershipHandler.Enroll, auth, staffOrAdmin)
	v1.GET("/restaurants/:ref/customers/:key/credential", membershipHandler.GetCredential, auth, anyRole)

	// --- Orders ---
	v1.POST("/restaurants/:ref/orders", orderHandler.Place, auth, customerOnly)
	v1.GET("/restaurants/:ref/orders/:order", orderHandler.Get, auth, anyRole)
	v1.PATCH("/restaurants/:ref/orders/:order/status", orderHandler.UpdateStatus, auth, staffOrAdmin)
	v1.POST("/restaurants/:ref/orders/:order/cancel", orderHandler.Cancel, auth, customerOnly)
	v1.DELETE("/restaurants/:ref/orders/:order", orderHandler.Close, auth, staffOrAdmin)

	// --- Rewards ---
	v1.POST("/restaurants/:ref/rewards", rewardHandler.Create, auth, staffOrAdmin)
	v1.DELETE("/restaurants/:ref/rewards/:reward", rewardHandler.Remove, auth, staffOrAdmin)
	v1.POST("/restaurants/:ref/rewards/:reward/redeem", rewardHandler.Redeem, auth, customerOnly)
	v1.POST("/restaurants/:ref/rewards/:reward/airdrop", rewardHandler.Airdrop, auth, staffOrAdmin)

	return e
}
