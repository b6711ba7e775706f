package router

import (
	"time"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/config"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/handler"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/infra"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/middleware"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/repository"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/service"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, gatewayCB *infra.Breaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	gateway := infra.NewRazorpayClient(cfg.GatewayBaseURL, cfg.GatewayKeyID, cfg.GatewayKeySecret)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	stockRepo := repository.NewStockRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	loyaltyRepo := repository.NewLoyaltyRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	refundRepo := repository.NewRefundRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	settingsSvc := service.NewSettingsService(settingsRepo)
	stockSvc := service.NewStockService(stockRepo, productRepo)
	selector := service.NewWarehouseSelector(warehouseRepo, stockRepo)
	loyaltySvc := service.NewLoyaltyService(loyaltyRepo, userRepo, orderRepo, settingsSvc)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	reservationTTL := time.Duration(cfg.ReservationTTLMinutes) * time.Minute
	orderSvc := service.NewOrderService(orderRepo, productRepo, stockSvc, selector, loyaltySvc, gateway, dispatcher, reservationTTL)
	refundSvc := service.NewRefundService(refundRepo, orderRepo, userRepo, gateway, gatewayCB, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	bulkH := handler.NewBulkOrdersHandler(orderSvc)
	refundsH := handler.NewRefundsHandler(refundSvc)
	loyaltyH := handler.NewLoyaltyHandler(loyaltySvc, settingsSvc)
	stockH := handler.NewStockHandler(stockSvc)
	catalogH := handler.NewCatalogHandler(productRepo, warehouseRepo, stockSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, gatewayCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: customer, admin, delivery_partner — declared per-endpoint
		orders := v1.Group("/orders")
		{
			orders.POST("", middleware.RequireRole("customer"), ordersH.Checkout)
			orders.POST("/verify-payment", middleware.RequireRole("customer"), ordersH.VerifyPayment)
			orders.GET("", middleware.RequireRole("customer", "admin", "delivery_partner"), ordersH.List)
			orders.GET("/:id", middleware.RequireRole("customer", "admin", "delivery_partner"), ordersH.Get)
			orders.PATCH("/:id/status", middleware.RequireRole("admin", "delivery_partner"), ordersH.UpdateStatus)
			orders.POST("/:id/assign", middleware.RequireRole("admin"), ordersH.AssignPartner)
			orders.POST("/:id/collect-cash", middleware.RequireRole("delivery_partner"), ordersH.CollectCash)
			orders.GET("/:id/refunds", middleware.RequireRole("customer", "admin"), refundsH.ListByOrder)
		}

		bulk := v1.Group("/bulk-orders", middleware.RequireRole("admin"))
		{
			bulk.GET("/pending", bulkH.ListPending)
			bulk.POST("/:id/approve", bulkH.Approve)
			bulk.POST("/:id/reject", bulkH.Reject)
			bulk.POST("/:id/invoice", bulkH.GenerateInvoice)
		}

		refunds := v1.Group("/refunds")
		{
			refunds.POST("", middleware.RequireRole("customer"), refundsH.Request)
			refunds.POST("/:id/approve", middleware.RequireRole("admin"), refundsH.Approve)
			refunds.POST("/:id/reject", middleware.RequireRole("admin"), refundsH.Reject)
		}

		loyalty := v1.Group("/loyalty")
		{
			loyalty.GET("/balance", middleware.RequireRole("customer"), loyaltyH.Balance)
			loyalty.GET("/history", middleware.RequireRole("customer"), loyaltyH.History)
			loyalty.GET("/users/:id/balance", middleware.RequireRole("admin"), loyaltyH.UserBalance)
			loyalty.PUT("/settings", middleware.RequireRole("admin"), loyaltyH.UpdateSettings)
		}

		// GET /v1/products — every authenticated role can read the catalog
		v1.GET("/products", middleware.RequireRole("customer", "admin", "delivery_partner"), catalogH.ListProducts)
		v1.GET("/products/:id", middleware.RequireRole("customer", "admin", "delivery_partner"), catalogH.GetProduct)
		v1.POST("/products", middleware.RequireRole("admin"), catalogH.CreateProduct)
		v1.GET("/products/:id/movements", middleware.RequireRole("admin"), stockH.Movements)

		warehouses := v1.Group("/warehouses", middleware.RequireRole("admin"))
		{
			warehouses.POST("", catalogH.CreateWarehouse)
			warehouses.GET("", catalogH.ListWarehouses)
			warehouses.GET("/:id/stock", stockH.Snapshot)
			warehouses.POST("/:id/stock", catalogH.ReceiveStock)
		}

		v1.POST("/stock/transfer", middleware.RequireRole("admin"), stockH.Transfer)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
