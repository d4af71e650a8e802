package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stall-pos/internal/config"
	"github.com/sangkips/stall-pos/internal/presentation/http/handler"
	"github.com/sangkips/stall-pos/internal/presentation/http/middleware"
	"github.com/sangkips/stall-pos/pkg/metrics"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Register *handler.RegisterHandler
	Catalog  *handler.CatalogHandler
	Cart     *handler.CartHandler
	Payment  *handler.PaymentHandler
	Sales    *handler.SalesHandler
	Report   *handler.ReportHandler
	Printer  *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg         *config.Config
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
	RateLimiter *middleware.ClientRateLimiter // nil disables rate limiting
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.MetricsMiddleware(deps.Metrics))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}
	{
		registerRegisterRoutes(v1, h)
		registerCatalogRoutes(v1, h)
		registerCartRoutes(v1, h)
		registerPaymentRoutes(v1, h)
		registerSalesRoutes(v1, h)
		registerReportRoutes(v1, h)
		registerPrinterRoutes(v1, h)
	}

	return router
}

func registerRegisterRoutes(v1 *gin.RouterGroup, h *Handlers) {
	v1.GET("/state", h.Register.GetState)
	v1.GET("/categories", h.Register.ListCategories)
	v1.PUT("/prefs/category", h.Register.SetCategory)
	v1.PUT("/prefs/tax", h.Register.SetTax)
	v1.PUT("/search", h.Register.SetSearch)
	v1.PUT("/multiplier", h.Register.SetMultiplier)
}

func registerCatalogRoutes(v1 *gin.RouterGroup, h *Handlers) {
	items := v1.Group("/categories/:category/items")
	{
		items.GET("", h.Catalog.ListItems)
		items.POST("", h.Catalog.CreateItem)
		items.PATCH("/:id", h.Catalog.UpdateItemField)
		items.POST("/:id/adjust", h.Catalog.AdjustStock)
	}

	inventory := v1.Group("/inventory")
	{
		inventory.GET("/low-stock", h.Catalog.LowStock)
		inventory.POST("/reset", h.Catalog.Reset)
	}
}

func registerCartRoutes(v1 *gin.RouterGroup, h *Handlers) {
	cart := v1.Group("/cart")
	{
		cart.POST("/items/:id", h.Cart.AddItem)
		cart.POST("/quick", h.Cart.AddQuickPrice)
		cart.POST("/custom", h.Cart.AddCustomPrice)
		cart.POST("/undo", h.Cart.Undo)
		cart.DELETE("", h.Cart.Clear)
	}
}

func registerPaymentRoutes(v1 *gin.RouterGroup, h *Handlers) {
	payment := v1.Group("/payment")
	{
		payment.POST("/open", h.Payment.Open)
		payment.POST("/denomination", h.Payment.AddDenomination)
		payment.POST("/digit", h.Payment.EnterDigit)
		payment.POST("/exact", h.Payment.SetExact)
		payment.POST("/clear", h.Payment.ClearTendered)
		payment.PUT("/type", h.Payment.SetPaymentType)
		payment.POST("/cancel", h.Payment.Cancel)
		payment.POST("/complete", h.Payment.Complete)
	}
}

func registerSalesRoutes(v1 *gin.RouterGroup, h *Handlers) {
	sales := v1.Group("/sales")
	{
		sales.GET("", h.Sales.List)
		sales.POST("", h.Sales.Create)
		sales.DELETE("", h.Sales.ClearAll)
		sales.DELETE("/today", h.Sales.ClearToday)
		sales.GET("/:id", h.Sales.Get)
		sales.POST("/:id/refund", h.Sales.Refund)
		sales.POST("/:id/receipt", h.Printer.PrintReceipt)
	}
}

func registerReportRoutes(v1 *gin.RouterGroup, h *Handlers) {
	reports := v1.Group("/reports")
	{
		reports.GET("/today", h.Report.Today)
		reports.GET("/close-register/export", h.Report.ExportCloseRegister)
	}
}

func registerPrinterRoutes(v1 *gin.RouterGroup, h *Handlers) {
	v1.GET("/printer/status", h.Printer.GetStatus)
}
