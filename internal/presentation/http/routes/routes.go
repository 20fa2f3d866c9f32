package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/atelier-api/internal/config"
	domainRepo "github.com/sangkips/atelier-api/internal/domain/repository"
	"github.com/sangkips/atelier-api/internal/presentation/http/handler"
	"github.com/sangkips/atelier-api/internal/presentation/http/middleware"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Product    *handler.ProductHandler
	Customer   *handler.CustomerHandler
	Subscriber *handler.SubscriberHandler
	Contact    *handler.ContactHandler
	Sale       *handler.SaleHandler
	Draft      *handler.DraftHandler
	Analytics  *handler.AnalyticsHandler
	Campaign   *handler.CampaignHandler
	Receipt    *handler.ReceiptHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Log             *zap.Logger
}

// Setup creates the Gin router and registers all routes. Background work
// owned by the router (rate limiter cleanup) stops when ctx is done.
func Setup(ctx context.Context, h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(deps.Log))
	router.Use(middleware.RequestLogger(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	rateLimiter := middleware.NewClientRateLimiter(ctx, middleware.RateLimiterConfig{
		Requests:        deps.Cfg.RateLimit.Requests,
		Window:          time.Duration(deps.Cfg.RateLimit.Duration) * time.Second,
		CleanupInterval: 5 * time.Minute,
		EntryTTL:        10 * time.Minute,
	})

	api := router.Group("/api")
	api.Use(rateLimiter.Middleware())
	{
		registerCatalogRoutes(api, h)
		registerMarketingRoutes(api, h)
		registerContactRoutes(api, h)
		registerSaleRoutes(api, h, deps)
		registerDraftRoutes(api, h)

		api.GET("/analytics/profit", h.Analytics.Profit)
	}

	return router
}

func registerCatalogRoutes(api *gin.RouterGroup, h *Handlers) {
	products := api.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}

	customers := api.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerMarketingRoutes(api *gin.RouterGroup, h *Handlers) {
	whatsapp := api.Group("/whatsapp")
	{
		whatsapp.GET("/subscribers", h.Subscriber.List)
		whatsapp.POST("/subscribers", h.Subscriber.Create)
		whatsapp.PUT("/subscribers/:id", h.Subscriber.Update)
		whatsapp.DELETE("/subscribers/:id", h.Subscriber.Deactivate)
		whatsapp.POST("/send-template", h.Subscriber.SendTemplate)
	}

	// Public storefront forms
	newsletter := api.Group("/newsletter")
	{
		newsletter.POST("/subscribe", h.Subscriber.Subscribe)
		newsletter.POST("/unsubscribe", h.Subscriber.Unsubscribe)
	}

	campaigns := api.Group("/campaigns")
	{
		campaigns.GET("", h.Campaign.List)
		campaigns.POST("", h.Campaign.Create)
		campaigns.GET("/:id", h.Campaign.Get)
		campaigns.POST("/:id/send", h.Campaign.Send)
	}
}

func registerContactRoutes(api *gin.RouterGroup, h *Handlers) {
	contacts := api.Group("/contacts")
	{
		contacts.GET("", h.Contact.List)
		contacts.GET("/search", h.Contact.Search)
		contacts.GET("/suggest", h.Contact.Suggest)
	}
}

func registerSaleRoutes(api *gin.RouterGroup, h *Handlers, deps *Deps) {
	sales := api.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			Log:  deps.Log,
		}), h.Sale.Create)
		sales.GET("/:id", h.Sale.Get)
		sales.PUT("/:id", h.Sale.Update)
		sales.DELETE("/:id", h.Sale.Delete)
		sales.DELETE("/:id/items/:index", h.Sale.RemoveItem)
		sales.POST("/:id/receipt", h.Receipt.Print)
	}

	api.GET("/printer/status", h.Receipt.Status)
}

func registerDraftRoutes(api *gin.RouterGroup, h *Handlers) {
	drafts := api.Group("/sales/drafts")
	{
		drafts.POST("", h.Draft.Create)
		drafts.GET("/:id", h.Draft.Get)
		drafts.DELETE("/:id", h.Draft.Discard)
		drafts.PUT("/:id/tab", h.Draft.SwitchTab)
		drafts.PUT("/:id/basic", h.Draft.UpdateBasic)
		drafts.PUT("/:id/invoice", h.Draft.UpdateInvoice)
		drafts.PUT("/:id/delivery", h.Draft.UpdateDelivery)
		drafts.PUT("/:id/payment", h.Draft.UpdatePayment)
		drafts.PUT("/:id/pricing", h.Draft.UpdatePricing)
		drafts.POST("/:id/items", h.Draft.AddItem)
		drafts.DELETE("/:id/items/:index", h.Draft.RemoveItem)
		drafts.POST("/:id/customer", h.Draft.SelectCustomer)
		drafts.POST("/:id/submit", h.Draft.Submit)
	}
}
