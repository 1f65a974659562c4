// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/merchkit/catalog-admin/internal/config"
	"github.com/merchkit/catalog-admin/internal/handlers"
	"github.com/merchkit/catalog-admin/internal/middleware"
	"github.com/merchkit/catalog-admin/internal/services"
	"github.com/merchkit/catalog-admin/internal/store"
)

// Dependencies carries everything the route tree needs. The db is nil when
// the write-behind journal is not configured.
type Dependencies struct {
	Store          *store.Store
	CatalogService *services.CatalogService
	ProductService *services.ProductService
	AuthService    *services.AuthService
	Notifier       *services.NotificationService
	DB             *gorm.DB
}

func Initialize(cfg *config.Config, deps Dependencies) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS())
	router.Use(middleware.GeneralRateLimit(cfg.RateLimit))
	if deps.DB != nil {
		router.Use(middleware.AuditLogMiddleware(deps.DB))
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"environment": cfg.Environment,
			"timestamp":   time.Now().UTC(),
			"products":    deps.Store.Len(),
		})
	})

	authHandler := handlers.NewAuthHandler(deps.AuthService)
	productHandler := handlers.NewProductHandler(deps.CatalogService, deps.ProductService, deps.Notifier, deps.Store)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.AuthRateLimit(cfg.RateLimit), authHandler.Login)
		}

		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/facets", productHandler.GetFacets)
			products.GET("/:id", productHandler.GetProduct)
			products.POST("", middleware.AuthRequired(), middleware.UploadRateLimit(cfg.RateLimit), productHandler.CreateProduct)
		}

		v1.GET("/notifications", middleware.AuthRequired(), productHandler.GetNotifications)
	}

	return router
}
