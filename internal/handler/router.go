package handler

import (
	"net/http"
	"time"

	_ "inventory/api/swagger" // swagger docs
	"inventory/internal/logger"
	"inventory/internal/metrics"
	"inventory/internal/middleware"
	"inventory/internal/service"
	"inventory/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterConfig carries everything the HTTP surface is built from.
type RouterConfig struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	WSSecret       []byte

	Products  service.ProductService
	Suppliers service.SupplierService
	Orders    service.OrderService
	Reports   service.ReportService

	Hub     *websocket.Hub   // optional, /ws is not served without it
	Metrics *metrics.Metrics // optional, /metrics is not served without it
}

// NewRouter wires middleware, the API routes and the operational endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(logger.GinMiddleware())
	router.Use(metrics.GinMiddleware(cfg.Metrics))
	// inside the logger and metrics so a recovered panic is logged and counted as a 500
	router.Use(middleware.Recovery())
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}
	if cfg.Hub != nil {
		router.GET("/ws", websocket.Handler(cfg.Hub, cfg.WSSecret))
	}

	api := router.Group("", middleware.RequestTimeout(cfg.RequestTimeout))
	NewProductHandler(cfg.Products).RegisterRoutes(api)
	NewSupplierHandler(cfg.Suppliers).RegisterRoutes(api)
	NewOrderHandler(cfg.Orders).RegisterRoutes(api)
	NewDashboardHandler(cfg.Reports).RegisterRoutes(api)

	return router
}

func corsConfig(origins []string) cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Request-Id"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{"X-Request-Id"}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
		return corsConfig
	}
	corsConfig.AllowOrigins = origins
	corsConfig.AllowCredentials = true
	return corsConfig
}
