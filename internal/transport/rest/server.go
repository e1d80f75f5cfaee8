package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/metrics"
	"github.com/vladislavdragonenkov/storefront/internal/service/orders"
	"github.com/vladislavdragonenkov/storefront/internal/service/products"
	"github.com/vladislavdragonenkov/storefront/internal/service/users"
	"github.com/vladislavdragonenkov/storefront/internal/version"
)

// Server обслуживает REST API магазина.
type Server struct {
	router   *gin.Engine
	users    *users.Service
	products *products.Service
	orders   *orders.Service
	metrics  *metrics.HTTPMetrics
	ready    func() error
	logger   *log.Entry
}

// Config собирает зависимости HTTP-сервера. Metrics и Ready опциональны.
type Config struct {
	Users    *users.Service
	Products *products.Service
	Orders   *orders.Service
	Metrics  *metrics.HTTPMetrics
	// Ready проверяет готовность зависимостей (хранилища) для /api/health.
	Ready  func() error
	Logger *log.Entry
}

// NewServer создаёт сервер и регистрирует маршруты.
func NewServer(cfg Config) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	logger := cfg.Logger
	if logger == nil {
		logger = log.New().WithField("component", "rest-server")
	}

	server := &Server{
		router:   router,
		users:    cfg.Users,
		products: cfg.Products,
		orders:   cfg.Orders,
		metrics:  cfg.Metrics,
		ready:    cfg.Ready,
		logger:   logger,
	}

	router.Use(server.observe())
	server.setupRoutes()
	return server
}

// setupRoutes настраивает все маршруты API.
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)

		usersGroup := api.Group("/users")
		{
			usersGroup.GET("", s.listUsers)
			usersGroup.POST("", s.createUser)
			usersGroup.POST("/validate", s.validateUser)
			usersGroup.GET("/active", s.listActiveUsers)
			usersGroup.GET("/search", s.searchUsers)
			usersGroup.GET("/username/:username", s.getUserByUsername)
			usersGroup.GET("/:id", s.getUser)
			usersGroup.PUT("/:id", s.updateUser)
			usersGroup.DELETE("/:id", s.deleteUser)
			usersGroup.PATCH("/:id/deactivate", s.deactivateUser)
			usersGroup.PATCH("/:id/email", s.updateUserEmail)
		}

		productsGroup := api.Group("/products")
		{
			productsGroup.GET("", s.listProducts)
			productsGroup.POST("", s.createProduct)
			productsGroup.GET("/available", s.listAvailableProducts)
			productsGroup.GET("/low-stock", s.listLowStockProducts)
			productsGroup.GET("/search", s.searchProducts)
			productsGroup.GET("/price-range", s.listProductsByPriceRange)
			productsGroup.GET("/categories", s.listCategories)
			productsGroup.GET("/category/:category", s.listProductsByCategory)
			productsGroup.GET("/:id", s.getProduct)
			productsGroup.PUT("/:id", s.updateProduct)
			productsGroup.PATCH("/:id/stock", s.updateProductStock)
			productsGroup.DELETE("/:id", s.deleteProduct)
		}

		ordersGroup := api.Group("/orders")
		{
			ordersGroup.GET("", s.listOrders)
			ordersGroup.POST("", s.createOrder)
			ordersGroup.GET("/number/:number", s.getOrderByNumber)
			ordersGroup.GET("/status/:status", s.listOrdersByStatus)
			ordersGroup.GET("/date-range", s.listOrdersInDateRange)
			ordersGroup.GET("/min-amount", s.listOrdersWithMinimumAmount)
			ordersGroup.GET("/revenue", s.revenueInRange)
			ordersGroup.GET("/user/:userId", s.listOrdersByUser)
			ordersGroup.GET("/user/:userId/recent", s.recentOrdersByUser)
			ordersGroup.GET("/user/:userId/count", s.countOrdersByUserAndStatus)
			ordersGroup.GET("/:id", s.getOrder)
			ordersGroup.GET("/:id/timeline", s.orderTimeline)
			ordersGroup.PATCH("/:id/status", s.updateOrderStatus)
			ordersGroup.PATCH("/:id/cancel", s.cancelOrder)
		}
	}
}

// healthCheck endpoint для мониторинга.
func (s *Server) healthCheck(c *gin.Context) {
	if s.ready != nil {
		if err := s.ready(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "error",
				"error":  err.Error(),
			})
			return
		}
	}

	v, _, _ := version.Info()
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "storefront",
		"version": v,
	})
}

// Handler возвращает корневой http.Handler сервера.
func (s *Server) Handler() http.Handler {
	return s.router
}
