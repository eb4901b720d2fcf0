package router

import (
	"github.com/gin-gonic/gin"
	"github.com/greenbean/storefront-backend/config"
	"github.com/greenbean/storefront-backend/internal/app/controller"
	"github.com/greenbean/storefront-backend/internal/middleware"
)

type Router struct {
	productController  *controller.ProductController
	cartController     *controller.CartController
	checkoutController *controller.CheckoutController
	uploadController   *controller.UploadController
	wsController       *controller.WsController
	sessionMiddleware  *middleware.SessionMiddleware
	config             *config.Config
}

func NewRouter(
	productController *controller.ProductController,
	cartController *controller.CartController,
	checkoutController *controller.CheckoutController,
	uploadController *controller.UploadController,
	wsController *controller.WsController,
	sessionMiddleware *middleware.SessionMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		productController:  productController,
		cartController:     cartController,
		checkoutController: checkoutController,
		uploadController:   uploadController,
		wsController:       wsController,
		sessionMiddleware:  sessionMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Green Bean API is running",
		})
	})

	session := r.sessionMiddleware.EnsureSession()

	// Legacy handoff mirror endpoint; the path is part of the page contract.
	router.POST("/sync-cart", session, r.cartController.SyncCart)

	// Cart update push channel.
	router.GET("/ws/cart", session, r.wsController.CartEvents)

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", r.productController.GetProducts)
			products.GET("/popular", r.productController.GetPopularProducts)
			products.GET("/:sku", r.productController.GetProduct)
			products.POST("", session, r.productController.CreateProduct)
			products.DELETE("/:sku", session, r.productController.DeleteProduct)
			products.POST("/:sku/image", session, r.uploadController.PresignProductImage)
		}

		cart := v1.Group("/cart", session)
		{
			cart.GET("", r.cartController.GetCart)
			cart.GET("/view", r.cartController.GetCartView)
			cart.POST("", r.cartController.AddToCart)
			cart.DELETE("", r.cartController.ClearCart)
			cart.PUT("/items/:id", r.cartController.UpdateQuantity)
			cart.POST("/items/:id/increment", r.cartController.IncrementItem)
			cart.POST("/items/:id/decrement", r.cartController.DecrementItem)
			cart.DELETE("/items/:id", r.cartController.RemoveItem)
			cart.POST("/coupon", r.cartController.ApplyCoupon)
			cart.DELETE("/coupon", r.cartController.RemoveCoupon)
		}

		v1.POST("/checkout", session, r.checkoutController.Checkout)
		v1.GET("/orders", session, r.checkoutController.GetOrders)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, X-Tab-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
