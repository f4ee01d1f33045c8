package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"veggie-shop/config"
	"veggie-shop/controllers"
	"veggie-shop/metrics"
	"veggie-shop/middleware"
	"veggie-shop/services"
)

type Services struct {
	Products *services.ProductService
	Cart     *services.CartService
	Orders   *services.OrderService
	Wishlist *services.WishlistService
	Auth     *services.AuthService
}

func SetupRoutes(router *gin.Engine, cfg *config.Config, svc *Services) {
	authCtrl := controllers.NewAuthController(svc.Auth, cfg.AuthProviderURL, cfg.AuthLogoutURL, cfg.SessionTTL, cfg.IsProduction())
	productCtrl := controllers.NewProductController(svc.Products, cfg.MaxUploadSize)
	cartCtrl := controllers.NewCartController(svc.Cart)
	orderCtrl := controllers.NewOrderController(svc.Orders)
	wishlistCtrl := controllers.NewWishlistController(svc.Wishlist)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	requireUser := middleware.AuthMiddleware(svc.Auth)
	requireAdmin := middleware.AdminMiddleware()
	loginLimit := middleware.RateLimit(middleware.NewIPRateLimiter(cfg.LoginRateLimit, 5))

	api := router.Group("/api")

	api.GET("/login", loginLimit, authCtrl.Login)
	api.GET("/callback", loginLimit, authCtrl.Callback)
	api.GET("/logout", authCtrl.Logout)
	api.GET("/auth/user", requireUser, authCtrl.GetUser)

	api.GET("/products", productCtrl.GetAllProducts)
	api.GET("/products/:id", productCtrl.GetProductByID)

	auth := api.Group("/")
	auth.Use(requireUser)
	{
		auth.GET("/cart", cartCtrl.GetCart)
		auth.GET("/cart/summary", cartCtrl.GetSummary)
		auth.POST("/cart", cartCtrl.AddToCart)
		auth.PUT("/cart/:id", cartCtrl.UpdateCartItem)
		auth.DELETE("/cart/:id", cartCtrl.RemoveCartItem)
		auth.DELETE("/cart", cartCtrl.ClearCart)

		auth.POST("/orders", orderCtrl.CreateOrder)
		auth.GET("/orders", orderCtrl.GetOrders)
		auth.GET("/orders/:id", orderCtrl.GetOrderByID)

		auth.GET("/wishlist", wishlistCtrl.GetWishlist)
		auth.POST("/wishlist", wishlistCtrl.AddToWishlist)
		auth.DELETE("/wishlist/:productId", wishlistCtrl.RemoveFromWishlist)
	}

	admin := api.Group("/")
	admin.Use(requireUser, requireAdmin)
	{
		admin.GET("/admin/stats", orderCtrl.GetDashboard)

		admin.POST("/products", productCtrl.CreateProduct)
		admin.PUT("/products/:id", productCtrl.UpdateProduct)
		admin.DELETE("/products/:id", productCtrl.DeleteProduct)
		admin.POST("/products/:id/image", productCtrl.UploadImage)

		admin.GET("/orders/all", orderCtrl.GetAllOrders)
		admin.PUT("/orders/:id/status", orderCtrl.UpdateOrderStatus)
	}
}
