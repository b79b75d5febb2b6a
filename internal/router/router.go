package router

import (
	"fmt"
	"strings"

	"github.com/phimart/phimart/internal/cache"
	"github.com/phimart/phimart/internal/config"
	"github.com/phimart/phimart/internal/constants"
	adminhandlers "github.com/phimart/phimart/internal/http/handlers/admin"
	publichandlers "github.com/phimart/phimart/internal/http/handlers/public"
	"github.com/phimart/phimart/internal/logger"
	"github.com/phimart/phimart/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/管理端分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		apiV1.GET("/products", publicHandler.GetProducts)
		apiV1.GET("/products/:id", publicHandler.GetProduct)
		apiV1.GET("/products/:id/images", publicHandler.GetProductImages)
		apiV1.GET("/products/:id/reviews", publicHandler.GetProductReviews)
		apiV1.GET("/categories", publicHandler.GetCategories)
		apiV1.GET("/categories/:id", publicHandler.GetCategory)

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		// 支付网关回调（网关服务端直连，不带用户态）
		apiV1.POST("/payments/callback", publicHandler.PaymentCallback)
		apiV1.GET("/payments/callback", publicHandler.PaymentCallback)

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.POST("/carts", publicHandler.CreateCart)
			user.GET("/carts/:cart_id", publicHandler.GetCart)
			user.DELETE("/carts/:cart_id", publicHandler.DeleteCart)
			user.POST("/carts/:cart_id/items", publicHandler.AddCartItem)
			user.PATCH("/carts/:cart_id/items/:item_id", publicHandler.UpdateCartItem)
			user.DELETE("/carts/:cart_id/items/:item_id", publicHandler.DeleteCartItem)
			user.POST("/orders", publicHandler.CreateOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.POST("/orders/:id/cancel", publicHandler.CancelOrder)
			user.POST("/orders/:id/payments", publicHandler.InitiatePayment)
			user.GET("/orders/:id/payments", publicHandler.ListOrderPayments)
			user.POST("/products/:id/reviews", publicHandler.CreateProductReview)
			user.PUT("/products/:id/reviews/:review_id", publicHandler.UpdateProductReview)
			user.DELETE("/products/:id/reviews/:review_id", publicHandler.DeleteProductReview)
		}

		// 管理端接口（需鉴权且 is_staff）
		admin := apiV1.Group("/admin")
		admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), StaffMiddleware())
		{
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)
			admin.POST("/products/:id/images", adminHandler.AddProductImage)

			admin.POST("/categories", adminHandler.CreateCategory)
			admin.PUT("/categories/:id", adminHandler.UpdateCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteCategory)

			admin.GET("/orders", adminHandler.ListOrders)
			admin.PATCH("/orders/:id", adminHandler.UpdateOrderStatus)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
