package main

import (
	"os"
	"time"

	"milktea-server/internal/database"
	"milktea-server/internal/handlers"
	"milktea-server/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := godotenv.Load(); err != nil {
		zap.L().Warn("no .env file found")
	}

	database.Connect()
	r := gin.Default()

	// CORS for the React storefront dev server
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.Static("/uploads", "./uploads")

	// --- PUBLIC ROUTES ---
	r.POST("/api/auth/register", handlers.Register)
	r.POST("/api/auth/login", handlers.Login)
	r.POST("/api/auth/setup-admin", handlers.SetupAdmin)
	r.GET("/api/products", handlers.GetProducts)

	// Checkout sessions: carts are priced server-side and the simulated
	// payment confirms on the server, never from the client.
	r.POST("/api/checkout", handlers.StartCheckout)
	r.GET("/api/checkout/:id", handlers.GetCheckout)
	r.POST("/api/checkout/:id/method", handlers.ChooseMethod)
	r.POST("/api/checkout/:id/back", handlers.CheckoutBack)
	r.POST("/api/checkout/:id/confirm", handlers.ConfirmCheckout)

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/auth/me", handlers.Me)
		api.POST("/orders", handlers.CreateOrder)
		api.GET("/orders/my-orders", handlers.MyOrders)
		api.GET("/orders/:id", handlers.GetOrder)

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/admin/ask", handlers.AskAssistant)
			admin.POST("/upload", handlers.UploadImage)
			admin.POST("/products", handlers.AddProduct)
			admin.PUT("/products/:id", handlers.UpdateProduct)
			admin.DELETE("/products/:id", handlers.DeleteProduct)
			admin.GET("/admin/dashboard", handlers.GetDashboard)
			admin.GET("/admin/orders", handlers.AdminListOrders)
			admin.GET("/admin/analytics", handlers.GetAnalytics)
			admin.PUT("/admin/orders/:id/status", handlers.UpdateOrderStatus)
		}
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	zap.L().Info("server starting", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		zap.L().Fatal("server failed to start", zap.Error(err))
	}
}
