package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketplace/internal/auth"
	"marketplace/internal/logging"
	"marketplace/internal/services"
)

// defaultOrigins are the local front-end dev servers allowed by CORS
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173", // Vite dev server
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// Services bundles what the router serves
type Services struct {
	Listings      *services.ListingService
	Verification  *services.VerificationService
	Notifications *services.NotificationService
}

// NewRouter wires middleware and routes for the three marketplace resources
func NewRouter(svc Services, frontendURL string, log *zap.Logger) *gin.Engine {
	log = logging.OrNop(log)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(log))

	allowedOrigins := append([]string{}, defaultOrigins...)
	if frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	listingHandler := NewListingHandler(svc.Listings, log)
	verificationHandler := NewVerificationHandler(svc.Verification, log)
	notificationHandler := NewNotificationHandler(svc.Notifications, log)

	api := router.Group("/api")
	{
		// Listings resource
		api.GET("/products", listingHandler.GetProducts)
		api.GET("/products/:id", listingHandler.GetProduct)
		api.POST("/products", listingHandler.CreateProduct)
		api.GET("/categories", listingHandler.GetCategories)

		// Verification resource; the queue listing checks admin rights itself
		api.GET("/verification", verificationHandler.Get)
		api.POST("/verification", verificationHandler.Submit)
		api.PUT("/verification", auth.AuthMiddleware(), auth.AdminOnly(), verificationHandler.Decide)

		// Notifications resource
		api.GET("/notifications", notificationHandler.GetNotifications)
		api.POST("/notifications", auth.AuthMiddleware(), auth.AdminOnly(), notificationHandler.CreateNotification)
		api.PUT("/notifications", notificationHandler.MarkRead)
	}

	// Admin console
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	admin.Use(auth.AdminOnly())
	{
		admin.GET("/verification/stats", verificationHandler.GetStats)
	}

	return router
}
