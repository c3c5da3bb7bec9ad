package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/local-services-api/config"
	"github.com/kendall-kelly/local-services-api/controllers"
	"github.com/kendall-kelly/local-services-api/middleware"
)

// SetupRouter builds the gin engine with all middleware and API routes.
// The database and services must be initialized first.
func SetupRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	if origins := cfg.AllowedOrigins(); len(origins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{middleware.HeaderPendingBookings, middleware.HeaderXRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/metrics", middleware.MetricsHandler())

	loginLimiter := middleware.NewIPRateLimiter(cfg.LoginRatePerMinute, cfg.LoginBurst)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.LoadActor(), middleware.PendingBookings())
	{
		v1.GET("/health", controllers.HealthCheck)
		v1.GET("/database/status", controllers.DatabaseStatus)
		v1.GET("/uploads/:filename", controllers.GetUploadedImage)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", loginLimiter.RateLimit(), controllers.Login)
			auth.POST("/logout", controllers.Logout)
			auth.GET("/me", middleware.RequireActor(), controllers.Me)
		}

		// Public catalog
		v1.GET("/services", controllers.ListServices)
		v1.GET("/services/nearby", controllers.NearbyServices)
		v1.GET("/services/:id", controllers.GetService)

		protected := v1.Group("")
		protected.Use(middleware.RequireActor())
		{
			protected.POST("/services", controllers.CreateService)
			protected.PATCH("/services/:id/availability", controllers.SetServiceAvailability)
			protected.POST("/services/:id/image", controllers.UploadServiceImage)
			protected.GET("/provider/services", controllers.ListMyServices)

			protected.GET("/bookings", controllers.ListBookings)
			protected.POST("/bookings", controllers.CreateBooking)
			protected.GET("/bookings/:id", controllers.GetBooking)
			protected.PATCH("/bookings/:id/status", controllers.UpdateBookingStatus)
			protected.POST("/bookings/:id/rating", controllers.RateBooking)
			protected.GET("/notifications/pending-bookings", controllers.PendingBookingCount)

			protected.GET("/complaints", controllers.ListComplaints)
			protected.POST("/complaints", controllers.FileComplaint)
			protected.PATCH("/complaints/:id/status", controllers.UpdateComplaintStatus)

			protected.GET("/chats/:userId/messages", controllers.ListMessages)
			protected.POST("/chats/:userId/messages", controllers.SendMessage)

			protected.GET("/admin/users", controllers.ListUsers)
			protected.GET("/admin/overview", controllers.GetOverview)
		}
	}

	return router
}
