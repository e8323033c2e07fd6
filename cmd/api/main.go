package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/tablebook/tablebook-backend/internal/config"
	"github.com/tablebook/tablebook-backend/internal/database"
	"github.com/tablebook/tablebook-backend/internal/handlers"
	"github.com/tablebook/tablebook-backend/internal/ledger"
	"github.com/tablebook/tablebook-backend/internal/middleware"
	"github.com/tablebook/tablebook-backend/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Initialize database with better error handling
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize Redis
	if err := services.InitRedis(cfg.RedisURL); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize WebSocket hub and bridge booking events published by other
	// instances into it
	hub := services.NewHub()
	go hub.Run()
	go services.SubscribeBookingEvents(context.Background(), hub.SendBookingEvent)

	bookingLedger := ledger.New(db, logger)

	// Initialize router
	r := gin.Default()
	r.Use(middleware.MetricsMiddleware())

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
		}

		api.GET("/restaurants", handlers.GetRestaurants(db))
		api.GET("/restaurants/:id", handlers.GetRestaurant(db))
		api.GET("/restaurants/:id/reviews", handlers.GetRestaurantReviews(db))
		api.POST("/restaurants/:id/reviews", handlers.CreateReview(db))
		api.GET("/bookings/reserved/:date", handlers.GetReservedRestaurants(bookingLedger))

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(cfg.JWTSecret), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			// User routes
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db))
				users.PUT("/profile", handlers.UpdateProfile(db))
			}

			// Restaurant management
			restaurants := protected.Group("/restaurants")
			{
				restaurants.POST("", handlers.CreateRestaurant(db))
				restaurants.PUT("/:id", handlers.UpdateRestaurant(db))
				restaurants.DELETE("/:id", handlers.DeleteRestaurant(db))
			}

			// Bookings routes
			bookings := protected.Group("/bookings")
			{
				bookings.POST("", handlers.CreateBooking(db, bookingLedger, hub))
				bookings.PUT("/:id/confirm", handlers.ConfirmBooking(db, bookingLedger, hub))
				bookings.PUT("/:id/reject", handlers.RejectBooking(db, bookingLedger, hub))
				bookings.GET("/restaurant/:restaurantId", handlers.GetRestaurantBookings(db, bookingLedger))
				bookings.GET("/owner", handlers.GetOwnerBookings(bookingLedger))
				bookings.GET("/free-days/:restaurantId", handlers.GetFreeDays(bookingLedger))
				bookings.GET("/booked-dates/:restaurantId", handlers.GetBookedDates(bookingLedger))
			}
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
