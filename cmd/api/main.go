package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"carpool-backend/internal/core"
	"carpool-backend/internal/database"
	"carpool-backend/internal/handlers"
	"carpool-backend/internal/middleware"
	"carpool-backend/internal/repository"
	"carpool-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	db, err := database.InitDB()
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
	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Core services share one repository; every seat decision goes
	// through its per-ride lock.
	repo := repository.New(db)
	rideService := &core.RideService{Repo: repo}
	bookingService := &core.BookingService{Repo: repo}
	statsService := &core.StatsService{Repo: repo}

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// User routes
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db))
				users.PUT("/profile", handlers.UpdateProfile(db))
				users.PATCH("/:id/role", middleware.RequireAdmin(), handlers.UpdateUserRole(db))
			}

			// Rides routes
			rides := protected.Group("/rides")
			{
				rides.GET("", handlers.GetAvailableRides(db))
				rides.POST("", handlers.CreateRide(rideService))
				rides.GET("/driver", handlers.GetDriverRides(db))
				rides.GET("/:id", handlers.GetRide(db))
				rides.POST("/:id/complete", handlers.CompleteRide(rideService))
				rides.POST("/:id/cancel", handlers.CancelRide(rideService, db, hub))
			}

			// Bookings routes
			bookings := protected.Group("/bookings")
			{
				bookings.POST("", handlers.CreateBooking(bookingService, db, hub))
				bookings.GET("/passenger", handlers.GetPassengerBookings(db))
				bookings.GET("/ride/:rideId", handlers.GetRideBookings(db))
				bookings.POST("/:id/accept", handlers.AcceptBooking(bookingService, db, hub))
				bookings.POST("/:id/reject", handlers.RejectBooking(bookingService, db, hub))
				bookings.POST("/:id/cancel", handlers.CancelBooking(bookingService, db, hub))
				bookings.POST("/:id/complete", handlers.CompleteBooking(bookingService, db, hub))
			}

			// Stats routes
			stats := protected.Group("/stats")
			{
				stats.GET("/driver", handlers.GetDriverStats(statsService))
				stats.GET("/passenger", handlers.GetPassengerStats(statsService))
				stats.GET("/admin", middleware.RequireAdmin(), handlers.GetAdminStats(statsService))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
