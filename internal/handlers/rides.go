package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"carpool-backend/internal/core"
	"carpool-backend/internal/middleware"
	"carpool-backend/internal/models"
	"carpool-backend/internal/services"
)

// CreateRide handles the creation of a new ride by a driver
func CreateRide(rides *core.RideService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Departure     string    `json:"departure" binding:"required"`
			Destination   string    `json:"destination" binding:"required"`
			DepartureTime time.Time `json:"departureTime" binding:"required"`
			Price         float64   `json:"price"`
			TotalSeats    int       `json:"totalSeats" binding:"required"`
			Description   string    `json:"description"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		ride, err := rides.Create(c.Request.Context(), middleware.Actor(c), core.CreateRideInput{
			Departure:     input.Departure,
			Destination:   input.Destination,
			DepartureTime: input.DepartureTime,
			Price:         input.Price,
			TotalSeats:    input.TotalSeats,
			Description:   input.Description,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		services.InvalidateStats(c.Request.Context(), "driver", ride.DriverID)
		c.JSON(201, ride)
	}
}

// GetAvailableRides retrieves active future rides with optional search.
// Availability is derived from the booking set, never stored.
func GetAvailableRides(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		departure := c.Query("departure")
		destination := c.Query("destination")

		var rides []models.Ride
		query := db.Preload("Driver").
			Where("status = ? AND departure_time > ?", models.RideStatusActive, time.Now())

		if departure != "" {
			query = query.Where("LOWER(departure) LIKE LOWER(?)", "%"+strings.ToLower(departure)+"%")
		}
		if destination != "" {
			query = query.Where("LOWER(destination) LIKE LOWER(?)", "%"+strings.ToLower(destination)+"%")
		}

		if err := query.Order("departure_time ASC").Find(&rides).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch rides"})
			return
		}

		c.JSON(200, withAvailability(db, rides))
	}
}

// GetRide retrieves a single ride with its derived availability.
func GetRide(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ride models.Ride
		if err := db.Preload("Driver").First(&ride, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Ride not found"})
			return
		}

		c.JSON(200, withAvailability(db, []models.Ride{ride})[0])
	}
}

// GetDriverRides retrieves all rides created by the calling driver
func GetDriverRides(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var rides []models.Ride
		if err := db.Where("driver_id = ?", userId).
			Order("departure_time DESC").
			Find(&rides).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch driver rides"})
			return
		}

		c.JSON(200, withAvailability(db, rides))
	}
}

// CompleteRide marks a ride as completed
func CompleteRide(rides *core.RideService) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID, ok := parseID(c, "id")
		if !ok {
			return
		}

		ride, err := rides.Complete(c.Request.Context(), middleware.Actor(c), rideID)
		if err != nil {
			respondError(c, err)
			return
		}

		services.InvalidateStats(c.Request.Context(), "driver", ride.DriverID)
		c.JSON(200, ride)
	}
}

// CancelRide cancels a ride and all its live bookings, then notifies the
// affected passengers over the hub.
func CancelRide(rides *core.RideService, db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID, ok := parseID(c, "id")
		if !ok {
			return
		}

		// Snapshot the live bookings before the cascade so we know who to
		// notify afterwards.
		var live []models.Booking
		db.Where("ride_id = ? AND status IN ?", rideID,
			[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusAccepted}).
			Find(&live)

		ride, err := rides.Cancel(c.Request.Context(), middleware.Actor(c), rideID)
		if err != nil {
			respondError(c, err)
			return
		}

		services.InvalidateStats(c.Request.Context(), "driver", ride.DriverID)
		for _, booking := range live {
			services.InvalidateStats(c.Request.Context(), "passenger", booking.PassengerID)
			hub.SendRideCancelled(booking.PassengerID, services.RideCancelledEvent{
				RideID:      ride.ID,
				Departure:   ride.Departure,
				Destination: ride.Destination,
			})
		}

		c.JSON(200, ride)
	}
}

// withAvailability attaches the derived available seat count to each ride.
func withAvailability(db *gorm.DB, rides []models.Ride) []gin.H {
	out := make([]gin.H, 0, len(rides))
	for i := range rides {
		ride := &rides[i]

		var bookings []models.Booking
		db.Where("ride_id = ?", ride.ID).Find(&bookings)

		out = append(out, gin.H{
			"id":             ride.ID,
			"driverId":       ride.DriverID,
			"driver":         ride.Driver,
			"departure":      ride.Departure,
			"destination":    ride.Destination,
			"departureTime":  ride.DepartureTime,
			"price":          ride.Price,
			"totalSeats":     ride.TotalSeats,
			"availableSeats": core.AvailableSeats(ride, bookings),
			"bookedSeats":    core.AcceptedSeats(ride, bookings),
			"status":         ride.Status,
			"description":    ride.Description,
			"createdAt":      ride.CreatedAt,
		})
	}
	return out
}
