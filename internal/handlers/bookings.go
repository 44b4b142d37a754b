package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"carpool-backend/internal/core"
	"carpool-backend/internal/domain"
	"carpool-backend/internal/middleware"
	"carpool-backend/internal/models"
	"carpool-backend/internal/services"
)

// CreateBooking requests seats on a ride for the calling passenger
func CreateBooking(bookings *core.BookingService, db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			RideID uint `json:"rideId" binding:"required"`
			Seats  int  `json:"seats" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		booking, err := bookings.Request(c.Request.Context(), middleware.Actor(c), input.RideID, input.Seats)
		if err != nil {
			respondError(c, err)
			return
		}

		notifyBooking(c.Request.Context(), db, hub, booking, "booking_requested", toDriver)
		c.JSON(201, booking)
	}
}

// AcceptBooking confirms a pending booking on one of the driver's rides
func AcceptBooking(bookings *core.BookingService, db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return bookingTransition(bookings.Accept, db, hub, "booking_accepted", toPassenger)
}

// RejectBooking turns down a pending booking
func RejectBooking(bookings *core.BookingService, db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return bookingTransition(bookings.Reject, db, hub, "booking_rejected", toPassenger)
}

// CancelBooking withdraws the passenger's own booking
func CancelBooking(bookings *core.BookingService, db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return bookingTransition(bookings.Cancel, db, hub, "booking_cancelled", toDriver)
}

// CompleteBooking marks an accepted booking as a finished trip
func CompleteBooking(bookings *core.BookingService, db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return bookingTransition(bookings.Complete, db, hub, "booking_completed", toPassenger)
}

// GetPassengerBookings retrieves all bookings of the calling passenger
func GetPassengerBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var bookings []models.Booking
		if err := db.Where("passenger_id = ?", userId).
			Preload("Ride").
			Preload("Ride.Driver").
			Order("created_at DESC").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, bookings)
	}
}

// GetRideBookings retrieves the bookings on one of the driver's rides
func GetRideBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		role := c.GetString("role")

		var ride models.Ride
		if err := db.First(&ride, c.Param("rideId")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Ride not found"})
			return
		}

		if ride.DriverID != userId && role != string(domain.RoleAdmin) {
			c.JSON(403, gin.H{"error": "Unauthorized"})
			return
		}

		var bookings []models.Booking
		if err := db.Where("ride_id = ?", ride.ID).
			Preload("Passenger").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, bookings)
	}
}

type eventTarget int

const (
	toPassenger eventTarget = iota
	toDriver
)

// bookingTransition wraps the shared shape of the four status handlers.
func bookingTransition(
	op func(context.Context, domain.Actor, uint) (*models.Booking, error),
	db *gorm.DB,
	hub *services.Hub,
	eventType string,
	target eventTarget,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseID(c, "id")
		if !ok {
			return
		}

		booking, err := op(c.Request.Context(), middleware.Actor(c), bookingID)
		if err != nil {
			respondError(c, err)
			return
		}

		notifyBooking(c.Request.Context(), db, hub, booking, eventType, target)
		c.JSON(200, booking)
	}
}

// notifyBooking pushes the transition to the counterparty and drops the
// stats caches it may have staled. Best-effort on both counts.
func notifyBooking(ctx context.Context, db *gorm.DB, hub *services.Hub, booking *models.Booking, eventType string, target eventTarget) {
	var ride models.Ride
	if err := db.First(&ride, booking.RideID).Error; err != nil {
		return
	}

	services.InvalidateStats(ctx, "passenger", booking.PassengerID)
	services.InvalidateStats(ctx, "driver", ride.DriverID)

	userID := booking.PassengerID
	if target == toDriver {
		userID = ride.DriverID
	}
	hub.SendBookingEvent(userID, eventType, services.BookingEvent{
		BookingID: booking.ID,
		RideID:    booking.RideID,
		Seats:     booking.Seats,
		Status:    string(booking.Status),
	})
}
