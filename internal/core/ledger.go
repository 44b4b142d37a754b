package core

import (
	"time"

	"carpool-backend/internal/models"
)

// Seat ledger: availability is always derived from the booking set, never
// stored. Pending bookings hold their seats alongside accepted ones so two
// concurrent requests cannot both squeeze past capacity; an over-committed
// batch of pending requests is caught again at accept time (AcceptedSeats).

// AvailableSeats returns the ride's capacity minus all seats held by
// pending or accepted bookings.
func AvailableSeats(ride *models.Ride, bookings []models.Booking) int {
	held := 0
	for _, b := range bookings {
		if b.RideID == ride.ID && b.Status.Active() {
			held += b.Seats
		}
	}
	return ride.TotalSeats - held
}

// AcceptedSeats returns the seats held by accepted bookings only.
func AcceptedSeats(ride *models.Ride, bookings []models.Booking) int {
	held := 0
	for _, b := range bookings {
		if b.RideID == ride.ID && b.Status == models.BookingStatusAccepted {
			held += b.Seats
		}
	}
	return held
}

// CanReserve reports whether requestedSeats can be reserved on the ride
// given its current booking set. Rides whose departure time has elapsed
// no longer accept reservations, even while still active.
func CanReserve(ride *models.Ride, bookings []models.Booking, requestedSeats int, now time.Time) bool {
	if ride.Status != models.RideStatusActive || ride.Departed(now) {
		return false
	}
	if requestedSeats < 1 {
		return false
	}
	return requestedSeats <= AvailableSeats(ride, bookings)
}
