package core

import (
	"context"

	"carpool-backend/internal/domain"
	"carpool-backend/internal/models"
)

// Repository is the persistence port for the coordinator. Implementations
// must return domain.NotFoundError for missing entities and must make
// every Save visible to subsequent reads within the same lock scope.
type Repository interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)

	GetRide(ctx context.Context, id uint) (*models.Ride, error)
	SaveRide(ctx context.Context, ride *models.Ride) error
	RidesByDriver(ctx context.Context, driverID uint) ([]models.Ride, error)

	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	SaveBooking(ctx context.Context, booking *models.Booking) error
	BookingsByRide(ctx context.Context, rideID uint) ([]models.Booking, error)
	BookingsByPassenger(ctx context.Context, passengerID uint) ([]models.Booking, error)

	CountUsersByRole(ctx context.Context) (map[domain.Role]int64, error)
	CountRidesByStatus(ctx context.Context) (map[models.RideStatus]int64, error)
	CountBookingsByStatus(ctx context.Context) (map[models.BookingStatus]int64, error)

	// WithRideLock runs fn with exclusive access to the ride's booking set.
	// Reads made through the passed Repository see a consistent snapshot and
	// writes are atomic with respect to other locked sections on the same
	// ride: fn returning an error rolls every write back.
	WithRideLock(ctx context.Context, rideID uint, fn func(Repository) error) error
}
