package core

import (
	"context"
	"time"

	"carpool-backend/internal/domain"
	"carpool-backend/internal/models"
)

// StatsService derives dashboard aggregates by folding over repository
// snapshots. Read-only: recomputing from the same snapshot always yields
// the same numbers.
type StatsService struct {
	Repo Repository
	Now  func() time.Time
}

func (s *StatsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type DriverStats struct {
	ActiveRideCount   int     `json:"activeRideCount"`
	TotalSeatsOffered int     `json:"totalSeatsOffered"`
	BookedSeats       int     `json:"bookedSeats"`
	Earnings          float64 `json:"earnings"`
}

type PassengerStats struct {
	TotalBookings  int     `json:"totalBookings"`
	UpcomingCount  int     `json:"upcomingCount"`
	CompletedCount int     `json:"completedCount"`
	TotalSpent     float64 `json:"totalSpent"`
}

type AdminStats struct {
	UsersByRole      map[domain.Role]int64          `json:"usersByRole"`
	ActiveRides      int64                          `json:"activeRides"`
	BookingsByStatus map[models.BookingStatus]int64 `json:"bookingsByStatus"`
}

// Driver folds earnings and occupancy over all of the driver's rides.
// Earnings count accepted and completed bookings: an accepted booking on
// a completed or departed ride is a finished trip that was never
// individually marked completed.
func (s *StatsService) Driver(ctx context.Context, driverID uint) (*DriverStats, error) {
	if _, err := s.Repo.GetUser(ctx, driverID); err != nil {
		return nil, err
	}
	rides, err := s.Repo.RidesByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	stats := &DriverStats{}
	for i := range rides {
		ride := &rides[i]
		if ride.Status == models.RideStatusActive {
			stats.ActiveRideCount++
			stats.TotalSeatsOffered += ride.TotalSeats
		}
		bookings, err := s.Repo.BookingsByRide(ctx, ride.ID)
		if err != nil {
			return nil, err
		}
		for _, b := range bookings {
			switch b.Status {
			case models.BookingStatusAccepted:
				stats.BookedSeats += b.Seats
				stats.Earnings += ride.Price * float64(b.Seats)
			case models.BookingStatusCompleted:
				stats.Earnings += ride.Price * float64(b.Seats)
			}
		}
	}
	return stats, nil
}

// Passenger folds spend and trip counts over the passenger's bookings.
func (s *StatsService) Passenger(ctx context.Context, passengerID uint) (*PassengerStats, error) {
	if _, err := s.Repo.GetUser(ctx, passengerID); err != nil {
		return nil, err
	}
	bookings, err := s.Repo.BookingsByPassenger(ctx, passengerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rides := make(map[uint]*models.Ride)
	stats := &PassengerStats{TotalBookings: len(bookings)}
	for _, b := range bookings {
		ride, ok := rides[b.RideID]
		if !ok {
			ride, err = s.Repo.GetRide(ctx, b.RideID)
			if err != nil {
				return nil, err
			}
			rides[b.RideID] = ride
		}
		if b.Status.Active() && !ride.Departed(now) {
			stats.UpcomingCount++
		}
		switch b.Status {
		case models.BookingStatusCompleted:
			stats.CompletedCount++
			stats.TotalSpent += ride.Price * float64(b.Seats)
		case models.BookingStatusAccepted:
			stats.TotalSpent += ride.Price * float64(b.Seats)
		}
	}
	return stats, nil
}

// Admin reports platform-wide counts.
func (s *StatsService) Admin(ctx context.Context) (*AdminStats, error) {
	usersByRole, err := s.Repo.CountUsersByRole(ctx)
	if err != nil {
		return nil, err
	}
	ridesByStatus, err := s.Repo.CountRidesByStatus(ctx)
	if err != nil {
		return nil, err
	}
	bookingsByStatus, err := s.Repo.CountBookingsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminStats{
		UsersByRole:      usersByRole,
		ActiveRides:      ridesByStatus[models.RideStatusActive],
		BookingsByStatus: bookingsByStatus,
	}, nil
}
