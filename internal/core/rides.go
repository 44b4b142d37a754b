package core

import (
	"context"
	"strings"
	"time"

	"carpool-backend/internal/domain"
	"carpool-backend/internal/models"
)

// RideService owns the ride lifecycle: creation, completion and
// cancellation with its booking cascade.
type RideService struct {
	Repo Repository
	Now  func() time.Time
}

func (s *RideService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type CreateRideInput struct {
	Departure     string    `json:"departure"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departureTime"`
	Price         float64   `json:"price"`
	TotalSeats    int       `json:"totalSeats"`
	Description   string    `json:"description"`
}

// Create validates the input and persists a new active ride for the driver.
func (s *RideService) Create(ctx context.Context, actor domain.Actor, in CreateRideInput) (*models.Ride, error) {
	if actor.Role != domain.RoleDriver {
		return nil, domain.AuthorizationError{Msg: "only drivers can create rides"}
	}
	if strings.TrimSpace(in.Departure) == "" {
		return nil, domain.ValidationError{Field: "departure", Msg: "must not be empty"}
	}
	if strings.TrimSpace(in.Destination) == "" {
		return nil, domain.ValidationError{Field: "destination", Msg: "must not be empty"}
	}
	if !in.DepartureTime.After(s.now()) {
		return nil, domain.ValidationError{Field: "departureTime", Msg: "must be in the future"}
	}
	if in.Price < 0 {
		return nil, domain.ValidationError{Field: "price", Msg: "must not be negative"}
	}
	if in.TotalSeats < 1 {
		return nil, domain.ValidationError{Field: "totalSeats", Msg: "must be at least 1"}
	}

	ride := &models.Ride{
		DriverID:      actor.ID,
		Departure:     strings.TrimSpace(in.Departure),
		Destination:   strings.TrimSpace(in.Destination),
		DepartureTime: in.DepartureTime,
		Price:         in.Price,
		TotalSeats:    in.TotalSeats,
		Status:        models.RideStatusActive,
		Description:   in.Description,
	}
	if err := s.Repo.SaveRide(ctx, ride); err != nil {
		return nil, err
	}
	return ride, nil
}

// Complete marks an active ride as completed. Bookings keep their last
// status: an accepted booking on a completed ride reads as a finished
// trip on the aggregation side. Runs under the ride lock so a racing
// Cancel and Complete resolve to exactly one terminal status.
func (s *RideService) Complete(ctx context.Context, actor domain.Actor, rideID uint) (*models.Ride, error) {
	var completed *models.Ride
	err := s.Repo.WithRideLock(ctx, rideID, func(repo Repository) error {
		ride, err := repo.GetRide(ctx, rideID)
		if err != nil {
			return err
		}
		if err := authorizeRideOwner(actor, ride); err != nil {
			return err
		}
		if ride.Status != models.RideStatusActive {
			return domain.InvalidStateError{Resource: "ride", Status: string(ride.Status), Msg: "only active rides can be completed"}
		}
		ride.Status = models.RideStatusCompleted
		if err := repo.SaveRide(ctx, ride); err != nil {
			return err
		}
		completed = ride
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// Cancel marks an active ride as cancelled and cancels every pending or
// accepted booking on it. Ride and cascade commit together or not at all;
// a cancelled ride never keeps a live booking pointing at it.
func (s *RideService) Cancel(ctx context.Context, actor domain.Actor, rideID uint) (*models.Ride, error) {
	var cancelled *models.Ride
	err := s.Repo.WithRideLock(ctx, rideID, func(repo Repository) error {
		ride, err := repo.GetRide(ctx, rideID)
		if err != nil {
			return err
		}
		if err := authorizeRideOwner(actor, ride); err != nil {
			return err
		}
		if ride.Status != models.RideStatusActive {
			return domain.InvalidStateError{Resource: "ride", Status: string(ride.Status), Msg: "only active rides can be cancelled"}
		}

		ride.Status = models.RideStatusCancelled
		if err := repo.SaveRide(ctx, ride); err != nil {
			return err
		}

		bookings, err := repo.BookingsByRide(ctx, rideID)
		if err != nil {
			return err
		}
		for i := range bookings {
			if !bookings[i].Status.Active() {
				continue
			}
			bookings[i].Status = models.BookingStatusCancelled
			if err := repo.SaveBooking(ctx, &bookings[i]); err != nil {
				return err
			}
		}
		cancelled = ride
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func authorizeRideOwner(actor domain.Actor, ride *models.Ride) error {
	if actor.ID == ride.DriverID || actor.IsAdmin() {
		return nil
	}
	return domain.AuthorizationError{Msg: "only the ride's driver may do this"}
}
