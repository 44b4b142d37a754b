package core

import (
	"context"
	"time"

	"carpool-backend/internal/domain"
	"carpool-backend/internal/models"
)

// BookingService owns the booking lifecycle. Every transition runs under
// the owning ride's lock: seat decisions are judged against a non-racing
// view of the booking set, and a terminal status can never be overwritten
// by a transition that read the booking before it turned terminal.
type BookingService struct {
	Repo Repository
	Now  func() time.Time
}

func (s *BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Request reserves seats on a ride as a pending booking. The pending
// booking provisionally holds its seats until accepted, rejected or
// cancelled.
func (s *BookingService) Request(ctx context.Context, actor domain.Actor, rideID uint, seats int) (*models.Booking, error) {
	if actor.Role != domain.RolePassenger {
		return nil, domain.AuthorizationError{Msg: "only passengers can request bookings"}
	}
	if seats < 1 {
		return nil, domain.ValidationError{Field: "seats", Msg: "must be at least 1"}
	}

	var booking *models.Booking
	err := s.Repo.WithRideLock(ctx, rideID, func(repo Repository) error {
		ride, err := repo.GetRide(ctx, rideID)
		if err != nil {
			return err
		}
		if ride.DriverID == actor.ID {
			return domain.AuthorizationError{Msg: "drivers cannot book their own ride"}
		}

		bookings, err := repo.BookingsByRide(ctx, rideID)
		if err != nil {
			return err
		}
		for _, b := range bookings {
			if b.PassengerID == actor.ID && b.Status.Active() {
				return domain.ConflictError{Msg: "you already have an active booking on this ride"}
			}
		}
		if !CanReserve(ride, bookings, seats, s.now()) {
			return domain.CapacityError{Requested: seats, Available: AvailableSeats(ride, bookings)}
		}

		booking = &models.Booking{
			RideID:      rideID,
			PassengerID: actor.ID,
			Seats:       seats,
			Status:      models.BookingStatusPending,
		}
		return repo.SaveBooking(ctx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Accept confirms a pending booking. Capacity is re-checked against the
// accepted seats only: pending requests may jointly exceed what is left,
// and the excess ones must be rejected rather than accepted.
func (s *BookingService) Accept(ctx context.Context, actor domain.Actor, bookingID uint) (*models.Booking, error) {
	target, err := s.Repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var accepted *models.Booking
	err = s.Repo.WithRideLock(ctx, target.RideID, func(repo Repository) error {
		booking, err := repo.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		ride, err := repo.GetRide(ctx, booking.RideID)
		if err != nil {
			return err
		}
		if err := authorizeRideOwner(actor, ride); err != nil {
			return err
		}
		if booking.Status != models.BookingStatusPending {
			return domain.InvalidStateError{Resource: "booking", Status: string(booking.Status), Msg: "only pending bookings can be accepted"}
		}

		bookings, err := repo.BookingsByRide(ctx, booking.RideID)
		if err != nil {
			return err
		}
		if AcceptedSeats(ride, bookings)+booking.Seats > ride.TotalSeats {
			return domain.CapacityError{
				Requested: booking.Seats,
				Available: ride.TotalSeats - AcceptedSeats(ride, bookings),
			}
		}

		booking.Status = models.BookingStatusAccepted
		if err := repo.SaveBooking(ctx, booking); err != nil {
			return err
		}
		accepted = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accepted, nil
}

// Reject turns down a pending booking and releases its seat hold.
func (s *BookingService) Reject(ctx context.Context, actor domain.Actor, bookingID uint) (*models.Booking, error) {
	target, err := s.Repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var rejected *models.Booking
	err = s.Repo.WithRideLock(ctx, target.RideID, func(repo Repository) error {
		booking, err := repo.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		ride, err := repo.GetRide(ctx, booking.RideID)
		if err != nil {
			return err
		}
		if err := authorizeRideOwner(actor, ride); err != nil {
			return err
		}
		if booking.Status != models.BookingStatusPending {
			return domain.InvalidStateError{Resource: "booking", Status: string(booking.Status), Msg: "only pending bookings can be rejected"}
		}
		booking.Status = models.BookingStatusRejected
		if err := repo.SaveBooking(ctx, booking); err != nil {
			return err
		}
		rejected = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

// Cancel lets the passenger withdraw a pending or accepted booking.
func (s *BookingService) Cancel(ctx context.Context, actor domain.Actor, bookingID uint) (*models.Booking, error) {
	target, err := s.Repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var cancelled *models.Booking
	err = s.Repo.WithRideLock(ctx, target.RideID, func(repo Repository) error {
		booking, err := repo.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.PassengerID != actor.ID && !actor.IsAdmin() {
			return domain.AuthorizationError{Msg: "only the booking's passenger may cancel it"}
		}
		if !booking.Status.Active() {
			return domain.InvalidStateError{Resource: "booking", Status: string(booking.Status), Msg: "only pending or accepted bookings can be cancelled"}
		}
		booking.Status = models.BookingStatusCancelled
		if err := repo.SaveBooking(ctx, booking); err != nil {
			return err
		}
		cancelled = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// Complete marks an accepted booking as a finished trip once the ride's
// departure time has elapsed.
func (s *BookingService) Complete(ctx context.Context, actor domain.Actor, bookingID uint) (*models.Booking, error) {
	target, err := s.Repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var completed *models.Booking
	err = s.Repo.WithRideLock(ctx, target.RideID, func(repo Repository) error {
		booking, err := repo.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		ride, err := repo.GetRide(ctx, booking.RideID)
		if err != nil {
			return err
		}
		if err := authorizeRideOwner(actor, ride); err != nil {
			return err
		}
		if booking.Status != models.BookingStatusAccepted {
			return domain.InvalidStateError{Resource: "booking", Status: string(booking.Status), Msg: "only accepted bookings can be completed"}
		}
		if !ride.Departed(s.now()) {
			return domain.InvalidStateError{Resource: "ride", Status: string(ride.Status), Msg: "ride has not departed yet"}
		}
		booking.Status = models.BookingStatusCompleted
		if err := repo.SaveBooking(ctx, booking); err != nil {
			return err
		}
		completed = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}
