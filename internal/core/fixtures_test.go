package core

import (
	"context"
	"testing"
	"time"

	"carpool-backend/internal/domain"
	"carpool-backend/internal/models"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type testEnv struct {
	repo     *memRepo
	clock    *fakeClock
	rides    *RideService
	bookings *BookingService
	stats    *StatsService

	driver     domain.Actor
	passengerA domain.Actor
	passengerB domain.Actor
	admin      domain.Actor
}

func newTestEnv() *testEnv {
	repo := newMemRepo()
	clock := &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}

	env := &testEnv{
		repo:       repo,
		clock:      clock,
		rides:      &RideService{Repo: repo, Now: clock.Now},
		bookings:   &BookingService{Repo: repo, Now: clock.Now},
		stats:      &StatsService{Repo: repo, Now: clock.Now},
		driver:     domain.Actor{ID: 1, Role: domain.RoleDriver},
		passengerA: domain.Actor{ID: 2, Role: domain.RolePassenger},
		passengerB: domain.Actor{ID: 3, Role: domain.RolePassenger},
		admin:      domain.Actor{ID: 4, Role: domain.RoleAdmin},
	}
	repo.addUser(1, domain.RoleDriver)
	repo.addUser(2, domain.RolePassenger)
	repo.addUser(3, domain.RolePassenger)
	repo.addUser(4, domain.RoleAdmin)
	return env
}

func (env *testEnv) createRide(t *testing.T, seats int, price float64) *models.Ride {
	t.Helper()
	ride, err := env.rides.Create(context.Background(), env.driver, CreateRideInput{
		Departure:     "Nairobi",
		Destination:   "Nakuru",
		DepartureTime: env.clock.Now().Add(2 * time.Hour),
		Price:         price,
		TotalSeats:    seats,
	})
	if err != nil {
		t.Fatalf("create ride: %v", err)
	}
	return ride
}

func (env *testEnv) requestBooking(t *testing.T, passenger domain.Actor, rideID uint, seats int) *models.Booking {
	t.Helper()
	booking, err := env.bookings.Request(context.Background(), passenger, rideID, seats)
	if err != nil {
		t.Fatalf("request booking: %v", err)
	}
	return booking
}

func (env *testEnv) bookingStatus(t *testing.T, id uint) models.BookingStatus {
	t.Helper()
	booking, err := env.repo.GetBooking(context.Background(), id)
	if err != nil {
		t.Fatalf("get booking %d: %v", id, err)
	}
	return booking.Status
}
