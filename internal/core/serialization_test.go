package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"carpool-backend/internal/domain"
	"carpool-backend/internal/models"
)

// hookRepo wraps memRepo so a test can pause a transition right after a
// read inside its ride lock and fire a rival transition into the gap.
// The rival must block on the lock and then observe the committed state.
type hookRepo struct {
	*memRepo
	mu            sync.Mutex
	bookingReads  int
	rideReads     int
	onBookingRead map[int]func()
	onRideRead    map[int]func()
}

func newHookRepo(m *memRepo) *hookRepo {
	return &hookRepo{
		memRepo:       m,
		onBookingRead: make(map[int]func()),
		onRideRead:    make(map[int]func()),
	}
}

func (r *hookRepo) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	r.mu.Lock()
	r.bookingReads++
	hook := r.onBookingRead[r.bookingReads]
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
	return r.memRepo.GetBooking(ctx, id)
}

func (r *hookRepo) GetRide(ctx context.Context, id uint) (*models.Ride, error) {
	r.mu.Lock()
	r.rideReads++
	hook := r.onRideRead[r.rideReads]
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
	return r.memRepo.GetRide(ctx, id)
}

// WithRideLock hands fn the hooked repo so reads inside the lock still
// pass through the hooks.
func (r *hookRepo) WithRideLock(ctx context.Context, rideID uint, fn func(Repository) error) error {
	return r.memRepo.WithRideLock(ctx, rideID, func(Repository) error {
		return fn(r)
	})
}

func TestCancelRejectSerialized(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	ride := env.createRide(t, 2, 100)
	booking := env.requestBooking(t, env.passengerA, ride.ID, 1)

	hooked := newHookRepo(env.repo)
	svc := &BookingService{Repo: hooked, Now: env.clock.Now}

	// Cancel reads the booking twice: once to learn the ride, once inside
	// the ride lock. Fire the driver's Reject into the window after the
	// locked read, before Cancel writes.
	rejectErr := make(chan error, 1)
	hooked.onBookingRead[2] = func() {
		go func() {
			_, err := svc.Reject(ctx, env.driver, booking.ID)
			rejectErr <- err
		}()
		time.Sleep(100 * time.Millisecond)
	}

	if _, err := svc.Cancel(ctx, env.passengerA, booking.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// The rival waited for the lock and found the booking already
	// terminal; it must not overwrite the cancellation.
	if err := <-rejectErr; !errorKindMatches(err, domain.InvalidStateError{}) {
		t.Fatalf("reject racing cancel: got %v, want invalid state", err)
	}
	if got := env.bookingStatus(t, booking.ID); got != models.BookingStatusCancelled {
		t.Fatalf("booking after race = %s, want cancelled", got)
	}
}

func TestCompleteRideSerializedWithCancel(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	ride := env.createRide(t, 2, 100)
	booking := env.requestBooking(t, env.passengerA, ride.ID, 1)
	if _, err := env.bookings.Accept(ctx, env.driver, booking.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	hooked := newHookRepo(env.repo)
	svc := &RideService{Repo: hooked, Now: env.clock.Now}

	// Pause Cancel after its locked ride read and fire Complete into the
	// gap, before the cascade runs.
	completeErr := make(chan error, 1)
	hooked.onRideRead[1] = func() {
		go func() {
			_, err := svc.Complete(ctx, env.driver, ride.ID)
			completeErr <- err
		}()
		time.Sleep(100 * time.Millisecond)
	}

	if _, err := svc.Cancel(ctx, env.driver, ride.ID); err != nil {
		t.Fatalf("cancel ride: %v", err)
	}

	if err := <-completeErr; !errorKindMatches(err, domain.InvalidStateError{}) {
		t.Fatalf("complete racing cancel: got %v, want invalid state", err)
	}

	// The cancellation and its cascade stand; no booking ends up live (or
	// cancelled) under a "completed" ride.
	rideNow, err := env.repo.GetRide(ctx, ride.ID)
	if err != nil {
		t.Fatalf("get ride: %v", err)
	}
	if rideNow.Status != models.RideStatusCancelled {
		t.Fatalf("ride after race = %s, want cancelled", rideNow.Status)
	}
	if got := env.bookingStatus(t, booking.ID); got != models.BookingStatusCancelled {
		t.Fatalf("booking after race = %s, want cancelled", got)
	}
}
