package core

import (
	"context"
	"sync"

	"carpool-backend/internal/domain"
	"carpool-backend/internal/models"
)

// memRepo is an in-memory Repository for tests. WithRideLock takes a
// per-ride mutex and rolls the ride's state back if fn fails, matching
// the transactional contract of the Postgres implementation.
type memRepo struct {
	mu          sync.Mutex
	rideLocks   map[uint]*sync.Mutex
	users       map[uint]models.User
	rides       map[uint]models.Ride
	bookings    map[uint]models.Booking
	nextRideID  uint
	nextBooking uint
}

func newMemRepo() *memRepo {
	return &memRepo{
		rideLocks: make(map[uint]*sync.Mutex),
		users:     make(map[uint]models.User),
		rides:     make(map[uint]models.Ride),
		bookings:  make(map[uint]models.Booking),
	}
}

func (r *memRepo) addUser(id uint, role domain.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := models.User{Role: string(role)}
	user.ID = id
	r.users[id] = user
}

func (r *memRepo) GetUser(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "user", ID: id}
	}
	return &user, nil
}

func (r *memRepo) GetRide(ctx context.Context, id uint) (*models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ride, ok := r.rides[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "ride", ID: id}
	}
	return &ride, nil
}

func (r *memRepo) SaveRide(ctx context.Context, ride *models.Ride) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ride.ID == 0 {
		r.nextRideID++
		ride.ID = r.nextRideID
	}
	r.rides[ride.ID] = *ride
	return nil
}

func (r *memRepo) RidesByDriver(ctx context.Context, driverID uint) ([]models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rides []models.Ride
	for _, ride := range r.rides {
		if ride.DriverID == driverID {
			rides = append(rides, ride)
		}
	}
	return rides, nil
}

func (r *memRepo) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "booking", ID: id}
	}
	return &booking, nil
}

func (r *memRepo) SaveBooking(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if booking.ID == 0 {
		r.nextBooking++
		booking.ID = r.nextBooking
	}
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *memRepo) BookingsByRide(ctx context.Context, rideID uint) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var bookings []models.Booking
	for _, b := range r.bookings {
		if b.RideID == rideID {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

func (r *memRepo) BookingsByPassenger(ctx context.Context, passengerID uint) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var bookings []models.Booking
	for _, b := range r.bookings {
		if b.PassengerID == passengerID {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

func (r *memRepo) CountUsersByRole(ctx context.Context) (map[domain.Role]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[domain.Role]int64)
	for _, u := range r.users {
		counts[domain.Role(u.Role)]++
	}
	return counts, nil
}

func (r *memRepo) CountRidesByStatus(ctx context.Context) (map[models.RideStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[models.RideStatus]int64)
	for _, ride := range r.rides {
		counts[ride.Status]++
	}
	return counts, nil
}

func (r *memRepo) CountBookingsByStatus(ctx context.Context) (map[models.BookingStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[models.BookingStatus]int64)
	for _, b := range r.bookings {
		counts[b.Status]++
	}
	return counts, nil
}

func (r *memRepo) WithRideLock(ctx context.Context, rideID uint, fn func(Repository) error) error {
	r.mu.Lock()
	if _, ok := r.rides[rideID]; !ok {
		r.mu.Unlock()
		return domain.NotFoundError{Resource: "ride", ID: rideID}
	}
	lock, ok := r.rideLocks[rideID]
	if !ok {
		lock = &sync.Mutex{}
		r.rideLocks[rideID] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()

	// Snapshot the ride and its bookings so a failing fn leaves no
	// partial writes, like a rolled-back transaction.
	r.mu.Lock()
	rideBefore := r.rides[rideID]
	bookingsBefore := make(map[uint]models.Booking)
	for id, b := range r.bookings {
		if b.RideID == rideID {
			bookingsBefore[id] = b
		}
	}
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.rides[rideID] = rideBefore
		for id, b := range r.bookings {
			if b.RideID != rideID {
				continue
			}
			if prev, ok := bookingsBefore[id]; ok {
				r.bookings[id] = prev
			} else {
				delete(r.bookings, id)
			}
		}
		r.mu.Unlock()
		return err
	}
	return nil
}
