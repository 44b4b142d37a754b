package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"carpool-backend/internal/core"
	"carpool-backend/internal/domain"
	"carpool-backend/internal/models"
)

// GormRepository implements core.Repository on Postgres. WithRideLock
// takes a transaction and a FOR UPDATE lock on the ride row, which is the
// per-ride serialization boundary: every seat decision reads and writes
// inside that transaction.
type GormRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateNotFound(err, "user", id)
	}
	return &user, nil
}

func (r *GormRepository) GetRide(ctx context.Context, id uint) (*models.Ride, error) {
	var ride models.Ride
	if err := r.db.WithContext(ctx).First(&ride, id).Error; err != nil {
		return nil, translateNotFound(err, "ride", id)
	}
	return &ride, nil
}

func (r *GormRepository) SaveRide(ctx context.Context, ride *models.Ride) error {
	return r.db.WithContext(ctx).Save(ride).Error
}

func (r *GormRepository) RidesByDriver(ctx context.Context, driverID uint) ([]models.Ride, error) {
	var rides []models.Ride
	err := r.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		Order("departure_time DESC").
		Find(&rides).Error
	return rides, err
}

func (r *GormRepository) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, translateNotFound(err, "booking", id)
	}
	return &booking, nil
}

func (r *GormRepository) SaveBooking(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

func (r *GormRepository) BookingsByRide(ctx context.Context, rideID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("ride_id = ?", rideID).
		Find(&bookings).Error
	return bookings, err
}

func (r *GormRepository) BookingsByPassenger(ctx context.Context, passengerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("passenger_id = ?", passengerID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *GormRepository) CountUsersByRole(ctx context.Context) (map[domain.Role]int64, error) {
	var rows []struct {
		Role  string
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("role, count(*) as count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.Role]int64, len(rows))
	for _, row := range rows {
		counts[domain.Role(row.Role)] = row.Count
	}
	return counts, nil
}

func (r *GormRepository) CountRidesByStatus(ctx context.Context) (map[models.RideStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Ride{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[models.RideStatus]int64, len(rows))
	for _, row := range rows {
		counts[models.RideStatus(row.Status)] = row.Count
	}
	return counts, nil
}

func (r *GormRepository) CountBookingsByStatus(ctx context.Context) (map[models.BookingStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[models.BookingStatus]int64, len(rows))
	for _, row := range rows {
		counts[models.BookingStatus(row.Status)] = row.Count
	}
	return counts, nil
}

func (r *GormRepository) WithRideLock(ctx context.Context, rideID uint, fn func(core.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ride models.Ride
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ride, rideID).Error; err != nil {
			return translateNotFound(err, "ride", rideID)
		}
		return fn(&GormRepository{db: tx})
	})
}

func translateNotFound(err error, resource string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFoundError{Resource: resource, ID: id}
	}
	return err
}
