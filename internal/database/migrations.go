package database

import (
	"gorm.io/gorm"

	"carpool-backend/internal/models"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Ride{},
		&models.Booking{},
	)
	if err != nil {
		return err
	}

	// Backstop for the one-active-booking-per-passenger rule. The booking
	// service already checks this under the ride lock; the partial index
	// keeps a bug from ever writing a duplicate.
	if db.Migrator().HasTable(&models.Booking{}) {
		err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_one_active
			ON bookings (ride_id, passenger_id)
			WHERE status IN ('pending', 'accepted') AND deleted_at IS NULL`).Error
		if err != nil {
			return err
		}
	}

	return nil
}
