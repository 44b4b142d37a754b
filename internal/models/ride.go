package models

import (
	"time"

	"gorm.io/gorm"
)

type RideStatus string

const (
	RideStatusActive    RideStatus = "active"
	RideStatusCompleted RideStatus = "completed"
	RideStatusCancelled RideStatus = "cancelled"
)

// Terminal reports whether no further ride transition is allowed.
func (s RideStatus) Terminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

type Ride struct {
	gorm.Model
	DriverID      uint       `json:"driverId" gorm:"not null;index"`
	Driver        *User      `json:"driver,omitempty"`
	Departure     string     `json:"departure" gorm:"not null"`
	Destination   string     `json:"destination" gorm:"not null"`
	DepartureTime time.Time  `json:"departureTime" gorm:"not null"`
	Price         float64    `json:"price" gorm:"not null"`
	TotalSeats    int        `json:"totalSeats" gorm:"not null"`
	Status        RideStatus `json:"status" gorm:"not null;default:'active'"`
	Description   string     `json:"description"`
}

// Departed reports whether the scheduled departure has elapsed.
func (r *Ride) Departed(now time.Time) bool {
	return !r.DepartureTime.After(now)
}
