package models

import (
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Active bookings hold their seats against the ride's capacity.
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusAccepted
}

// Terminal reports whether no further booking transition is allowed.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusRejected || s == BookingStatusCancelled || s == BookingStatusCompleted
}

type Booking struct {
	gorm.Model
	RideID      uint          `json:"rideId" gorm:"not null;index"`
	Ride        *Ride         `json:"ride,omitempty"`
	PassengerID uint          `json:"passengerId" gorm:"not null;index"`
	Passenger   *User         `json:"passenger,omitempty"`
	Seats       int           `json:"seats" gorm:"not null"`
	Status      BookingStatus `json:"status" gorm:"not null;default:'pending'"`
}
