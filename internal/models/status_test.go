package models

import (
	"testing"
	"time"
)

func TestBookingStatusSets(t *testing.T) {
	active := []BookingStatus{BookingStatusPending, BookingStatusAccepted}
	terminal := []BookingStatus{BookingStatusRejected, BookingStatusCancelled, BookingStatusCompleted}

	for _, s := range active {
		if !s.Active() || s.Terminal() {
			t.Fatalf("%s should be active and non-terminal", s)
		}
	}
	for _, s := range terminal {
		if s.Active() || !s.Terminal() {
			t.Fatalf("%s should be terminal and non-active", s)
		}
	}
}

func TestRideDeparted(t *testing.T) {
	now := time.Now()
	ride := Ride{DepartureTime: now.Add(time.Minute)}
	if ride.Departed(now) {
		t.Fatal("future ride reported as departed")
	}
	ride.DepartureTime = now
	if !ride.Departed(now) {
		t.Fatal("ride at departure time should count as departed")
	}
}
