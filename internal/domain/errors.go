package domain

import "fmt"

// Error kinds used across the core. Handlers map each kind to one
// stable HTTP status, so messages stay free-form.

type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	return e.Msg
}

type NotFoundError struct {
	Resource string
	ID       uint
}

func (e NotFoundError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

type AuthorizationError struct {
	Msg string
}

func (e AuthorizationError) Error() string {
	if e.Msg == "" {
		return "not authorized"
	}
	return e.Msg
}

// InvalidStateError reports a transition attempted from a state that
// does not permit it. These are idempotency boundaries, not retryable.
type InvalidStateError struct {
	Resource string
	Status   string
	Msg      string
}

func (e InvalidStateError) Error() string {
	return fmt.Sprintf("%s is %s: %s", e.Resource, e.Status, e.Msg)
}

// CapacityError reports insufficient seats at decision time. The caller
// may retry with fewer seats or another ride; the core never retries.
type CapacityError struct {
	Requested int
	Available int
}

func (e CapacityError) Error() string {
	return fmt.Sprintf("requested %d seats, %d available", e.Requested, e.Available)
}

// ConflictError reports a duplicate active booking for the same
// passenger/ride pair.
type ConflictError struct {
	Msg string
}

func (e ConflictError) Error() string {
	if e.Msg == "" {
		return "conflict"
	}
	return e.Msg
}
