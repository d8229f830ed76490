// Package services defines the business logic for reservations, schedules,
// shops, and identities. This file centralizes service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Lookup and state errors.
var (
	// ErrShopNotFound indicates that the requested shop does not exist.
	ErrShopNotFound = errors.New("shop not found")

	// ErrBookingNotFound indicates that the requested booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrIdentityNotFound indicates that no identity is registered for an email.
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrIdentityExists is returned when registering an email twice.
	ErrIdentityExists = errors.New("identity already registered")

	// ErrInvalidTransition is returned when a booking cannot move to the
	// requested status (e.g., canceling a canceled booking or a block).
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrIdempotencyKeyReused is returned when a live Idempotency-Key is
	// sent with a different customer, slot, or service than the request
	// that first used it.
	ErrIdempotencyKeyReused = errors.New("idempotency key reused for a different request")
)

// ValidationError reports every malformed request field at once, as a
// field-to-message mapping. It is detected before any I/O and is always
// correctable by the caller.
type ValidationError struct {
	Fields map[string]string
}

// Error lists the offending fields in a stable order.
func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// fieldErrors accumulates per-field messages; the first message per field wins.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

// err returns nil when nothing was recorded.
func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: map[string]string(f)}
}

// UnknownIdentityError means the requester must register before booking.
type UnknownIdentityError struct {
	Email string
}

func (e *UnknownIdentityError) Error() string {
	return fmt.Sprintf("no identity registered for %q", e.Email)
}

// SlotConflictError means the slot is already held; pick another time.
type SlotConflictError struct {
	ShopID string
	Slot   time.Time
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot %s at shop %s is no longer available", e.Slot.UTC().Format(time.RFC3339), e.ShopID)
}

// PersistenceError wraps a store failure that happened after validation.
// It is safe to retry; the core never retries on its own.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return e.Op + ": " + e.Err.Error() }

// Unwrap exposes the underlying store error.
func (e *PersistenceError) Unwrap() error { return e.Err }

func persistErr(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
