// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants and the translation of
// service errors into HTTP responses. Codes give clients a stable,
// machine-readable taxonomy that supplements human-readable messages.
//
// Conventions:
//   - Codes are lowercase snake_case.
//   - Generic codes (bad_request, not_found, conflict) mirror HTTP semantics.
//   - Booking codes (slot_unavailable, identity_not_registered,
//     idempotency_key_reused) are reserved for outcomes a client is expected
//     to branch on.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "slot_unavailable",
//	  "message": "the selected time slot is no longer available"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-barber-booking/internal/http/middleware"
	"github.com/tbourn/go-barber-booking/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Domain-specific:
	ErrCodeValidation        = "validation_failed"
	ErrCodeUnknownIdentity   = "identity_not_registered"
	ErrCodeSlotUnavailable   = "slot_unavailable"
	ErrCodePersistenceFailed = "persistence_failed"
	ErrCodeIdempotencyReused = "idempotency_key_reused"
)

// writeServiceError maps an error returned by the services package onto the
// error envelope. Unknown errors become 500 internal_error.
func writeServiceError(c *gin.Context, err error) {
	var (
		ve *services.ValidationError
		ue *services.UnknownIdentityError
		ce *services.SlotConflictError
		pe *services.PersistenceError
	)
	switch {
	case errors.As(err, &ve):
		failFields(c, http.StatusBadRequest, ErrCodeValidation, "request has invalid fields", ve.Fields)
	case errors.As(err, &ue):
		fail(c, http.StatusUnprocessableEntity, ErrCodeUnknownIdentity, "no identity is registered for this email; register first")
	case errors.As(err, &ce):
		fail(c, http.StatusConflict, ErrCodeSlotUnavailable, "the selected time slot is no longer available")
	case errors.Is(err, services.ErrIdempotencyKeyReused):
		fail(c, http.StatusUnprocessableEntity, ErrCodeIdempotencyReused, "this Idempotency-Key was already used for a different reservation")
	case errors.Is(err, services.ErrShopNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "shop not found")
	case errors.Is(err, services.ErrBookingNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "booking not found")
	case errors.Is(err, services.ErrIdentityNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "identity not found")
	case errors.Is(err, services.ErrIdentityExists):
		fail(c, http.StatusConflict, ErrCodeConflict, "an identity with this email is already registered")
	case errors.Is(err, services.ErrInvalidTransition):
		fail(c, http.StatusConflict, ErrCodeConflict, "booking cannot change to the requested status")
	case errors.As(err, &pe):
		middleware.LoggerFrom(c).Error().Err(pe.Err).Str("op", pe.Op).Msg("persistence failure")
		c.Header("Retry-After", "1")
		fail(c, http.StatusServiceUnavailable, ErrCodePersistenceFailed, "the request could not be saved; please retry")
	default:
		middleware.LoggerFrom(c).Error().Err(err).Msg("unhandled service error")
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}
