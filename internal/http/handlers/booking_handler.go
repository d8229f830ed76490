// Booking HTTP handlers.
//
// This file exposes REST endpoints for reservations:
//   - POST /shops/{id}/bookings  (reserve a slot)
//   - POST /shops/{id}/blocks    (owner marks a slot unavailable)
//   - GET  /bookings/{id}        (fetch)
//   - POST /bookings/{id}/cancel (free the slot)
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a booking was already
// made with it at the same shop, the original confirmation is returned with
// 200 and `Idempotency-Replayed: true` instead of a slot conflict.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-barber-booking/internal/http/middleware"
	"github.com/tbourn/go-barber-booking/internal/services"
)

// Reserve godoc
// @ID          reserveSlot
// @Summary     Reserve a slot
// @Description Books the slot for a registered customer and returns the confirmation message.
// @Description Supports idempotency via the Idempotency-Key header (same key → same booking).
// @Tags        Bookings
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false  "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       id               path    string  true   "Shop ID (UUID)"  format(uuid)
// @Param       body             body    services.ReserveRequest  true  "Reservation"
//
// @Success     201  {object}  services.Confirmation  "Booked"
// @Success     200  {object}  services.Confirmation  "Replayed"
// @Header      201  {string}  Location  "URL of the booking"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid fields"
// @Failure     404  {object}  handlers.ErrorResponse  "Shop not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Slot unavailable"
// @Failure     422  {object}  handlers.ErrorResponse  "Identity not registered or Idempotency-Key reused"
// @Failure     503  {object}  handlers.ErrorResponse  "Could not be saved"
// @Router      /shops/{id}/bookings [post]
func (h *Handlers) Reserve(c *gin.Context) {
	var req services.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	req.ShopID = c.Param("id")
	req.IdempotencyKey, _ = middleware.GetIdempotencyKey(c)

	conf, err := h.resSvc.Reserve(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Header("Location", h.location("bookings", conf.BookingID))
	if conf.Replayed {
		c.Header(middleware.HeaderIdempotencyReplayed, "true")
		ok(c, http.StatusOK, conf)
		return
	}
	ok(c, http.StatusCreated, conf)
}

// Block godoc
// @ID          blockSlot
// @Summary     Mark a slot unavailable
// @Description Owner-side hold on a slot. It follows the same hours and exclusivity rules as a reservation.
// @Tags        Bookings
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Shop ID (UUID)"  format(uuid)
// @Param       body  body  services.BlockRequest  true  "Slot to block"
//
// @Success     201  {object}  domain.Booking
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid fields"
// @Failure     404  {object}  handlers.ErrorResponse  "Shop not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Slot unavailable"
// @Router      /shops/{id}/blocks [post]
func (h *Handlers) Block(c *gin.Context) {
	var req services.BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	req.ShopID = c.Param("id")

	b, err := h.resSvc.Block(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Location", h.location("bookings", b.ID))
	ok(c, http.StatusCreated, b)
}

// GetBooking godoc
// @ID          getBooking
// @Summary     Get a booking
// @Tags        Bookings
// @Produce     json
//
// @Param       id  path  string  true  "Booking ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Booking
// @Failure     404  {object}  handlers.ErrorResponse  "Booking not found"
// @Router      /bookings/{id} [get]
func (h *Handlers) GetBooking(c *gin.Context) {
	b, err := h.resSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, b)
}

// CancelBooking godoc
// @ID          cancelBooking
// @Summary     Cancel a booking or block
// @Description Moves the booking to canceled, freeing its slot. Canceling twice is a conflict.
// @Tags        Bookings
// @Produce     json
//
// @Param       id  path  string  true  "Booking ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Booking
// @Failure     404  {object}  handlers.ErrorResponse  "Booking not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Already canceled"
// @Router      /bookings/{id}/cancel [post]
func (h *Handlers) CancelBooking(c *gin.Context) {
	b, err := h.resSvc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, b)
}
