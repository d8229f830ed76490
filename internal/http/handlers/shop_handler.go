// Shop HTTP handlers.
//
// This file exposes REST endpoints for shops and their calendars:
//   - POST /shops                     (onboard)
//   - GET  /shops/{id}                (fetch)
//   - GET  /shops/{id}/slots?date=    (availability for a day)
//   - GET  /shops/{id}/bookings?date= (owner dashboard, paginated, ETag support)
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-barber-booking/internal/services"
)

//
// DTOs
//

// ListSlotsResponse is the availability of one shop-local day.
type ListSlotsResponse struct {
	ShopID string              `json:"shop_id"`
	Date   string              `json:"date" example:"2026-05-05"`
	Slots  []services.SlotView `json:"slots"`
}

// ListDayBookingsResponse is one page of the owner dashboard.
type ListDayBookingsResponse struct {
	ShopID     string              `json:"shop_id"`
	Date       string              `json:"date" example:"2026-05-05"`
	Bookings   []services.DayEntry `json:"bookings"`
	Pagination Pagination          `json:"pagination"`
}

//
// Handlers
//

// CreateShop godoc
// @ID          createShop
// @Summary     Onboard a shop
// @Description Validates the onboarding form and creates the shop. Services are given as free text separated by commas or newlines.
// @Tags        Shops
// @Accept      json
// @Produce     json
//
// @Param       body  body  services.CreateShopRequest  true  "Onboarding form"
//
// @Success     201  {object}  domain.Shop
// @Header      201  {string}  Location  "URL of the new shop"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid form"
// @Failure     503  {object}  handlers.ErrorResponse  "Could not be saved"
// @Router      /shops [post]
func (h *Handlers) CreateShop(c *gin.Context) {
	var req services.CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	shop, err := h.shopSvc.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Location", h.location("shops", shop.ID))
	ok(c, http.StatusCreated, shop)
}

// GetShop godoc
// @ID          getShop
// @Summary     Get a shop
// @Tags        Shops
// @Produce     json
//
// @Param       id  path  string  true  "Shop ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Shop
// @Failure     404  {object}  handlers.ErrorResponse  "Shop not found"
// @Router      /shops/{id} [get]
func (h *Handlers) GetShop(c *gin.Context) {
	shop, err := h.shopSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, shop)
}

// ListSlots godoc
// @ID          listSlots
// @Summary     Slot availability for a day
// @Description Lists the catalog slots inside the shop's hours on the given date, each flagged available or taken. Closed days return an empty list.
// @Tags        Shops
// @Produce     json
//
// @Param       id    path   string  true  "Shop ID (UUID)"  format(uuid)
// @Param       date  query  string  true  "Shop-local date"  example(2026-05-05)
//
// @Success     200  {object}  handlers.ListSlotsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid date"
// @Failure     404  {object}  handlers.ErrorResponse  "Shop not found"
// @Router      /shops/{id}/slots [get]
func (h *Handlers) ListSlots(c *gin.Context) {
	shopID, date := c.Param("id"), c.Query("date")

	views, err := h.schedSvc.Available(c.Request.Context(), shopID, date)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, ListSlotsResponse{ShopID: shopID, Date: date, Slots: views})
}

// ListDayBookings godoc
// @ID          listDayBookings
// @Summary     Owner dashboard for a day (paginated)
// @Description Returns the shop's bookings and blocks on the given date ordered by time. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Shops
// @Produce     json
//
// @Param       id             path    string  true   "Shop ID (UUID)"  format(uuid)
// @Param       date           query   string  true   "Shop-local date"  example(2026-05-05)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Param       page           query   int     false  "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListDayBookingsResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid date"
// @Failure     404  {object}  handlers.ErrorResponse  "Shop not found"
// @Router      /shops/{id}/bookings [get]
func (h *Handlers) ListDayBookings(c *gin.Context) {
	ctx := c.Request.Context()
	shopID, date := c.Param("id"), c.Query("date")
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort); errors surface from Day below.
	if count, maxTS, err := h.schedSvc.DayStats(ctx, shopID, date); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		etag := fmt.Sprintf(`W/"day:%s:%s:%d:%d:%d:%d"`, shopID, date, count, ts, page, pageSize)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.schedSvc.Day(ctx, shopID, date, page, pageSize)
	if err != nil {
		c.Writer.Header().Del("ETag")
		writeServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, ListDayBookingsResponse{
		ShopID:     shopID,
		Date:       date,
		Bookings:   items,
		Pagination: newPagination(page, pageSize, total),
	})
}
