package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-barber-booking/internal/domain"
	"github.com/tbourn/go-barber-booking/internal/services"
	"github.com/tbourn/go-barber-booking/internal/utils"
)

//
// Service contracts (context-aware)
//

// ReservationService books, blocks, and cancels slots.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ReservationService interface {
	// Reserve books a slot for a registered customer.
	Reserve(ctx context.Context, req services.ReserveRequest) (*services.Confirmation, error)
	// Block marks a slot unavailable on behalf of the shop owner.
	Block(ctx context.Context, req services.BlockRequest) (*domain.Booking, error)
	// Get returns a booking by ID.
	Get(ctx context.Context, id string) (*domain.Booking, error)
	// Cancel frees the slot held by a booking or block.
	Cancel(ctx context.Context, id string) (*domain.Booking, error)
}

// ScheduleService answers availability and dashboard queries.
type ScheduleService interface {
	// Available lists the day's catalog slots flagged free or taken.
	Available(ctx context.Context, shopID, date string) ([]services.SlotView, error)
	// Day returns a page of the shop's bookings on date and the total count.
	Day(ctx context.Context, shopID, date string, page, pageSize int) ([]services.DayEntry, int64, error)
	// DayStats returns the row count and latest update for ETag derivation.
	DayStats(ctx context.Context, shopID, date string) (int64, *time.Time, error)
}

// ShopService onboards and resolves shops.
type ShopService interface {
	Create(ctx context.Context, req services.CreateShopRequest) (*domain.Shop, error)
	Get(ctx context.Context, id string) (*domain.Shop, error)
}

// IdentityService registers and resolves customer identities.
type IdentityService interface {
	Register(ctx context.Context, req services.RegisterRequest) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints. It depends on abstract service
// interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	resSvc   ReservationService
	schedSvc ScheduleService
	shopSvc  ShopService
	idSvc    IdentityService

	// basePath prefixes Location headers, e.g. "/api/v1".
	basePath string
}

// New constructs a Handlers instance bound to the given services. basePath
// is the API mount point used when building Location headers.
func New(res ReservationService, sched ScheduleService, shops ShopService, ids IdentityService, basePath string) *Handlers {
	basePath = strings.TrimRight(basePath, "/")
	return &Handlers{resSvc: res, schedSvc: sched, shopSvc: shops, idSvc: ids, basePath: basePath}
}

func (h *Handlers) location(parts ...string) string {
	return h.basePath + "/" + strings.Join(parts, "/")
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	page = max(utils.AtoiDefault(c.Query("page"), 1), 1)
	pageSize = utils.Clamp(utils.AtoiDefault(c.Query("page_size"), services.DefaultDayPageSize), 1, services.MaxDayPageSize)
	return
}
