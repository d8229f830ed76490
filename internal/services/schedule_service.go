// Package services – ScheduleService
//
// This file implements the read side of the calendar: per-day slot
// availability for customers and the paginated day view of the shop owner's
// dashboard. Days are shop-local; the underlying queries use the half-open
// UTC interval covering that local day.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-barber-booking/internal/repo"
	"github.com/tbourn/go-barber-booking/internal/slots"
	"github.com/tbourn/go-barber-booking/internal/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Dashboard paging defaults.
const (
	DefaultDayPageSize = 20
	MaxDayPageSize     = 100
)

// SlotView is one catalog slot of a day.
type SlotView struct {
	Time      string    `json:"time"`
	Start     time.Time `json:"start"`
	Available bool      `json:"available"`
}

// DayEntry is one dashboard row.
type DayEntry struct {
	BookingID     string    `json:"booking_id"`
	Time          string    `json:"time"`
	SlotTime      time.Time `json:"slot_time"`
	CustomerName  string    `json:"customer_name,omitempty"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	ServiceID     string    `json:"service_id,omitempty"`
	Status        string    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
}

// ScheduleService answers availability and dashboard queries.
type ScheduleService struct {
	DB       *gorm.DB
	Shops    ShopDirectory
	Calendar *Calendar
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(db *gorm.DB, shops ShopDirectory, cal *Calendar) *ScheduleService {
	return &ScheduleService{DB: db, Shops: shops, Calendar: cal}
}

// Available lists the catalog slots that fall within the shop's hours on
// date, each flagged free or taken. Slots that already started are never
// free. A closed day yields an empty list.
func (s *ScheduleService) Available(ctx context.Context, shopID, date string) ([]SlotView, error) {
	tr := otel.Tracer("services/ScheduleService")
	ctx, span := tr.Start(ctx, "Available",
		trace.WithAttributes(attribute.String("shop.id", shopID), attribute.String("slot.date", date)))
	defer span.End()

	fe := fieldErrors{}
	day, _ := s.Calendar.checkBookableDate(fe, FieldSlotDate, strings.TrimSpace(date))
	if strings.TrimSpace(date) == "" {
		fe.add(FieldSlotDate, "is required")
	}
	if err := fe.err(); err != nil {
		return nil, err
	}

	shop, err := s.Shops.Get(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if !shop.WorksOn(slots.WeekdayName(day.Weekday())) {
		return []SlotView{}, nil
	}
	opens, closes, err := shopHours(shop)
	if err != nil {
		return []SlotView{}, nil
	}

	loc := s.Calendar.loc()
	start, end := slots.DayBounds(day, loc)
	held, err := repo.ActiveSlotTimes(ctx, s.DB, shop.ID, start, end)
	if err != nil {
		return nil, persistErr("list active slots", err)
	}
	taken := make(map[int64]bool, len(held))
	for _, t := range held {
		taken[t.Unix()] = true
	}

	out := make([]SlotView, 0, len(s.Calendar.Catalog.Labels()))
	for _, label := range s.Calendar.Catalog.Labels() {
		off, _ := s.Calendar.Catalog.Offset(label)
		if off < opens || off >= closes {
			continue
		}
		slot := slots.Combine(day, off, loc)
		out = append(out, SlotView{
			Time:      label,
			Start:     slot,
			Available: !taken[slot.Unix()] && !s.Calendar.slotExpired(slot),
		})
	}
	span.SetAttributes(attribute.Int("slots.count", len(out)))
	return out, nil
}

// Day returns one page of the shop's bookings (any status) on the local
// date, ordered by slot time, together with the total row count.
// page < 1 defaults to 1; pageSize < 1 uses DefaultDayPageSize and larger
// values are capped at MaxDayPageSize.
func (s *ScheduleService) Day(ctx context.Context, shopID, date string, page, pageSize int) ([]DayEntry, int64, error) {
	tr := otel.Tracer("services/ScheduleService")
	ctx, span := tr.Start(ctx, "Day",
		trace.WithAttributes(attribute.String("shop.id", shopID), attribute.String("slot.date", date)))
	defer span.End()

	page = max(page, 1)
	if pageSize < 1 {
		pageSize = DefaultDayPageSize
	}
	pageSize = utils.Clamp(pageSize, 1, MaxDayPageSize)

	start, end, err := s.dayRange(ctx, shopID, date)
	if err != nil {
		return nil, 0, err
	}

	total, err := repo.CountDayBookings(ctx, s.DB, shopID, start, end)
	if err != nil {
		return nil, 0, persistErr("count day bookings", err)
	}
	rows, err := repo.ListDayBookingsPage(ctx, s.DB, shopID, start, end, utils.Offset(page, pageSize), pageSize)
	if err != nil {
		return nil, 0, persistErr("list day bookings", err)
	}

	loc := s.Calendar.loc()
	out := make([]DayEntry, 0, len(rows))
	for _, b := range rows {
		e := DayEntry{
			BookingID: b.ID,
			Time:      slots.LocalLabel(b.SlotTime, loc),
			SlotTime:  b.SlotTime.UTC(),
			ServiceID: b.ServiceID,
			Status:    string(b.Status),
			Reason:    b.Reason,
		}
		if b.Identity != nil {
			e.CustomerName = b.Identity.Name
			e.CustomerEmail = b.Identity.Email
			e.CustomerPhone = b.Identity.Phone
		}
		out = append(out, e)
	}
	return out, total, nil
}

// DayStats returns the number of bookings on the local date and the most
// recent update among them (nil when there are none).
func (s *ScheduleService) DayStats(ctx context.Context, shopID, date string) (int64, *time.Time, error) {
	start, end, err := s.dayRange(ctx, shopID, date)
	if err != nil {
		return 0, nil, err
	}
	n, last, err := repo.DayBookingsStats(ctx, s.DB, shopID, start, end)
	if err != nil {
		return 0, nil, persistErr("day stats", err)
	}
	return n, last, nil
}

// dayRange parses date (any calendar date, past ones included) and checks
// the shop exists.
func (s *ScheduleService) dayRange(ctx context.Context, shopID, date string) (time.Time, time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, time.Time{}, &ValidationError{Fields: map[string]string{FieldSlotDate: "is required"}}
	}
	loc := s.Calendar.loc()
	day, err := slots.ParseDate(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Fields: map[string]string{FieldSlotDate: "must be a date in YYYY-MM-DD format"}}
	}
	if _, err := s.Shops.Get(ctx, shopID); err != nil {
		if errors.Is(err, ErrShopNotFound) {
			return time.Time{}, time.Time{}, ErrShopNotFound
		}
		return time.Time{}, time.Time{}, err
	}
	start, end := slots.DayBounds(day, loc)
	return start, end, nil
}
