// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Booking
// model.
//
// Slot exclusivity is enforced by the ux_bookings_active_slot partial unique
// index, so CreateBooking is a single conditional write: it either inserts
// the row or fails with ErrDuplicate. No read-then-write is needed.
//
// Functions:
//
//   - CreateBooking(ctx, db, b) -> *domain.Booking, error
//     Inserts a booking; ErrDuplicate when the slot is already held.
//
//   - GetBooking(ctx, db, id) -> *domain.Booking, error
//     Fetches a booking with its identity, or ErrNotFound.
//
//   - TransitionBooking(ctx, db, id, from, to) -> error
//     Compare-and-set on status; ErrNotFound when the row is not in `from`.
//
//   - CountDayBookings / ListDayBookingsPage(ctx, db, shopID, start, end, ...)
//     Dashboard listing for the half-open UTC interval [start, end).
//
//   - ActiveSlotTimes(ctx, db, shopID, start, end) -> []time.Time, error
//     Slot instants held by booked or unavailable rows.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-barber-booking/internal/domain"
)

// CreateBooking inserts b, generating an ID when empty and defaulting the
// status to booked. SlotTime is normalized to UTC.
func CreateBooking(ctx context.Context, db *gorm.DB, b *domain.Booking) (*domain.Booking, error) {
	rec := *b
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Status == "" {
		rec.Status = domain.StatusBooked
	}
	rec.SlotTime = rec.SlotTime.UTC()
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now
	rec.Shop, rec.Identity = nil, nil

	if err := db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// GetBooking fetches a booking by ID with its identity preloaded.
func GetBooking(ctx context.Context, db *gorm.DB, id string) (*domain.Booking, error) {
	var out domain.Booking
	err := db.WithContext(ctx).
		Preload("Identity").
		Where("id = ?", id).
		First(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// TransitionBooking moves booking id from status `from` to `to`. If no row
// matches (missing, or concurrently moved to another status) it returns
// ErrNotFound.
func TransitionBooking(ctx context.Context, db *gorm.DB, id string, from, to domain.BookingStatus) error {
	res := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func dayScope(db *gorm.DB, shopID string, start, end time.Time) *gorm.DB {
	return db.Model(&domain.Booking{}).
		Where("shop_id = ? AND slot_time >= ? AND slot_time < ?", shopID, start.UTC(), end.UTC())
}

// CountDayBookings returns the number of bookings (any status) for shopID in
// [start, end).
func CountDayBookings(ctx context.Context, db *gorm.DB, shopID string, start, end time.Time) (int64, error) {
	var total int64
	err := dayScope(db.WithContext(ctx), shopID, start, end).Count(&total).Error
	return total, err
}

// ListDayBookingsPage returns a page of bookings for shopID in [start, end),
// ordered by slot time ascending, with identities preloaded.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListDayBookingsPage(ctx context.Context, db *gorm.DB, shopID string, start, end time.Time, offset, limit int) ([]domain.Booking, error) {
	var out []domain.Booking
	err := dayScope(db.WithContext(ctx), shopID, start, end).
		Preload("Identity").
		Order("slot_time asc").
		Order("created_at asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ActiveSlotTimes returns the slot instants in [start, end) that are held by
// a booked or unavailable row.
func ActiveSlotTimes(ctx context.Context, db *gorm.DB, shopID string, start, end time.Time) ([]time.Time, error) {
	var rows []domain.Booking
	err := dayScope(db.WithContext(ctx), shopID, start, end).
		Where("status <> ?", domain.StatusCanceled).
		Select("slot_time").
		Order("slot_time asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.SlotTime.UTC())
	}
	return out, nil
}
