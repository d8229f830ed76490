// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// DayBookingsStats returns aggregate metadata for a shop's bookings in the
// UTC interval [start, end): the total number of rows and the maximum
// UpdatedAt timestamp among those rows.
//
// When the day has no bookings, the returned count is 0 and maxUpdatedAt is nil.
//
// Return values:
//   - count:        total bookings (any status) in the interval
//   - maxUpdatedAt: pointer to the greatest UpdatedAt, or nil if no rows
//   - err:          database error, if any
func DayBookingsStats(ctx context.Context, db *gorm.DB, shopID string, start, end time.Time) (count int64, maxUpdatedAt *time.Time, err error) {
	q := dayScope(db.WithContext(ctx), shopID, start, end)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = dayScope(db.WithContext(ctx), shopID, start, end).
		Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
