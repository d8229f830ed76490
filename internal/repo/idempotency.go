// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the Idempotency
// model used to implement safe-retry semantics for reservation requests.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-barber-booking/internal/domain"
)

// GetIdempotency returns a non-expired record for (shopID, key) or ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, shopID, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(shopID) == "" || strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where("shop_id = ? AND key = ? AND expires_at > ?", shopID, key, now.UTC()).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateIdempotency inserts a record binding key to bookingID and the
// request fingerprint, and returns ErrDuplicate on unique violation. An expired record for the same (shopID, key) is removed first
// so that keys can be reused after their TTL.
func CreateIdempotency(ctx context.Context, db *gorm.DB, shopID, key, bookingID, fingerprint string, ttl time.Duration, now time.Time) (*domain.Idempotency, error) {
	now = now.UTC()
	if err := db.WithContext(ctx).
		Where("shop_id = ? AND key = ? AND expires_at <= ?", shopID, key, now).
		Delete(&domain.Idempotency{}).Error; err != nil {
		return nil, err
	}

	rec := &domain.Idempotency{
		ID:          uuid.NewString(),
		ShopID:      shopID,
		Key:         key,
		BookingID:   bookingID,
		Fingerprint: fingerprint,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, translate(err)
	}
	return rec, nil
}

// PurgeExpiredIdempotency deletes records that expired at or before now and
// reports how many were removed.
func PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("expires_at <= ?", now.UTC()).
		Delete(&domain.Idempotency{})
	return res.RowsAffected, res.Error
}
