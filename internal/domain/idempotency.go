// Package domain defines the core persistence models for the application.
// These types are used by GORM for database schema mapping and are shared
// across the repository and service layers.
package domain

import "time"

// Idempotency records the booking produced for a client-supplied
// Idempotency-Key, keyed by (shop_id, key). A retried reservation carrying
// the same key replays the stored booking instead of creating another one,
// but only when its Fingerprint (customer, slot, service) matches.
type Idempotency struct {
	ID          string    `gorm:"type:char(36);primaryKey"`
	ShopID      string    `gorm:"type:char(36);not null;uniqueIndex:ux_idempotency_shop_key,priority:1"`
	Key         string    `gorm:"type:varchar(200);not null;uniqueIndex:ux_idempotency_shop_key,priority:2"`
	BookingID   string    `gorm:"type:char(36);not null"`
	Fingerprint string    `gorm:"type:char(64);not null;default:''"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime"`
	ExpiresAt   time.Time `gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
