// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Shop
// model (the shop directory).
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-barber-booking/internal/domain"
)

// CreateShop inserts a shop record, generating an ID when empty.
// On failure the raw DB error is returned.
func CreateShop(ctx context.Context, db *gorm.DB, in *domain.Shop) (*domain.Shop, error) {
	rec := *in
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now

	if err := db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// GetShop fetches a shop by ID, or ErrNotFound.
func GetShop(ctx context.Context, db *gorm.DB, id string) (*domain.Shop, error) {
	var out domain.Shop
	if err := db.WithContext(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}
