// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Identity
// model (the identity directory).
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-barber-booking/internal/domain"
)

// CreateIdentity inserts a new identity. Email is stored lowercased and an ID
// is generated when empty. A second identity with the same email yields
// ErrDuplicate.
func CreateIdentity(ctx context.Context, db *gorm.DB, in *domain.Identity) (*domain.Identity, error) {
	rec := *in
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.Email = strings.ToLower(strings.TrimSpace(rec.Email))
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now

	if err := db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// FindIdentityByEmail looks an identity up by case-insensitive email,
// returning ErrNotFound when none is registered.
func FindIdentityByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Identity, error) {
	var out domain.Identity
	err := db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}
