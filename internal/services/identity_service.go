// Package services – IdentityService
//
// This file implements the identity directory: registration of customers
// and shop owners, and lookup by email. Reservations never create
// identities; an unknown email is reported back so the caller can route the
// user to registration.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-barber-booking/internal/domain"
	"github.com/tbourn/go-barber-booking/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// IdentityRepo defines the repository contract required by IdentityService.
type IdentityRepo interface {
	CreateIdentity(ctx context.Context, db *gorm.DB, in *domain.Identity) (*domain.Identity, error)
	FindIdentityByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Identity, error)
}

// RegisterRequest is the registration form.
type RegisterRequest struct {
	Name         string `json:"name"          validate:"required,min=2,max=255"`
	Email        string `json:"email"         validate:"required,email,max=320"`
	Phone        string `json:"phone"         validate:"required,min=10,max=32"`
	SlotDuration int    `json:"slot_duration" validate:"omitempty,oneof=30 60"`
}

// IdentityService registers and resolves identities.
type IdentityService struct {
	DB   *gorm.DB
	Repo IdentityRepo
}

// NewIdentityService constructs an IdentityService.
func NewIdentityService(db *gorm.DB, r IdentityRepo) *IdentityService {
	return &IdentityService{DB: db, Repo: r}
}

// Register validates req and stores a new identity. A second registration
// for the same email (case-insensitive) returns ErrIdentityExists.
func (s *IdentityService) Register(ctx context.Context, req RegisterRequest) (*domain.Identity, error) {
	tr := otel.Tracer("services/IdentityService")
	ctx, span := tr.Start(ctx, "Register")
	defer span.End()

	req.Name = collapseSpaces(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)

	fe := fieldErrors{}
	validateStruct(fe, req)
	if err := fe.err(); err != nil {
		return nil, err
	}

	id, err := s.Repo.CreateIdentity(ctx, s.DB, &domain.Identity{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		SlotDuration: req.SlotDuration,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrIdentityExists
		}
		return nil, persistErr("register identity", err)
	}
	span.SetAttributes(attribute.String("identity.id", id.ID))
	return id, nil
}

// FindByEmail resolves an identity, or returns ErrIdentityNotFound.
func (s *IdentityService) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrIdentityNotFound
	}
	id, err := s.Repo.FindIdentityByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, persistErr("lookup identity", err)
	}
	return id, nil
}
