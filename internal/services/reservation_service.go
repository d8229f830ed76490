// Package services – ReservationService
//
// This file implements the reservation core: turning a (shop, date, time,
// service) request from a registered customer into a persisted "booked"
// Booking, or rejecting it with a typed error. It also owns the other two
// status changes: cancellation and owner blocks.
//
// Exclusivity: the conflict check and the write are one statement. The
// bookings table carries a partial unique index over (shop_id, slot_time)
// for rows that are not canceled, so of two concurrent inserts for the same
// slot exactly one commits and the other fails with a unique violation that
// is reported as SlotConflictError.
//
// Observability: public methods are OpenTelemetry-instrumented and every
// reservation attempt increments barber_reservations_total{outcome}.
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-barber-booking/internal/domain"
	"github.com/tbourn/go-barber-booking/internal/events"
	"github.com/tbourn/go-barber-booking/internal/repo"
	"github.com/tbourn/go-barber-booking/internal/slots"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Request field names, as reported in ValidationError.Fields.
const (
	FieldCustomerName  = "customer_name"
	FieldCustomerEmail = "customer_email"
	FieldSlotDate      = "slot_date"
	FieldSlotTime      = "slot_time"
	FieldServiceID     = "service_id"
	FieldReason        = "reason"
)

// ShopDirectory resolves shops by ID. ShopService implements it.
type ShopDirectory interface {
	Get(ctx context.Context, id string) (*domain.Shop, error)
}

// IdentityDirectory resolves identities by email. IdentityService implements it.
type IdentityDirectory interface {
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
}

// ReserveRequest is a customer's booking request.
type ReserveRequest struct {
	ShopID        string `json:"-"`
	CustomerName  string `json:"customer_name"  validate:"required,min=2,max=255"`
	CustomerEmail string `json:"customer_email" validate:"required,email,max=320"`
	SlotDate      string `json:"slot_date"      validate:"required"`
	SlotTime      string `json:"slot_time"      validate:"required"`
	ServiceID     string `json:"service_id"     validate:"required,max=64"`

	// IdempotencyKey, when set, makes retries of the same request return the
	// original confirmation instead of a conflict. Reusing it for another
	// customer, slot, or service is rejected.
	IdempotencyKey string `json:"-"`
}

func (r ReserveRequest) normalized() ReserveRequest {
	r.ShopID = strings.TrimSpace(r.ShopID)
	r.CustomerName = collapseSpaces(r.CustomerName)
	r.CustomerEmail = strings.ToLower(strings.TrimSpace(r.CustomerEmail))
	r.SlotDate = strings.TrimSpace(r.SlotDate)
	r.SlotTime = strings.TrimSpace(r.SlotTime)
	r.ServiceID = strings.ToLower(strings.TrimSpace(r.ServiceID))
	r.IdempotencyKey = strings.TrimSpace(r.IdempotencyKey)
	return r
}

// BlockRequest marks a slot unavailable on behalf of the shop owner.
type BlockRequest struct {
	ShopID   string `json:"-"`
	SlotDate string `json:"slot_date" validate:"required"`
	SlotTime string `json:"slot_time" validate:"required"`
	Reason   string `json:"reason"    validate:"max=255"`
}

// Confirmation is the successful result of Reserve.
type Confirmation struct {
	BookingID string    `json:"booking_id"`
	Message   string    `json:"message"`
	SlotTime  time.Time `json:"slot_time"`
	Replayed  bool      `json:"-"`
}

// ReservationService creates, cancels, and blocks bookings.
type ReservationService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Shops and Identities are the read-only collaborators.
	Shops      ShopDirectory
	Identities IdentityDirectory
	// Calendar supplies the slot catalog, zone, horizon, and clock.
	Calendar *Calendar
	// Events receives booking lifecycle notifications; nil disables them.
	Events events.Publisher
	// IdempotencyTTL bounds how long an Idempotency-Key replays.
	IdempotencyTTL time.Duration
}

// NewReservationService wires a ReservationService.
func NewReservationService(db *gorm.DB, shops ShopDirectory, ids IdentityDirectory, cal *Calendar, pub events.Publisher, idemTTL time.Duration) *ReservationService {
	if idemTTL <= 0 {
		idemTTL = 24 * time.Hour
	}
	return &ReservationService{
		DB:             db,
		Shops:          shops,
		Identities:     ids,
		Calendar:       cal,
		Events:         pub,
		IdempotencyTTL: idemTTL,
	}
}

// ConfirmationMessage renders the user-facing confirmation for a slot.
func ConfirmationMessage(slot time.Time, loc *time.Location) string {
	return fmt.Sprintf("Your appointment is scheduled for %s at %s.",
		slots.ConfirmationDate(slot, loc), slots.LocalLabel(slot, loc))
}

// Reserve validates req and books the slot.
//
// Errors:
//   - *ValidationError: malformed request, closed day, hours, or unknown service.
//   - ErrShopNotFound: the shop does not exist.
//   - *UnknownIdentityError: the email is not registered.
//   - *SlotConflictError: the slot is already booked or blocked.
//   - ErrIdempotencyKeyReused: the key already booked a different request.
//   - *PersistenceError: the store failed; safe to retry.
func (s *ReservationService) Reserve(ctx context.Context, req ReserveRequest) (conf *Confirmation, err error) {
	req = req.normalized()

	tr := otel.Tracer("services/ReservationService")
	ctx, span := tr.Start(ctx, "Reserve",
		trace.WithAttributes(
			attribute.String("shop.id", req.ShopID),
			attribute.String("slot.date", req.SlotDate),
			attribute.String("slot.time", req.SlotTime),
			attribute.String("service.id", req.ServiceID),
		),
	)
	defer func() {
		outcome := reserveOutcome(conf, err)
		reservationsTotal.WithLabelValues(outcome).Inc()
		span.SetAttributes(attribute.String("outcome", outcome))
		if err != nil && outcome == outcomeError {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	// 1) Field validation, no I/O.
	fe := fieldErrors{}
	validateStruct(fe, req)
	date, _ := s.Calendar.checkBookableDate(fe, FieldSlotDate, req.SlotDate)
	off, _ := s.Calendar.checkCatalogTime(fe, FieldSlotTime, req.SlotTime)
	if err := fe.err(); err != nil {
		return nil, err
	}

	// 2) Combine into an absolute instant.
	loc := s.Calendar.loc()
	slot := slots.Combine(date, off, loc)
	if s.Calendar.slotExpired(slot) {
		return nil, &ValidationError{Fields: map[string]string{FieldSlotTime: "has already passed"}}
	}

	// Shop-scoped rules: working day, hours, service catalog.
	shop, err := s.Shops.Get(ctx, req.ShopID)
	if err != nil {
		return nil, err
	}
	s.Calendar.checkShopSlot(fe, shop, date, off)
	if !shop.OffersService(req.ServiceID) {
		fe.add(FieldServiceID, "is not offered by this shop")
	}
	if err := fe.err(); err != nil {
		return nil, err
	}

	// 3) Resolve the customer. Registration is a separate flow.
	ident, err := s.Identities.FindByEmail(ctx, req.CustomerEmail)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return nil, &UnknownIdentityError{Email: req.CustomerEmail}
		}
		return nil, err
	}
	span.SetAttributes(attribute.String("identity.id", ident.ID))

	fp := requestFingerprint(ident.ID, slot, req.ServiceID)
	if req.IdempotencyKey != "" {
		if prev, err := s.replay(ctx, req.ShopID, req.IdempotencyKey, fp); err != nil || prev != nil {
			return prev, err
		}
	}

	// 4+5) Conditional insert (and idempotency record) in one transaction.
	var booking *domain.Booking
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := repo.CreateBooking(ctx, tx, &domain.Booking{
			ShopID:     shop.ID,
			IdentityID: &ident.ID,
			ServiceID:  req.ServiceID,
			SlotTime:   slot,
			Status:     domain.StatusBooked,
		})
		if err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return &SlotConflictError{ShopID: shop.ID, Slot: slot}
			}
			return err
		}
		booking = b
		if req.IdempotencyKey != "" {
			if _, err := repo.CreateIdempotency(ctx, tx, shop.ID, req.IdempotencyKey, b.ID, fp, s.IdempotencyTTL, s.Calendar.now()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var conflict *SlotConflictError
		if errors.As(err, &conflict) || errors.Is(err, repo.ErrDuplicate) {
			// A concurrent retry with the same key may have won; replay it.
			if req.IdempotencyKey != "" {
				prev, rerr := s.replay(ctx, req.ShopID, req.IdempotencyKey, fp)
				if errors.Is(rerr, ErrIdempotencyKeyReused) {
					return nil, rerr
				}
				if rerr == nil && prev != nil {
					return prev, nil
				}
			}
			if conflict != nil {
				return nil, conflict
			}
		}
		log.Ctx(ctx).Error().Err(err).Str("shop_id", shop.ID).Msg("reserve: persist booking failed")
		return nil, persistErr("create booking", err)
	}

	// 6) Notify and confirm.
	s.publish(ctx, events.BookingConfirmed, booking)
	log.Ctx(ctx).Info().
		Str("booking_id", booking.ID).
		Str("shop_id", shop.ID).
		Time("slot_time", slot).
		Msg("booking confirmed")

	return &Confirmation{
		BookingID: booking.ID,
		Message:   ConfirmationMessage(slot, loc),
		SlotTime:  slot,
	}, nil
}

// requestFingerprint identifies what a reservation asked for: who, when,
// and which service. Two requests sharing a key must share a fingerprint.
func requestFingerprint(identityID string, slot time.Time, serviceID string) string {
	sum := sha256.Sum256([]byte(identityID + "|" + slot.UTC().Format(time.RFC3339) + "|" + serviceID))
	return hex.EncodeToString(sum[:])
}

// replay returns the stored confirmation for (shopID, key), or (nil, nil)
// when no live record exists. A live record made for a different request
// yields ErrIdempotencyKeyReused.
func (s *ReservationService) replay(ctx context.Context, shopID, key, fingerprint string) (*Confirmation, error) {
	rec, err := repo.GetIdempotency(ctx, s.DB, shopID, key, s.Calendar.now())
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, persistErr("lookup idempotency key", err)
	}
	if rec.Fingerprint != fingerprint {
		return nil, ErrIdempotencyKeyReused
	}
	b, err := repo.GetBooking(ctx, s.DB, rec.BookingID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, persistErr("load booking", err)
	}
	return &Confirmation{
		BookingID: b.ID,
		Message:   ConfirmationMessage(b.SlotTime, s.Calendar.loc()),
		SlotTime:  b.SlotTime.UTC(),
		Replayed:  true,
	}, nil
}

// Get returns a booking with its identity.
func (s *ReservationService) Get(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := repo.GetBooking(ctx, s.DB, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, persistErr("load booking", err)
	}
	return b, nil
}

// Cancel releases a booked slot, or an owner block, by moving it to
// canceled. Canceling a canceled booking yields ErrInvalidTransition.
func (s *ReservationService) Cancel(ctx context.Context, id string) (*domain.Booking, error) {
	tr := otel.Tracer("services/ReservationService")
	ctx, span := tr.Start(ctx, "Cancel", trace.WithAttributes(attribute.String("booking.id", id)))
	defer span.End()

	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.Status.Occupies() {
		return nil, ErrInvalidTransition
	}
	if err := repo.TransitionBooking(ctx, s.DB, b.ID, b.Status, domain.StatusCanceled); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Moved concurrently.
			return nil, ErrInvalidTransition
		}
		return nil, persistErr("cancel booking", err)
	}
	b.Status = domain.StatusCanceled
	b.UpdatedAt = time.Now().UTC()

	bookingTransitions.WithLabelValues(string(domain.StatusCanceled)).Inc()
	s.publish(ctx, events.BookingCanceled, b)
	return b, nil
}

// Block marks a slot unavailable for customers. It follows the same catalog,
// hours, and exclusivity rules as Reserve.
func (s *ReservationService) Block(ctx context.Context, req BlockRequest) (*domain.Booking, error) {
	req.ShopID = strings.TrimSpace(req.ShopID)
	req.SlotDate = strings.TrimSpace(req.SlotDate)
	req.SlotTime = strings.TrimSpace(req.SlotTime)
	req.Reason = collapseSpaces(req.Reason)

	tr := otel.Tracer("services/ReservationService")
	ctx, span := tr.Start(ctx, "Block",
		trace.WithAttributes(
			attribute.String("shop.id", req.ShopID),
			attribute.String("slot.date", req.SlotDate),
			attribute.String("slot.time", req.SlotTime),
		),
	)
	defer span.End()

	fe := fieldErrors{}
	validateStruct(fe, req)
	date, _ := s.Calendar.checkBookableDate(fe, FieldSlotDate, req.SlotDate)
	off, _ := s.Calendar.checkCatalogTime(fe, FieldSlotTime, req.SlotTime)
	if err := fe.err(); err != nil {
		return nil, err
	}

	shop, err := s.Shops.Get(ctx, req.ShopID)
	if err != nil {
		return nil, err
	}
	s.Calendar.checkShopSlot(fe, shop, date, off)
	if err := fe.err(); err != nil {
		return nil, err
	}

	slot := slots.Combine(date, off, s.Calendar.loc())
	b, err := repo.CreateBooking(ctx, s.DB, &domain.Booking{
		ShopID:   shop.ID,
		SlotTime: slot,
		Status:   domain.StatusUnavailable,
		Reason:   req.Reason,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, &SlotConflictError{ShopID: shop.ID, Slot: slot}
		}
		return nil, persistErr("block slot", err)
	}

	bookingTransitions.WithLabelValues(string(domain.StatusUnavailable)).Inc()
	s.publish(ctx, events.SlotBlocked, b)
	return b, nil
}

// publish emits a lifecycle event. Broker failures are logged and never
// fail the request.
func (s *ReservationService) publish(ctx context.Context, key string, b *domain.Booking) {
	if s.Events == nil {
		return
	}
	ev := events.BookingEvent{
		BookingID:  b.ID,
		ShopID:     b.ShopID,
		ServiceID:  b.ServiceID,
		SlotTime:   b.SlotTime.UTC(),
		Status:     string(b.Status),
		Reason:     b.Reason,
		OccurredAt: time.Now().UTC(),
	}
	if b.IdentityID != nil {
		ev.IdentityID = *b.IdentityID
	}
	if err := s.Events.Publish(ctx, key, ev); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("event", key).Str("booking_id", b.ID).Msg("event publish failed")
	}
}

func reserveOutcome(conf *Confirmation, err error) string {
	if err == nil {
		if conf != nil && conf.Replayed {
			return outcomeReplayed
		}
		return outcomeConfirmed
	}
	var (
		ve *ValidationError
		ue *UnknownIdentityError
		ce *SlotConflictError
	)
	switch {
	case errors.As(err, &ve):
		return outcomeInvalid
	case errors.As(err, &ue):
		return outcomeUnknownIdentity
	case errors.As(err, &ce):
		return outcomeConflict
	case errors.Is(err, ErrShopNotFound):
		return outcomeShopNotFound
	case errors.Is(err, ErrIdempotencyKeyReused):
		return outcomeKeyReused
	}
	return outcomeError
}
