// Package domain defines the persistence models for identities, shops, and
// bookings. These types are mapped with GORM and form the core data layer
// of the booking application.
package domain

import (
	"slices"
	"time"

	"gorm.io/datatypes"
)

// BookingStatus is the lifecycle state of a Booking.
type BookingStatus string

const (
	// StatusBooked is a confirmed customer reservation. It is the default.
	StatusBooked BookingStatus = "booked"
	// StatusCanceled frees the slot; canceled rows are kept for history.
	StatusCanceled BookingStatus = "canceled"
	// StatusUnavailable is a slot blocked by the shop owner.
	StatusUnavailable BookingStatus = "unavailable"
)

// Valid reports whether s is one of the enumerated statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusBooked, StatusCanceled, StatusUnavailable:
		return true
	}
	return false
}

// Occupies reports whether a booking in this status holds its slot.
func (s BookingStatus) Occupies() bool {
	return s == StatusBooked || s == StatusUnavailable
}

// Identity is a registered customer or shop owner, distinguished by email.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Email: lowercased, unique.
//   - SlotDuration: preferred appointment length in minutes (30 or 60), 0 when unset.
type Identity struct {
	ID           string    `json:"id"            gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name"          gorm:"type:varchar(255);not null"`
	Email        string    `json:"email"         gorm:"type:varchar(320);not null;uniqueIndex:ux_identities_email"`
	Phone        string    `json:"phone"         gorm:"type:varchar(32)"`
	SlotDuration int       `json:"slot_duration,omitempty" gorm:"not null;default:0;check:slot_duration IN (0,30,60)"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for Identity.
func (Identity) TableName() string { return "identities" }

// Shop is a barber shop created at onboarding. Working days are lowercase
// weekday names; open/close are "15:04" clock values in shop-local time;
// services are slugs such as "haircut" or "beard-trim".
type Shop struct {
	ID           string                      `json:"id"            gorm:"type:char(36);primaryKey"`
	Name         string                      `json:"name"          gorm:"type:varchar(255);not null"`
	OwnerName    string                      `json:"owner_name"    gorm:"type:varchar(255);not null"`
	Email        string                      `json:"email"         gorm:"type:varchar(320);not null;index"`
	Phone        string                      `json:"phone"         gorm:"type:varchar(32);not null"`
	Address      string                      `json:"address"       gorm:"type:varchar(255);not null"`
	City         string                      `json:"city"          gorm:"type:varchar(128);not null"`
	State        string                      `json:"state"         gorm:"type:varchar(128);not null"`
	ZipCode      string                      `json:"zip_code"      gorm:"type:varchar(16);not null"`
	WorkingDays  datatypes.JSONSlice[string] `json:"working_days"  gorm:"not null"`
	OpenTime     string                      `json:"open_time"     gorm:"type:varchar(5);not null"`
	CloseTime    string                      `json:"close_time"    gorm:"type:varchar(5);not null"`
	Services     datatypes.JSONSlice[string] `json:"services"      gorm:"not null"`
	ServicesText string                      `json:"services_text" gorm:"type:text"`
	Description  string                      `json:"description,omitempty" gorm:"type:text"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// TableName returns the database table name for Shop.
func (Shop) TableName() string { return "shops" }

// OffersService reports whether slug is in the shop's service list.
func (s *Shop) OffersService(slug string) bool {
	return slices.Contains([]string(s.Services), slug)
}

// WorksOn reports whether the shop is open on the given lowercase weekday.
func (s *Shop) WorksOn(weekday string) bool {
	return slices.Contains([]string(s.WorkingDays), weekday)
}

// Booking reserves one slot at one shop. SlotTime is always stored in UTC.
//
// At most one booked or unavailable row may exist per (shop_id, slot_time);
// the partial unique index ux_bookings_active_slot is created by
// repo.AutoMigrate because tag-declared partial indexes are not portable
// across drivers.
//
// Fields:
//   - IdentityID: the customer; nil for owner blocks (status unavailable).
//   - ServiceID: service slug; empty for owner blocks.
//   - Reason: free text recorded on blocks.
type Booking struct {
	ID         string        `json:"id"          gorm:"type:char(36);primaryKey"`
	ShopID     string        `json:"shop_id"     gorm:"type:char(36);not null;index:idx_bookings_shop_slot,priority:1"`
	IdentityID *string       `json:"identity_id,omitempty" gorm:"type:char(36);index"`
	ServiceID  string        `json:"service_id,omitempty"  gorm:"type:varchar(64)"`
	SlotTime   time.Time     `json:"slot_time"   gorm:"not null;index:idx_bookings_shop_slot,priority:2"`
	Status     BookingStatus `json:"status"      gorm:"type:varchar(16);not null;default:'booked';check:status IN ('booked','canceled','unavailable')"`
	Reason     string        `json:"reason,omitempty" gorm:"type:varchar(255)"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`

	// Shop is the owning shop. Bookings cascade with their shop.
	Shop *Shop `json:"-" gorm:"foreignKey:ShopID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	// Identity is the customer, when one is attached.
	Identity *Identity `json:"identity,omitempty" gorm:"foreignKey:IdentityID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName returns the database table name for Booking.
func (Booking) TableName() string { return "bookings" }
