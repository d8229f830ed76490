// Package services – Calendar
//
// Calendar bundles the time rules shared by the reservation and schedule
// services: the slot catalog, the shop-local zone, the booking horizon, and
// the clock. Swapping Now makes every date rule deterministic in tests.
package services

import (
	"fmt"
	"time"

	"github.com/tbourn/go-barber-booking/internal/config"
	"github.com/tbourn/go-barber-booking/internal/domain"
	"github.com/tbourn/go-barber-booking/internal/slots"
)

// Calendar holds the bookable-time configuration.
type Calendar struct {
	Catalog       *slots.Catalog
	Location      *time.Location
	HorizonMonths int
	Now           func() time.Time
}

// NewCalendar builds a Calendar from booking configuration.
func NewCalendar(cfg config.BookingConfig) (*Calendar, error) {
	cat, err := slots.NewCatalog(cfg.FirstSlot, cfg.LastSlot, cfg.SlotStep)
	if err != nil {
		return nil, err
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	months := cfg.HorizonMonths
	if months < 1 {
		months = 2
	}
	return &Calendar{Catalog: cat, Location: loc, HorizonMonths: months, Now: time.Now}, nil
}

func (c *Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c *Calendar) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Today is midnight of the current shop-local day.
func (c *Calendar) Today() time.Time { return slots.Today(c.now(), c.loc()) }

// checkBookableDate parses raw and requires today <= date <= today+horizon.
func (c *Calendar) checkBookableDate(fe fieldErrors, field, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false // reported as required by the struct tags
	}
	date, err := slots.ParseDate(raw, c.loc())
	if err != nil {
		fe.add(field, "must be a date in YYYY-MM-DD format")
		return time.Time{}, false
	}
	today := c.Today()
	if date.Before(today) {
		fe.add(field, "must not be in the past")
		return time.Time{}, false
	}
	if last := slots.HorizonEnd(today, c.HorizonMonths); date.After(last) {
		fe.add(field, fmt.Sprintf("must be on or before %s", last.Format(slots.DateLayout)))
		return time.Time{}, false
	}
	return date, true
}

// checkCatalogTime resolves raw against the slot catalog.
func (c *Calendar) checkCatalogTime(fe fieldErrors, field, raw string) (time.Duration, bool) {
	if raw == "" {
		return 0, false
	}
	off, ok := c.Catalog.Offset(raw)
	if !ok {
		fe.add(field, "must be one of the offered times")
		return 0, false
	}
	return off, true
}

// shopHours parses the shop's opening hours as offsets from midnight.
func shopHours(s *domain.Shop) (opens, closes time.Duration, err error) {
	if opens, err = slots.ParseClock(s.OpenTime); err != nil {
		return 0, 0, err
	}
	if closes, err = slots.ParseClock(s.CloseTime); err != nil {
		return 0, 0, err
	}
	return opens, closes, nil
}

// checkShopSlot requires that the shop works on date's weekday and that
// off falls within [open, close).
func (c *Calendar) checkShopSlot(fe fieldErrors, shop *domain.Shop, date time.Time, off time.Duration) {
	if !shop.WorksOn(slots.WeekdayName(date.Weekday())) {
		fe.add(FieldSlotDate, "the shop is closed on "+date.Weekday().String())
		return
	}
	opens, closes, err := shopHours(shop)
	if err != nil {
		fe.add(FieldSlotTime, "the shop has no valid opening hours")
		return
	}
	if off < opens || off >= closes {
		fe.add(FieldSlotTime, fmt.Sprintf("must be between %s and %s", slots.FormatLabel(opens), slots.FormatLabel(closes)))
	}
}

// slotExpired reports whether the slot instant has already started.
func (c *Calendar) slotExpired(slot time.Time) bool {
	return !slot.After(c.now())
}
