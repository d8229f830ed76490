package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-barber-booking/internal/domain"
)

func TestCreateBooking_ActiveSlotIsExclusive(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	shop := seedShop(t, db)
	jane := seedIdentity(t, db, "jane@example.com")
	slot := time.Date(2026, 5, 4, 14, 0, 0, 0, time.UTC)

	first, err := CreateBooking(ctx, db, &domain.Booking{ShopID: shop.ID, IdentityID: &jane.ID, ServiceID: "haircut", SlotTime: slot})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if first.ID == "" || first.Status != domain.StatusBooked {
		t.Fatalf("unexpected booking: %+v", first)
	}

	// Same slot again -> duplicate.
	_, err = CreateBooking(ctx, db, &domain.Booking{ShopID: shop.ID, IdentityID: &jane.ID, ServiceID: "haircut", SlotTime: slot})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// An owner block on the same slot also collides.
	_, err = CreateBooking(ctx, db, &domain.Booking{ShopID: shop.ID, SlotTime: slot, Status: domain.StatusUnavailable})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for block, got %v", err)
	}

	// Same instant expressed in another zone is the same slot.
	ny := time.FixedZone("EDT", -4*3600)
	_, err = CreateBooking(ctx, db, &domain.Booking{ShopID: shop.ID, IdentityID: &jane.ID, SlotTime: slot.In(ny)})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for zoned instant, got %v", err)
	}

	// A different shop may use the same instant.
	other := seedShop(t, db)
	if _, err := CreateBooking(ctx, db, &domain.Booking{ShopID: other.ID, IdentityID: &jane.ID, SlotTime: slot}); err != nil {
		t.Fatalf("other shop same slot: %v", err)
	}

	// Canceling frees the slot.
	if err := TransitionBooking(ctx, db, first.ID, domain.StatusBooked, domain.StatusCanceled); err != nil {
		t.Fatalf("TransitionBooking: %v", err)
	}
	again, err := CreateBooking(ctx, db, &domain.Booking{ShopID: shop.ID, IdentityID: &jane.ID, ServiceID: "haircut", SlotTime: slot})
	if err != nil {
		t.Fatalf("rebook after cancel: %v", err)
	}
	if again.ID == first.ID {
		t.Fatalf("expected a new booking id")
	}
}

func TestCreateBooking_UnknownShop_FK(t *testing.T) {
	db := newTestDB(t, true)
	_, err := CreateBooking(context.Background(), db, &domain.Booking{ShopID: "nope", SlotTime: time.Now()})
	if err == nil {
		t.Fatalf("expected foreign key error")
	}
	if errors.Is(err, ErrDuplicate) {
		t.Fatalf("FK failure must not look like a duplicate: %v", err)
	}
}

func TestGetBooking_AndTransition(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	shop := seedShop(t, db)
	jane := seedIdentity(t, db, "jane@example.com")

	b, err := CreateBooking(ctx, db, &domain.Booking{ShopID: shop.ID, IdentityID: &jane.ID, ServiceID: "haircut", SlotTime: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	got, err := GetBooking(ctx, db, b.ID)
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if got.Identity == nil || got.Identity.Name != "Jane Doe" {
		t.Fatalf("identity not preloaded: %+v", got)
	}
	if _, err := GetBooking(ctx, db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Wrong source status -> not found.
	if err := TransitionBooking(ctx, db, b.ID, domain.StatusUnavailable, domain.StatusCanceled); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := TransitionBooking(ctx, db, b.ID, domain.StatusBooked, domain.StatusCanceled); err != nil {
		t.Fatalf("TransitionBooking: %v", err)
	}
	// Second cancel finds nothing to move.
	if err := TransitionBooking(ctx, db, b.ID, domain.StatusBooked, domain.StatusCanceled); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeat, got %v", err)
	}
}

func TestDayListing_AndActiveSlots(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	shop := seedShop(t, db)
	jane := seedIdentity(t, db, "jane@example.com")
	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	mk := func(h int, status domain.BookingStatus) *domain.Booking {
		t.Helper()
		b := &domain.Booking{ShopID: shop.ID, SlotTime: day.Add(time.Duration(h) * time.Hour), Status: status}
		if status == domain.StatusBooked {
			b.IdentityID = &jane.ID
			b.ServiceID = "haircut"
		}
		out, err := CreateBooking(ctx, db, b)
		if err != nil {
			t.Fatalf("seed %d: %v", h, err)
		}
		return out
	}
	mk(15, domain.StatusBooked)
	mk(10, domain.StatusUnavailable)
	c := mk(11, domain.StatusBooked)
	if err := TransitionBooking(ctx, db, c.ID, domain.StatusBooked, domain.StatusCanceled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	mk(24+9, domain.StatusBooked) // next day

	end := day.AddDate(0, 0, 1)
	total, err := CountDayBookings(ctx, db, shop.ID, day, end)
	if err != nil || total != 3 {
		t.Fatalf("CountDayBookings = %d, %v; want 3", total, err)
	}

	page, err := ListDayBookingsPage(ctx, db, shop.ID, day, end, 0, 2)
	if err != nil {
		t.Fatalf("ListDayBookingsPage: %v", err)
	}
	if len(page) != 2 || page[0].SlotTime.Hour() != 10 || page[1].SlotTime.Hour() != 11 {
		t.Fatalf("unexpected order/page: %+v", page)
	}
	rest, _ := ListDayBookingsPage(ctx, db, shop.ID, day, end, 2, 2)
	if len(rest) != 1 || rest[0].Identity == nil {
		t.Fatalf("expected last row with identity, got %+v", rest)
	}

	active, err := ActiveSlotTimes(ctx, db, shop.ID, day, end)
	if err != nil {
		t.Fatalf("ActiveSlotTimes: %v", err)
	}
	if len(active) != 2 || !active[0].Equal(day.Add(10*time.Hour)) || !active[1].Equal(day.Add(15*time.Hour)) {
		t.Fatalf("unexpected active slots: %v", active)
	}
}
