package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-barber-booking/internal/domain"
	"github.com/tbourn/go-barber-booking/internal/events/eventstest"
	"github.com/tbourn/go-barber-booking/internal/repo"
	"github.com/tbourn/go-barber-booking/internal/slots"
)

// fixedNow is Monday 2026-05-04 08:00 UTC.
var fixedNow = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

const (
	today    = "2026-05-04"
	tomorrow = "2026-05-05"
)

// ----- Repo shims -----

type shopRepoShim struct{}

func (shopRepoShim) CreateShop(ctx context.Context, db *gorm.DB, s *domain.Shop) (*domain.Shop, error) {
	return repo.CreateShop(ctx, db, s)
}

func (shopRepoShim) GetShop(ctx context.Context, db *gorm.DB, id string) (*domain.Shop, error) {
	return repo.GetShop(ctx, db, id)
}

type identityRepoShim struct{}

func (identityRepoShim) CreateIdentity(ctx context.Context, db *gorm.DB, in *domain.Identity) (*domain.Identity, error) {
	return repo.CreateIdentity(ctx, db, in)
}

func (identityRepoShim) FindIdentityByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Identity, error) {
	return repo.FindIdentityByEmail(ctx, db, email)
}

// ----- Fixture -----

type fixture struct {
	db     *gorm.DB
	cal    *Calendar
	shops  *ShopService
	ids    *IdentityService
	res    *ReservationService
	sched  *ScheduleService
	events *eventstest.Recorder

	shop *domain.Shop
	jane *domain.Identity
}

func newMemDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testCalendar() *Calendar {
	return &Calendar{
		Catalog:       slots.Default(),
		Location:      time.UTC,
		HorizonMonths: 2,
		Now:           func() time.Time { return fixedNow },
	}
}

func downtownCuts() CreateShopRequest {
	return CreateShopRequest{
		ShopName:    "Downtown Cuts",
		OwnerName:   "Sam Barber",
		Email:       "owner@downtowncuts.com",
		Phone:       "5551234567",
		Address:     "1 Main Street",
		City:        "Springfield",
		State:       "IL",
		ZipCode:     "62701",
		WorkingDays: []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		OpenTime:    "9:00 AM",
		CloseTime:   "6:00 PM",
		Services:    "Haircut, Beard Trim",
	}
}

// newFixtureWithDB wires every service over db and seeds Downtown Cuts and
// Jane Doe.
func newFixtureWithDB(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{db: db, cal: testCalendar(), events: &eventstest.Recorder{}}
	f.shops = NewShopService(db, shopRepoShim{}, nil)
	f.ids = NewIdentityService(db, identityRepoShim{})
	f.res = NewReservationService(db, f.shops, f.ids, f.cal, f.events, time.Hour)
	f.sched = NewScheduleService(db, f.shops, f.cal)

	shop, err := f.shops.Create(ctx, downtownCuts())
	if err != nil {
		t.Fatalf("seed shop: %v", err)
	}
	f.shop = shop

	jane, err := f.ids.Register(ctx, RegisterRequest{Name: "Jane Doe", Email: "jane@example.com", Phone: "5550001111"})
	if err != nil {
		t.Fatalf("seed identity: %v", err)
	}
	f.jane = jane
	return f
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithDB(t, newMemDB(t))
}

// janeRequest is Jane's haircut at Downtown Cuts on date/time.
func (f *fixture) janeRequest(date, at string) ReserveRequest {
	return ReserveRequest{
		ShopID:        f.shop.ID,
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		SlotDate:      date,
		SlotTime:      at,
		ServiceID:     "haircut",
	}
}
