// Package services – ShopService
//
// This file implements shop onboarding and the shop directory. Create
// applies the onboarding form rules, normalizes working days, opening hours,
// and the free-text service list, and persists the shop. Get is a
// read-through lookup backed by an optional Redis cache.
//
// Persistence failures are never swallowed: they surface as
// *PersistenceError so the caller can retry.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/go-barber-booking/internal/cache"
	"github.com/tbourn/go-barber-booking/internal/domain"
	"github.com/tbourn/go-barber-booking/internal/repo"
	"github.com/tbourn/go-barber-booking/internal/slots"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ShopRepo defines the repository contract required by ShopService.
type ShopRepo interface {
	// CreateShop inserts a new shop row.
	CreateShop(ctx context.Context, db *gorm.DB, s *domain.Shop) (*domain.Shop, error)

	// GetShop fetches a shop by ID.
	GetShop(ctx context.Context, db *gorm.DB, id string) (*domain.Shop, error)
}

// CreateShopRequest carries the onboarding form.
type CreateShopRequest struct {
	ShopName    string   `json:"shop_name"    validate:"required,min=2,max=255"`
	OwnerName   string   `json:"owner_name"   validate:"required,min=2,max=255"`
	Email       string   `json:"email"        validate:"required,email,max=320"`
	Phone       string   `json:"phone"        validate:"required,min=10,max=32"`
	Address     string   `json:"address"      validate:"required,min=5,max=255"`
	City        string   `json:"city"         validate:"required,min=2,max=128"`
	State       string   `json:"state"        validate:"required,min=2,max=128"`
	ZipCode     string   `json:"zip_code"     validate:"required,min=5,max=16"`
	WorkingDays []string `json:"working_days" validate:"required,min=1"`
	OpenTime    string   `json:"open_time"    validate:"required"`
	CloseTime   string   `json:"close_time"   validate:"required"`
	Services    string   `json:"services"     validate:"required"`
	Description string   `json:"description"  validate:"max=2000"`
}

// ShopService implements onboarding and shop lookups.
type ShopService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the shop repository used by this service.
	Repo ShopRepo
	// Cache is optional; nil disables caching.
	Cache *cache.ShopCache
}

// NewShopService constructs a ShopService.
func NewShopService(db *gorm.DB, r ShopRepo, c *cache.ShopCache) *ShopService {
	return &ShopService{DB: db, Repo: r, Cache: c}
}

// Create validates the onboarding form and persists the shop.
func (s *ShopService) Create(ctx context.Context, req CreateShopRequest) (*domain.Shop, error) {
	tr := otel.Tracer("services/ShopService")
	ctx, span := tr.Start(ctx, "Create")
	defer span.End()

	shop, err := buildShop(req)
	if err != nil {
		return nil, err
	}

	created, err := s.Repo.CreateShop(ctx, s.DB, shop)
	if err != nil {
		return nil, persistErr("create shop", err)
	}
	span.SetAttributes(attribute.String("shop.id", created.ID))
	s.Cache.Set(ctx, created)
	return created, nil
}

// Get returns the shop with the given ID, or ErrShopNotFound.
func (s *ShopService) Get(ctx context.Context, id string) (*domain.Shop, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrShopNotFound
	}
	if cached, ok := s.Cache.Get(ctx, id); ok {
		return cached, nil
	}

	tr := otel.Tracer("services/ShopService")
	ctx, span := tr.Start(ctx, "Get", trace.WithAttributes(attribute.String("shop.id", id)))
	defer span.End()

	shop, err := s.Repo.GetShop(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, persistErr("load shop", err)
	}
	s.Cache.Set(ctx, shop)
	return shop, nil
}

// buildShop validates req and converts it to a domain.Shop.
func buildShop(req CreateShopRequest) (*domain.Shop, error) {
	req.ShopName = collapseSpaces(req.ShopName)
	req.OwnerName = collapseSpaces(req.OwnerName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.Address = collapseSpaces(req.Address)
	req.City = collapseSpaces(req.City)
	req.State = collapseSpaces(req.State)
	req.ZipCode = strings.TrimSpace(req.ZipCode)
	req.Services = strings.TrimSpace(req.Services)
	req.Description = strings.TrimSpace(req.Description)

	fe := fieldErrors{}
	validateStruct(fe, req)

	days, ok := normalizeWeekdays(req.WorkingDays)
	if !ok {
		fe.add("working_days", "must contain only weekday names")
	}

	var opens, closes string
	if req.OpenTime != "" && req.CloseTime != "" {
		o, oerr := slots.ParseClock(req.OpenTime)
		c, cerr := slots.ParseClock(req.CloseTime)
		switch {
		case oerr != nil:
			fe.add("open_time", "must be a time of day such as 9:00 AM")
		case cerr != nil:
			fe.add("close_time", "must be a time of day such as 6:00 PM")
		case o >= c:
			fe.add("close_time", "must be after open_time")
		default:
			opens, closes = slots.FormatClock(o), slots.FormatClock(c)
		}
	}

	services := ParseServices(req.Services)
	if req.Services != "" && len(services) == 0 {
		fe.add("services", "must list at least one service")
	}

	if err := fe.err(); err != nil {
		return nil, err
	}
	return &domain.Shop{
		Name:         req.ShopName,
		OwnerName:    req.OwnerName,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		WorkingDays:  days,
		OpenTime:     opens,
		CloseTime:    closes,
		Services:     services,
		ServicesText: req.Services,
		Description:  req.Description,
	}, nil
}

// normalizeWeekdays maps names to canonical lowercase weekdays, in calendar
// order (Monday first) and without duplicates.
func normalizeWeekdays(in []string) ([]string, bool) {
	seen := make(map[int]bool, 7)
	for _, d := range in {
		wd, err := slots.ParseWeekday(d)
		if err != nil {
			return nil, false
		}
		seen[(int(wd)+6)%7] = true // Monday=0 … Sunday=6
	}
	out := make([]string, 0, len(seen))
	for i := 0; i < 7; i++ {
		if seen[i] {
			out = append(out, slots.WeekdayName(time.Weekday((i+1)%7)))
		}
	}
	return out, true
}

// ParseServices splits a free-text service list on commas, semicolons, and
// newlines and returns unique slugs ("Beard Trim" -> "beard-trim") in input
// order.
func ParseServices(text string) []string {
	parts := serviceSepRE.Split(text, -1)
	out := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		slug := Slugify(p)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		out = append(out, slug)
	}
	return out
}

// Slugify lowercases s and joins its alphanumeric runs with '-'.
func Slugify(s string) string {
	// Casers are stateful and must not be shared between goroutines.
	s = cases.Lower(language.Und).String(strings.TrimSpace(s))
	s = nonSlugRE.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// collapseSpaces trims whitespace and collapses inner runs to one space.
func collapseSpaces(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	serviceSepRE = regexp.MustCompile(`[,;\n\r]+`)
	nonSlugRE    = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)
