package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func idemRouter(opts IdempotencyOptions, lookup IdempotencyLookup, seen func(c *gin.Context)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(IdempotencyValidator(opts, lookup))
	r.POST("/shops/:id/bookings", func(c *gin.Context) {
		if seen != nil {
			seen(c)
		}
		c.Status(http.StatusCreated)
	})
	return r
}

func postBooking(r *gin.Engine, shop, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/shops/"+shop+"/bookings", nil)
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_NoHeader(t *testing.T) {
	called := false
	r := idemRouter(IdempotencyOptions{}, func(context.Context, string, string, time.Time) (bool, error) {
		called = true
		return true, nil
	}, func(c *gin.Context) {
		if _, ok := GetIdempotencyKey(c); ok || IsReplay(c) || IsRateBypass(c) {
			t.Fatalf("no state expected without a header")
		}
	})
	if w := postBooking(r, "s1", ""); w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	if called {
		t.Fatalf("lookup must not run without a key")
	}
}

func TestIdempotency_InvalidKey(t *testing.T) {
	r := idemRouter(IdempotencyOptions{MaxLen: 8}, nil, nil)

	for _, key := range []string{"has space", "way-too-long-key", "semi;colon"} {
		w := postBooking(r, "s1", key)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("key %q: status = %d", key, w.Code)
		}
		var body map[string]string
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["code"] != "bad_idempotency_key" || body["request_id"] == "" {
			t.Fatalf("key %q: body = %v", key, body)
		}
	}

	custom := idemRouter(IdempotencyOptions{Pattern: regexp.MustCompile(`^[0-9]+$`)}, nil, nil)
	if w := postBooking(custom, "s1", "abc"); w.Code != http.StatusBadRequest {
		t.Fatalf("custom pattern should reject, got %d", w.Code)
	}
	if w := postBooking(custom, "s1", "123"); w.Code != http.StatusCreated {
		t.Fatalf("custom pattern should accept, got %d", w.Code)
	}
}

func TestIdempotency_LookupScopesByShop(t *testing.T) {
	lookup := func(_ context.Context, scope, key string, now time.Time) (bool, error) {
		if now.IsZero() || now.Location() != time.UTC {
			t.Fatalf("now must be UTC, got %v", now)
		}
		return scope == "s1" && key == "k-1", nil
	}

	var replay, bypass bool
	var gotKey string
	r := idemRouter(IdempotencyOptions{}, lookup, func(c *gin.Context) {
		replay, bypass = IsReplay(c), IsRateBypass(c)
		gotKey, _ = GetIdempotencyKey(c)
	})

	postBooking(r, "s1", " k-1 ")
	if !replay || !bypass || gotKey != "k-1" {
		t.Fatalf("hit: replay=%v bypass=%v key=%q", replay, bypass, gotKey)
	}

	postBooking(r, "s2", "k-1")
	if replay || bypass || gotKey != "k-1" {
		t.Fatalf("other shop must not replay: replay=%v bypass=%v", replay, bypass)
	}
}

func TestIdempotency_LookupErrorDoesNotBlock(t *testing.T) {
	r := idemRouter(IdempotencyOptions{}, func(context.Context, string, string, time.Time) (bool, error) {
		return false, errors.New("db down")
	}, func(c *gin.Context) {
		if IsReplay(c) {
			t.Fatalf("lookup error must not mark a replay")
		}
	})
	if w := postBooking(r, "s1", "k-1"); w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestIdempotency_CustomScopeParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var scopes []string
	r := gin.New()
	r.Use(IdempotencyValidator(IdempotencyOptions{ScopeParam: "shop"}, func(_ context.Context, scope, _ string, _ time.Time) (bool, error) {
		scopes = append(scopes, scope)
		return false, nil
	}))
	r.POST("/x/:shop", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/y", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, p := range []string{"/x/abc", "/y"} {
		req := httptest.NewRequest(http.MethodPost, p, strings.NewReader(""))
		req.Header.Set(HeaderIdempotencyKey, "k")
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	if len(scopes) != 1 || scopes[0] != "abc" {
		t.Fatalf("scopes = %v, want [abc]", scopes)
	}
}

func TestIdempotency_ReplayRoutesOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var lookups int
	r := gin.New()
	r.Use(IdempotencyValidator(IdempotencyOptions{
		ReplayRoutes: []string{"POST /shops/:id/bookings"},
	}, func(context.Context, string, string, time.Time) (bool, error) {
		lookups++
		return true, nil
	}))
	bypassed := map[string]bool{}
	record := func(c *gin.Context) {
		bypassed[c.Request.Method+" "+c.FullPath()] = IsRateBypass(c)
		c.Status(http.StatusOK)
	}
	r.POST("/shops/:id/bookings", record)
	r.GET("/shops/:id/bookings", record)
	r.POST("/shops/:id/blocks", record)

	for _, rt := range [][2]string{
		{http.MethodPost, "/shops/s1/bookings"},
		{http.MethodGet, "/shops/s1/bookings"},
		{http.MethodPost, "/shops/s1/blocks"},
	} {
		req := httptest.NewRequest(rt[0], rt[1], nil)
		req.Header.Set(HeaderIdempotencyKey, "k-1")
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	if lookups != 1 || !bypassed["POST /shops/:id/bookings"] {
		t.Fatalf("reserve route should replay: lookups=%d bypassed=%v", lookups, bypassed)
	}
	if bypassed["GET /shops/:id/bookings"] || bypassed["POST /shops/:id/blocks"] {
		t.Fatalf("other routes must not bypass the limiter: %v", bypassed)
	}
}
