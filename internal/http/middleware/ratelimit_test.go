package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func testContext(remote string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = net.JoinHostPort(remote, "12345")
	c.Request = req
	return c
}

func TestKeyFuncs(t *testing.T) {
	c := testContext("203.0.113.9")
	if got := KeyByClientIP()(c); got != "ip:203.0.113.9" {
		t.Fatalf("KeyByClientIP = %q", got)
	}

	kf := KeyByHeaderOrIP("X-Client-ID")
	if got := kf(c); got != "ip:203.0.113.9" {
		t.Fatalf("fallback key = %q", got)
	}
	c.Request.Header.Set("X-Client-ID", " kiosk-3 ")
	if got := kf(c); got != "client:kiosk-3" {
		t.Fatalf("header key = %q", got)
	}
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(2.0, 0, nil)
	if rl.burst != 1 {
		t.Fatalf("burst coercion failed, got %d", rl.burst)
	}
	if rl.keyFn == nil {
		t.Fatalf("nil keyFn should default to client IP")
	}
	lim := rl.getVisitor("k1")
	if got := rl.getVisitor("k1"); got != lim {
		t.Fatalf("expected the bucket to be reused")
	}
}

func TestRateLimiter_EvictsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(1.0, 1, nil)
	rl.ttl = time.Nanosecond

	rl.mu.Lock()
	rl.visitors["old"] = &visitor{limiter: rate.NewLimiter(1, 1), lastSeen: time.Now().Add(-time.Hour)}
	rl.lookups = 4999
	rl.mu.Unlock()

	_ = rl.getVisitor("new")

	rl.mu.Lock()
	_, oldOK := rl.visitors["old"]
	_, newOK := rl.visitors["new"]
	rl.mu.Unlock()
	if oldOK || !newOK {
		t.Fatalf("old=%v new=%v, want evicted and created", oldOK, newOK)
	}
}

func TestIsRateBypass(t *testing.T) {
	c := testContext("198.51.100.1")
	if IsRateBypass(c) {
		t.Fatalf("expected false by default")
	}
	c.Set(ctxKeyRateBypass, true)
	if !IsRateBypass(c) {
		t.Fatalf("expected true when set")
	}
	c.Set(ctxKeyRateBypass, "yes")
	if IsRateBypass(c) {
		t.Fatalf("non-bool must read as false")
	}
}

func TestRateLimiter_Handler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(1.0, 1, nil)

	r := gin.New()
	r.Use(RequestID())
	r.Use(rl.Handler())
	r.POST("/shops/:id/bookings", func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/shops/s1/bookings", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("first request should pass, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/shops/s1/bookings", nil)
	req.Header.Set(requestIDHeader, "rid-429")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected 429 with Retry-After, got %d %q", w.Code, w.Header().Get("Retry-After"))
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["code"] != "too_many_requests" || body["request_id"] != "rid-429" {
		t.Fatalf("unexpected body: %v", body)
	}

	// Replays skip the bucket.
	rb := gin.New()
	rb.Use(func(c *gin.Context) { c.Set(ctxKeyRateBypass, true); c.Next() })
	rb.Use(rl.Handler())
	rb.POST("/shops/:id/bookings", func(c *gin.Context) { c.Status(http.StatusOK) })
	w = httptest.NewRecorder()
	rb.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/shops/s1/bookings", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("bypass should pass, got %d", w.Code)
	}
}
