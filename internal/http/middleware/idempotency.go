// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements Idempotency-Key support for unsafe requests such as
// POST /shops/:id/bookings. The middleware validates the header, stashes
// the key for handlers, and asks a lookup whether a live record already
// exists for (shop, key). When it does, the request is marked as a replay
// so the rate limiter lets it through; the reservation service then returns
// the stored confirmation instead of booking twice.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header carrying the client's key.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotencyReplayed is set on responses served from a stored result.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"
)

var defaultIdemPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the validated key stored by IdempotencyValidator.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether the lookup found a stored result for this key.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IdempotencyOptions configures IdempotencyValidator.
type IdempotencyOptions struct {
	// MaxLen caps the key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters; defaults to ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
	// ScopeParam names the path parameter that scopes keys. Defaults to "id"
	// (the shop in /shops/:id/bookings).
	ScopeParam string
	// ReplayRoutes limits the lookup (and the rate-limit bypass) to these
	// "METHOD /full/path" routes, e.g. "POST /api/v1/shops/:id/bookings".
	// Empty means every route with the scope parameter.
	ReplayRoutes []string
}

// IdempotencyLookup reports whether a live record exists for (scope, key) at
// now. Lookup errors never block the request.
type IdempotencyLookup func(ctx context.Context, scope, key string, now time.Time) (exists bool, err error)

// IdempotencyValidator validates the Idempotency-Key header when present.
//
//   - No header: no-op.
//   - Invalid header: 400 with code "bad_idempotency_key".
//   - Lookup hit on a replay route: marks the request as a replay and
//     bypasses rate limiting.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultIdemPattern
	}
	param := opts.ScopeParam
	if param == "" {
		param = "id"
	}
	var routes map[string]bool
	if len(opts.ReplayRoutes) > 0 {
		routes = make(map[string]bool, len(opts.ReplayRoutes))
		for _, rt := range opts.ReplayRoutes {
			routes[rt] = true
		}
	}

	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": RequestIDFrom(c),
				"code":       "bad_idempotency_key",
				"message":    "invalid Idempotency-Key",
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)

		if lookup != nil && (routes == nil || routes[c.Request.Method+" "+c.FullPath()]) {
			if scope := c.Param(param); scope != "" {
				if exists, _ := lookup(c.Request.Context(), scope, key, time.Now().UTC()); exists {
					c.Set(ctxKeyIdemReplay, true)
					c.Set(ctxKeyRateBypass, true)
				}
			}
		}

		c.Next()
	}
}
