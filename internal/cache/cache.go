package cache

import (
	"context"
	"strings"
	"time"
)

// Cache stores JSON-encoded values. A value that cannot be decoded is a miss,
// and a zero ttl means no expiry.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Key joins normalized parts with ":". Empty parts are kept so that
// positions stay stable ("a", "", "b" -> "a::b").
func Key(parts ...string) string {
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, ":")
}
