package cache

import (
	"context"
	"time"
)

// NoopCache always misses. Used when Redis is not configured.
type NoopCache struct{}

func (NoopCache) GetJSON(context.Context, string, any) (bool, error) { return false, nil }

func (NoopCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }

func (NoopCache) Del(context.Context, ...string) error { return nil }
