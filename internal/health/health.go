package health

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/heptiolabs/healthcheck"
	"github.com/redis/go-redis/v9"
)

const (
	pingTimeout    = 2 * time.Second
	goroutineLimit = 10000
)

// Checker serves /live and /ready.
type Checker struct {
	health healthcheck.Handler
}

// NewChecker registers a goroutine liveness check and readiness checks for
// Postgres and, when configured, Redis.
func NewChecker(db *sql.DB, rdb *redis.Client) *Checker {
	h := healthcheck.NewHandler()
	h.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(goroutineLimit))

	if db != nil {
		h.AddReadinessCheck("postgres", healthcheck.DatabasePingCheck(db, pingTimeout))
	}
	if rdb != nil {
		h.AddReadinessCheck("redis", RedisPingCheck(rdb, pingTimeout))
	}
	return &Checker{health: h}
}

func (c *Checker) Handler() http.Handler { return c.health }

func RedisPingCheck(rdb *redis.Client, timeout time.Duration) healthcheck.Check {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return rdb.Ping(ctx).Err()
	}
}
