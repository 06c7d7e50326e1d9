package services

import (
	"context"
	"time"
)

// DefaultCallTimeout bounds each call to the database, object store or mail provider.
const DefaultCallTimeout = 15 * time.Second

// detachedCall derives a context for one external call. It keeps the request
// values but not its cancellation, so a client disconnect never aborts a call
// already issued.
func detachedCall(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}
