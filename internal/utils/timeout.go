package utils

import (
	"context"
	"time"
)

// DefaultDBTimeout caps every repository round trip so a slow query
// cannot hold a checkout request open indefinitely.
const DefaultDBTimeout = 5 * time.Second

// WithDBTimeout derives the context repositories run their queries under.
func WithDBTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultDBTimeout)
}
