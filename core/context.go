package core

import (
	"context"
	"time"
)

// Context keys for pipeline options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	nowKey            contextKey = "now"
)

// WithSuppressHeader marks the context so that load headers are not printed.
// Servers use this to keep stdio and logs clean.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// WithNow pins the reference time used by range filters and rolling rates.
func WithNow(ctx context.Context, now time.Time) context.Context {
	return context.WithValue(ctx, nowKey, now)
}

// nowFrom returns the pinned reference time, or the wall clock when unset.
func nowFrom(ctx context.Context) time.Time {
	if now, ok := ctx.Value(nowKey).(time.Time); ok {
		return now
	}
	return time.Now()
}
