package middleware

import (
	"context"
	"errors"

	"golang.org/x/time/rate"
)

// ErrRateLimited is returned when an operation exceeds the configured
// mutation rate.
var ErrRateLimited = errors.New("middleware: rate limit exceeded")

// RateLimit returns middleware that bounds the sustained rate of
// mutating operations with a token-bucket limiter. Operations over the
// limit fail immediately with ErrRateLimited rather than queueing —
// the engine has no internal retry, so callers decide whether to back
// off and retry.
func RateLimit(opsPerSecond float64, burst int) Middleware {
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(opsPerSecond), burst)
	return func(ctx context.Context, _ *Op, next Handler) error {
		if !limiter.Allow() {
			return ErrRateLimited
		}
		return next(ctx)
	}
}
