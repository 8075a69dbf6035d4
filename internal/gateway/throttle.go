package gateway

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// throttledTransport delays requests so the shared limiter's rate is never exceeded.
type throttledTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

// RoundTrip blocks until the limiter admits the request or the request context ends.
func (t *throttledTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()
	if err := t.limiter.Wait(ctx); err != nil {
		if r.Body != nil {
			_ = r.Body.Close()
		}
		// The limiter refuses early when the wait would outlive the deadline.
		if ctx.Err() == nil {
			return nil, fmt.Errorf("waiting for github rate limiter: %w: %v", context.DeadlineExceeded, err)
		}
		return nil, fmt.Errorf("waiting for github rate limiter: %w", ctx.Err())
	}
	return t.base.RoundTrip(r)
}
