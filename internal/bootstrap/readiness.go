package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Default readiness poll behavior.
const (
	DefaultReadyTimeout  = 60 * time.Second
	DefaultReadyInterval = time.Second
)

// ReadinessProbe waits until a URL answers with a 2xx status.
type ReadinessProbe interface {
	WaitReady(ctx context.Context, url string) error
}

// HTTPReadinessProbe polls a health endpoint with resty.
type HTTPReadinessProbe struct {
	Timeout  time.Duration
	Interval time.Duration
}

// WaitReady polls until the URL answers 2xx, the timeout elapses, or the
// context is cancelled.
func (p *HTTPReadinessProbe) WaitReady(ctx context.Context, url string) error {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultReadyInterval
	}

	client := resty.New().SetTimeout(interval)
	deadline := time.Now().Add(timeout)

	for {
		resp, err := client.R().SetContext(ctx).Get(url)
		if err == nil && resp.IsSuccess() {
			return nil
		}

		if time.Now().After(deadline) {
			if err != nil {
				return fmt.Errorf("no answer within %s: %w", timeout, err)
			}
			return fmt.Errorf("no healthy answer within %s (last status %d)", timeout, resp.StatusCode())
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
