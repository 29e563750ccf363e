// Package faulttolerance provides retry and circuit-breaker primitives for
// the marketplace fetch layer. Upstream listing sites throttle and flake;
// every outbound fetch goes through a Retryer and a per-platform
// CircuitBreaker so transient failures are absorbed close to the wire.
package faulttolerance

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryConfig holds the parameters for the retry strategy.
type RetryConfig struct {
	MaxAttempts int           // maximum number of attempts including the first
	BaseDelay   time.Duration // backoff base delay
	MaxDelay    time.Duration // ceiling on the delay between attempts
	Multiplier  float64       // exponential backoff multiplier
	JitterRange float64       // jitter range (0.0 to 1.0) applied to each delay
	Name        string        // name used in log lines

	// ShouldRetry decides whether a failed attempt is worth repeating.
	// Nil means every error is retryable.
	ShouldRetry func(error) bool
}

// DefaultRetryConfig returns the retry parameters used for listing fetches.
func DefaultRetryConfig(name string) RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
		MaxDelay:    15 * time.Second,
		Multiplier:  2.0,
		JitterRange: 0.2,
		Name:        name,
	}
}

// Retryer executes functions with exponential backoff and jitter.
type Retryer struct {
	config RetryConfig
	logger *logrus.Logger
	rng    *rand.Rand
}

// NewRetryer creates a retryer, filling unset config fields with defaults.
func NewRetryer(config RetryConfig, logger *logrus.Logger) *Retryer {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = 1 * time.Second
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 15 * time.Second
	}
	if config.Multiplier <= 1.0 {
		config.Multiplier = 2.0
	}
	if config.JitterRange < 0 || config.JitterRange > 1.0 {
		config.JitterRange = 0.2
	}
	if config.Name == "" {
		config.Name = "retryer"
	}

	return &Retryer{
		config: config,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Execute runs fn until it succeeds, the attempt budget is exhausted, a
// non-retryable error occurs, or ctx is cancelled.
func (r *Retryer) Execute(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			if attempt > 1 {
				r.logger.Infof("[%s] succeeded on attempt %d", r.config.Name, attempt)
			}
			return nil
		}
		lastErr = err

		if r.config.ShouldRetry != nil && !r.config.ShouldRetry(err) {
			return err
		}

		if attempt == r.config.MaxAttempts {
			break
		}

		delay := r.calculateDelay(attempt)
		r.logger.Warnf("[%s] attempt %d failed: %v, retrying in %v", r.config.Name, attempt, err, delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("%s: %d attempts exhausted: %w", r.config.Name, r.config.MaxAttempts, lastErr)
}

// ExecuteWithCircuitBreaker combines retry logic with a circuit breaker so
// a platform that keeps failing stops being hammered mid-retry-loop.
func (r *Retryer) ExecuteWithCircuitBreaker(ctx context.Context, cb *CircuitBreaker, fn func() error) error {
	return r.Execute(ctx, func() error {
		return cb.Execute(fn)
	})
}

// calculateDelay computes the backoff for the next attempt with jitter to
// avoid thundering-herd retries against the same upstream.
func (r *Retryer) calculateDelay(attempt int) time.Duration {
	delay := float64(r.config.BaseDelay) * math.Pow(r.config.Multiplier, float64(attempt-1))
	if delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}

	if r.config.JitterRange > 0 {
		jitter := r.rng.Float64() * r.config.JitterRange * delay
		if r.rng.Float64() < 0.5 {
			delay -= jitter
		} else {
			delay += jitter
		}
	}

	if delay < float64(r.config.BaseDelay) {
		delay = float64(r.config.BaseDelay)
	}
	return time.Duration(delay)
}
