package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryProvider retries transient failures with jittered exponential
// backoff. A malformed reply gets one more try; refusals and truncation do
// not, since the same prompt produces them again.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	logger *zap.Logger
}

// WithRetry wraps a Provider with retry logic. A nil logger discards
// retry diagnostics.
func WithRetry(p Provider, cfg RetryConfig, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryProvider{inner: p, config: cfg, logger: logger}
}

type retryPolicy int

const (
	retryNever retryPolicy = iota
	retryOnce
	retryAlways
)

func classifyRetry(err error) retryPolicy {
	var (
		maxTok  *ErrMaxTokensExceeded
		refused *ErrRefused
		invalid *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return retryNever
	case errors.As(err, &maxTok), errors.As(err, &refused):
		return retryNever
	case errors.As(err, &invalid):
		return retryOnce
	default:
		// Rate limits, outages and transport errors.
		return retryAlways
	}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var err error
	retriedInvalid := false
	attempts := max(r.config.MaxAttempts, 1)

	for attempt := range attempts {
		var resp *Response
		if resp, err = r.inner.Generate(ctx, req); err == nil {
			return resp, nil
		}

		switch classifyRetry(err) {
		case retryNever:
			return nil, err
		case retryOnce:
			if retriedInvalid {
				return nil, err
			}
			retriedInvalid = true
		}
		if attempt == attempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < wait {
			// Sleeping would only end in a deadline error.
			return nil, err
		}
		r.logger.Warn("llm request failed, retrying",
			zap.String("provider", r.inner.Name()),
			zap.String("purpose", PurposeFrom(ctx)),
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, err
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) Name() string { return r.inner.Name() }

// backoff is InitialWait*Multiplier^attempt capped at MaxWait, with ±20%
// jitter. A rate limit that names its own delay is honoured up to MaxWait.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return min(rl.RetryAfter, r.config.MaxWait)
	}

	wait := float64(r.config.InitialWait)
	for range attempt {
		wait *= r.config.Multiplier
	}
	wait = min(wait, float64(r.config.MaxWait))
	wait *= 0.8 + 0.4*rand.Float64()
	return time.Duration(wait)
}
