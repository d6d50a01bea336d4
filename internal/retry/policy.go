// Package retry computes backoff delays for retrying transient renderer
// failures and runs an operation under such a policy.
package retry

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/ndocs/internal/config"
	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
)

// Policy encapsulates retry/backoff settings for transient failures.
// It is immutable after construction.
type Policy struct {
	Mode       config.RetryBackoffMode // fixed|linear|exponential
	Initial    time.Duration           // base delay
	Max        time.Duration           // cap for growth
	MaxRetries int                     // maximum retry attempts after the first failure
}

// DefaultPolicy returns the default policy: linear, 1s initial, 30s cap and
// no retries.
func DefaultPolicy() Policy {
	return Policy{Mode: config.RetryBackoffLinear, Initial: time.Second, Max: 30 * time.Second}
}

// NewPolicy builds a policy from raw config fields; zero/invalid durations and
// modes fall back to defaults. maxRetries is kept as given for Validate.
func NewPolicy(mode config.RetryBackoffMode, initial, maxDuration time.Duration, maxRetries int) Policy {
	p := DefaultPolicy()
	p.MaxRetries = maxRetries
	if initial > 0 {
		p.Initial = initial
	}
	if maxDuration > 0 {
		p.Max = maxDuration
	}
	switch mode {
	case config.RetryBackoffFixed, config.RetryBackoffLinear, config.RetryBackoffExponential:
		p.Mode = mode
	}
	if p.Initial > p.Max {
		p.Initial = p.Max
	}
	return p
}

// FromRenderConfig builds the renderer retry policy.
func FromRenderConfig(rc config.RenderConfig) (Policy, error) {
	initial, maxDelay, err := rc.RetryDelays()
	if err != nil {
		return Policy{}, err
	}
	p := NewPolicy(rc.RetryBackoff, initial, maxDelay, rc.MaxRetries)
	if err := p.Validate(); err != nil {
		return Policy{}, derrors.WrapError(err, derrors.CategoryConfig, "invalid render retry policy").
			WithContext("max_retries", rc.MaxRetries).
			Fatal().
			Build()
	}
	return p, nil
}

// Delay returns the backoff delay for the given retry attempt number (1-based: first retry => 1).
func (p Policy) Delay(retryCount int) time.Duration {
	if retryCount <= 0 {
		return 0
	}
	switch p.Mode {
	case config.RetryBackoffFixed:
		return p.Initial
	case config.RetryBackoffExponential:
		if retryCount > 30 {
			return p.Max
		}
		d := p.Initial * (1 << (retryCount - 1))
		if d > p.Max || d <= 0 {
			return p.Max
		}
		return d
	default: // linear
		d := time.Duration(retryCount) * p.Initial
		if d > p.Max {
			return p.Max
		}
		return d
	}
}

// Validate ensures invariants; returns error if policy impossible to apply.
func (p Policy) Validate() error {
	if p.Initial <= 0 {
		return fmt.Errorf("initial must be >0")
	}
	if p.Max <= 0 {
		return fmt.Errorf("max must be >0")
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	return nil
}

// Do runs op until it succeeds, fails with an error retryable rejects, or
// the retries are used up. op receives the 0-based attempt number. The last
// error is returned; a canceled ctx ends the wait early with ctx.Err().
func (p Policy) Do(ctx context.Context, retryable func(error) bool, op func(attempt int) error) error {
	for attempt := 0; ; attempt++ {
		err := op(attempt)
		if err == nil || attempt >= p.MaxRetries || !retryable(err) {
			return err
		}
		timer := time.NewTimer(p.Delay(attempt + 1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
