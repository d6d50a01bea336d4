package config

import (
	"time"

	"git.home.luguber.info/inful/ndocs/internal/foundation/normalization"
)

// RetryBackoffMode selects how the delay between renderer retries grows.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

var retryBackoffs = normalization.NewNormalizer(map[string]RetryBackoffMode{
	"fixed":       RetryBackoffFixed,
	"linear":      RetryBackoffLinear,
	"exponential": RetryBackoffExponential,
}, "")

// NormalizeRetryBackoff maps raw input to a mode; unknown values yield "".
func NormalizeRetryBackoff(raw string) RetryBackoffMode {
	return retryBackoffs.Normalize(raw)
}

// RetryDelays parses the configured retry delays. Empty values yield zero,
// which retry policies treat as "use the default".
func (r RenderConfig) RetryDelays() (initial, maxDelay time.Duration, err error) {
	if initial, err = parseDelay(r.RetryInitialDelay); err != nil {
		return 0, 0, err
	}
	if maxDelay, err = parseDelay(r.RetryMaxDelay); err != nil {
		return 0, 0, err
	}
	return initial, maxDelay, nil
}

func parseDelay(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}
