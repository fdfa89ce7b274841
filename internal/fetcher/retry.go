package fetcher

import (
	"context"
	"time"

	"digikala-scraper/internal/pacing"
)

// RetryConfig holds options for retry logic.
type RetryConfig struct {
	Attempts int           // number of attempts, at least 1
	Delay    time.Duration // fixed pause after every failed attempt
}

// DefaultRetryConfig is three attempts two seconds apart.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{Attempts: 3, Delay: 2 * time.Second}
}

// Retry calls fn up to cfg.Attempts times. After every failed call, the last
// one included, it sleeps cfg.Delay. It returns nil on the first success, the
// context error if a sleep is interrupted, and otherwise the last error of fn.
func Retry(ctx context.Context, cfg RetryConfig, sleeper pacing.Sleeper, fn func(attempt int) error) error {
	var lastErr error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}
		if err := sleeper.Sleep(ctx, cfg.Delay); err != nil {
			return err
		}
	}
	return lastErr
}
