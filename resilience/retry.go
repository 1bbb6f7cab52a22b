// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package resilience

import (
	"context"
	"log/slog"
	"time"
)

// Policy describes a bounded exponential backoff schedule for calls that
// cross into an external service.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first (must be > 0).
	MaxAttempts int

	// BaseDelay is the delay before the first retry. It doubles on each
	// subsequent retry.
	BaseDelay time.Duration

	// MaxDelay caps the delay between attempts.
	MaxDelay time.Duration
}

// DefaultPolicy returns the service-wide retry schedule: 3 total attempts,
// 4s initial delay, doubling, capped at 10s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   4 * time.Second,
		MaxDelay:    10 * time.Second,
	}
}

// delayFor returns the backoff delay applied after the given attempt (1-based).
func (p Policy) delayFor(attempt int) time.Duration {
	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}

// Do runs operation, retrying on failure per the policy's backoff schedule.
// The error from the final attempt is returned unmodified if all attempts
// fail. Sleeps are context-aware: cancellation aborts the wait and returns
// the context's error.
func (p Policy) Do(ctx context.Context, op string, operation func() error) error {
	if p.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		// Check context before attempting
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", "op", op, "attempt", attempt)
			}
			return nil
		}

		slog.Debug("operation failed, will retry",
			"op", op, "attempt", attempt, "maxAttempts", p.MaxAttempts, "error", lastErr)

		// Don't sleep after the last attempt
		if attempt == p.MaxAttempts {
			break
		}

		timer := time.NewTimer(p.delayFor(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			// Continue to next attempt
		}
	}

	return lastErr
}

// DoValue runs operation per policy, returning its result on the first success.
func DoValue[T any](ctx context.Context, p Policy, op string, operation func() (T, error)) (T, error) {
	var result T
	err := p.Do(ctx, op, func() error {
		var opErr error
		result, opErr = operation()
		return opErr
	})
	return result, err
}
