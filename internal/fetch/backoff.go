// Pupscout - Random Dog Picker with Breed Ban Lists
// Copyright 2026 Pupscout Contributors
// SPDX-License-Identifier: MIT
// https://github.com/pupscout/pupscout

package fetch

import "time"

// DefaultRetryDelay is the delay between attempts under the default
// constant backoff policy.
const DefaultRetryDelay = 300 * time.Millisecond

// BackoffPolicy maps a just-failed attempt number (1-based) to the
// delay before the next attempt. Policies are pure functions, so the
// loop's control flow does not change when the policy is swapped.
type BackoffPolicy func(attempt int) time.Duration

// ConstantBackoff returns a policy with a fixed delay between attempts.
func ConstantBackoff(delay time.Duration) BackoffPolicy {
	return func(int) time.Duration {
		return delay
	}
}

// ExponentialBackoff returns a policy that doubles the base delay after
// each attempt, capped at max.
func ExponentialBackoff(base, max time.Duration) BackoffPolicy {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		delay := base
		for i := 1; i < attempt; i++ {
			delay *= 2
			if delay >= max {
				return max
			}
		}
		if delay > max {
			return max
		}
		return delay
	}
}
