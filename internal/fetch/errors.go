// Pupscout - Random Dog Picker with Breed Ban Lists
// Copyright 2026 Pupscout Contributors
// SPDX-License-Identifier: MIT
// https://github.com/pupscout/pupscout

package fetch

import (
	"context"
	"errors"
	"fmt"
)

// The error taxonomy is structured so callers branch on type, never on
// message text:
//
//   - NetworkError: transport failure or timeout on any upstream call.
//     Retried at the loop level, surfaced only when attempts run out.
//   - MalformedResponseError: response is not the expected shape or is
//     empty. Treated as a failed attempt and retried.
//   - ExhaustionError: no acceptable candidate within the attempt
//     budget. Terminal and distinguishable, so callers can suggest
//     relaxing the ban list instead of reporting a network problem.
//   - CapabilityError: the client cannot perform upstream calls at
//     all (e.g. unusable base URL). Fatal, never retried.

// NetworkError wraps a transport-level failure or timeout on an
// upstream call.
type NetworkError struct {
	// Op names the failing operation, e.g. "images.search".
	Op string
	// StatusCode is the HTTP status for non-2xx responses, 0 for
	// transport failures.
	StatusCode int
	// Err is the underlying error, nil for bare status failures.
	Err error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("dog api %s returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("dog api %s failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a per-call timeout.
func (e *NetworkError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// MalformedResponseError indicates the upstream response could not be
// decoded into the expected shape, or decoded to an empty batch.
type MalformedResponseError struct {
	Op     string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("dog api %s returned malformed response: %s", e.Op, e.Reason)
}

// ExhaustionError indicates the attempt budget was consumed without
// finding an acceptable candidate.
type ExhaustionError struct {
	Attempts int
}

func (e *ExhaustionError) Error() string {
	return fmt.Sprintf("no acceptable dog found after %d attempts", e.Attempts)
}

// CapabilityError indicates the client is unable to perform upstream
// calls at all. It is surfaced immediately and never retried.
type CapabilityError struct {
	Reason string
	Err    error
}

func (e *CapabilityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dog api client unusable: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("dog api client unusable: %s", e.Reason)
}

func (e *CapabilityError) Unwrap() error { return e.Err }

// IsExhaustion reports whether err carries an ExhaustionError.
func IsExhaustion(err error) bool {
	var e *ExhaustionError
	return errors.As(err, &e)
}

// isRetryable reports whether err represents a failed attempt that the
// loop may retry (network failures and malformed responses).
func isRetryable(err error) bool {
	var netErr *NetworkError
	var malformed *MalformedResponseError
	return errors.As(err, &netErr) || errors.As(err, &malformed)
}
