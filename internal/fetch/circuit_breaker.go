// Pupscout - Random Dog Picker with Breed Ban Lists
// Copyright 2026 Pupscout Contributors
// SPDX-License-Identifier: MIT
// https://github.com/pupscout/pupscout

package fetch

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/pupscout/pupscout/internal/logging"
	"github.com/pupscout/pupscout/internal/metrics"
)

// Ensure BreakerClient implements SourceClient
var _ SourceClient = (*BreakerClient)(nil)

// BreakerClient wraps a SourceClient with the circuit breaker pattern.
// It prevents hammering the upstream dog API while it is unavailable
// or slow: once the failure rate trips the breaker, calls are rejected
// immediately until the recovery timeout elapses.
type BreakerClient struct {
	client SourceClient
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewBreakerClient creates a circuit-breaker wrapper around client.
// Breaker configuration:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window in closed state
//   - 30 second timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 5 requests
func NewBreakerClient(client SourceClient) *BreakerClient {
	const cbName = "dog-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening dog API circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := breakerStateString(from)
			toStr := breakerStateString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] Dog API state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &BreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// execute wraps an upstream call with circuit breaker protection.
func (bc *BreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := bc.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(bc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Dog API request rejected")
			// Rejections surface as retryable network failures so the
			// picker's attempt accounting stays uniform.
			return nil, &NetworkError{Op: "breaker", Err: err}
		}
		metrics.CircuitBreakerRequests.WithLabelValues(bc.name, "failure").Inc()
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(bc.name, "success").Inc()
	return result, nil
}

// RandomImages fetches a random batch with circuit breaker protection.
func (bc *BreakerClient) RandomImages(ctx context.Context, limit int) ([]SourceImage, error) {
	result, err := bc.execute(func() (interface{}, error) {
		return bc.client.RandomImages(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	images, ok := result.([]SourceImage)
	if !ok {
		return nil, errors.New("circuit breaker: unexpected result type for RandomImages")
	}
	return images, nil
}

// ImageByID fetches one image with circuit breaker protection.
func (bc *BreakerClient) ImageByID(ctx context.Context, id string) (*SourceImage, error) {
	result, err := bc.execute(func() (interface{}, error) {
		return bc.client.ImageByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	image, ok := result.(*SourceImage)
	if !ok {
		return nil, errors.New("circuit breaker: unexpected result type for ImageByID")
	}
	return image, nil
}

// Ping tests upstream connectivity with circuit breaker protection.
func (bc *BreakerClient) Ping(ctx context.Context) error {
	_, err := bc.execute(func() (interface{}, error) {
		return nil, bc.client.Ping(ctx)
	})
	return err
}

// State returns the current circuit breaker state.
func (bc *BreakerClient) State() gobreaker.State {
	return bc.cb.State()
}

// Counts returns the current circuit breaker counts.
func (bc *BreakerClient) Counts() gobreaker.Counts {
	return bc.cb.Counts()
}

func breakerStateString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func breakerStateFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
