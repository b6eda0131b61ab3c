// Pupscout - Random Dog Picker with Breed Ban Lists
// Copyright 2026 Pupscout Contributors
// SPDX-License-Identifier: MIT
// https://github.com/pupscout/pupscout

/*
picker.go - Retrieval Loop

The picker orchestrates pick attempts: issue one batch request, scan
the returned candidates in order, accept the first attribute-complete
candidate that clears the ban list, enrich incomplete candidates via
the detail endpoint, fall back to the first incomplete non-banned
candidate when nothing better turns up, and otherwise back off and
retry until the attempt budget runs out.

Preference rule within a batch: the first attribute-complete
non-excluded candidate always wins; the fallback is the first
non-excluded attribute-incomplete candidate seen and is never replaced
by a later one.
*/

package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/pupscout/pupscout/internal/logging"
	"github.com/pupscout/pupscout/internal/metrics"
	"github.com/pupscout/pupscout/internal/models"
)

// Defaults applied by NewPicker and PickRandom when the corresponding
// setting is zero.
const (
	DefaultBatchSize      = 5
	DefaultMaxAttempts    = 8
	DefaultRequestTimeout = 8 * time.Second
)

// PickerConfig holds picker behavior settings.
type PickerConfig struct {
	// BatchSize is how many candidates each primary request asks for.
	// A batch increases the chance of an acceptable item per round trip.
	BatchSize int

	// MaxAttempts is the default primary-call budget per pick.
	MaxAttempts int

	// RequestTimeout bounds each individual upstream call.
	RequestTimeout time.Duration

	// StrictBreeds makes the normalizer discard candidates without
	// breed metadata outright instead of keeping them for enrichment
	// and the degraded-fallback path.
	StrictBreeds bool
}

// PickOptions are per-invocation options for PickRandom.
type PickOptions struct {
	// BanList is the caller's exclusion criteria, treated as an
	// immutable snapshot for the duration of this pick.
	BanList models.BanList

	// MaxAttempts overrides the configured attempt budget when >= 1.
	MaxAttempts int

	// RequestTimeout overrides the configured per-call timeout when > 0.
	RequestTimeout time.Duration
}

// Picker runs the retrieval loop against a SourceClient.
type Picker struct {
	client  SourceClient
	cfg     PickerConfig
	backoff BackoffPolicy
	norm    Normalizer
}

// NewPicker creates a picker. A nil backoff policy defaults to a
// constant delay of DefaultRetryDelay, matching the upstream-friendly
// behavior the service has always had.
func NewPicker(client SourceClient, cfg PickerConfig, backoff BackoffPolicy) *Picker {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if backoff == nil {
		backoff = ConstantBackoff(DefaultRetryDelay)
	}
	return &Picker{
		client:  client,
		cfg:     cfg,
		backoff: backoff,
		norm:    Normalizer{Strict: cfg.StrictBreeds},
	}
}

// PickRandom retrieves one random dog that does not match the ban
// list. It issues at most MaxAttempts primary upstream calls; on
// exhaustion it returns an ExhaustionError, and when the final attempt
// itself failed at the primary request step it propagates that failure
// instead. The context is honored between attempts and during backoff
// waits, and every upstream call is individually bounded by the
// request timeout.
func (p *Picker) PickRandom(ctx context.Context, opts PickOptions) (*models.DogRecord, error) {
	maxAttempts := opts.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = p.cfg.MaxAttempts
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = p.cfg.RequestTimeout
	}

	start := time.Now()
	defer func() {
		metrics.PickDuration.Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch, err := p.fetchBatch(ctx, timeout)
		if err != nil {
			lastErr = err
			metrics.PickAttemptsTotal.WithLabelValues("retry").Inc()
			logging.Warn().Err(err).
				Int("attempt", attempt).
				Int("max_attempts", maxAttempts).
				Msg("Pick attempt failed")
			if attempt == maxAttempts {
				break
			}
			if err := p.wait(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}
		lastErr = nil

		if record := p.scanBatch(ctx, batch, opts.BanList, timeout); record != nil {
			outcome := "accepted"
			if !record.HasFullAttributes {
				outcome = "fallback"
			}
			metrics.PickAttemptsTotal.WithLabelValues(outcome).Inc()
			logging.Info().
				Str("dog_id", record.ID).
				Str("breed", record.Attributes[models.AttrName]).
				Bool("full_attributes", record.HasFullAttributes).
				Int("attempt", attempt).
				Msg("Dog accepted")
			return record, nil
		}

		metrics.PickAttemptsTotal.WithLabelValues("retry").Inc()
		logging.Debug().
			Int("attempt", attempt).
			Int("batch_size", len(batch)).
			Msg("No acceptable candidate in batch")
		if attempt < maxAttempts {
			if err := p.wait(ctx, attempt); err != nil {
				return nil, err
			}
		}
	}

	metrics.PickAttemptsTotal.WithLabelValues("failed").Inc()
	if lastErr != nil {
		// The final attempt died at the primary request step:
		// propagate the transport failure rather than masking it as
		// exhaustion.
		return nil, fmt.Errorf("pick failed after %d attempts: %w", maxAttempts, lastErr)
	}
	metrics.PickExhaustionsTotal.Inc()
	return nil, &ExhaustionError{Attempts: maxAttempts}
}

// fetchBatch issues one primary request, bounded by the per-call
// timeout. An empty batch counts as a malformed response so the
// attempt is retried.
func (p *Picker) fetchBatch(ctx context.Context, timeout time.Duration) ([]SourceImage, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	batch, err := p.client.RandomImages(callCtx, p.cfg.BatchSize)
	if err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		return nil, &MalformedResponseError{Op: "images.search", Reason: "empty batch"}
	}
	return batch, nil
}

// scanBatch evaluates candidates strictly in upstream order and
// returns the accepted record, or nil when the whole batch was
// rejected. Attribute-complete candidates always outrank the fallback;
// the fallback is fixed to the first eligible candidate.
func (p *Picker) scanBatch(ctx context.Context, batch []SourceImage, bans models.BanList, timeout time.Duration) *models.DogRecord {
	var fallback *models.DogRecord

	for i := range batch {
		record, usable := p.norm.Normalize(&batch[i])
		if !usable {
			metrics.PickCandidatesTotal.WithLabelValues("unusable").Inc()
			continue
		}

		if Excluded(record, bans) {
			metrics.PickCandidatesTotal.WithLabelValues("banned").Inc()
			logging.Debug().
				Str("dog_id", record.ID).
				Str("breed", record.Attributes[models.AttrName]).
				Msg("Candidate rejected by ban list")
			continue
		}

		if record.HasFullAttributes {
			metrics.PickCandidatesTotal.WithLabelValues("accepted").Inc()
			return record
		}

		// Non-excluded but attribute-incomplete: try a detail lookup.
		enriched, banned := p.enrich(ctx, record.ID, bans, timeout)
		if enriched != nil {
			metrics.PickCandidatesTotal.WithLabelValues("enriched").Inc()
			return enriched
		}
		if banned {
			// Enrichment revealed banned attributes: the candidate
			// must never be returned, not even as the fallback.
			metrics.PickCandidatesTotal.WithLabelValues("banned").Inc()
			continue
		}
		if fallback == nil {
			metrics.PickCandidatesTotal.WithLabelValues("fallback").Inc()
			fallback = record
		}
	}

	return fallback
}

// enrich performs the secondary detail lookup for a candidate that
// arrived without breed metadata. It returns the enriched record when
// the lookup yielded attributes that clear the ban list, or banned=true
// when the lookup revealed attributes that match it. Enrichment
// failures are non-fatal: both returns are zero and the caller falls
// back to the already-recorded candidate or skips the item.
func (p *Picker) enrich(ctx context.Context, id string, bans models.BanList, timeout time.Duration) (record *models.DogRecord, banned bool) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	detail, err := p.client.ImageByID(callCtx, id)
	if err != nil {
		logging.Debug().Err(err).Str("dog_id", id).Msg("Enrichment lookup failed")
		return nil, false
	}

	// Enrichment always normalizes leniently: an incomplete detail
	// response just means the candidate stays a fallback.
	enriched, usable := Normalizer{}.Normalize(detail)
	if !usable || !enriched.HasFullAttributes {
		return nil, false
	}
	if Excluded(enriched, bans) {
		return nil, true
	}
	return enriched, false
}

// wait blocks for the backoff delay after the given attempt, returning
// early with the context error if the caller aborts.
func (p *Picker) wait(ctx context.Context, attempt int) error {
	delay := p.backoff(attempt)
	if delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
