// Pupscout - Random Dog Picker with Breed Ban Lists
// Copyright 2026 Pupscout Contributors
// SPDX-License-Identifier: MIT
// https://github.com/pupscout/pupscout

package fetch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pupscout/pupscout/internal/models"
)

// fakeSourceClient scripts upstream responses per primary call. Batch i
// is served to the i-th RandomImages call; a non-nil entry in batchErrs
// takes precedence. Detail lookups are served from the details map.
type fakeSourceClient struct {
	mu        sync.Mutex
	batches   [][]SourceImage
	batchErrs []error
	delays    []time.Duration

	details     map[string]*SourceImage
	detailErr   error
	detailCalls []string

	primaryCalls int
}

func (f *fakeSourceClient) RandomImages(ctx context.Context, limit int) ([]SourceImage, error) {
	f.mu.Lock()
	idx := f.primaryCalls
	f.primaryCalls++
	f.mu.Unlock()

	if idx < len(f.delays) && f.delays[idx] > 0 {
		select {
		case <-ctx.Done():
			return nil, &NetworkError{Op: "images.search", Err: ctx.Err()}
		case <-time.After(f.delays[idx]):
		}
	}
	if idx < len(f.batchErrs) && f.batchErrs[idx] != nil {
		return nil, f.batchErrs[idx]
	}
	if idx < len(f.batches) {
		return f.batches[idx], nil
	}
	return nil, &NetworkError{Op: "images.search", Err: errors.New("no scripted batch")}
}

func (f *fakeSourceClient) ImageByID(ctx context.Context, id string) (*SourceImage, error) {
	f.mu.Lock()
	f.detailCalls = append(f.detailCalls, id)
	f.mu.Unlock()

	if f.detailErr != nil {
		return nil, f.detailErr
	}
	if detail, ok := f.details[id]; ok {
		return detail, nil
	}
	return nil, &NetworkError{Op: "images.get", StatusCode: 404}
}

func (f *fakeSourceClient) Ping(ctx context.Context) error {
	return nil
}

func (f *fakeSourceClient) primaryCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.primaryCalls
}

func namedImage(id, name, temperament string) SourceImage {
	return SourceImage{
		ID:  id,
		URL: "https://cdn.example.com/" + id + ".jpg",
		Breeds: []SourceBreed{
			{
				Name:        name,
				Temperament: temperament,
				LifeSpan:    "10 - 14 years",
				Weight:      SourceMeasure{Metric: "9 - 11"},
				Height:      SourceMeasure{Metric: "33 - 38"},
			},
		},
	}
}

func bareImage(id string) SourceImage {
	return SourceImage{ID: id, URL: "https://cdn.example.com/" + id + ".jpg"}
}

// testPicker builds a picker with a fast backoff so retry tests finish
// quickly.
func testPicker(client SourceClient, cfg PickerConfig) *Picker {
	return NewPicker(client, cfg, ConstantBackoff(time.Millisecond))
}

func TestPickRandomAcceptsFirstCompleteCandidate(t *testing.T) {
	fake := &fakeSourceClient{
		batches: [][]SourceImage{
			{namedImage("d1", "Beagle", "Amiable, Excitable")},
		},
	}
	picker := testPicker(fake, PickerConfig{})

	record, err := picker.PickRandom(context.Background(), PickOptions{})

	checkNoError(t, err)
	checkStringEqual(t, "ID", record.ID, "d1")
	checkTrue(t, "HasFullAttributes", record.HasFullAttributes)
	checkIntEqual(t, "primary calls", fake.primaryCallCount(), 1)
	checkIntEqual(t, "detail calls", len(fake.detailCalls), 0)
}

func TestPickRandomRetriesPastBannedBreed(t *testing.T) {
	fake := &fakeSourceClient{
		batches: [][]SourceImage{
			{namedImage("d1", "Beagle", "Amiable")},
			{namedImage("d2", "Poodle", "Proud")},
		},
	}
	picker := testPicker(fake, PickerConfig{})

	record, err := picker.PickRandom(context.Background(), PickOptions{
		BanList: models.BanList{models.AttrName: {"Beagle"}},
	})

	checkNoError(t, err)
	checkStringEqual(t, "breed", record.Attributes[models.AttrName], "Poodle")
	checkIntEqual(t, "primary calls", fake.primaryCallCount(), 2)
}

func TestPickRandomBansTemperamentToken(t *testing.T) {
	fake := &fakeSourceClient{
		batches: [][]SourceImage{
			{namedImage("d1", "Boxer", "Friendly, Aggressive, Loyal")},
			{namedImage("d2", "Collie", "Gentle, Loyal")},
		},
	}
	picker := testPicker(fake, PickerConfig{})

	record, err := picker.PickRandom(context.Background(), PickOptions{
		BanList: models.BanList{models.AttrTemperament: {"Aggressive"}},
	})

	checkNoError(t, err)
	checkStringEqual(t, "ID", record.ID, "d2")
	checkIntEqual(t, "primary calls", fake.primaryCallCount(), 2)
}

func TestPickRandomScansBatchInOrder(t *testing.T) {
	// First candidate banned, second acceptable: one primary call is
	// enough, and the second candidate wins.
	fake := &fakeSourceClient{
		batches: [][]SourceImage{
			{
				namedImage("d1", "Beagle", "Amiable"),
				namedImage("d2", "Poodle", "Proud"),
			},
		},
	}
	picker := testPicker(fake, PickerConfig{})

	record, err := picker.PickRandom(context.Background(), PickOptions{
		BanList: models.BanList{models.AttrName: {"Beagle"}},
	})

	checkNoError(t, err)
	checkStringEqual(t, "ID", record.ID, "d2")
	checkIntEqual(t, "primary calls", fake.primaryCallCount(), 1)
}

func TestPickRandomCompleteBeatsEarlierFallback(t *testing.T) {
	// An attribute-incomplete candidate whose enrichment fails is held
	// only as a fallback; a later complete candidate wins the batch.
	fake := &fakeSourceClient{
		batches: [][]SourceImage{
			{
				bareImage("incomplete1"),
				namedImage("d2", "Poodle", "Proud"),
			},
		},
		detailErr: &NetworkError{Op: "images.get", StatusCode: 500},
	}
	picker := testPicker(fake, PickerConfig{})

	record, err := picker.PickRandom(context.Background(), PickOptions{})

	checkNoError(t, err)
	checkStringEqual(t, "ID", record.ID, "d2")
	checkTrue(t, "HasFullAttributes", record.HasFullAttributes)
	checkIntEqual(t, "detail calls", len(fake.detailCalls), 1)
}

func TestPickRandomFirstFallbackWins(t *testing.T) {
	// With nothing complete available, the first incomplete non-banned
	// candidate is returned degraded and is not replaced by later ones.
	fake := &fakeSourceClient{
		batches: [][]SourceImage{
			{bareImage("incomplete1"), bareImage("incomplete2")},
		},
		detailErr: &NetworkError{Op: "images.get", StatusCode: 500},
	}
	picker := testPicker(fake, PickerConfig{MaxAttempts: 1})

	record, err := picker.PickRandom(context.Background(), PickOptions{})

	checkNoError(t, err)
	checkStringEqual(t, "ID", record.ID, "incomplete1")
	checkFalse(t, "HasFullAttributes", record.HasFullAttributes)
	checkIntEqual(t, "detail calls", len(fake.detailCalls), 2)
}

func TestPickRandomEnrichesIncompleteCandidate(t *testing.T) {
	fake := &fakeSourceClient{
		batches: [][]SourceImage{
			{bareImage("d1")},
		},
		details: map[string]*SourceImage{
			"d1": func() *SourceImage { img := namedImage("d1", "Poodle", "Proud"); return &img }(),
		},
	}
	picker := testPicker(fake, PickerConfig{})

	record, err := picker.PickRandom(context.Background(), PickOptions{})

	checkNoError(t, err)
	checkStringEqual(t, "ID", record.ID, "d1")
	checkTrue(t, "HasFullAttributes", record.HasFullAttributes)
	checkStringEqual(t, "breed", record.Attributes[models.AttrName], "Poodle")
	checkIntEqual(t, "detail calls", len(fake.detailCalls), 1)
}

func TestPickRandomEnrichmentRevealingBanSkipsCandidate(t *testing.T) {
	// When the detail lookup reveals banned attributes, the candidate is
	// dropped entirely. It must not survive as the fallback.
	fake := &fakeSourceClient{
		batches: [][]SourceImage{
			{bareImage("d1")},
		},
		details: map[string]*SourceImage{
			"d1": func() *SourceImage { img := namedImage("d1", "Beagle", "Amiable"); return &img }(),
		},
	}
	picker := testPicker(fake, PickerConfig{MaxAttempts: 1})

	record, err := picker.PickRandom(context.Background(), PickOptions{
		BanList: models.BanList{models.AttrName: {"Beagle"}},
	})

	checkError(t, err)
	checkTrue(t, "exhaustion error", IsExhaustion(err))
	if record != nil {
		t.Errorf("expected nil record, got %+v", record)
	}
}

func TestPickRandomExhaustsAttemptBudget(t *testing.T) {
	banned := namedImage("d1", "Beagle", "Amiable")
	fake := &fakeSourceClient{
		batches: [][]SourceImage{{banned}, {banned}, {banned}},
	}
	picker := testPicker(fake, PickerConfig{})

	record, err := picker.PickRandom(context.Background(), PickOptions{
		BanList:     models.BanList{models.AttrName: {"Beagle"}},
		MaxAttempts: 3,
	})

	checkError(t, err)
	if record != nil {
		t.Errorf("expected nil record, got %+v", record)
	}
	var exhaustion *ExhaustionError
	if !errors.As(err, &exhaustion) {
		t.Fatalf("expected ExhaustionError, got %T: %v", err, err)
	}
	checkIntEqual(t, "reported attempts", exhaustion.Attempts, 3)
	checkIntEqual(t, "primary calls", fake.primaryCallCount(), 3)
}

func TestPickRandomTimeoutConsumesAttempt(t *testing.T) {
	// The first call exceeds the per-call timeout; the loop moves on and
	// the second attempt succeeds.
	fake := &fakeSourceClient{
		delays: []time.Duration{200 * time.Millisecond},
		batches: [][]SourceImage{
			nil,
			{namedImage("d2", "Poodle", "Proud")},
		},
	}
	picker := testPicker(fake, PickerConfig{RequestTimeout: 20 * time.Millisecond})

	record, err := picker.PickRandom(context.Background(), PickOptions{})

	checkNoError(t, err)
	checkStringEqual(t, "ID", record.ID, "d2")
	checkIntEqual(t, "primary calls", fake.primaryCallCount(), 2)
}

func TestPickRandomPropagatesFinalPrimaryFailure(t *testing.T) {
	// When the last attempt dies at the primary request step, the
	// transport error is surfaced instead of being masked as exhaustion.
	callErr := &NetworkError{Op: "images.search", StatusCode: 503}
	fake := &fakeSourceClient{
		batchErrs: []error{callErr, callErr},
	}
	picker := testPicker(fake, PickerConfig{MaxAttempts: 2})

	record, err := picker.PickRandom(context.Background(), PickOptions{})

	checkError(t, err)
	if record != nil {
		t.Errorf("expected nil record, got %+v", record)
	}
	checkFalse(t, "exhaustion error", IsExhaustion(err))
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %T: %v", err, err)
	}
	checkIntEqual(t, "status code", netErr.StatusCode, 503)
	checkIntEqual(t, "primary calls", fake.primaryCallCount(), 2)
}

func TestPickRandomEmptyBatchIsMalformed(t *testing.T) {
	fake := &fakeSourceClient{
		batches: [][]SourceImage{{}},
	}
	picker := testPicker(fake, PickerConfig{MaxAttempts: 1})

	_, err := picker.PickRandom(context.Background(), PickOptions{})

	checkError(t, err)
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError, got %T: %v", err, err)
	}
}

func TestPickRandomHonorsCancellationDuringBackoff(t *testing.T) {
	banned := namedImage("d1", "Beagle", "Amiable")
	fake := &fakeSourceClient{
		batches: [][]SourceImage{{banned}, {banned}, {banned}},
	}
	picker := NewPicker(fake, PickerConfig{}, ConstantBackoff(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := picker.PickRandom(ctx, PickOptions{
		BanList: models.BanList{models.AttrName: {"Beagle"}},
	})
	elapsed := time.Since(start)

	checkError(t, err)
	checkTrue(t, "context.Canceled returned", errors.Is(err, context.Canceled))
	if elapsed > 500*time.Millisecond {
		t.Errorf("cancellation took %v, backoff wait was not interrupted", elapsed)
	}
}

func TestPickRandomStrictModeSkipsIncomplete(t *testing.T) {
	fake := &fakeSourceClient{
		batches: [][]SourceImage{
			{bareImage("incomplete1"), namedImage("d2", "Poodle", "Proud")},
		},
	}
	picker := testPicker(fake, PickerConfig{StrictBreeds: true})

	record, err := picker.PickRandom(context.Background(), PickOptions{})

	checkNoError(t, err)
	checkStringEqual(t, "ID", record.ID, "d2")
	checkIntEqual(t, "detail calls", len(fake.detailCalls), 0)
}

func TestNewPickerAppliesDefaults(t *testing.T) {
	picker := NewPicker(&fakeSourceClient{}, PickerConfig{}, nil)

	checkIntEqual(t, "batch size", picker.cfg.BatchSize, DefaultBatchSize)
	checkIntEqual(t, "max attempts", picker.cfg.MaxAttempts, DefaultMaxAttempts)
	if picker.cfg.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("request timeout: expected %v, got %v", DefaultRequestTimeout, picker.cfg.RequestTimeout)
	}
	if picker.backoff == nil {
		t.Fatal("expected default backoff policy")
	}
	if got := picker.backoff(1); got != DefaultRetryDelay {
		t.Errorf("default backoff delay: expected %v, got %v", DefaultRetryDelay, got)
	}
}
