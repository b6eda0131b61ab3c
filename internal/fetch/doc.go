// Pupscout - Random Dog Picker with Breed Ban Lists
// Copyright 2026 Pupscout Contributors
// SPDX-License-Identifier: MIT
// https://github.com/pupscout/pupscout

// Package fetch implements the retrieval pipeline at the heart of
// Pupscout: fetch a batch of random dog images from the upstream API,
// normalize each raw item into a DogRecord, reject candidates that
// match the caller's ban list, optionally enrich candidates that
// arrived without breed metadata, and retry with backoff until an
// acceptable record is found or the attempt budget is exhausted.
//
// The pipeline is strictly sequential: one outstanding upstream call
// at a time, candidates evaluated in the order the API returned them,
// and the first acceptable candidate wins. Every upstream call is
// individually bounded by a timeout; the loop honors context
// cancellation between attempts and during backoff waits.
package fetch
