// Pupscout - Random Dog Picker with Breed Ban Lists
// Copyright 2026 Pupscout Contributors
// SPDX-License-Identifier: MIT
// https://github.com/pupscout/pupscout

// Package models contains the shared data types exchanged between the
// fetch core and the HTTP API layer.
package models

// Attribute keys present on every DogRecord. The key set is fixed:
// a record produced by the normalizer always carries all of these keys,
// with the empty string standing in for missing source data.
const (
	AttrName        = "name"
	AttrTemperament = "temperament"
	AttrLifeSpan    = "life_span"
	AttrWeight      = "weight"
	AttrHeight      = "height"
)

// AttributeKeys returns the fixed set of attribute keys in display order.
func AttributeKeys() []string {
	return []string{AttrName, AttrTemperament, AttrLifeSpan, AttrWeight, AttrHeight}
}

// DogRecord is one normalized candidate from the upstream image API:
// a displayable asset plus a fixed set of breed attributes.
//
// A DogRecord is created fresh per retrieval attempt and is immutable
// once returned to the caller.
type DogRecord struct {
	// ID is the upstream image identifier, stable across requests
	// for the same underlying image.
	ID string `json:"id"`

	// ImageURL references the displayable asset.
	ImageURL string `json:"image_url"`

	// Attributes maps every key in AttributeKeys() to a string value.
	// Missing source metadata is represented as "", never an absent key.
	Attributes map[string]string `json:"attributes"`

	// HasFullAttributes is true when the upstream item carried a breed
	// sub-object, false when the attributes were defaulted to empty.
	HasFullAttributes bool `json:"has_full_attributes"`
}

// BanList maps an attribute key to the set of banned values for that key.
// Matching semantics (case-insensitivity, trimming, temperament
// tokenization) live in the fetch package; a BanList itself is plain data
// and is treated as a read-only snapshot for the duration of a pick.
type BanList map[string][]string

// IsEmpty reports whether the ban list contains no banned values at all.
func (b BanList) IsEmpty() bool {
	for _, values := range b {
		if len(values) > 0 {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the ban list. Callers that keep
// mutating their ban list between picks should hand the core a clone.
func (b BanList) Clone() BanList {
	if b == nil {
		return nil
	}
	out := make(BanList, len(b))
	for key, values := range b {
		out[key] = append([]string(nil), values...)
	}
	return out
}
