// Pupscout - Random Dog Picker with Breed Ban Lists
// Copyright 2026 Pupscout Contributors
// SPDX-License-Identifier: MIT
// https://github.com/pupscout/pupscout

package fetch

import (
	"strings"

	"github.com/pupscout/pupscout/internal/models"
)

// Excluded reports whether the record matches any entry in the ban
// list. It is a pure predicate with no side effects.
//
// Matching semantics:
//   - All comparisons are case-insensitive and whitespace-trimmed.
//   - The temperament attribute is multi-valued: its value is
//     tokenized on commas and the record is excluded when any token
//     matches a banned value for that key.
//   - Every other attribute is compared as a whole string.
//   - A record with no value for a banned key is never excluded on
//     that key (absence is not a match).
func Excluded(record *models.DogRecord, bans models.BanList) bool {
	if record == nil || len(bans) == 0 {
		return false
	}

	for key, banned := range bans {
		if len(banned) == 0 {
			continue
		}
		value := record.Attributes[key]
		if strings.TrimSpace(value) == "" {
			continue
		}

		if key == models.AttrTemperament {
			if anyTokenBanned(value, banned) {
				return true
			}
			continue
		}

		if valueBanned(value, banned) {
			return true
		}
	}

	return false
}

// anyTokenBanned tokenizes a comma-delimited value and checks each
// token against the banned set.
func anyTokenBanned(value string, banned []string) bool {
	for _, token := range strings.Split(value, ",") {
		if valueBanned(token, banned) {
			return true
		}
	}
	return false
}

// valueBanned compares a single value against the banned set.
func valueBanned(value string, banned []string) bool {
	normalized := canonicalize(value)
	if normalized == "" {
		return false
	}
	for _, b := range banned {
		if normalized == canonicalize(b) {
			return true
		}
	}
	return false
}

// canonicalize trims and lower-cases a value for comparison.
func canonicalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
