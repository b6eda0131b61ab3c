// Pupscout - Random Dog Picker with Breed Ban Lists
// Copyright 2026 Pupscout Contributors
// SPDX-License-Identifier: MIT
// https://github.com/pupscout/pupscout

// Package api provides the HTTP surface for Pupscout.
//
// errors.go - API error codes
//
// Error codes are stable identifiers clients branch on; messages are
// human-readable and may change.
package api

// API error codes returned in the error body.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeNoAcceptableDog = "NO_ACCEPTABLE_DOG"
	CodeUpstreamError   = "UPSTREAM_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
)
