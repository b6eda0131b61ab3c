// Pupscout - Random Dog Picker with Breed Ban Lists
// Copyright 2026 Pupscout Contributors
// SPDX-License-Identifier: MIT
// https://github.com/pupscout/pupscout

package models

import "time"

// APIResponse is the envelope for all JSON responses.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response metadata common to all endpoints.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
}

// APIError is the structured error body returned on failures.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthStatus reports service health for the health endpoint.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	UpstreamConnected bool    `json:"upstream_connected"`
	Uptime            float64 `json:"uptime_seconds"`
}
