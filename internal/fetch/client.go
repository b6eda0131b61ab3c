// Pupscout - Random Dog Picker with Breed Ban Lists
// Copyright 2026 Pupscout Contributors
// SPDX-License-Identifier: MIT
// https://github.com/pupscout/pupscout

/*
client.go - Dog API REST Client

This file implements a REST API client for a TheDogAPI-compatible image
service. It provides batch random image search and per-image detail
lookup, authenticating via the x-api-key header.

API Reference: https://docs.thedogapi.com/
*/

package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/pupscout/pupscout/internal/metrics"
)

// SourceClient defines the interface for upstream dog API operations.
// Both DogAPIClient and BreakerClient implement this interface.
type SourceClient interface {
	// RandomImages fetches up to limit random images in one call.
	RandomImages(ctx context.Context, limit int) ([]SourceImage, error)
	// ImageByID fetches one image with full breed metadata attached.
	// Used for enrichment of candidates that arrived without breeds.
	ImageByID(ctx context.Context, id string) (*SourceImage, error)
	// Ping tests connectivity to the upstream API.
	Ping(ctx context.Context) error
}

// Ensure DogAPIClient implements SourceClient
var _ SourceClient = (*DogAPIClient)(nil)

// SourceImage is one raw item as returned by the upstream API.
type SourceImage struct {
	ID     string        `json:"id"`
	URL    string        `json:"url"`
	Breeds []SourceBreed `json:"breeds"`
}

// SourceBreed is the descriptive sub-object attached to an image.
type SourceBreed struct {
	Name        string        `json:"name"`
	Temperament string        `json:"temperament"`
	LifeSpan    string        `json:"life_span"`
	Weight      SourceMeasure `json:"weight"`
	Height      SourceMeasure `json:"height"`
}

// SourceMeasure is a measurement range in two unit systems.
type SourceMeasure struct {
	Imperial string `json:"imperial"`
	Metric   string `json:"metric"`
}

// DogAPIClientConfig holds construction parameters for DogAPIClient.
// The API key is injected explicitly rather than read from ambient
// environment state, so tests can supply fake credentials.
type DogAPIClientConfig struct {
	// BaseURL is the API root, e.g. https://api.thedogapi.com/v1
	BaseURL string
	// APIKey is attached as the x-api-key header on every request.
	// May be empty: requests then go out unauthenticated.
	APIKey string
	// RequireBreeds asks the API to only return images that carry
	// breed metadata (has_breeds=1).
	RequireBreeds bool
	// MimeTypes restricts results by asset format, e.g. jpg,png.
	MimeTypes []string
}

// DogAPIClient provides access to the upstream dog image REST API.
type DogAPIClient struct {
	baseURL       string
	apiKey        string
	requireBreeds bool
	mimeTypes     string
	httpClient    *http.Client
}

// NewDogAPIClient creates a new dog API client.
//
// Returns a CapabilityError when the base URL cannot be used for
// network calls at all; that error is fatal and must not be retried.
func NewDogAPIClient(cfg DogAPIClientConfig) (*DogAPIClient, error) {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		return nil, &CapabilityError{Reason: "base URL is empty"}
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, &CapabilityError{Reason: "base URL is not parseable", Err: err}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, &CapabilityError{Reason: fmt.Sprintf("unsupported URL scheme %q", parsed.Scheme)}
	}

	return &DogAPIClient{
		baseURL:       baseURL,
		apiKey:        cfg.APIKey,
		requireBreeds: cfg.RequireBreeds,
		mimeTypes:     strings.Join(cfg.MimeTypes, ","),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// RandomImages fetches up to limit random images from the search
// endpoint. The API returns a nondeterministic batch; it does not
// support server-side exclusion, which is why filtering happens
// client-side in the picker.
func (c *DogAPIClient) RandomImages(ctx context.Context, limit int) ([]SourceImage, error) {
	const op = "images.search"

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if c.requireBreeds {
		query.Set("has_breeds", "1")
	}
	if c.mimeTypes != "" {
		query.Set("mime_types", c.mimeTypes)
	}

	resp, err := c.doRequest(ctx, "/images/search?"+query.Encode(), "images_search")
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{Op: op, StatusCode: resp.StatusCode}
	}

	var images []SourceImage
	if err := json.NewDecoder(resp.Body).Decode(&images); err != nil {
		return nil, &MalformedResponseError{Op: op, Reason: err.Error()}
	}

	return images, nil
}

// ImageByID fetches one image by its identifier. The detail endpoint
// returns full breed metadata even when the search endpoint omitted it.
func (c *DogAPIClient) ImageByID(ctx context.Context, id string) (*SourceImage, error) {
	const op = "images.get"

	if id == "" {
		return nil, &MalformedResponseError{Op: op, Reason: "empty image id"}
	}

	resp, err := c.doRequest(ctx, "/images/"+url.PathEscape(id), "image_by_id")
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{Op: op, StatusCode: resp.StatusCode}
	}

	var image SourceImage
	if err := json.NewDecoder(resp.Body).Decode(&image); err != nil {
		return nil, &MalformedResponseError{Op: op, Reason: err.Error()}
	}

	return &image, nil
}

// Ping tests connectivity to the upstream API with a minimal search.
func (c *DogAPIClient) Ping(ctx context.Context) error {
	resp, err := c.doRequest(ctx, "/images/search?limit=1", "images_search")
	if err != nil {
		return &NetworkError{Op: "ping", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &NetworkError{Op: "ping", StatusCode: resp.StatusCode}
	}
	return nil
}

// doRequest performs an HTTP GET request against the upstream API.
func (c *DogAPIClient) doRequest(ctx context.Context, endpoint, metricName string) (*http.Response, error) {
	fullURL := c.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstreamRequest(metricName, 0, time.Since(start))
		return nil, err
	}
	metrics.ObserveUpstreamRequest(metricName, resp.StatusCode, time.Since(start))
	return resp, nil
}
