// Pupscout - Random Dog Picker with Breed Ban Lists
// Copyright 2026 Pupscout Contributors
// SPDX-License-Identifier: MIT
// https://github.com/pupscout/pupscout

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pupscout/pupscout/internal/config"
	"github.com/pupscout/pupscout/internal/fetch"
	"github.com/pupscout/pupscout/internal/models"
)

func routerConfig() *config.Config {
	cfg := testConfig()
	cfg.Server.RateLimitReqs = 2
	cfg.Server.RateLimitWindow = time.Minute
	return cfg
}

func setupTestRouter(t *testing.T, picker RandomPicker) http.Handler {
	t.Helper()
	cfg := routerConfig()
	handler := NewHandler(picker, &fakeClient{}, cfg)
	return NewRouter(handler, cfg).Setup()
}

func TestRouterRoutes(t *testing.T) {
	router := setupTestRouter(t, &fakePicker{record: sampleRecord()})

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
	}{
		{name: "random dog", method: http.MethodGet, target: "/api/v1/dogs/random", wantStatus: http.StatusOK},
		{name: "health", method: http.MethodGet, target: "/api/v1/health", wantStatus: http.StatusOK},
		{name: "liveness", method: http.MethodGet, target: "/api/v1/health/live", wantStatus: http.StatusOK},
		{name: "prometheus metrics", method: http.MethodGet, target: "/metrics", wantStatus: http.StatusOK},
		{name: "unknown path", method: http.MethodGet, target: "/api/v1/cats/random", wantStatus: http.StatusNotFound},
		{name: "wrong method", method: http.MethodPost, target: "/api/v1/dogs/random", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := setupTestRouter(t, &fakePicker{record: sampleRecord()})

	t.Run("generated when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Header().Get("X-Request-ID") == "" {
			t.Error("expected a generated X-Request-ID header")
		}
	})

	t.Run("incoming header preserved", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
		req.Header.Set("X-Request-ID", "client-supplied-id")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if got := rec.Header().Get("X-Request-ID"); got != "client-supplied-id" {
			t.Errorf("expected client-supplied-id, got %q", got)
		}
	})
}

func TestRouterRateLimitsPickRoute(t *testing.T) {
	router := setupTestRouter(t, &fakePicker{record: sampleRecord()})

	var lastStatus int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/dogs/random", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		lastStatus = rec.Code
	}

	if lastStatus != http.StatusTooManyRequests {
		t.Errorf("expected 429 after exceeding the limit, got %d", lastStatus)
	}

	// Health endpoints are not rate limited.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("liveness should bypass the rate limit, got %d", rec.Code)
	}
}

func TestRouterRecoversFromPanics(t *testing.T) {
	router := setupTestRouter(t, panickingPicker{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dogs/random", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 from recoverer, got %d", rec.Code)
	}
}

type panickingPicker struct{}

func (panickingPicker) PickRandom(ctx context.Context, opts fetch.PickOptions) (*models.DogRecord, error) {
	panic("boom")
}
