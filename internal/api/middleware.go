// Pupscout - Random Dog Picker with Breed Ban Lists
// Copyright 2026 Pupscout Contributors
// SPDX-License-Identifier: MIT
// https://github.com/pupscout/pupscout

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pupscout/pupscout/internal/logging"
	"github.com/pupscout/pupscout/internal/metrics"
)

// RequestIDWithLogging adds an X-Request-ID header to every response
// and threads the ID through the request context so handlers can log
// with correlation via logging.Ctx.
func RequestIDWithLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = logging.GenerateRequestID()
			}
			w.Header().Set("X-Request-ID", requestID)

			ctx := logging.ContextWithRequestID(r.Context(), requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrometheusMetrics records request counts and latency per route
// pattern. Applied after the router resolves the pattern so the
// endpoint label stays low-cardinality.
func PrometheusMetrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			// Prefer the chi route pattern; fall back to the raw path
			// for unmatched requests.
			endpoint := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				endpoint = rctx.RoutePattern()
			}

			metrics.ObserveAPIRequest(r.Method, endpoint, ww.Status(), time.Since(start))
		})
	}
}
