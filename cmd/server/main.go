// Pupscout - Random Dog Picker with Breed Ban Lists
// Copyright 2026 Pupscout Contributors
// SPDX-License-Identifier: MIT
// https://github.com/pupscout/pupscout

// Package main is the entry point for the Pupscout server.
//
// Pupscout serves one random dog image with breed attributes per
// request, honoring a caller-supplied ban list of breed names,
// temperament traits, or other attribute values. The upstream image
// API returns candidates nondeterministically and cannot exclude
// server-side, so the core retrieval loop fetches, normalizes,
// filters, and retries client-side.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (DOG_API_URL, DOG_API_KEY, FETCH_MAX_ATTEMPTS, ...)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// The upstream API key (DOG_API_KEY) is optional: without it requests
// go out unauthenticated and the upstream applies its anonymous quota.
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pupscout/pupscout/internal/api"
	"github.com/pupscout/pupscout/internal/config"
	"github.com/pupscout/pupscout/internal/fetch"
	"github.com/pupscout/pupscout/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", api.Version).
		Str("upstream", cfg.Source.BaseURL).
		Bool("authenticated", cfg.Source.APIKey != "").
		Msg("Starting Pupscout")

	client, err := buildClient(cfg)
	if err != nil {
		// A CapabilityError here means the client cannot perform
		// network calls at all; there is nothing to retry.
		logging.Fatal().Err(err).Msg("Failed to build dog API client")
	}

	picker := fetch.NewPicker(client, fetch.PickerConfig{
		BatchSize:      cfg.Fetch.BatchSize,
		MaxAttempts:    cfg.Fetch.MaxAttempts,
		RequestTimeout: cfg.Fetch.RequestTimeout,
		StrictBreeds:   cfg.Fetch.StrictBreeds,
	}, fetch.ConstantBackoff(cfg.Fetch.RetryDelay))

	handler := api.NewHandler(picker, client, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}
	logging.Info().Msg("Pupscout stopped")
}

// buildClient constructs the upstream client, optionally wrapped in a
// circuit breaker.
func buildClient(cfg *config.Config) (fetch.SourceClient, error) {
	client, err := fetch.NewDogAPIClient(fetch.DogAPIClientConfig{
		BaseURL:       cfg.Source.BaseURL,
		APIKey:        cfg.Source.APIKey,
		RequireBreeds: cfg.Source.RequireBreeds,
		MimeTypes:     cfg.Source.MimeTypes,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Source.BreakerEnabled {
		return fetch.NewBreakerClient(client), nil
	}
	return client, nil
}
