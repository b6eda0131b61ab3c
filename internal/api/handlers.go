// Pupscout - Random Dog Picker with Breed Ban Lists
// Copyright 2026 Pupscout Contributors
// SPDX-License-Identifier: MIT
// https://github.com/pupscout/pupscout

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pupscout/pupscout/internal/config"
	"github.com/pupscout/pupscout/internal/fetch"
	"github.com/pupscout/pupscout/internal/logging"
	"github.com/pupscout/pupscout/internal/models"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

// RandomPicker is the picker operation the handler depends on.
// Implemented by fetch.Picker.
type RandomPicker interface {
	PickRandom(ctx context.Context, opts fetch.PickOptions) (*models.DogRecord, error)
}

// Handler holds dependencies for all HTTP handlers.
type Handler struct {
	picker    RandomPicker
	client    fetch.SourceClient
	cfg       *config.Config
	startTime time.Time
	validate  *validator.Validate
}

// NewHandler creates a handler with its dependencies.
func NewHandler(picker RandomPicker, client fetch.SourceClient, cfg *config.Config) *Handler {
	return &Handler{
		picker:    picker,
		client:    client,
		cfg:       cfg,
		startTime: time.Now(),
		validate:  validator.New(),
	}
}

// banParams maps query parameter names to record attribute keys.
var banParams = map[string]string{
	"ban_name":        models.AttrName,
	"ban_temperament": models.AttrTemperament,
	"ban_life_span":   models.AttrLifeSpan,
	"ban_weight":      models.AttrWeight,
	"ban_height":      models.AttrHeight,
}

// randomDogParams carries the validated query parameters for RandomDog.
type randomDogParams struct {
	Attempts int `validate:"omitempty,min=1,max=20"`
}

// RandomDog handles GET /api/v1/dogs/random.
//
// Ban values are supplied via repeated or comma-separated query
// parameters (ban_name, ban_temperament, ban_life_span, ban_weight,
// ban_height). The optional attempts parameter overrides the configured
// retry budget for this request.
func (h *Handler) RandomDog(w http.ResponseWriter, r *http.Request) {
	params := randomDogParams{}
	if raw := r.URL.Query().Get("attempts"); raw != "" {
		attempts, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, CodeValidationError, "attempts must be an integer", nil)
			return
		}
		params.Attempts = attempts
	}
	if err := h.validate.Struct(&params); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidationError, "attempts must be between 1 and 20", nil)
		return
	}

	banList := parseBanList(r)

	record, err := h.picker.PickRandom(r.Context(), fetch.PickOptions{
		BanList:     banList,
		MaxAttempts: params.Attempts,
	})
	if err != nil {
		h.respondPickError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, record)
}

// respondPickError maps picker failures to HTTP responses. Exhaustion
// gets a dedicated code so the frontend can suggest removing bans
// instead of reporting a network problem.
func (h *Handler) respondPickError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case fetch.IsExhaustion(err):
		logging.Ctx(r.Context()).Info().Err(err).Msg("Pick exhausted attempt budget")
		respondError(w, http.StatusNotFound, CodeNoAcceptableDog,
			"No acceptable dog found; try removing some bans", nil)
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to write.
		logging.Ctx(r.Context()).Debug().Msg("Pick canceled by client")
	default:
		respondError(w, http.StatusBadGateway, CodeUpstreamError,
			"Upstream dog API is unavailable", err)
	}
}

// parseBanList builds a BanList from the request query. Each parameter
// may be repeated and each value may itself be comma-separated.
func parseBanList(r *http.Request) models.BanList {
	query := r.URL.Query()
	banList := models.BanList{}

	for param, attrKey := range banParams {
		var values []string
		for _, raw := range query[param] {
			for _, v := range strings.Split(raw, ",") {
				if v = strings.TrimSpace(v); v != "" {
					values = append(values, v)
				}
			}
		}
		if len(values) > 0 {
			banList[attrKey] = values
		}
	}

	return banList
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	upstreamConnected := h.client != nil && h.client.Ping(r.Context()) == nil

	status := "healthy"
	if !upstreamConnected {
		status = "degraded"
	}

	respondSuccess(w, http.StatusOK, models.HealthStatus{
		Status:            status,
		Version:           Version,
		UpstreamConnected: upstreamConnected,
		Uptime:            time.Since(h.startTime).Seconds(),
	})
}

// HealthLive handles GET /api/v1/health/live: process liveness only,
// no upstream calls.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "alive"})
}
