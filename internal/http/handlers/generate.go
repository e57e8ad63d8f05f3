package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"server/internal/domain"
	"server/internal/middleware"
)

// GenerateReq is the inbound payload for outfit generation.
type GenerateReq struct {
	Intake       domain.Intake `json:"intake"`
	OutfitsCount int           `json:"outfits_count"`
}

// Generate runs the outfit pipeline for one intake. The response is always
// structurally complete when the status is 200: every requested outfit has
// every category slot filled, placeholders included.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OutfitsCount == 0 {
		req.OutfitsCount = 3
	}
	if req.Intake.Country == "" {
		// Fall back to the country the middleware derived from headers or
		// the client IP.
		req.Intake.Country = middleware.CountryFromContext(r.Context())
	}

	result, err := a.Generator.Assemble(r.Context(), req.Intake, req.OutfitsCount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingCredentials):
			a.Logger.Error().Err(err).Msg("generation rejected: missing search credentials")
			a.error(w, http.StatusInternalServerError, "SERPAPI_API_KEY ontbreekt")
		case errors.Is(err, domain.ErrSearchUnavailable):
			a.Logger.Error().Err(err).Msg("generation failed: search upstream unavailable")
			a.error(w, http.StatusBadGateway, "zoekdienst is tijdelijk niet beschikbaar")
		default:
			a.Logger.Error().Err(err).Msg("generation failed")
			a.error(w, http.StatusInternalServerError, "outfit generation failed")
		}
		return
	}

	a.json(w, http.StatusOK, result)
}
