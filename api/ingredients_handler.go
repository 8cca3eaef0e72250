package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ch10874/tasteforge-scraper/ingredients"
	"github.com/ch10874/tasteforge-scraper/scrapers"
	"github.com/ch10874/tasteforge-scraper/utils"
)

// ParseIngredientsRequest is the payload of POST /ingredients/parse.
type ParseIngredientsRequest struct {
	Label string `json:"label"`
	// Retailer selects the label dialect; empty uses the default grammar.
	Retailer string `json:"retailer,omitempty"`
	// Strategy overrides the retailer's strategy.
	Strategy string `json:"strategy,omitempty"`
}

// ParseIngredientsResponse carries the record and any dropped groups.
type ParseIngredientsResponse struct {
	Data     ingredients.Record `json:"data"`
	Warnings []string           `json:"warnings,omitempty"`
}

// ParseIngredientsHandler parses a single ingredient label
func (h *Handler) ParseIngredientsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Ingredients API]")
	logSubject(&logMessageBuilder, r)

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ParseIngredientsRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}

	retailer := strings.ToLower(strings.TrimSpace(req.Retailer))
	extractor, err := h.Registry.ExtractorFor(retailer, req.Strategy)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, scrapers.ErrNoGenerator) {
			status = http.StatusServiceUnavailable
		}
		utils.RespondError(w, &logMessageBuilder, err.Error(), status)
		return
	}

	record, err := extractor.Extract(r.Context(), req.Label)
	resp := ParseIngredientsResponse{Data: record}
	switch {
	case err == nil:
	case errors.Is(err, ingredients.ErrExternalExtraction):
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadGateway)
		return
	case errors.Is(err, ingredients.ErrMalformedPercent):
		resp.Warnings = strings.Split(err.Error(), "\n")
	default:
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusInternalServerError)
		return
	}
	if resp.Data == nil {
		resp.Data = ingredients.Record{}
	}

	utils.AddToLogMessagef(&logMessageBuilder, "Parsed %d groups (%d warnings)", len(resp.Data), len(resp.Warnings))
	utils.RespondJSON(w, http.StatusOK, resp)
}
