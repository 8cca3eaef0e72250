package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ch10874/tasteforge-scraper/scrapers"
	"github.com/ch10874/tasteforge-scraper/utils"
)

// BatchRequest is the payload of the retailer batch endpoints.
type BatchRequest struct {
	SearchURL string `json:"search_url"`
	Limit     int    `json:"limit,omitempty"`
}

// BatchResponse is a finished batch and where it was stored.
type BatchResponse struct {
	*scrapers.BatchResult
	Publish scrapers.PublishSummary `json:"publish"`
}

// MatinfoHandler scrapes a produkter.matinfo.no search
func (h *Handler) MatinfoHandler(w http.ResponseWriter, r *http.Request) {
	h.batch(w, r, "matinfo", true)
}

// OdaHandler scrapes an oda.com search; the search URL is optional
func (h *Handler) OdaHandler(w http.ResponseWriter, r *http.Request) {
	h.batch(w, r, "oda", false)
}

func (h *Handler) batch(w http.ResponseWriter, r *http.Request, retailer string, requireURL bool) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessagef(&logMessageBuilder, "[%s API]", retailer)
	logSubject(&logMessageBuilder, r)

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BatchRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}

	settings := h.Registry.Retailers[retailer]
	searchURL := strings.TrimSpace(req.SearchURL)
	if searchURL == "" {
		if requireURL {
			utils.RespondError(w, &logMessageBuilder, "search_url is required", http.StatusBadRequest)
			return
		}
		searchURL = settings.SearchURL
	}
	limit := req.Limit
	if limit <= 0 {
		limit = settings.Limit
	}

	scraper, err := h.Registry.ByName(retailer)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessagef(&logMessageBuilder, "Search URL: %s", searchURL)
	result, err := scrapers.ScrapeAll(r.Context(), scraper, searchURL, scrapers.BatchOptions{Limit: limit})
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadGateway)
		return
	}
	utils.AddToLogMessagef(&logMessageBuilder, "Scraped %d products, %d failed", len(result.Products), len(result.Failures))

	summary := scrapers.Publish(r.Context(), retailer, searchURL, result)
	utils.RespondJSON(w, http.StatusOK, BatchResponse{BatchResult: result, Publish: summary})
}
