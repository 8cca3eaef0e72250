package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ch10874/tasteforge-scraper/scrapers"
	"github.com/ch10874/tasteforge-scraper/utils"
)

// Handler serves the scraping and parsing endpoints.
type Handler struct {
	Registry *scrapers.Registry
}

func NewHandler(registry *scrapers.Registry) *Handler {
	return &Handler{Registry: registry}
}

// HomeHandler answers the health check
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Hello World!"})
}

// ScrapeHandler handles the scraping request of a single product
func (h *Handler) ScrapeHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Scrape API]")
	logSubject(&logMessageBuilder, r)

	// Support both Query Params and JSON Body
	productURL := r.URL.Query().Get("url")
	if productURL == "" {
		var req struct {
			URL string `json:"url"`
		}
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
			return
		}
		productURL = req.URL
	}

	if productURL == "" {
		utils.RespondError(w, &logMessageBuilder, "Please provide a 'url' query parameter or JSON body", http.StatusBadRequest)
		return
	}

	utils.AddToLogMessagef(&logMessageBuilder, "Scraping URL: %s", productURL)

	scraper, resolvedURL, err := h.Registry.GetScraper(r.Context(), productURL)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Error finding scraper: %v", err), http.StatusBadRequest)
		return
	}

	product, err := scraper.ScrapeProduct(r.Context(), resolvedURL)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Scraping failed: %v", err), http.StatusBadGateway)
		return
	}

	utils.AddToLogMessagef(&logMessageBuilder, "Scraping successful: %s %s", product.Source, product.ProductID)
	utils.RespondJSON(w, http.StatusOK, product)
}
