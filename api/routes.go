package api

import (
	"net/http"

	"github.com/ch10874/tasteforge-scraper/config"
)

// Routes registers every endpoint on mux, wrapping each with the CORS
// and token middlewares.
func (h *Handler) Routes(mux *http.ServeMux) {
	protect := func(next http.HandlerFunc) http.HandlerFunc {
		return CORSMiddleware(RequireToken(config.JWTSecret, next))
	}

	mux.HandleFunc("/{$}", CORSMiddleware(HomeHandler))
	mux.HandleFunc("/ingredients/parse", protect(h.ParseIngredientsHandler))
	mux.HandleFunc("/scrape", protect(h.ScrapeHandler))
	mux.HandleFunc("/matinfo", protect(h.MatinfoHandler))
	mux.HandleFunc("/oda", protect(h.OdaHandler))
}

// CORSMiddleware answers preflight requests and allows any origin
func CORSMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}
