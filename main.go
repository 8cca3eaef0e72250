package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/ch10874/tasteforge-scraper/api"
	"github.com/ch10874/tasteforge-scraper/config"
	"github.com/ch10874/tasteforge-scraper/scrapers"
	"github.com/ch10874/tasteforge-scraper/utils"
)

func main() {
	config.LoadConfig()

	// MongoDB is optional; without it batches are only returned and snapshotted
	if config.MongoURI != "" {
		if err := utils.ConnectMongo(config.MongoURI); err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
	}

	registry, cleanup, err := scrapers.Setup(context.Background())
	if err != nil {
		log.Fatalf("Failed to set up scrapers: %v", err)
	}
	defer cleanup()

	mux := http.NewServeMux()
	api.NewHandler(registry).Routes(mux)

	if config.JWTSecret == "" {
		log.Println("JWT_SECRET not set, API endpoints are unauthenticated")
	}

	port := config.Port
	fmt.Printf("Server starting on port %s...\n", port)
	fmt.Printf("Usage: curl -X POST -d '{\"label\":\"FYLL (62%%): ost\",\"retailer\":\"oda\"}' http://localhost:%s/ingredients/parse\n", port)
	if err := http.ListenAndServe(":"+port, utils.LatencyMiddleware(mux)); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
