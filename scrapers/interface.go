package scrapers

import (
	"context"

	"github.com/ch10874/tasteforge-scraper/models"
)

// Scraper defines the interface for all retailer scrapers
type Scraper interface {
	// Name is the retailer key used in the retailer table
	Name() string
	// CanScrape checks if the scraper can handle the given URL
	CanScrape(url string) bool
	// ListProducts returns the product URLs found on a search page
	ListProducts(ctx context.Context, searchURL string) ([]string, error)
	// ScrapeProduct scrapes the product details from the given URL
	ScrapeProduct(ctx context.Context, url string) (*models.Product, error)
}
