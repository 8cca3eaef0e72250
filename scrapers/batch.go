package scrapers

import (
	"context"
	"fmt"
	"sync"

	"github.com/ch10874/tasteforge-scraper/models"
)

// DefaultConcurrency bounds the product pages fetched at once.
const DefaultConcurrency = 5

type BatchOptions struct {
	// Concurrency defaults to DefaultConcurrency when <= 0.
	Concurrency int
	// Limit caps the number of listed products scraped; 0 means all.
	Limit int
}

// Failure is a product that could not be scraped.
type Failure struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// BatchResult holds one batch. Products and failures keep listing order.
type BatchResult struct {
	Products []*models.Product `json:"data"`
	Failures []Failure         `json:"failures"`
}

// ScrapeAll lists the products of searchURL and scrapes each of them.
// A failing product is recorded and the batch goes on; only a failed
// listing aborts.
func ScrapeAll(ctx context.Context, s Scraper, searchURL string, opts BatchOptions) (*BatchResult, error) {
	urls, err := s.ListProducts(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("list %s products: %w", s.Name(), err)
	}
	if opts.Limit > 0 && len(urls) > opts.Limit {
		urls = urls[:opts.Limit]
	}
	fmt.Printf("[Batch] %s: %d products listed from %s\n", s.Name(), len(urls), searchURL)

	return ScrapeURLs(ctx, s, urls, opts.Concurrency), nil
}

// ScrapeURLs scrapes urls with at most concurrency requests in flight.
func ScrapeURLs(ctx context.Context, s Scraper, urls []string, concurrency int) *BatchResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	products := make([]*models.Product, len(urls))
	errs := make([]error, len(urls))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)

	for i, url := range urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			products[i], errs[i] = s.ScrapeProduct(ctx, url)
		}(i, url)
	}
	wg.Wait()

	result := &BatchResult{Products: []*models.Product{}, Failures: []Failure{}}
	for i, url := range urls {
		if errs[i] != nil {
			fmt.Printf("[Batch] Failed to scrape %s: %v\n", url, errs[i])
			result.Failures = append(result.Failures, Failure{URL: url, Error: errs[i].Error()})
			continue
		}
		result.Products = append(result.Products, products[i])
	}
	return result
}
