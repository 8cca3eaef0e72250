package scrapers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/ch10874/tasteforge-scraper/config"
	"github.com/ch10874/tasteforge-scraper/ingredients"
	"github.com/ch10874/tasteforge-scraper/scrapers/matinfo"
	"github.com/ch10874/tasteforge-scraper/scrapers/oda"
	"github.com/ch10874/tasteforge-scraper/utils"
)

// ErrNoGenerator is returned when a strategy needs the external client
// and GEMINI_API_KEY is not set.
var ErrNoGenerator = errors.New("structured-extraction client is not configured")

// Registry builds scrapers with the ingredient extractor configured for
// their retailer.
type Registry struct {
	Retailers map[string]config.Retailer
	// Generator is the external extraction client; nil disables it.
	Generator ingredients.JSONGenerator

	mu         sync.Mutex
	extractors map[string]ingredients.Extractor
}

// NewRegistry uses the loaded retailer table.
func NewRegistry(generator ingredients.JSONGenerator) *Registry {
	return &Registry{Retailers: config.Retailers, Generator: generator}
}

// Setup builds the registry from the loaded configuration and connects the
// Gemini client when GEMINI_API_KEY is set. cleanup releases the client.
func Setup(ctx context.Context) (registry *Registry, cleanup func(), err error) {
	if config.GeminiAPIKey == "" {
		log.Println("[Registry] GEMINI_API_KEY not set, parsing labels with the grammar only")
		return NewRegistry(nil), func() {}, nil
	}

	client, err := utils.NewGeminiClient(ctx, config.GeminiAPIKey, config.GeminiModel, utils.IngredientGroupsSchema)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return NewRegistry(client), func() { client.Close() }, nil
}

// Extractor returns the ingredient extractor configured for a retailer.
// Unknown retailers get the default grammar.
func (r *Registry) Extractor(retailer string) (ingredients.Extractor, error) {
	return r.ExtractorFor(retailer, "")
}

// ExtractorFor is Extractor with the retailer's strategy replaced by
// strategy when it is not empty. An explicit strategy that needs the
// external client fails when none is configured.
func (r *Registry) ExtractorFor(retailer, strategy string) (ingredients.Extractor, error) {
	settings, ok := r.Retailers[retailer]
	if !ok {
		settings = config.Retailer{Strategy: string(ingredients.StrategyGrammar)}
	}
	if strategy != "" {
		parsed, err := ingredients.ParseStrategy(strategy)
		if err != nil {
			return nil, err
		}
		if parsed != ingredients.StrategyGrammar && r.Generator == nil {
			return nil, ErrNoGenerator
		}
		settings.Strategy = string(parsed)
	}

	opts, err := settings.ExtractorOptions(r.Generator)
	if err != nil {
		return nil, fmt.Errorf("retailer %s: %w", retailer, err)
	}

	// Extractors are stateless, so one per configuration is shared.
	key := fmt.Sprintf("%s/%s/%s", opts.Strategy, opts.Terminator, opts.PercentFormat)
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.extractors[key]; ok {
		return e, nil
	}
	e, err := ingredients.New(opts)
	if err != nil {
		return nil, err
	}
	if r.extractors == nil {
		r.extractors = map[string]ingredients.Extractor{}
	}
	r.extractors[key] = e
	return e, nil
}

// ByName returns the scraper for a retailer key such as "oda".
func (r *Registry) ByName(name string) (Scraper, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	extractor, err := r.Extractor(name)
	if err != nil {
		return nil, err
	}

	switch name {
	case "matinfo":
		return matinfo.NewMatinfoScraper(extractor), nil
	case "oda":
		return oda.NewOdaScraper(extractor), nil
	}
	return nil, fmt.Errorf("no scraper registered for retailer: %s", name)
}

// GetScraper returns the appropriate scraper and the resolved URL
func (r *Registry) GetScraper(ctx context.Context, url string) (Scraper, string, error) {
	// Resolve shortened URLs (e.g., bit.ly)
	resolvedURL, err := utils.ResolveShortenedURL(ctx, url)
	if err != nil {
		return nil, url, fmt.Errorf("error resolving url: %w", err)
	}

	for _, name := range []string{"matinfo", "oda"} {
		s, err := r.ByName(name)
		if err != nil {
			return nil, resolvedURL, err
		}
		if s.CanScrape(resolvedURL) {
			return s, resolvedURL, nil
		}
	}

	return nil, resolvedURL, fmt.Errorf("no scraper found for url: %s", resolvedURL)
}
