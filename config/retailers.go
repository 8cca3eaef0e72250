package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ch10874/tasteforge-scraper/ingredients"
	"gopkg.in/yaml.v3"
)

// Retailer file validation errors.
var (
	ErrNoRetailers          = errors.New("at least one retailer is required")
	ErrInvalidStrategy      = errors.New("strategy must be one of: grammar, llm, grammar+llm")
	ErrInvalidTerminator    = errors.New("grammar.terminator must be 'colon' or 'none'")
	ErrInvalidPercentFormat = errors.New("grammar.percent must be 'decimal' or 'integer'")
)

// Retailer selects how a source is listed and how its labels are parsed.
type Retailer struct {
	SearchURL string        `yaml:"search_url"`
	Strategy  string        `yaml:"strategy"`
	Grammar   GrammarConfig `yaml:"grammar"`
	// Limit caps the number of products scraped per batch; 0 means all.
	Limit int `yaml:"limit"`
}

// GrammarConfig is the label dialect of a retailer.
type GrammarConfig struct {
	Terminator string `yaml:"terminator"`
	Percent    string `yaml:"percent"`
}

type retailersFile struct {
	Retailers map[string]Retailer `yaml:"retailers"`
}

// DefaultRetailers returns the built-in retailer table.
func DefaultRetailers() map[string]Retailer {
	return map[string]Retailer{
		"matinfo": {
			SearchURL: "https://produkter.matinfo.no/resultat?query=nordic%20lunch",
			Strategy:  string(ingredients.StrategyFallback),
			Grammar:   GrammarConfig{Terminator: "colon", Percent: "decimal"},
		},
		"oda": {
			SearchURL: "https://oda.com/no/search/products/?q=lunch",
			Strategy:  string(ingredients.StrategyGrammar),
			Grammar:   GrammarConfig{Terminator: "colon", Percent: "decimal"},
		},
	}
}

// LoadRetailers reads and validates a retailer table from a YAML file.
func LoadRetailers(path string) (map[string]Retailer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read retailers file: %w", err)
	}
	return ParseRetailers(data)
}

// ParseRetailers decodes and validates a YAML retailer table.
func ParseRetailers(data []byte) (map[string]Retailer, error) {
	var file retailersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse retailers file: %w", err)
	}
	if len(file.Retailers) == 0 {
		return nil, ErrNoRetailers
	}
	for name, r := range file.Retailers {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("retailer %s: %w", name, err)
		}
	}
	return file.Retailers, nil
}

// Validate checks the strategy and grammar values.
func (r Retailer) Validate() error {
	if _, err := ingredients.ParseStrategy(r.Strategy); err != nil {
		return ErrInvalidStrategy
	}
	if _, err := ingredients.ParseTerminator(r.Grammar.Terminator); err != nil {
		return ErrInvalidTerminator
	}
	if _, err := ingredients.ParsePercentFormat(r.Grammar.Percent); err != nil {
		return ErrInvalidPercentFormat
	}
	return nil
}

// ExtractorOptions converts the retailer settings into parser options.
// A strategy that needs the external service degrades to the grammar
// when no client is available.
func (r Retailer) ExtractorOptions(generator ingredients.JSONGenerator) (ingredients.Options, error) {
	strategy, err := ingredients.ParseStrategy(r.Strategy)
	if err != nil {
		return ingredients.Options{}, err
	}
	terminator, err := ingredients.ParseTerminator(r.Grammar.Terminator)
	if err != nil {
		return ingredients.Options{}, err
	}
	format, err := ingredients.ParsePercentFormat(r.Grammar.Percent)
	if err != nil {
		return ingredients.Options{}, err
	}

	if generator == nil && strategy != ingredients.StrategyGrammar {
		strategy = ingredients.StrategyGrammar
	}

	return ingredients.Options{
		Strategy:      strategy,
		Terminator:    terminator,
		PercentFormat: format,
		Generator:     generator,
		Timeout:       LLMTimeout,
		RepairJSON:    LLMRepairJSON,
	}, nil
}
