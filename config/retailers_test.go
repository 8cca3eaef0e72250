package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ch10874/tasteforge-scraper/ingredients"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct{}

func (stubGenerator) GenerateJSON(_ context.Context, _, _ string) (string, error) {
	return "[]", nil
}

func TestParseRetailers(t *testing.T) {
	data := []byte(`
retailers:
  meny:
    search_url: https://meny.no/sok?q=lunsj
    strategy: grammar
    limit: 10
    grammar:
      terminator: none
      percent: integer
`)

	retailers, err := ParseRetailers(data)
	require.NoError(t, err)
	require.Contains(t, retailers, "meny")

	meny := retailers["meny"]
	assert.Equal(t, "https://meny.no/sok?q=lunsj", meny.SearchURL)
	assert.Equal(t, 10, meny.Limit)
	assert.Equal(t, "none", meny.Grammar.Terminator)
	assert.Equal(t, "integer", meny.Grammar.Percent)
}

func TestParseRetailersValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"empty", "retailers: {}", ErrNoRetailers},
		{"strategy", "retailers:\n  a:\n    strategy: magic", ErrInvalidStrategy},
		{"terminator", "retailers:\n  a:\n    grammar:\n      terminator: semicolon", ErrInvalidTerminator},
		{"percent", "retailers:\n  a:\n    grammar:\n      percent: roman", ErrInvalidPercentFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRetailers([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadRetailers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retailers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("retailers:\n  oda:\n    strategy: llm\n"), 0o644))

	retailers, err := LoadRetailers(path)
	require.NoError(t, err)
	assert.Equal(t, "llm", retailers["oda"].Strategy)

	_, err = LoadRetailers(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultRetailersAreValid(t *testing.T) {
	for name, r := range DefaultRetailers() {
		assert.NoError(t, r.Validate(), name)
		assert.NotEmpty(t, r.SearchURL, name)
	}
}

func TestExtractorOptions(t *testing.T) {
	r := Retailer{Strategy: "grammar+llm", Grammar: GrammarConfig{Terminator: "colon", Percent: "integer"}}

	opts, err := r.ExtractorOptions(stubGenerator{})
	require.NoError(t, err)
	assert.Equal(t, ingredients.StrategyFallback, opts.Strategy)
	assert.Equal(t, ingredients.TerminatorColon, opts.Terminator)
	assert.Equal(t, ingredients.PercentInteger, opts.PercentFormat)

	opts, err = r.ExtractorOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, ingredients.StrategyGrammar, opts.Strategy, "no client degrades to the grammar")
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("LLM_REPAIR_JSON", "true")
	t.Setenv("RETAILERS_FILE", "")

	LoadConfig()

	assert.Equal(t, "8080", Port)
	assert.Equal(t, "5s", LLMTimeout.String())
	assert.True(t, LLMRepairJSON)
	assert.Contains(t, Retailers, "oda")
	assert.Contains(t, Retailers, "matinfo")
}
