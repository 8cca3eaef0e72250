package oda

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ch10874/tasteforge-scraper/ingredients"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productPage = `<html><body><main id="main-content">
<img class="k-image k-image--contain" src="https://oda.com/img/32187.jpg">
<div data-testid="product-info-section">
  <h1>Baguette Skinke og Ost</h1>
  <p>Glutenfri, 180 g, Nordic Lunch</p>
</div>
<div class="k-grid k-pt-3 k-pb-6"><div>Ingredienser</div><div>FYLL (62%): Skinke, Ost. BRØD (38%): Maismel, Vann.</div></div>
<div class="k-grid k-pt-3 k-pb-6"><div>Allergener</div><div>Melk, Egg.</div></div>
<div class="k-grid k-pt-3 k-pb-6"><div>Leverandør</div><div>Nordic Foods AS</div></div>
<div class="k-grid k-pt-3 k-pb-6"><div>Energi</div><div>1 020 kJ / 243 kcal</div></div>
<div class="k-grid k-pt-3 k-pb-6"><div>Fett</div><div>9,2 g</div></div>
<div class="k-grid k-pt-3 k-pb-6"><div>hvorav mettede fettsyrer</div><div>4.10 g</div></div>
<div class="k-grid k-pt-3 k-pb-6"><div>Salt</div><div>1 g</div></div>
<div class="k-grid k-pt-3 k-pb-6"><div>Protein</div><div>ukjent</div></div>
</main></body></html>`

const searchPage = `<html><body>
<div class="k-grid k-grid--row-gap-spacing-4">
  <article><a href="/no/products/32187-nordic-lunch-baguette/">Baguette</a></article>
  <article><a href="https://oda.com/no/products/32188-wrap/">Wrap</a></article>
</div>
<a href="/no/products/1-not-in-grid/">ad</a>
</body></html>`

func mustDocument(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseProduct(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	product, raw := parseProduct(mustDocument(t, productPage), "https://oda.com/no/products/32187-nordic-lunch-baguette/", now)

	assert.Equal(t, Source, product.Source)
	assert.Equal(t, "32187", product.ProductID)
	assert.Equal(t, "Baguette Skinke og Ost - Glutenfri - 180 g", product.Title)
	assert.Equal(t, "Nordic Lunch", product.Brand)
	assert.Equal(t, "Nordic Foods AS", product.Producer)
	assert.Equal(t, "https://oda.com/img/32187.jpg", product.Image)
	assert.Equal(t, []string{"Melk", "Egg"}, product.Allergens)
	assert.Equal(t, "FYLL (62%): Skinke, Ost. BRØD (38%): Maismel, Vann.", raw)
	assert.Equal(t, map[string]float64{
		"energy_kJ":       1020,
		"energy_kcal":     243,
		"fat_g":           9.2,
		"saturated_fat_g": 4.1,
		"salt_g":          1,
	}, product.Nutrition.Per100g)
	require.Len(t, product.ParseWarnings, 1)
	assert.Contains(t, product.ParseWarnings[0], "Protein")
}

func TestParseProductWithoutSubtitle(t *testing.T) {
	product, raw := parseProduct(mustDocument(t, `<div data-testid="product-info-section"><h1>Wrap</h1></div>`), "https://oda.com/no/search", time.Now())
	assert.Equal(t, "Wrap", product.Title)
	assert.Empty(t, product.Brand)
	assert.Empty(t, product.ProductID)
	assert.Empty(t, raw)
}

func TestParseEnergy(t *testing.T) {
	kj, kcal, err := parseEnergy("1 020 kJ / 243 kcal")
	require.NoError(t, err)
	assert.Equal(t, 1020, kj)
	assert.Equal(t, 243, kcal)

	_, _, err = parseEnergy("243 kcal")
	assert.Error(t, err)
}

func TestParseGrams(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"9,2 g", 9.2},
		{"0.5 g", 0.5},
		{"12 g", 12},
	}
	for _, tt := range tests {
		got, err := parseGrams(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseGrams("spor")
	assert.Error(t, err)
}

func TestParseProductLinks(t *testing.T) {
	links := parseProductLinks(mustDocument(t, searchPage), BaseURL)
	assert.Equal(t, []string{
		"https://oda.com/no/products/32187-nordic-lunch-baguette/",
		"https://oda.com/no/products/32188-wrap/",
	}, links)
}

func TestScrapeProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, productPage)
	}))
	defer srv.Close()

	s := NewOdaScraper(ingredients.NewGrammar(ingredients.TerminatorColon, ingredients.PercentDecimal))
	s.BrowserFallback = false

	product, err := s.ScrapeProduct(context.Background(), srv.URL+"/no/products/32187-baguette/")
	require.NoError(t, err)
	assert.Equal(t, "32187", product.ProductID)
	assert.Equal(t, ingredients.Record{
		{Name: "FYLL", Percent: 62, Sub: []string{"skinke", "ost"}},
		{Name: "BRØD", Percent: 38, Sub: []string{"maismel", "vann"}},
	}, product.Ingredients)
}

func TestListProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, searchPage)
	}))
	defer srv.Close()

	s := NewOdaScraper(nil)
	s.BrowserFallback = false
	s.baseURL = srv.URL

	links, err := s.ListProducts(context.Background(), srv.URL+"/no/search/products/?q=lunch")
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/no/products/32187-nordic-lunch-baguette/", "https://oda.com/no/products/32188-wrap/"}, links)
}
