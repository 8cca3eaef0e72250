package oda

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ch10874/tasteforge-scraper/ingredients"
	"github.com/ch10874/tasteforge-scraper/models"
	"github.com/ch10874/tasteforge-scraper/scrapers/base"
)

const (
	Source  = "Oda"
	BaseURL = "https://oda.com"
)

var (
	reProductID   = regexp.MustCompile(`/products/(\d+)`)
	reDigitSpace  = regexp.MustCompile(`(\d)\s+(\d)`)
	reInteger     = regexp.MustCompile(`\d+`)
	reDecimal     = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	nutritionKeys = map[string]string{
		"Fett":                     "fat_g",
		"hvorav mettede fettsyrer": "saturated_fat_g",
		"Karbohydrater":            "carbs_g",
		"hvorav sukkerarter":       "sugars_g",
		"Protein":                  "protein_g",
		"Salt":                     "salt_g",
	}
)

type OdaScraper struct {
	*base.BaseScraper
	extractor ingredients.Extractor
	// baseURL prefixes the relative product links of a listing.
	baseURL string
	now     func() time.Time
}

func NewOdaScraper(extractor ingredients.Extractor) *OdaScraper {
	return &OdaScraper{
		BaseScraper: base.NewBaseScraper(),
		extractor:   extractor,
		baseURL:     BaseURL,
		now:         time.Now,
	}
}

func (s *OdaScraper) Name() string {
	return "oda"
}

func (s *OdaScraper) CanScrape(url string) bool {
	return strings.Contains(url, "oda.com")
}

func (s *OdaScraper) ListProducts(ctx context.Context, searchURL string) ([]string, error) {
	doc, err := s.FetchDocument(ctx, searchURL, func(doc *goquery.Document) bool {
		return doc.Find("div.k-grid.k-grid--row-gap-spacing-4 article").Length() > 0
	})
	if err != nil {
		return nil, err
	}
	return parseProductLinks(doc, s.baseURL), nil
}

func (s *OdaScraper) ScrapeProduct(ctx context.Context, productURL string) (*models.Product, error) {
	doc, err := s.FetchDocument(ctx, productURL, func(doc *goquery.Document) bool {
		return doc.Find(`div[data-testid="product-info-section"] h1`).Length() > 0
	})
	if err != nil {
		return nil, err
	}

	product, raw := parseProduct(doc, productURL, s.now())
	base.ApplyIngredients(ctx, s.extractor, product, raw)
	return product, nil
}

func parseProductLinks(doc *goquery.Document, baseURL string) []string {
	var links []string
	doc.Find("div.k-grid.k-grid--row-gap-spacing-4 article a[href]").Each(func(i int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" {
			return
		}
		if strings.HasPrefix(href, "/") {
			href = baseURL + href
		}
		links = append(links, href)
	})
	return links
}

func parseProduct(doc *goquery.Document, productURL string, now time.Time) (*models.Product, string) {
	product := models.NewProduct(Source, productURL, now)
	product.Nutrition.Per100g = map[string]float64{}

	if m := reProductID.FindStringSubmatch(productURL); m != nil {
		product.ProductID = m[1]
	}

	// Subtitle reads "<detail>, <detail>, <brand>".
	info := doc.Find(`div[data-testid="product-info-section"]`).First()
	title := strings.TrimSpace(info.Find("h1").First().Text())
	if subtitle := strings.TrimSpace(info.Find("p").First().Text()); subtitle != "" {
		parts := strings.Split(subtitle, ", ")
		product.Brand = strings.TrimSpace(parts[len(parts)-1])
		if details := parts[:len(parts)-1]; len(details) > 0 {
			title += " - " + strings.Join(details, " - ")
		}
	}
	product.Title = title

	product.Image = doc.Find("main#main-content img.k-image.k-image--contain").First().AttrOr("src", "")

	var raw string
	doc.Find("div.k-grid.k-pt-3.k-pb-6").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("div")
		if cells.Length() < 2 {
			return
		}
		key := strings.TrimSpace(cells.Eq(0).Text())
		value := strings.TrimSpace(cells.Eq(1).Text())

		if key == "Energi" {
			kj, kcal, err := parseEnergy(value)
			if err != nil {
				product.ParseWarnings = append(product.ParseWarnings, err.Error())
				return
			}
			product.Nutrition.Per100g["energy_kJ"] = float64(kj)
			product.Nutrition.Per100g["energy_kcal"] = float64(kcal)
			return
		}
		if field, ok := nutritionKeys[key]; ok {
			grams, err := parseGrams(value)
			if err != nil {
				product.ParseWarnings = append(product.ParseWarnings, fmt.Sprintf("%s: %v", key, err))
				return
			}
			product.Nutrition.Per100g[field] = grams
			return
		}

		switch key {
		case "Leverandør":
			product.Producer = value
		case "Allergener":
			if value = strings.TrimRight(value, "."); value != "" {
				product.Allergens = strings.Split(value, ", ")
			}
		case "Ingredienser":
			raw = value
		}
	})

	return product, raw
}

// parseEnergy reads "1 020 kJ / 243 kcal" into its kJ and kcal values.
func parseEnergy(value string) (int, int, error) {
	numbers := reInteger.FindAllString(reDigitSpace.ReplaceAllString(value, "$1$2"), -1)
	if len(numbers) < 2 {
		return 0, 0, fmt.Errorf("energy %q: expected kJ and kcal values", value)
	}
	kj, err := strconv.Atoi(numbers[0])
	if err != nil {
		return 0, 0, fmt.Errorf("energy %q: %w", value, err)
	}
	kcal, err := strconv.Atoi(numbers[1])
	if err != nil {
		return 0, 0, fmt.Errorf("energy %q: %w", value, err)
	}
	return kj, kcal, nil
}

// parseGrams reads "9,2 g" or "0.5 g".
func parseGrams(value string) (float64, error) {
	number := reDecimal.FindString(value)
	if number == "" {
		return 0, fmt.Errorf("no amount in %q", value)
	}
	return strconv.ParseFloat(strings.ReplaceAll(number, ",", "."), 64)
}
