package matinfo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/ch10874/tasteforge-scraper/ingredients"
	"github.com/ch10874/tasteforge-scraper/models"
	"github.com/ch10874/tasteforge-scraper/scrapers/base"
)

const Source = "Matinfo"

// MatinfoScraper reads product sheets from produkter.matinfo.no
type MatinfoScraper struct {
	*base.BaseScraper
	extractor ingredients.Extractor
	now       func() time.Time
}

func NewMatinfoScraper(extractor ingredients.Extractor) *MatinfoScraper {
	return &MatinfoScraper{
		BaseScraper: base.NewBaseScraper(),
		extractor:   extractor,
		now:         time.Now,
	}
}

func (s *MatinfoScraper) Name() string {
	return "matinfo"
}

func (s *MatinfoScraper) CanScrape(url string) bool {
	return strings.Contains(url, "matinfo.no")
}

// ListProducts returns the product links of a search result page.
func (s *MatinfoScraper) ListProducts(ctx context.Context, searchURL string) ([]string, error) {
	doc, err := s.FetchDocument(ctx, searchURL, func(doc *goquery.Document) bool {
		return doc.Find("#results-list").Length() > 0
	})
	if err != nil {
		return nil, err
	}
	return parseProductLinks(doc, searchURL), nil
}

func (s *MatinfoScraper) ScrapeProduct(ctx context.Context, productURL string) (*models.Product, error) {
	doc, err := s.FetchDocument(ctx, productURL, func(doc *goquery.Document) bool {
		return doc.Find("h1").Length() > 0 && doc.Find("div.product-numbers").Length() > 0
	})
	if err != nil {
		return nil, err
	}

	product, raw, err := parseProduct(doc, productURL, s.now())
	if err != nil {
		return nil, err
	}
	base.ApplyIngredients(ctx, s.extractor, product, raw)
	return product, nil
}

func parseProductLinks(doc *goquery.Document, searchURL string) []string {
	baseURL, _ := url.Parse(searchURL)

	var links []string
	doc.Find("#results-list div.row a[href]").Each(func(i int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" {
			return
		}
		if baseURL != nil {
			if ref, err := url.Parse(href); err == nil {
				href = baseURL.ResolveReference(ref).String()
			}
		}
		links = append(links, href)
	})
	return links
}

// parseProduct extracts every field except the parsed ingredients; the raw
// ingredient declaration is returned separately.
func parseProduct(doc *goquery.Document, productURL string, now time.Time) (*models.Product, string, error) {
	product := models.NewProduct(Source, productURL, now)

	// 1. Product id
	numbers := doc.Find("div.product-numbers").Text()
	_, gtin, found := strings.Cut(numbers, "GTIN:")
	if !found {
		return nil, "", fmt.Errorf("no GTIN in product numbers of %s", productURL)
	}
	product.ProductID = strings.TrimSpace(gtin)

	// 2. Brand and producer
	doc.Find("div.brands p").Each(func(i int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		value := strings.TrimSpace(text[strings.LastIndex(text, ":")+1:])
		switch {
		case strings.Contains(text, "PRODUSENT:"):
			product.Producer = value
		case strings.Contains(text, "VAREMERKE:"):
			product.Brand = value
		}
	})

	// 3. Title
	product.Title = strings.TrimSpace(doc.Find("h1").First().Text())

	// 4. Ingredients
	raw := strings.TrimSpace(doc.Find("section.ingredients p").First().Text())

	// 5. Allergens are flagged with a red circle
	doc.Find("section.allergens tbody tr").Each(func(i int, row *goquery.Selection) {
		html, _ := goquery.OuterHtml(row)
		if !strings.Contains(html, "circle-red") {
			return
		}
		if name := strings.TrimSpace(row.Find("td").First().Text()); name != "" {
			product.Allergens = append(product.Allergens, name)
		}
	})

	// 6. Nutrition
	nutritionHeading := doc.Find("h2").FilterFunction(func(i int, h *goquery.Selection) bool {
		return strings.TrimSpace(h.Text()) == "Næringsinnhold"
	}).First()
	if nutritionHeading.Length() > 0 {
		following := nutritionHeading.NextAll()
		product.Nutrition.Unit = strings.TrimSpace(following.Filter("p").First().Text())
		product.Nutrition.Values = map[string]string{}
		following.Filter("table.div-table").First().Find("tr").Each(func(i int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() != 2 {
				return
			}
			nutrient := strings.TrimSpace(cells.Eq(0).Text())
			product.Nutrition.Values[nutrient] = strings.TrimSpace(cells.Eq(1).Text())
		})
	}

	// 7. Product details
	doc.Find("table#product-info tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		value := strings.TrimSpace(cells.Eq(1).Text())
		switch strings.TrimSpace(cells.Eq(0).Text()) {
		case "Opphavsland":
			product.OriginCountry = value
		case "GTIN":
			product.GTIN = value
		case "EPD-nummer":
			product.EPD = value
		}
	})

	// 8. Description and image
	product.ProductDescription = description(doc.Find("div.col-sm-9 p.paragraph-padding").First())
	product.Image = doc.Find("div.image-header img").First().AttrOr("src", "")

	return product, raw, nil
}

// description keeps the emphasis and line breaks of the description
// paragraph as Markdown.
func description(p *goquery.Selection) string {
	html, err := p.Html()
	if err != nil || strings.TrimSpace(html) == "" {
		return strings.TrimSpace(p.Text())
	}
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return strings.TrimSpace(p.Text())
	}
	return strings.TrimSpace(markdown)
}
