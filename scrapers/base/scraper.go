package base

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ch10874/tasteforge-scraper/config"
	"github.com/ch10874/tasteforge-scraper/utils"
)

// Validator reports whether a fetched document holds the expected content.
type Validator func(*goquery.Document) bool

// BaseScraper handles common scraping logic
type BaseScraper struct {
	Client *http.Client
	// BrowserFallback enables the ChromeDP and Selenium strategies.
	BrowserFallback bool
	// ChromeDriverPath locates the chromedriver binary used by Selenium.
	ChromeDriverPath string
}

// NewBaseScraper creates a new BaseScraper instance
func NewBaseScraper() *BaseScraper {
	return &BaseScraper{
		Client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				ForceAttemptHTTP2:     false,
				TLSNextProto:          make(map[string]func(string, *tls.Conn) http.RoundTripper),
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		BrowserFallback:  config.BrowserFallback,
		ChromeDriverPath: config.ChromeDriverPath,
	}
}

// FetchDocument fetches the URL using multiple strategies with a custom validator
func (b *BaseScraper) FetchDocument(ctx context.Context, url string, validator Validator) (*goquery.Document, error) {
	// Strategy 1: HTTP Client (Fastest)
	doc, err := b.FetchDocumentHTTP(ctx, url)
	if err == nil {
		if validator(doc) {
			fmt.Printf("[BaseScraper] HTTP Success: %s\n", url)
			return doc, nil
		}
		fmt.Printf("[BaseScraper] HTTP yielded invalid content (validator failed): %s\n", url)
	} else {
		fmt.Printf("[BaseScraper] HTTP Failed: %v\n", err)
	}

	if !b.BrowserFallback {
		if err == nil {
			err = fmt.Errorf("page did not contain the expected content")
		}
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	// Strategy 2: ChromeDP (Headless)
	fmt.Printf("[BaseScraper] Trying ChromeDP: %s\n", url)
	doc, err = b.FetchDocumentChromeDP(ctx, url)
	if err == nil && validator(doc) {
		fmt.Printf("[BaseScraper] ChromeDP Success\n")
		return doc, nil
	}
	if err != nil {
		fmt.Printf("[BaseScraper] ChromeDP Failed: %v\n", err)
	}

	// Strategy 3: Selenium (Full Browser)
	fmt.Printf("[BaseScraper] Trying Selenium: %s\n", url)
	doc, err = b.FetchDocumentSelenium(ctx, url)
	if err == nil && validator(doc) {
		fmt.Printf("[BaseScraper] Selenium Success\n")
		return doc, nil
	}
	if err != nil {
		fmt.Printf("[BaseScraper] Selenium Failed: %v\n", err)
	}

	return nil, fmt.Errorf("all strategies failed for %s", url)
}

// IsValidDocument rejects bot-check pages and near-empty bodies.
func IsValidDocument(doc *goquery.Document) bool {
	title := strings.ToLower(strings.TrimSpace(doc.Find("title").Text()))
	if strings.Contains(title, "robot check") ||
		strings.Contains(title, "captcha") ||
		strings.Contains(title, "access denied") {
		return false
	}

	body := strings.TrimSpace(doc.Find("body").Text())
	return len(body) > 200
}

// FetchDocumentHTTP fetches the URL and returns a GoQuery document via standard HTTP
func (b *BaseScraper) FetchDocumentHTTP(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", utils.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "nb-NO,nb;q=0.9,no;q=0.8,en;q=0.7")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Sec-Fetch-User", "?1")

	res, err := b.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code error: %d %s", res.StatusCode, res.Status)
	}

	return goquery.NewDocumentFromReader(res.Body)
}
