package base

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ch10874/tasteforge-scraper/utils"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

// seleniumPorts leases chromedriver ports to concurrent fetches.
var seleniumPorts = NewPortManager(4444, 8)

// FetchDocumentSelenium loads the URL in a chromedriver-controlled Chrome and parses the page source
func (b *BaseScraper) FetchDocumentSelenium(ctx context.Context, url string) (*goquery.Document, error) {
	port, err := seleniumPorts.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("port error: %w", err)
	}
	defer seleniumPorts.Release(port)

	service, err := selenium.NewChromeDriverService(b.ChromeDriverPath, port)
	if err != nil {
		return nil, fmt.Errorf("error starting Chrome driver service: %v", err)
	}
	defer service.Stop()

	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chrome.Capabilities{
		Args: []string{
			"--headless=new",
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-blink-features=AutomationControlled",
			"--disable-extensions",
			"--disable-gpu",
			"--window-size=1920,1080",
			fmt.Sprintf("--user-agent=%s", utils.UserAgent),
		},
		ExcludeSwitches: []string{"enable-automation"},
	})

	driver, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", port))
	if err != nil {
		return nil, fmt.Errorf("error creating WebDriver: %v", err)
	}
	defer driver.Quit()

	timeout := 60 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	driver.SetPageLoadTimeout(timeout)

	if err := driver.Get(url); err != nil {
		return nil, fmt.Errorf("navigation error: %w", err)
	}

	// Let client-side rendering finish.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(3 * time.Second):
	}

	html, err := driver.PageSource()
	if err != nil {
		return nil, fmt.Errorf("page source error: %w", err)
	}

	return goquery.NewDocumentFromReader(strings.NewReader(html))
}
