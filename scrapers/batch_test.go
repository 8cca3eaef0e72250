package scrapers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ch10874/tasteforge-scraper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScraper struct {
	urls    []string
	listErr error

	mu       sync.Mutex
	inFlight int32
	peak     int32
}

func (f *fakeScraper) Name() string { return "fake" }
func (f *fakeScraper) CanScrape(url string) bool { return strings.HasPrefix(url, "fake://") }

func (f *fakeScraper) ListProducts(context.Context, string) ([]string, error) {
	return f.urls, f.listErr
}

func (f *fakeScraper) ScrapeProduct(_ context.Context, url string) (*models.Product, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	f.mu.Lock()
	if n > f.peak {
		f.peak = n
	}
	f.mu.Unlock()
	time.Sleep(5 * time.Millisecond)

	if strings.Contains(url, "broken") {
		return nil, errors.New("page did not load")
	}
	return models.NewProduct("Fake", url, time.Now()), nil
}

func TestScrapeAll(t *testing.T) {
	f := &fakeScraper{urls: []string{"fake://1", "fake://broken", "fake://3", "fake://4"}}

	result, err := ScrapeAll(context.Background(), f, "fake://search", BatchOptions{Concurrency: 2})
	require.NoError(t, err)

	require.Len(t, result.Products, 3)
	assert.Equal(t, "fake://1", result.Products[0].SourceURL)
	assert.Equal(t, "fake://3", result.Products[1].SourceURL)
	assert.Equal(t, "fake://4", result.Products[2].SourceURL)
	assert.Equal(t, []Failure{{URL: "fake://broken", Error: "page did not load"}}, result.Failures)
	assert.LessOrEqual(t, f.peak, int32(2))
}

func TestScrapeAllLimit(t *testing.T) {
	f := &fakeScraper{urls: []string{"fake://1", "fake://2", "fake://3"}}

	result, err := ScrapeAll(context.Background(), f, "fake://search", BatchOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, result.Products, 2)
	assert.Empty(t, result.Failures)
}

func TestScrapeAllListingError(t *testing.T) {
	f := &fakeScraper{listErr: errors.New("search page blocked")}

	_, err := ScrapeAll(context.Background(), f, "fake://search", BatchOptions{})
	assert.ErrorContains(t, err, "search page blocked")
}

func TestScrapeURLsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := ScrapeURLs(ctx, &fakeScraper{}, []string{"fake://1"}, 1)
	assert.Empty(t, result.Products)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, context.Canceled.Error(), result.Failures[0].Error)
}

func TestBatchesAreIndependent(t *testing.T) {
	f := &fakeScraper{urls: []string{"fake://1"}}

	first, err := ScrapeAll(context.Background(), f, "fake://search", BatchOptions{})
	require.NoError(t, err)
	second, err := ScrapeAll(context.Background(), f, "fake://search", BatchOptions{})
	require.NoError(t, err)

	assert.Len(t, first.Products, 1)
	assert.Len(t, second.Products, 1)
	assert.NotSame(t, first.Products[0], second.Products[0])
}

func TestPublishWithoutSinks(t *testing.T) {
	result := &BatchResult{Products: []*models.Product{models.NewProduct("Fake", "fake://1", time.Now())}}

	summary := Publish(context.Background(), "fake", "fake://search", result)
	assert.Equal(t, PublishSummary{}, summary)
}
