package scrapers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ch10874/tasteforge-scraper/config"
	"github.com/ch10874/tasteforge-scraper/utils"
)

const productsCollection = "products"

// PublishSummary reports where a batch was stored.
type PublishSummary struct {
	Stored      int    `json:"stored"`
	SnapshotKey string `json:"snapshot_key,omitempty"`
	SnapshotURL string `json:"snapshot_url,omitempty"`
	Reported    bool   `json:"reported"`
}

// Publish stores a finished batch in every configured sink: MongoDB,
// an S3 snapshot and a report e-mail. Sink errors are logged and do not
// affect the other sinks.
func Publish(ctx context.Context, source, searchURL string, result *BatchResult) PublishSummary {
	var summary PublishSummary

	if utils.MongoEnabled() {
		collection := utils.GetCollection(config.MongoDatabase, productsCollection)
		n, err := utils.UpsertProducts(ctx, collection, result.Products)
		if err != nil {
			log.Printf("[Publish] %s: MongoDB upsert stopped after %d products: %v", source, n, err)
		}
		summary.Stored = n
	}

	if utils.S3Enabled() {
		key := utils.SnapshotKey(source, time.Now())
		if _, err := utils.UploadJSONSnapshot(ctx, key, result); err != nil {
			log.Printf("[Publish] %s: snapshot upload failed: %v", source, err)
		} else {
			summary.SnapshotKey = key
			if url, err := utils.GetPresignedURL(ctx, key); err == nil {
				summary.SnapshotURL = url
			}
		}
	}

	if utils.EmailEnabled() {
		report := utils.BatchReport{
			Source:      source,
			SearchURL:   searchURL,
			Scraped:     len(result.Products),
			SnapshotKey: summary.SnapshotKey,
		}
		for _, f := range result.Failures {
			report.Failures = append(report.Failures, fmt.Sprintf("%s: %s", f.URL, f.Error))
		}
		if err := utils.SendBatchReport(report); err != nil {
			log.Printf("[Publish] %s: report e-mail failed: %v", source, err)
		} else {
			summary.Reported = true
		}
	}

	return summary
}
