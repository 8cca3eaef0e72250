package commands

import (
	"fmt"

	"github.com/ch10874/tasteforge-scraper/config"
	"github.com/ch10874/tasteforge-scraper/scrapers"
	"github.com/ch10874/tasteforge-scraper/utils"
	"github.com/spf13/cobra"
)

var (
	scrapeLimit       int
	scrapeConcurrency int
	scrapePublish     bool
)

func init() {
	scrapeCmd.Flags().IntVar(&scrapeLimit, "limit", 0, "Maximum number of products to scrape, 0 uses the retailer setting.")
	scrapeCmd.Flags().IntVar(&scrapeConcurrency, "concurrency", scrapers.DefaultConcurrency, "Product pages fetched at once.")
	scrapeCmd.Flags().BoolVar(&scrapePublish, "publish", false, "Store the batch in MongoDB, S3 and the report e-mail when configured.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <retailer> [search-url]",
	Short: "Scrapes every product of a retailer search and prints the batch as JSON.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		retailer := args[0]
		settings, ok := config.Retailers[retailer]
		if !ok {
			return fmt.Errorf("unknown retailer %q", retailer)
		}

		searchURL := settings.SearchURL
		if len(args) == 2 {
			searchURL = args[1]
		}
		limit := scrapeLimit
		if limit <= 0 {
			limit = settings.Limit
		}

		if scrapePublish && config.MongoURI != "" {
			if err := utils.ConnectMongo(config.MongoURI); err != nil {
				return err
			}
		}

		registry, cleanup, err := scrapers.Setup(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		scraper, err := registry.ByName(retailer)
		if err != nil {
			return err
		}

		result, err := scrapers.ScrapeAll(cmd.Context(), scraper, searchURL, scrapers.BatchOptions{
			Concurrency: scrapeConcurrency,
			Limit:       limit,
		})
		if err != nil {
			return err
		}

		if scrapePublish {
			summary := scrapers.Publish(cmd.Context(), retailer, searchURL, result)
			fmt.Fprintf(cmd.ErrOrStderr(), "stored %d products, snapshot %q, reported %v\n", summary.Stored, summary.SnapshotKey, summary.Reported)
		}
		return writeJSON(cmd.OutOrStdout(), result)
	},
}
