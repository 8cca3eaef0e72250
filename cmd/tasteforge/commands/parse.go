package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ch10874/tasteforge-scraper/ingredients"
	"github.com/ch10874/tasteforge-scraper/scrapers"
	"github.com/spf13/cobra"
)

var (
	parseRetailer string
	parseStrategy string
)

func init() {
	parseCmd.Flags().StringVar(&parseRetailer, "retailer", "", "Retailer whose label dialect to use.")
	parseCmd.Flags().StringVar(&parseStrategy, "strategy", "", "Override the strategy: grammar, llm or grammar+llm.")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse <label>|-",
	Short: "Parses an ingredient label into groups. Use - to read the label from stdin.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := args[0]
		if label == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read label: %w", err)
			}
			label = string(data)
		}

		registry, cleanup, err := scrapers.Setup(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		return runParse(cmd, registry, label)
	},
}

func runParse(cmd *cobra.Command, registry *scrapers.Registry, label string) error {
	extractor, err := registry.ExtractorFor(strings.ToLower(parseRetailer), parseStrategy)
	if err != nil {
		return err
	}

	record, err := extractor.Extract(cmd.Context(), label)
	if err != nil && !errors.Is(err, ingredients.ErrMalformedPercent) {
		return err
	}
	if err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", line)
		}
	}
	return writeJSON(cmd.OutOrStdout(), record)
}
