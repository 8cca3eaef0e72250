package base

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ch10874/tasteforge-scraper/ingredients"
	"github.com/ch10874/tasteforge-scraper/models"
)

// ApplyIngredients parses raw with extractor and stores the result on product.
// Parse problems never fail the product: dropped groups and failed external
// calls are kept as warnings and the other fields stay usable.
func ApplyIngredients(ctx context.Context, extractor ingredients.Extractor, product *models.Product, raw string) {
	raw = strings.TrimSpace(raw)
	product.IngredientsRaw = raw
	if raw == "" {
		return
	}

	record, err := extractor.Extract(ctx, raw)
	switch {
	case err == nil:
	case errors.Is(err, ingredients.ErrExternalExtraction):
		product.ParseWarnings = append(product.ParseWarnings, err.Error())
		fmt.Printf("[Ingredients] %s %s: %v\n", product.Source, product.SourceURL, err)
		return
	default:
		product.ParseWarnings = append(product.ParseWarnings, strings.Split(err.Error(), "\n")...)
	}

	if len(record) == 0 {
		product.ParseWarnings = append(product.ParseWarnings, "no structured ingredients found")
	}
	product.Ingredients = record
}
