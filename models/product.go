package models

import (
	"time"

	"github.com/ch10874/tasteforge-scraper/ingredients"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Nutrition holds the declared nutrition values of a product.
// Matinfo publishes label text per nutrient (Values); Oda publishes numbers per 100 g (Per100g).
type Nutrition struct {
	Unit    string             `json:"unit,omitempty" bson:"unit,omitempty"`
	Values  map[string]string  `json:"values,omitempty" bson:"values,omitempty"`
	Per100g map[string]float64 `json:"per_100g,omitempty" bson:"per_100g,omitempty"`
}

// Product represents the scraped product details
type Product struct {
	ID                 primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Source             string             `json:"source" bson:"source"`
	ProductID          string             `json:"product_id" bson:"product_id"`
	Producer           string             `json:"producer" bson:"producer"`
	Brand              string             `json:"brand" bson:"brand"`
	Title              string             `json:"title" bson:"title"`
	Ingredients        ingredients.Record `json:"ingredients" bson:"ingredients"`
	IngredientsRaw     string             `json:"ingredients_raw,omitempty" bson:"ingredients_raw,omitempty"`
	Allergens          []string           `json:"allergens" bson:"allergens"`
	Nutrition          Nutrition          `json:"nutrition" bson:"nutrition"`
	PackageSize        map[string]string  `json:"package_size" bson:"package_size"`
	OriginCountry      string             `json:"origin_country" bson:"origin_country"`
	GTIN               string             `json:"gtin" bson:"gtin"`
	EPD                string             `json:"epd" bson:"epd"`
	Labels             []string           `json:"labels" bson:"labels"`
	SourceURL          string             `json:"source_url" bson:"source_url"`
	LastUpdated        string             `json:"last_updated" bson:"last_updated"`
	ProductDescription string             `json:"product_description" bson:"product_description"`
	Image              string             `json:"image" bson:"image"`
	ParseWarnings      []string           `json:"parse_warnings,omitempty" bson:"parse_warnings,omitempty"`
}

// NewProduct returns an empty record for source with every list initialized
// and the update time stamped in UTC.
func NewProduct(source, sourceURL string, now time.Time) *Product {
	return &Product{
		Source:      source,
		SourceURL:   sourceURL,
		Ingredients: ingredients.Record{},
		Allergens:   []string{},
		PackageSize: map[string]string{},
		Labels:      []string{},
		LastUpdated: now.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
