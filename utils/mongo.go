package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ch10874/tasteforge-scraper/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client

// ConnectMongo initializes the MongoDB connection
func ConnectMongo(uri string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database
	err = client.Ping(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}

	Client = client
	log.Println("Connected to MongoDB!")
	return nil
}

// MongoEnabled reports whether ConnectMongo succeeded.
func MongoEnabled() bool {
	return Client != nil
}

// GetCollection returns a handle to a MongoDB collection
func GetCollection(databaseName, collectionName string) *mongo.Collection {
	if Client == nil {
		log.Fatal("MongoDB client is not initialized")
	}
	return Client.Database(databaseName).Collection(collectionName)
}

// productFilter identifies a product by its source and source-specific id.
func productFilter(p *models.Product) bson.M {
	return bson.M{"source": p.Source, "product_id": p.ProductID}
}

// UpsertProducts replaces each product keyed by source and product id,
// inserting the ones not stored yet. It returns the number written.
func UpsertProducts(ctx context.Context, collection *mongo.Collection, products []*models.Product) (int, error) {
	written := 0
	for _, p := range products {
		if p.ProductID == "" {
			log.Printf("[Mongo] Skipping %s product without id: %s", p.Source, p.SourceURL)
			continue
		}
		_, err := collection.ReplaceOne(ctx, productFilter(p), p, options.Replace().SetUpsert(true))
		if err != nil {
			return written, fmt.Errorf("failed to upsert product %s/%s: %w", p.Source, p.ProductID, err)
		}
		written++
	}
	return written, nil
}
