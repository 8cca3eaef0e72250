package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProductJSONOmitsStorageID(t *testing.T) {
	p := NewProduct("Oda", "https://oda.com/no/products/1-a/", time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	p.ID = primitive.NewObjectID()

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.NotContains(t, fields, "id")
	assert.Equal(t, "2026-03-01T08:00:00Z", fields["last_updated"])
	assert.Equal(t, []interface{}{}, fields["ingredients"])
}
