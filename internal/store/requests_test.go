package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRequestDoc_ToDomain(t *testing.T) {
	id := primitive.NewObjectID()
	resp := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)

	doc := requestDoc{
		ID:           id,
		PlantCode:    "5210",
		SAPMaterial:  "000000000001234567",
		StationName:  "VUL-18",
		MACAddress:   "aa:bb:cc:dd:ee:ff",
		RequestTime:  time.Date(2024, 5, 2, 8, 15, 42, 120_000_000, time.UTC),
		Quantity:     4,
		Type:         "ROH",
		Area:         "Vulcanizado",
		ResponseTime: &resp,
		Status:       "Requested",
	}

	got := doc.toDomain()

	assert.Equal(t, id.Hex(), got.ID)
	// Literal fields with a Z suffix, exactly as stored: the board owns the
	// offset reinterpretation.
	assert.Equal(t, "2024-05-02T08:15:42.120Z", got.RequestTime)
	require.NotNil(t, got.ResponseTime)
	assert.Equal(t, "2024-05-02T09:30:00.000Z", *got.ResponseTime)
	assert.Equal(t, "Vulcanizado", got.Area)
	assert.False(t, got.Terminal())
}

func TestRequestDoc_ToDomain_NoResponseTime(t *testing.T) {
	doc := requestDoc{
		ID:          primitive.NewObjectID(),
		RequestTime: time.Date(2024, 5, 2, 8, 15, 42, 0, time.UTC),
		Status:      "Delivered",
	}

	got := doc.toDomain()
	assert.Nil(t, got.ResponseTime)
	assert.True(t, got.Terminal())
}
