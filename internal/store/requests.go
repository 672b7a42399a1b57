package store

import (
	"context"
	"fmt"
	"time"

	"github.com/TristoneFM/material-request-mes/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const requestCollection = "materialrequests"

// wireTimeLayout serializes stored timestamps with their literal calendar
// fields and a Z suffix, exactly as the ingestion side does. The board
// reinterprets these fields as plant-local time.
const wireTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// RequestRepository lists the active material requests for the configured
// plant.
type RequestRepository interface {
	ActiveRequests(ctx context.Context) ([]domain.MaterialRequest, error)
}

// MongoRequestRepository reads requests from the materialrequests
// collection.
type MongoRequestRepository struct {
	conns *Conns
	plant string
}

func NewMongoRequestRepository(conns *Conns, plant string) *MongoRequestRepository {
	return &MongoRequestRepository{conns: conns, plant: plant}
}

// requestDoc mirrors the document shape written by the station ingestion
// process.
type requestDoc struct {
	ID           primitive.ObjectID `bson:"_id"`
	PlantCode    string             `bson:"plantCode"`
	SAPMaterial  string             `bson:"sapMaterial"`
	StationName  string             `bson:"stationName"`
	MACAddress   string             `bson:"macAddress"`
	RequestTime  time.Time          `bson:"requestTime"`
	Quantity     int                `bson:"quantity"`
	Type         string             `bson:"type"`
	Area         string             `bson:"area"`
	ResponseTime *time.Time         `bson:"responseTime,omitempty"`
	Status       string             `bson:"status"`
}

func (d requestDoc) toDomain() domain.MaterialRequest {
	req := domain.MaterialRequest{
		ID:          d.ID.Hex(),
		PlantCode:   d.PlantCode,
		SAPMaterial: d.SAPMaterial,
		StationName: d.StationName,
		MACAddress:  d.MACAddress,
		RequestTime: d.RequestTime.UTC().Format(wireTimeLayout),
		Quantity:    d.Quantity,
		Type:        d.Type,
		Area:        d.Area,
		Status:      d.Status,
	}
	if d.ResponseTime != nil {
		rt := d.ResponseTime.UTC().Format(wireTimeLayout)
		req.ResponseTime = &rt
	}
	return req
}

// ActiveRequests returns every request for the plant whose status is not
// terminal, newest first.
func (r *MongoRequestRepository) ActiveRequests(ctx context.Context) ([]domain.MaterialRequest, error) {
	db, err := r.conns.Mongo(ctx)
	if err != nil {
		return nil, err
	}

	filter := bson.M{
		"plantCode": r.plant,
		"status":    bson.M{"$nin": domain.TerminalStatuses},
	}
	opts := options.Find().SetSort(bson.D{{Key: "requestTime", Value: -1}})

	cur, err := db.Collection(requestCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("querying material requests: %w", err)
	}
	defer cur.Close(ctx)

	var docs []requestDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding material requests: %w", err)
	}

	requests := make([]domain.MaterialRequest, 0, len(docs))
	for _, d := range docs {
		requests = append(requests, d.toDomain())
	}
	return requests, nil
}
