package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fleetdesk/internal/models"
	"fleetdesk/internal/repositories/interfaces"
	"fleetdesk/internal/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type locationRepository struct {
	collection *mongo.Collection
}

func NewLocationRepository(db *mongo.Database) interfaces.LocationRepository {
	return &locationRepository{
		collection: db.Collection("locations"),
	}
}

func (r *locationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Location, error) {
	var location models.Location
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&location)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("location %s: %w", id.Hex(), services.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get location: %w", err)
	}

	return &location, nil
}

// GetOrCreate is an insert-or-fetch on the case-insensitive unique
// (city, address) index, so concurrent callers with the same pair cannot
// race a duplicate row into existence.
func (r *locationRepository) GetOrCreate(ctx context.Context, city, address string, lat, lng float64) (*models.Location, error) {
	city = strings.TrimSpace(city)
	address = strings.TrimSpace(address)

	filter := bson.M{"city": city, "address": address}
	update := bson.M{"$setOnInsert": bson.M{
		"city":       city,
		"address":    address,
		"latitude":   lat,
		"longitude":  lng,
		"created_at": time.Now(),
	}}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetCollation(&options.Collation{Locale: "en", Strength: 2})

	var location models.Location
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&location)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create location: %w", err)
	}

	return &location, nil
}
