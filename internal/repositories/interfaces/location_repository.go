package interfaces

import (
	"context"

	"fleetdesk/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LocationRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Location, error)

	// GetOrCreate resolves a location by case-insensitive (city, address),
	// inserting it when missing. Concurrent calls with the same pair
	// resolve to one row via the unique index.
	GetOrCreate(ctx context.Context, city, address string, lat, lng float64) (*models.Location, error)
}
