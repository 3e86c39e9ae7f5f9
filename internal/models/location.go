package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location is deduplicated by (city, address), matched case-insensitively.
type Location struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	City      string             `json:"city" bson:"city" validate:"required"`
	Address   string             `json:"address" bson:"address" validate:"required"`
	Latitude  float64            `json:"latitude" bson:"latitude"`
	Longitude float64            `json:"longitude" bson:"longitude"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
