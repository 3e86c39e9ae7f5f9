package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Cargo struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" validate:"required"`
	CargoType string             `json:"cargo_type" bson:"cargo_type"`
	WeightKg  float64            `json:"weight_kg" bson:"weight_kg"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
