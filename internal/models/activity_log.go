package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActivityLog struct {
	ID         primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID     primitive.ObjectID  `json:"user_id" bson:"user_id" validate:"required"`
	Action     string              `json:"action" bson:"action" validate:"required"`
	Details    string              `json:"details" bson:"details"`
	EntityType string              `json:"entity_type" bson:"entity_type"`
	EntityID   *primitive.ObjectID `json:"entity_id" bson:"entity_id"`
	CreatedAt  time.Time           `json:"created_at" bson:"created_at"`
}
