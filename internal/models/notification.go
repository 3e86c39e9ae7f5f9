package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string
type NotificationStatus string

const (
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeError   NotificationType = "error"
	NotificationTypeInfo    NotificationType = "info"

	NotificationStatusUnread NotificationStatus = "unread"
	NotificationStatusRead   NotificationStatus = "read"
)

type Notification struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID      primitive.ObjectID  `json:"user_id" bson:"user_id" validate:"required"`
	Type        NotificationType    `json:"type" bson:"type" validate:"required"`
	Status      NotificationStatus  `json:"status" bson:"status" default:"unread"`
	Title       string              `json:"title" bson:"title" validate:"required"`
	Message     string              `json:"message" bson:"message" validate:"required"`
	RelatedType string              `json:"related_type" bson:"related_type"`
	RelatedID   *primitive.ObjectID `json:"related_id" bson:"related_id"`
	ReadAt      *time.Time          `json:"read_at" bson:"read_at"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`
}
