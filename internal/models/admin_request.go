package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequestType string
type RequestStatus string

const (
	RequestTypeDriverCreation  RequestType = "driver_creation"
	RequestTypeDriverUpdate    RequestType = "driver_update"
	RequestTypeDriverDeletion  RequestType = "driver_deletion"
	RequestTypeVehicleCreation RequestType = "vehicle_creation"
	RequestTypeVehicleUpdate   RequestType = "vehicle_update"
	RequestTypeVehicleDeletion RequestType = "vehicle_deletion"
	RequestTypeTripDeletion    RequestType = "trip_deletion"

	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// AdminRequest is a queued proposal for a privileged mutation. Creation
// requests carry the full create payload serialized into Comment, since
// the target entity does not exist until approval.
type AdminRequest struct {
	ID            primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Type          RequestType         `json:"type" bson:"type" validate:"required"`
	Status        RequestStatus       `json:"status" bson:"status" default:"pending"`
	RequesterID   primitive.ObjectID  `json:"requester_id" bson:"requester_id" validate:"required"`
	TargetID      *primitive.ObjectID `json:"target_id" bson:"target_id"` // nil for creation types
	TargetName    string              `json:"target_name" bson:"target_name"`
	Comment       string              `json:"comment" bson:"comment"`
	AdminResponse string              `json:"admin_response" bson:"admin_response"`
	ProcessedAt   *time.Time          `json:"processed_at" bson:"processed_at"`
	ProcessedByID *primitive.ObjectID `json:"processed_by_id" bson:"processed_by_id"`
	CreatedAt     time.Time           `json:"created_at" bson:"created_at"`
}

// IsDeletion reports whether the request removes an existing entity.
func (r *AdminRequest) IsDeletion() bool {
	switch r.Type {
	case RequestTypeDriverDeletion, RequestTypeVehicleDeletion, RequestTypeTripDeletion:
		return true
	}
	return false
}

// IsUpdate reports whether the request modifies an existing entity.
func (r *AdminRequest) IsUpdate() bool {
	return r.Type == RequestTypeDriverUpdate || r.Type == RequestTypeVehicleUpdate
}
