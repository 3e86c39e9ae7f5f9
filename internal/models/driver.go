package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DriverStatus string

const (
	DriverStatusOffline   DriverStatus = "offline"
	DriverStatusAvailable DriverStatus = "available"
	DriverStatusOnTrip    DriverStatus = "on_trip"
	DriverStatusOnBreak   DriverStatus = "on_break"
)

type Driver struct {
	ID            primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID        primitive.ObjectID  `json:"user_id" bson:"user_id" validate:"required"`
	ManagerID     *primitive.ObjectID `json:"manager_id" bson:"manager_id"`
	FullName      string              `json:"full_name" bson:"full_name" validate:"required"`
	Email         string              `json:"email" bson:"email" validate:"required,email"`
	Phone         string              `json:"phone" bson:"phone"`
	LicenseNumber string              `json:"license_number" bson:"license_number" validate:"required"`
	Status        DriverStatus        `json:"status" bson:"status" default:"offline"`
	TotalTrips    int64               `json:"total_trips" bson:"total_trips" default:"0"`
	CreatedAt     time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" bson:"updated_at"`
}

// DriverVehicle links a driver to a vehicle. A driver has at most one
// primary vehicle and a vehicle has at most one primary driver.
type DriverVehicle struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DriverID  primitive.ObjectID `json:"driver_id" bson:"driver_id" validate:"required"`
	VehicleID primitive.ObjectID `json:"vehicle_id" bson:"vehicle_id" validate:"required"`
	IsPrimary bool               `json:"is_primary" bson:"is_primary" default:"false"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
