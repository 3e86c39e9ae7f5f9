package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "available"
	VehicleStatusInUse       VehicleStatus = "in_use"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
	VehicleStatusInactive    VehicleStatus = "inactive"
)

type Vehicle struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Make              string             `json:"make" bson:"make" validate:"required"`
	Model             string             `json:"model" bson:"model" validate:"required"`
	Year              int                `json:"year" bson:"year"`
	LicensePlate      string             `json:"license_plate" bson:"license_plate" validate:"required"`
	Status            VehicleStatus      `json:"status" bson:"status" default:"available"`
	Mileage           float64            `json:"mileage" bson:"mileage" default:"0"` // kilometers
	FuelConsumption   float64            `json:"fuel_consumption" bson:"fuel_consumption"` // liters per 100 km
	LoadCapacityKg    float64            `json:"load_capacity_kg" bson:"load_capacity_kg"`
	LastMaintenanceAt *time.Time         `json:"last_maintenance_at" bson:"last_maintenance_at"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" bson:"updated_at"`
}
