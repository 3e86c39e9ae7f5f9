package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TripStatus string

const (
	TripStatusPending   TripStatus = "pending"
	TripStatusAccepted  TripStatus = "accepted"
	TripStatusDeclined  TripStatus = "declined"
	TripStatusInTransit TripStatus = "in_transit"
	TripStatusArrived   TripStatus = "arrived"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

type Trip struct {
	ID                 primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	TripNumber         string              `json:"trip_number" bson:"trip_number"`
	ManagerID          primitive.ObjectID  `json:"manager_id" bson:"manager_id" validate:"required"`
	DriverID           primitive.ObjectID  `json:"driver_id" bson:"driver_id" validate:"required"`
	VehicleID          *primitive.ObjectID `json:"vehicle_id" bson:"vehicle_id"`
	OriginID           primitive.ObjectID  `json:"origin_id" bson:"origin_id"`
	DestinationID      primitive.ObjectID  `json:"destination_id" bson:"destination_id"`
	CargoID            primitive.ObjectID  `json:"cargo_id" bson:"cargo_id"`
	Status             TripStatus          `json:"status" bson:"status" default:"pending"`
	DistanceKm         float64             `json:"distance_km" bson:"distance_km"`
	ScheduledDeparture time.Time           `json:"scheduled_departure" bson:"scheduled_departure"`
	ScheduledArrival   time.Time           `json:"scheduled_arrival" bson:"scheduled_arrival"`
	ActualDeparture    *time.Time          `json:"actual_departure" bson:"actual_departure"`
	ActualArrival      *time.Time          `json:"actual_arrival" bson:"actual_arrival"`

	// Financials. ExpectedProfit is budgeted against EstimatedFuelCost and
	// absorbs the variance once ActualFuelConsumption is reported.
	PaymentAmount         float64  `json:"payment_amount" bson:"payment_amount"`
	FuelPrice             float64  `json:"fuel_price" bson:"fuel_price"` // per-liter snapshot taken at creation
	EstimatedFuelCost     float64  `json:"estimated_fuel_cost" bson:"estimated_fuel_cost"`
	ExpectedProfit        float64  `json:"expected_profit" bson:"expected_profit"`
	ActualFuelConsumption *float64 `json:"actual_fuel_consumption" bson:"actual_fuel_consumption"` // liters per 100 km

	// Guards the one-time vehicle mileage credit on completion.
	IsMileageAccounted bool `json:"is_mileage_accounted" bson:"is_mileage_accounted" default:"false"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// TripRoute holds the route geometry for a trip, vertically partitioned
// from the trip row itself.
type TripRoute struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TripID     primitive.ObjectID `json:"trip_id" bson:"trip_id" validate:"required"`
	Polyline   string             `json:"polyline" bson:"polyline"`
	DistanceKm float64            `json:"distance_km" bson:"distance_km"`
	DurationMin int               `json:"duration_min" bson:"duration_min"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// TripFeedback is created lazily on the first rating/review write.
type TripFeedback struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TripID    primitive.ObjectID `json:"trip_id" bson:"trip_id" validate:"required"`
	Rating    *int               `json:"rating" bson:"rating"`
	Review    *string            `json:"review" bson:"review"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}
