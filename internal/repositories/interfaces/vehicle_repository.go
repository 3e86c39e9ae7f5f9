package interfaces

import (
	"context"

	"fleetdesk/internal/models"
	"fleetdesk/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error)
	GetByLicensePlate(ctx context.Context, plate string) (*models.Vehicle, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Listing
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Vehicle, int64, error)

	// Status and mileage
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.VehicleStatus) error
	IncrementMileage(ctx context.Context, id primitive.ObjectID, distanceKm float64) error

	// Assignments. AssignPrimary clears any conflicting primary links for
	// the driver and the vehicle and sets the new one in a single
	// transaction.
	AssignPrimary(ctx context.Context, driverID, vehicleID primitive.ObjectID) error
	Assign(ctx context.Context, driverID, vehicleID primitive.ObjectID) error
	Unassign(ctx context.Context, driverID, vehicleID primitive.ObjectID) error
	GetAssignmentsByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.DriverVehicle, error)
	GetAssignmentsByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.DriverVehicle, error)
	GetPrimaryVehicle(ctx context.Context, driverID primitive.ObjectID) (*models.Vehicle, error)
}
