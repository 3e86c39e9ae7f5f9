package interfaces

import (
	"context"

	"fleetdesk/internal/models"
	"fleetdesk/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TripRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, trip *models.Trip) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Trip, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Listing
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Trip, int64, error)
	GetByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Trip, int64, error)
	GetByManager(ctx context.Context, managerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Trip, int64, error)

	// UpdateStatusFrom transitions the status with an id-scoped conditional
	// write and reports whether the document matched. A false return means
	// the trip was not in the expected status.
	UpdateStatusFrom(ctx context.Context, id primitive.ObjectID, from, to models.TripStatus, extra map[string]interface{}) (bool, error)

	// MarkMileageAccounted flips the mileage guard and reports whether this
	// call won the flip.
	MarkMileageAccounted(ctx context.Context, id primitive.ObjectID) (bool, error)

	// Vertically partitioned sub-records
	CreateCargo(ctx context.Context, cargo *models.Cargo) error
	GetCargoByID(ctx context.Context, id primitive.ObjectID) (*models.Cargo, error)
	CreateRoute(ctx context.Context, route *models.TripRoute) error
	GetRouteByTrip(ctx context.Context, tripID primitive.ObjectID) (*models.TripRoute, error)
	UpsertFeedback(ctx context.Context, tripID primitive.ObjectID, rating *int, review *string) error
	GetFeedbackByTrip(ctx context.Context, tripID primitive.ObjectID) (*models.TripFeedback, error)

	// Analytics
	CountByStatus(ctx context.Context, status models.TripStatus) (int64, error)
	GetEarningsByMonth(ctx context.Context, months int) ([]*utils.MonthlyEarnings, error)
	GetDriverTripStats(ctx context.Context, driverID primitive.ObjectID) (map[string]interface{}, error)
}
