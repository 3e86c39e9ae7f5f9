package interfaces

import (
	"context"

	"fleetdesk/internal/models"
	"fleetdesk/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DriverRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, driver *models.Driver) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Listing
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Driver, int64, error)
	GetByManager(ctx context.Context, managerID primitive.ObjectID) ([]*models.Driver, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Driver, error)

	// Status operations
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.DriverStatus) error
	IncrementTripCount(ctx context.Context, id primitive.ObjectID) error

	// Analytics
	CountByStatus(ctx context.Context, status models.DriverStatus) (int64, error)
}
