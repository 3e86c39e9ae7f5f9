package interfaces

import (
	"context"

	"fleetdesk/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequestRepository interface {
	Create(ctx context.Context, request *models.AdminRequest) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.AdminRequest, error)

	// Listing, newest first
	GetPending(ctx context.Context) ([]*models.AdminRequest, error)
	GetAll(ctx context.Context) ([]*models.AdminRequest, error)
	GetByRequester(ctx context.Context, requesterID primitive.ObjectID) ([]*models.AdminRequest, error)

	// MarkProcessed resolves the request only if it is still pending and
	// reports whether this call won the transition. A false return with a
	// nil error means the request was already processed.
	MarkProcessed(ctx context.Context, id primitive.ObjectID, status models.RequestStatus, adminResponse string, adminID primitive.ObjectID) (bool, error)

	// DeleteProcessed removes every non-pending request.
	DeleteProcessed(ctx context.Context) (int64, error)
}
