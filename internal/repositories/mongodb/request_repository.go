package mongodb

import (
	"context"
	"fmt"
	"time"

	"fleetdesk/internal/models"
	"fleetdesk/internal/repositories/interfaces"
	"fleetdesk/internal/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type requestRepository struct {
	collection *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) interfaces.RequestRepository {
	return &requestRepository{
		collection: db.Collection("admin_requests"),
	}
}

func (r *requestRepository) Create(ctx context.Context, request *models.AdminRequest) error {
	request.ID = primitive.NewObjectID()
	request.Status = models.RequestStatusPending
	request.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, request)
	if err != nil {
		return fmt.Errorf("failed to create admin request: %w", err)
	}

	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.AdminRequest, error) {
	var request models.AdminRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("admin request %s: %w", id.Hex(), services.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get admin request: %w", err)
	}

	return &request, nil
}

func (r *requestRepository) GetPending(ctx context.Context) ([]*models.AdminRequest, error) {
	return r.findRequests(ctx, bson.M{"status": models.RequestStatusPending})
}

func (r *requestRepository) GetAll(ctx context.Context) ([]*models.AdminRequest, error) {
	return r.findRequests(ctx, bson.M{})
}

func (r *requestRepository) GetByRequester(ctx context.Context, requesterID primitive.ObjectID) ([]*models.AdminRequest, error) {
	return r.findRequests(ctx, bson.M{"requester_id": requesterID})
}

// MarkProcessed is the exactly-once guard for request resolution: the
// filter only matches while the request is still pending, so of two
// concurrent resolves at most one sees MatchedCount == 1.
func (r *requestRepository) MarkProcessed(ctx context.Context, id primitive.ObjectID, status models.RequestStatus, adminResponse string, adminID primitive.ObjectID) (bool, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": models.RequestStatusPending},
		bson.M{"$set": bson.M{
			"status":          status,
			"admin_response":  adminResponse,
			"processed_at":    time.Now(),
			"processed_by_id": adminID,
		}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark admin request processed: %w", err)
	}

	return result.MatchedCount == 1, nil
}

func (r *requestRepository) DeleteProcessed(ctx context.Context) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{
		"status": bson.M{"$ne": models.RequestStatusPending},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete processed requests: %w", err)
	}

	return result.DeletedCount, nil
}

func (r *requestRepository) findRequests(ctx context.Context, filter bson.M) ([]*models.AdminRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find admin requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []*models.AdminRequest
	for cursor.Next(ctx) {
		var request models.AdminRequest
		if err := cursor.Decode(&request); err != nil {
			return nil, fmt.Errorf("failed to decode admin request: %w", err)
		}
		requests = append(requests, &request)
	}

	return requests, nil
}
