package mongodb

import (
	"context"
	"fmt"
	"time"

	"fleetdesk/internal/models"
	"fleetdesk/internal/repositories/interfaces"
	"fleetdesk/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type activityLogRepository struct {
	collection *mongo.Collection
}

func NewActivityLogRepository(db *mongo.Database) interfaces.ActivityLogRepository {
	return &activityLogRepository{
		collection: db.Collection("activity_logs"),
	}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to create activity log entry: %w", err)
	}

	return nil
}

func (r *activityLogRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.ActivityLog, int64, error) {
	filter := bson.M{}
	if params.Search != "" {
		searchFilter := params.GetSearchFilter([]string{"action", "details", "entity_type"})
		if len(searchFilter) > 0 {
			filter = searchFilter
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count activity log: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find activity log entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*models.ActivityLog
	for cursor.Next(ctx) {
		var entry models.ActivityLog
		if err := cursor.Decode(&entry); err != nil {
			return nil, 0, fmt.Errorf("failed to decode activity log entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, total, nil
}
