package services

import (
	"context"

	"fleetdesk/internal/models"
	"fleetdesk/internal/repositories/interfaces"
	"fleetdesk/internal/utils"
	"fleetdesk/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityService records user actions. Record is fire-and-forget: a
// failed write is logged and never propagated to the caller, so the
// primary mutation is unaffected.
type ActivityService interface {
	Record(ctx context.Context, userID primitive.ObjectID, action, details, entityType string, entityID *primitive.ObjectID)
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.ActivityLog, int64, error)
}

type activityService struct {
	activityRepo interfaces.ActivityLogRepository
	logger       *logger.Logger
}

func NewActivityService(activityRepo interfaces.ActivityLogRepository, log *logger.Logger) ActivityService {
	return &activityService{
		activityRepo: activityRepo,
		logger:       log,
	}
}

func (s *activityService) Record(ctx context.Context, userID primitive.ObjectID, action, details, entityType string, entityID *primitive.ObjectID) {
	entry := &models.ActivityLog{
		UserID:     userID,
		Action:     action,
		Details:    details,
		EntityType: entityType,
		EntityID:   entityID,
	}

	if err := s.activityRepo.Create(ctx, entry); err != nil {
		s.logger.WithError(err).WithUserID(userID).Warnf("failed to record activity %q", action)
	}
}

func (s *activityService) List(ctx context.Context, params *utils.PaginationParams) ([]*models.ActivityLog, int64, error) {
	return s.activityRepo.List(ctx, params)
}
