package interfaces

import (
	"context"

	"fleetdesk/internal/models"
	"fleetdesk/internal/utils"
)

type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.ActivityLog, int64, error)
}
