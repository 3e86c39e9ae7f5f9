package services

import (
	"context"
	"fmt"

	"fleetdesk/internal/models"
	"fleetdesk/internal/repositories/interfaces"
	"fleetdesk/internal/utils"
	"fleetdesk/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// DriverService has two write paths: administrators mutate drivers
// directly, managers file moderation requests that an administrator
// resolves later.
type DriverService interface {
	// Admin path: immediate effect
	Create(ctx context.Context, adminID primitive.ObjectID, payload *CreateDriverPayload) (*models.Driver, error)
	Update(ctx context.Context, adminID, driverID primitive.ObjectID, payload *UpdateDriverPayload) (*models.Driver, error)
	Delete(ctx context.Context, adminID, driverID primitive.ObjectID) error

	// Manager path: deferred through moderation
	RequestCreation(ctx context.Context, managerID primitive.ObjectID, payload *CreateDriverPayload) (*models.AdminRequest, error)
	RequestUpdate(ctx context.Context, managerID, driverID primitive.ObjectID, payload *UpdateDriverPayload) (*models.AdminRequest, error)
	RequestDeletion(ctx context.Context, managerID, driverID primitive.ObjectID, comment string) (*models.AdminRequest, error)

	// Reads. Views carry the pending-moderation flags for the UI.
	GetByID(ctx context.Context, id primitive.ObjectID) (*DriverView, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error)
	List(ctx context.Context, params *utils.PaginationParams) ([]*DriverView, int64, error)
	ListByManager(ctx context.Context, managerID primitive.ObjectID) ([]*DriverView, error)

	// Self-service
	UpdateOwnStatus(ctx context.Context, driverUserID primitive.ObjectID, status models.DriverStatus) error
	GetStats(ctx context.Context, driverID primitive.ObjectID) (map[string]interface{}, error)
}

// DriverView decorates a driver with the state of the moderation queue,
// so listings can show which drivers have unresolved requests.
type DriverView struct {
	*models.Driver
	HasPendingDeletion bool `json:"has_pending_deletion"`
	HasPendingUpdate   bool `json:"has_pending_update"`
}

type driverService struct {
	driverRepo interfaces.DriverRepository
	userRepo   interfaces.UserRepository
	tripRepo   interfaces.TripRepository
	requests   RequestService
	activity   ActivityService
	logger     *logger.Logger
}

func NewDriverService(
	driverRepo interfaces.DriverRepository,
	userRepo interfaces.UserRepository,
	tripRepo interfaces.TripRepository,
	requests RequestService,
	activity ActivityService,
	log *logger.Logger,
) DriverService {
	return &driverService{
		driverRepo: driverRepo,
		userRepo:   userRepo,
		tripRepo:   tripRepo,
		requests:   requests,
		activity:   activity,
		logger:     log,
	}
}

// Admin path

func (s *driverService) Create(ctx context.Context, adminID primitive.ObjectID, payload *CreateDriverPayload) (*models.Driver, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash driver password: %w", err)
	}

	user := &models.User{
		Email:        payload.Email,
		PasswordHash: string(hash),
		FullName:     payload.FullName,
		Phone:        payload.Phone,
		Role:         models.RoleDriver,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	driver := &models.Driver{
		UserID:        user.ID,
		FullName:      payload.FullName,
		Email:         payload.Email,
		Phone:         payload.Phone,
		LicenseNumber: payload.LicenseNumber,
		Status:        models.DriverStatusOffline,
	}
	if err := s.driverRepo.Create(ctx, driver); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, adminID, "driver_created", fmt.Sprintf("created driver %s", driver.FullName), "driver", &driver.ID)
	return driver, nil
}

func (s *driverService) Update(ctx context.Context, adminID, driverID primitive.ObjectID, payload *UpdateDriverPayload) (*models.Driver, error) {
	updates := make(map[string]interface{})
	if payload.FullName != nil {
		updates["full_name"] = *payload.FullName
	}
	if payload.Phone != nil {
		updates["phone"] = *payload.Phone
	}
	if payload.LicenseNumber != nil {
		updates["license_number"] = *payload.LicenseNumber
	}

	if len(updates) > 0 {
		if err := s.driverRepo.Update(ctx, driverID, updates); err != nil {
			return nil, err
		}
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, adminID, "driver_updated", fmt.Sprintf("updated driver %s", driver.FullName), "driver", &driver.ID)
	return driver, nil
}

func (s *driverService) Delete(ctx context.Context, adminID, driverID primitive.ObjectID) error {
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return err
	}

	if err := s.driverRepo.Delete(ctx, driver.ID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, driver.UserID); err != nil {
		s.logger.WithError(err).Warnf("failed to delete account for driver %s", driver.ID.Hex())
	}

	s.activity.Record(ctx, adminID, "driver_deleted", fmt.Sprintf("deleted driver %s", driver.FullName), "driver", &driver.ID)
	return nil
}

// Manager path

func (s *driverService) RequestCreation(ctx context.Context, managerID primitive.ObjectID, payload *CreateDriverPayload) (*models.AdminRequest, error) {
	return s.requests.FileDriverCreation(ctx, managerID, payload)
}

func (s *driverService) RequestUpdate(ctx context.Context, managerID, driverID primitive.ObjectID, payload *UpdateDriverPayload) (*models.AdminRequest, error) {
	driver, err := s.ownedDriver(ctx, managerID, driverID)
	if err != nil {
		return nil, err
	}
	return s.requests.FileDriverUpdate(ctx, managerID, driverID, driver.FullName, payload)
}

func (s *driverService) RequestDeletion(ctx context.Context, managerID, driverID primitive.ObjectID, comment string) (*models.AdminRequest, error) {
	driver, err := s.ownedDriver(ctx, managerID, driverID)
	if err != nil {
		return nil, err
	}
	return s.requests.FileDriverDeletion(ctx, managerID, driverID, driver.FullName, comment)
}

func (s *driverService) ownedDriver(ctx context.Context, managerID, driverID primitive.ObjectID) (*models.Driver, error) {
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if driver.ManagerID == nil || *driver.ManagerID != managerID {
		return nil, fmt.Errorf("driver %s reports to another manager: %w", driverID.Hex(), ErrForbidden)
	}
	return driver, nil
}

// Reads

func (s *driverService) GetByID(ctx context.Context, id primitive.ObjectID) (*DriverView, error) {
	driver, err := s.driverRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	views, err := s.decorate(ctx, []*models.Driver{driver})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *driverService) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error) {
	return s.driverRepo.GetByUserID(ctx, userID)
}

func (s *driverService) List(ctx context.Context, params *utils.PaginationParams) ([]*DriverView, int64, error) {
	drivers, total, err := s.driverRepo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	views, err := s.decorate(ctx, drivers)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *driverService) ListByManager(ctx context.Context, managerID primitive.ObjectID) ([]*DriverView, error) {
	drivers, err := s.driverRepo.GetByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, drivers)
}

func (s *driverService) decorate(ctx context.Context, drivers []*models.Driver) ([]*DriverView, error) {
	pendingDeletions, err := s.requests.PendingDeletionIDs(ctx, EntityTypeDriver)
	if err != nil {
		return nil, err
	}
	pendingUpdates, err := s.requests.PendingUpdateIDs(ctx, EntityTypeDriver)
	if err != nil {
		return nil, err
	}

	views := make([]*DriverView, len(drivers))
	for i, driver := range drivers {
		views[i] = &DriverView{
			Driver:             driver,
			HasPendingDeletion: pendingDeletions[driver.ID.Hex()],
			HasPendingUpdate:   pendingUpdates[driver.ID.Hex()],
		}
	}
	return views, nil
}

// Self-service

func (s *driverService) UpdateOwnStatus(ctx context.Context, driverUserID primitive.ObjectID, status models.DriverStatus) error {
	driver, err := s.driverRepo.GetByUserID(ctx, driverUserID)
	if err != nil {
		return err
	}

	// On-trip status is owned by the trip lifecycle, not self-service.
	if status == models.DriverStatusOnTrip || driver.Status == models.DriverStatusOnTrip {
		return fmt.Errorf("driver %s status is managed by an active trip: %w", driver.ID.Hex(), ErrInvalidTransition)
	}

	return s.driverRepo.UpdateStatus(ctx, driver.ID, status)
}

func (s *driverService) GetStats(ctx context.Context, driverID primitive.ObjectID) (map[string]interface{}, error) {
	return s.tripRepo.GetDriverTripStats(ctx, driverID)
}
