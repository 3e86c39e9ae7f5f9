package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fleetdesk/internal/models"
	"fleetdesk/internal/repositories/interfaces"
	"fleetdesk/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// RequestService is the moderation queue for privileged mutations.
// Managers file requests; an administrator resolves each one exactly
// once, and approval materializes the deferred mutation.
type RequestService interface {
	// Filing. Creation payloads are serialized into the request comment
	// because the target entity does not exist yet.
	FileDriverCreation(ctx context.Context, requesterID primitive.ObjectID, payload *CreateDriverPayload) (*models.AdminRequest, error)
	FileVehicleCreation(ctx context.Context, requesterID primitive.ObjectID, payload *CreateVehiclePayload) (*models.AdminRequest, error)
	FileDriverUpdate(ctx context.Context, requesterID, driverID primitive.ObjectID, targetName string, payload *UpdateDriverPayload) (*models.AdminRequest, error)
	FileVehicleUpdate(ctx context.Context, requesterID, vehicleID primitive.ObjectID, targetName string, payload *UpdateVehiclePayload) (*models.AdminRequest, error)
	FileDriverDeletion(ctx context.Context, requesterID, driverID primitive.ObjectID, targetName, comment string) (*models.AdminRequest, error)
	FileVehicleDeletion(ctx context.Context, requesterID, vehicleID primitive.ObjectID, targetName, comment string) (*models.AdminRequest, error)
	FileTripDeletion(ctx context.Context, requesterID, tripID primitive.ObjectID, targetName, comment string) (*models.AdminRequest, error)

	// Listing, newest first
	ListPending(ctx context.Context) ([]*models.AdminRequest, error)
	ListAll(ctx context.Context) ([]*models.AdminRequest, error)
	ListByRequester(ctx context.Context, requesterID primitive.ObjectID) ([]*models.AdminRequest, error)

	// Resolve approves or rejects a pending request exactly once. A second
	// resolve on the same request fails with ErrAlreadyProcessed.
	Resolve(ctx context.Context, id primitive.ObjectID, approved bool, adminResponse string, adminID primitive.ObjectID) error

	// Purge deletes every processed request and reports how many went.
	Purge(ctx context.Context) (int64, error)

	// Read-side projections for entity listings
	PendingDeletionIDs(ctx context.Context, entityType string) (map[string]bool, error)
	PendingUpdateIDs(ctx context.Context, entityType string) (map[string]bool, error)
}

type CreateDriverPayload struct {
	Email         string `json:"email" binding:"required,email"`
	FullName      string `json:"full_name" binding:"required"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number" binding:"required"`
	Password      string `json:"password" binding:"required,min=8"`
}

type CreateVehiclePayload struct {
	Make            string  `json:"make" binding:"required"`
	Model           string  `json:"model" binding:"required"`
	Year            int     `json:"year"`
	LicensePlate    string  `json:"license_plate" binding:"required"`
	FuelConsumption float64 `json:"fuel_consumption"`
	LoadCapacityKg  float64 `json:"load_capacity_kg"`
}

type UpdateDriverPayload struct {
	FullName      *string `json:"full_name,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	LicenseNumber *string `json:"license_number,omitempty"`
}

type UpdateVehiclePayload struct {
	Make            *string  `json:"make,omitempty"`
	Model           *string  `json:"model,omitempty"`
	Year            *int     `json:"year,omitempty"`
	FuelConsumption *float64 `json:"fuel_consumption,omitempty"`
	LoadCapacityKg  *float64 `json:"load_capacity_kg,omitempty"`
}

const (
	EntityTypeDriver  = "driver"
	EntityTypeVehicle = "vehicle"
	EntityTypeTrip    = "trip"
)

type requestService struct {
	requestRepo  interfaces.RequestRepository
	driverRepo   interfaces.DriverRepository
	vehicleRepo  interfaces.VehicleRepository
	tripRepo     interfaces.TripRepository
	userRepo     interfaces.UserRepository
	notification NotificationService
	activity     ActivityService
	logger       *logger.Logger
}

func NewRequestService(
	requestRepo interfaces.RequestRepository,
	driverRepo interfaces.DriverRepository,
	vehicleRepo interfaces.VehicleRepository,
	tripRepo interfaces.TripRepository,
	userRepo interfaces.UserRepository,
	notification NotificationService,
	activity ActivityService,
	log *logger.Logger,
) RequestService {
	return &requestService{
		requestRepo:  requestRepo,
		driverRepo:   driverRepo,
		vehicleRepo:  vehicleRepo,
		tripRepo:     tripRepo,
		userRepo:     userRepo,
		notification: notification,
		activity:     activity,
		logger:       log,
	}
}

// Filing

func (s *requestService) FileDriverCreation(ctx context.Context, requesterID primitive.ObjectID, payload *CreateDriverPayload) (*models.AdminRequest, error) {
	comment, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize driver creation payload: %w", err)
	}

	return s.file(ctx, requesterID, models.RequestTypeDriverCreation, nil, payload.FullName, string(comment))
}

func (s *requestService) FileVehicleCreation(ctx context.Context, requesterID primitive.ObjectID, payload *CreateVehiclePayload) (*models.AdminRequest, error) {
	comment, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize vehicle creation payload: %w", err)
	}

	name := fmt.Sprintf("%s %s (%s)", payload.Make, payload.Model, payload.LicensePlate)
	return s.file(ctx, requesterID, models.RequestTypeVehicleCreation, nil, name, string(comment))
}

func (s *requestService) FileDriverUpdate(ctx context.Context, requesterID, driverID primitive.ObjectID, targetName string, payload *UpdateDriverPayload) (*models.AdminRequest, error) {
	comment, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize driver update payload: %w", err)
	}

	return s.file(ctx, requesterID, models.RequestTypeDriverUpdate, &driverID, targetName, string(comment))
}

func (s *requestService) FileVehicleUpdate(ctx context.Context, requesterID, vehicleID primitive.ObjectID, targetName string, payload *UpdateVehiclePayload) (*models.AdminRequest, error) {
	comment, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize vehicle update payload: %w", err)
	}

	return s.file(ctx, requesterID, models.RequestTypeVehicleUpdate, &vehicleID, targetName, string(comment))
}

func (s *requestService) FileDriverDeletion(ctx context.Context, requesterID, driverID primitive.ObjectID, targetName, comment string) (*models.AdminRequest, error) {
	return s.file(ctx, requesterID, models.RequestTypeDriverDeletion, &driverID, targetName, comment)
}

func (s *requestService) FileVehicleDeletion(ctx context.Context, requesterID, vehicleID primitive.ObjectID, targetName, comment string) (*models.AdminRequest, error) {
	return s.file(ctx, requesterID, models.RequestTypeVehicleDeletion, &vehicleID, targetName, comment)
}

func (s *requestService) FileTripDeletion(ctx context.Context, requesterID, tripID primitive.ObjectID, targetName, comment string) (*models.AdminRequest, error) {
	return s.file(ctx, requesterID, models.RequestTypeTripDeletion, &tripID, targetName, comment)
}

// file never fails on business rules: enforcement happens at resolve time
// and at the call sites that choose between filing and acting directly.
func (s *requestService) file(ctx context.Context, requesterID primitive.ObjectID, requestType models.RequestType, targetID *primitive.ObjectID, targetName, comment string) (*models.AdminRequest, error) {
	request := &models.AdminRequest{
		Type:        requestType,
		RequesterID: requesterID,
		TargetID:    targetID,
		TargetName:  targetName,
		Comment:     comment,
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, requesterID, "request_filed",
		fmt.Sprintf("filed %s request for %q", requestType, targetName),
		"admin_request", &request.ID)

	return request, nil
}

// Listing

func (s *requestService) ListPending(ctx context.Context) ([]*models.AdminRequest, error) {
	return s.requestRepo.GetPending(ctx)
}

func (s *requestService) ListAll(ctx context.Context) ([]*models.AdminRequest, error) {
	return s.requestRepo.GetAll(ctx)
}

func (s *requestService) ListByRequester(ctx context.Context, requesterID primitive.ObjectID) ([]*models.AdminRequest, error) {
	return s.requestRepo.GetByRequester(ctx, requesterID)
}

// Resolve

func (s *requestService) Resolve(ctx context.Context, id primitive.ObjectID, approved bool, adminResponse string, adminID primitive.ObjectID) error {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if request.Status != models.RequestStatusPending {
		return fmt.Errorf("request %s: %w", id.Hex(), ErrAlreadyProcessed)
	}

	// Validate creation/update payloads before claiming the request, so a
	// payload that cannot be replayed never resolves as if it succeeded.
	var materialize func(context.Context, *models.AdminRequest) error
	if approved {
		materialize, err = s.prepareMaterialization(ctx, request)
		if err != nil {
			return err
		}
	}

	status := models.RequestStatusRejected
	if approved {
		status = models.RequestStatusApproved
	}

	// Conditional claim: of two concurrent resolves, exactly one matches.
	claimed, err := s.requestRepo.MarkProcessed(ctx, id, status, adminResponse, adminID)
	if err != nil {
		return err
	}
	if !claimed {
		return fmt.Errorf("request %s: %w", id.Hex(), ErrAlreadyProcessed)
	}

	if approved {
		if err := materialize(ctx, request); err != nil {
			return fmt.Errorf("failed to materialize request %s: %w", id.Hex(), err)
		}
	}

	s.activity.Record(ctx, adminID, "request_resolved",
		fmt.Sprintf("%s %s request for %q", status, request.Type, request.TargetName),
		"admin_request", &request.ID)

	// The requester hears the admin's response verbatim; approval and
	// rejection differ only in tone.
	if approved {
		s.notification.Send(ctx, request.RequesterID, models.NotificationTypeSuccess,
			"Request approved",
			fmt.Sprintf("Your %s request for %q was approved: %s", request.Type, request.TargetName, adminResponse),
			"admin_request", &request.ID)
	} else {
		s.notification.Send(ctx, request.RequesterID, models.NotificationTypeError,
			"Request rejected",
			fmt.Sprintf("Your %s request for %q was rejected: %s", request.Type, request.TargetName, adminResponse),
			"admin_request", &request.ID)
	}

	return nil
}

// prepareMaterialization decodes and validates the deferred mutation and
// returns the closure that applies it once the request has been claimed.
func (s *requestService) prepareMaterialization(ctx context.Context, request *models.AdminRequest) (func(context.Context, *models.AdminRequest) error, error) {
	switch request.Type {
	case models.RequestTypeDriverCreation:
		var payload CreateDriverPayload
		if err := json.Unmarshal([]byte(request.Comment), &payload); err != nil {
			return nil, fmt.Errorf("driver creation payload: %w", ErrBadPayload)
		}
		return func(ctx context.Context, req *models.AdminRequest) error {
			return s.createDriver(ctx, req.RequesterID, &payload)
		}, nil

	case models.RequestTypeVehicleCreation:
		var payload CreateVehiclePayload
		if err := json.Unmarshal([]byte(request.Comment), &payload); err != nil {
			return nil, fmt.Errorf("vehicle creation payload: %w", ErrBadPayload)
		}
		return func(ctx context.Context, req *models.AdminRequest) error {
			return s.vehicleRepo.Create(ctx, &models.Vehicle{
				Make:            payload.Make,
				Model:           payload.Model,
				Year:            payload.Year,
				LicensePlate:    payload.LicensePlate,
				Status:          models.VehicleStatusAvailable,
				FuelConsumption: payload.FuelConsumption,
				LoadCapacityKg:  payload.LoadCapacityKg,
			})
		}, nil

	case models.RequestTypeDriverUpdate:
		var payload UpdateDriverPayload
		if err := json.Unmarshal([]byte(request.Comment), &payload); err != nil {
			return nil, fmt.Errorf("driver update payload: %w", ErrBadPayload)
		}
		return func(ctx context.Context, req *models.AdminRequest) error {
			if req.TargetID == nil {
				return nil
			}
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
			if len(updates) == 0 {
				return nil
			}
			return s.driverRepo.Update(ctx, *req.TargetID, updates)
		}, nil

	case models.RequestTypeVehicleUpdate:
		var payload UpdateVehiclePayload
		if err := json.Unmarshal([]byte(request.Comment), &payload); err != nil {
			return nil, fmt.Errorf("vehicle update payload: %w", ErrBadPayload)
		}
		return func(ctx context.Context, req *models.AdminRequest) error {
			if req.TargetID == nil {
				return nil
			}
			updates := make(map[string]interface{})
			if payload.Make != nil {
				updates["make"] = *payload.Make
			}
			if payload.Model != nil {
				updates["model"] = *payload.Model
			}
			if payload.Year != nil {
				updates["year"] = *payload.Year
			}
			if payload.FuelConsumption != nil {
				updates["fuel_consumption"] = *payload.FuelConsumption
			}
			if payload.LoadCapacityKg != nil {
				updates["load_capacity_kg"] = *payload.LoadCapacityKg
			}
			if len(updates) == 0 {
				return nil
			}
			return s.vehicleRepo.Update(ctx, *req.TargetID, updates)
		}, nil

	case models.RequestTypeDriverDeletion:
		return s.deleteDriverTarget, nil
	case models.RequestTypeVehicleDeletion:
		return s.deleteVehicleTarget, nil
	case models.RequestTypeTripDeletion:
		return s.deleteTripTarget, nil
	}

	return nil, fmt.Errorf("unknown request type %q: %w", request.Type, ErrBadPayload)
}

func (s *requestService) createDriver(ctx context.Context, managerID primitive.ObjectID, payload *CreateDriverPayload) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash driver password: %w", err)
	}

	user := &models.User{
		Email:        payload.Email,
		PasswordHash: string(hash),
		FullName:     payload.FullName,
		Phone:        payload.Phone,
		Role:         models.RoleDriver,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	driver := &models.Driver{
		UserID:        user.ID,
		ManagerID:     &managerID,
		FullName:      payload.FullName,
		Email:         payload.Email,
		Phone:         payload.Phone,
		LicenseNumber: payload.LicenseNumber,
		Status:        models.DriverStatusOffline,
	}
	return s.driverRepo.Create(ctx, driver)
}

// Deletion targets are best-effort: a nil or already-gone target is
// skipped, not an error.
func (s *requestService) deleteDriverTarget(ctx context.Context, request *models.AdminRequest) error {
	if request.TargetID == nil {
		return nil
	}

	driver, err := s.driverRepo.GetByID(ctx, *request.TargetID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.driverRepo.Delete(ctx, driver.ID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, driver.UserID); err != nil {
		s.logger.WithError(err).Warnf("failed to delete account for driver %s", driver.ID.Hex())
	}
	return nil
}

func (s *requestService) deleteVehicleTarget(ctx context.Context, request *models.AdminRequest) error {
	if request.TargetID == nil {
		return nil
	}
	if err := s.vehicleRepo.Delete(ctx, *request.TargetID); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

func (s *requestService) deleteTripTarget(ctx context.Context, request *models.AdminRequest) error {
	if request.TargetID == nil {
		return nil
	}
	if err := s.tripRepo.Delete(ctx, *request.TargetID); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// Purge

func (s *requestService) Purge(ctx context.Context) (int64, error) {
	return s.requestRepo.DeleteProcessed(ctx)
}

// Projections

func (s *requestService) PendingDeletionIDs(ctx context.Context, entityType string) (map[string]bool, error) {
	return s.pendingTargetIDs(ctx, entityType, func(r *models.AdminRequest) bool { return r.IsDeletion() })
}

func (s *requestService) PendingUpdateIDs(ctx context.Context, entityType string) (map[string]bool, error) {
	return s.pendingTargetIDs(ctx, entityType, func(r *models.AdminRequest) bool { return r.IsUpdate() })
}

func (s *requestService) pendingTargetIDs(ctx context.Context, entityType string, match func(*models.AdminRequest) bool) (map[string]bool, error) {
	pending, err := s.requestRepo.GetPending(ctx)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]bool)
	for _, request := range pending {
		if request.TargetID == nil || !match(request) {
			continue
		}
		if requestEntityType(request.Type) == entityType {
			ids[request.TargetID.Hex()] = true
		}
	}

	return ids, nil
}

func requestEntityType(requestType models.RequestType) string {
	switch requestType {
	case models.RequestTypeDriverCreation, models.RequestTypeDriverUpdate, models.RequestTypeDriverDeletion:
		return EntityTypeDriver
	case models.RequestTypeVehicleCreation, models.RequestTypeVehicleUpdate, models.RequestTypeVehicleDeletion:
		return EntityTypeVehicle
	case models.RequestTypeTripDeletion:
		return EntityTypeTrip
	}
	return ""
}
