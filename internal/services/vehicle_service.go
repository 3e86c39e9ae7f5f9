package services

import (
	"context"
	"fmt"

	"fleetdesk/internal/models"
	"fleetdesk/internal/repositories/interfaces"
	"fleetdesk/internal/utils"
	"fleetdesk/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleService mirrors the driver service's two write paths and adds
// the visibility rule: a manager may see or touch a vehicle only when
// it is unassigned or every assigned driver reports to that manager.
type VehicleService interface {
	// Admin path: immediate effect
	Create(ctx context.Context, adminID primitive.ObjectID, payload *CreateVehiclePayload) (*models.Vehicle, error)
	Update(ctx context.Context, adminID, vehicleID primitive.ObjectID, payload *UpdateVehiclePayload) (*models.Vehicle, error)
	Delete(ctx context.Context, adminID, vehicleID primitive.ObjectID) error

	// Manager path: deferred through moderation
	RequestCreation(ctx context.Context, managerID primitive.ObjectID, payload *CreateVehiclePayload) (*models.AdminRequest, error)
	RequestUpdate(ctx context.Context, managerID, vehicleID primitive.ObjectID, payload *UpdateVehiclePayload) (*models.AdminRequest, error)
	RequestDeletion(ctx context.Context, managerID, vehicleID primitive.ObjectID, comment string) (*models.AdminRequest, error)

	// Reads, visibility-gated for managers
	GetByID(ctx context.Context, actorID primitive.ObjectID, isAdmin bool, id primitive.ObjectID) (*VehicleView, error)
	List(ctx context.Context, actorID primitive.ObjectID, isAdmin bool, params *utils.PaginationParams) ([]*VehicleView, int64, error)

	// Status and assignments
	UpdateStatus(ctx context.Context, actorID primitive.ObjectID, isAdmin bool, vehicleID primitive.ObjectID, status models.VehicleStatus) error
	AssignPrimary(ctx context.Context, actorID primitive.ObjectID, isAdmin bool, driverID, vehicleID primitive.ObjectID) error
	Assign(ctx context.Context, actorID primitive.ObjectID, isAdmin bool, driverID, vehicleID primitive.ObjectID) error
	Unassign(ctx context.Context, actorID primitive.ObjectID, isAdmin bool, driverID, vehicleID primitive.ObjectID) error
	GetAssignedDrivers(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.Driver, error)
}

type VehicleView struct {
	*models.Vehicle
	HasPendingDeletion bool             `json:"has_pending_deletion"`
	HasPendingUpdate   bool             `json:"has_pending_update"`
	AssignedDrivers    []*models.Driver `json:"assigned_drivers,omitempty"`
}

type vehicleService struct {
	vehicleRepo interfaces.VehicleRepository
	driverRepo  interfaces.DriverRepository
	requests    RequestService
	activity    ActivityService
	logger      *logger.Logger
}

func NewVehicleService(
	vehicleRepo interfaces.VehicleRepository,
	driverRepo interfaces.DriverRepository,
	requests RequestService,
	activity ActivityService,
	log *logger.Logger,
) VehicleService {
	return &vehicleService{
		vehicleRepo: vehicleRepo,
		driverRepo:  driverRepo,
		requests:    requests,
		activity:    activity,
		logger:      log,
	}
}

// Admin path

func (s *vehicleService) Create(ctx context.Context, adminID primitive.ObjectID, payload *CreateVehiclePayload) (*models.Vehicle, error) {
	if !utils.IsValidLicensePlate(payload.LicensePlate) {
		return nil, fmt.Errorf("invalid license plate %q: %w", payload.LicensePlate, ErrBadPayload)
	}

	vehicle := &models.Vehicle{
		Make:            payload.Make,
		Model:           payload.Model,
		Year:            payload.Year,
		LicensePlate:    payload.LicensePlate,
		Status:          models.VehicleStatusAvailable,
		FuelConsumption: payload.FuelConsumption,
		LoadCapacityKg:  payload.LoadCapacityKg,
	}
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, adminID, "vehicle_created", fmt.Sprintf("created vehicle %s", vehicle.LicensePlate), "vehicle", &vehicle.ID)
	return vehicle, nil
}

func (s *vehicleService) Update(ctx context.Context, adminID, vehicleID primitive.ObjectID, payload *UpdateVehiclePayload) (*models.Vehicle, error) {
	updates := vehicleUpdates(payload)
	if len(updates) > 0 {
		if err := s.vehicleRepo.Update(ctx, vehicleID, updates); err != nil {
			return nil, err
		}
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, adminID, "vehicle_updated", fmt.Sprintf("updated vehicle %s", vehicle.LicensePlate), "vehicle", &vehicle.ID)
	return vehicle, nil
}

func (s *vehicleService) Delete(ctx context.Context, adminID, vehicleID primitive.ObjectID) error {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return err
	}

	if err := s.vehicleRepo.Delete(ctx, vehicle.ID); err != nil {
		return err
	}

	s.activity.Record(ctx, adminID, "vehicle_deleted", fmt.Sprintf("deleted vehicle %s", vehicle.LicensePlate), "vehicle", &vehicle.ID)
	return nil
}

func vehicleUpdates(payload *UpdateVehiclePayload) map[string]interface{} {
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
	return updates
}

// Manager path

func (s *vehicleService) RequestCreation(ctx context.Context, managerID primitive.ObjectID, payload *CreateVehiclePayload) (*models.AdminRequest, error) {
	if !utils.IsValidLicensePlate(payload.LicensePlate) {
		return nil, fmt.Errorf("invalid license plate %q: %w", payload.LicensePlate, ErrBadPayload)
	}
	return s.requests.FileVehicleCreation(ctx, managerID, payload)
}

func (s *vehicleService) RequestUpdate(ctx context.Context, managerID, vehicleID primitive.ObjectID, payload *UpdateVehiclePayload) (*models.AdminRequest, error) {
	vehicle, err := s.visibleVehicle(ctx, managerID, vehicleID)
	if err != nil {
		return nil, err
	}
	return s.requests.FileVehicleUpdate(ctx, managerID, vehicleID, vehicle.LicensePlate, payload)
}

func (s *vehicleService) RequestDeletion(ctx context.Context, managerID, vehicleID primitive.ObjectID, comment string) (*models.AdminRequest, error) {
	vehicle, err := s.visibleVehicle(ctx, managerID, vehicleID)
	if err != nil {
		return nil, err
	}
	return s.requests.FileVehicleDeletion(ctx, managerID, vehicleID, vehicle.LicensePlate, comment)
}

// Reads

func (s *vehicleService) GetByID(ctx context.Context, actorID primitive.ObjectID, isAdmin bool, id primitive.ObjectID) (*VehicleView, error) {
	var vehicle *models.Vehicle
	var err error
	if isAdmin {
		vehicle, err = s.vehicleRepo.GetByID(ctx, id)
	} else {
		vehicle, err = s.visibleVehicle(ctx, actorID, id)
	}
	if err != nil {
		return nil, err
	}

	views, err := s.decorate(ctx, []*models.Vehicle{vehicle})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *vehicleService) List(ctx context.Context, actorID primitive.ObjectID, isAdmin bool, params *utils.PaginationParams) ([]*VehicleView, int64, error) {
	vehicles, total, err := s.vehicleRepo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	if !isAdmin {
		visible := make([]*models.Vehicle, 0, len(vehicles))
		for _, vehicle := range vehicles {
			ok, err := s.isVisibleTo(ctx, actorID, vehicle.ID)
			if err != nil {
				return nil, 0, err
			}
			if ok {
				visible = append(visible, vehicle)
			}
		}
		vehicles = visible
		total = int64(len(visible))
	}

	views, err := s.decorate(ctx, vehicles)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *vehicleService) decorate(ctx context.Context, vehicles []*models.Vehicle) ([]*VehicleView, error) {
	pendingDeletions, err := s.requests.PendingDeletionIDs(ctx, EntityTypeVehicle)
	if err != nil {
		return nil, err
	}
	pendingUpdates, err := s.requests.PendingUpdateIDs(ctx, EntityTypeVehicle)
	if err != nil {
		return nil, err
	}

	views := make([]*VehicleView, len(vehicles))
	for i, vehicle := range vehicles {
		drivers, err := s.GetAssignedDrivers(ctx, vehicle.ID)
		if err != nil {
			return nil, err
		}
		views[i] = &VehicleView{
			Vehicle:            vehicle,
			HasPendingDeletion: pendingDeletions[vehicle.ID.Hex()],
			HasPendingUpdate:   pendingUpdates[vehicle.ID.Hex()],
			AssignedDrivers:    drivers,
		}
	}
	return views, nil
}

// Status and assignments

func (s *vehicleService) UpdateStatus(ctx context.Context, actorID primitive.ObjectID, isAdmin bool, vehicleID primitive.ObjectID, status models.VehicleStatus) error {
	if !isAdmin {
		if _, err := s.visibleVehicle(ctx, actorID, vehicleID); err != nil {
			return err
		}
	}
	return s.vehicleRepo.UpdateStatus(ctx, vehicleID, status)
}

func (s *vehicleService) AssignPrimary(ctx context.Context, actorID primitive.ObjectID, isAdmin bool, driverID, vehicleID primitive.ObjectID) error {
	if err := s.checkAssignmentAccess(ctx, actorID, isAdmin, driverID, vehicleID); err != nil {
		return err
	}

	if err := s.vehicleRepo.AssignPrimary(ctx, driverID, vehicleID); err != nil {
		return err
	}

	s.activity.Record(ctx, actorID, "vehicle_assigned",
		fmt.Sprintf("set vehicle %s as primary for driver %s", vehicleID.Hex(), driverID.Hex()),
		"vehicle", &vehicleID)
	return nil
}

func (s *vehicleService) Assign(ctx context.Context, actorID primitive.ObjectID, isAdmin bool, driverID, vehicleID primitive.ObjectID) error {
	if err := s.checkAssignmentAccess(ctx, actorID, isAdmin, driverID, vehicleID); err != nil {
		return err
	}
	return s.vehicleRepo.Assign(ctx, driverID, vehicleID)
}

func (s *vehicleService) Unassign(ctx context.Context, actorID primitive.ObjectID, isAdmin bool, driverID, vehicleID primitive.ObjectID) error {
	if err := s.checkAssignmentAccess(ctx, actorID, isAdmin, driverID, vehicleID); err != nil {
		return err
	}
	return s.vehicleRepo.Unassign(ctx, driverID, vehicleID)
}

func (s *vehicleService) GetAssignedDrivers(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.Driver, error) {
	assignments, err := s.vehicleRepo.GetAssignmentsByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, nil
	}

	ids := make([]primitive.ObjectID, len(assignments))
	for i, assignment := range assignments {
		ids[i] = assignment.DriverID
	}
	return s.driverRepo.GetByIDs(ctx, ids)
}

// Visibility

func (s *vehicleService) checkAssignmentAccess(ctx context.Context, actorID primitive.ObjectID, isAdmin bool, driverID, vehicleID primitive.ObjectID) error {
	if isAdmin {
		return nil
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return err
	}
	if driver.ManagerID == nil || *driver.ManagerID != actorID {
		return fmt.Errorf("driver %s reports to another manager: %w", driverID.Hex(), ErrForbidden)
	}

	if _, err := s.visibleVehicle(ctx, actorID, vehicleID); err != nil {
		return err
	}
	return nil
}

func (s *vehicleService) visibleVehicle(ctx context.Context, managerID, vehicleID primitive.ObjectID) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	ok, err := s.isVisibleTo(ctx, managerID, vehicleID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("vehicle %s is assigned outside your fleet: %w", vehicleID.Hex(), ErrForbidden)
	}
	return vehicle, nil
}

func (s *vehicleService) isVisibleTo(ctx context.Context, managerID, vehicleID primitive.ObjectID) (bool, error) {
	assignments, err := s.vehicleRepo.GetAssignmentsByVehicle(ctx, vehicleID)
	if err != nil {
		return false, err
	}
	if len(assignments) == 0 {
		return true, nil
	}

	ids := make([]primitive.ObjectID, len(assignments))
	for i, assignment := range assignments {
		ids[i] = assignment.DriverID
	}
	drivers, err := s.driverRepo.GetByIDs(ctx, ids)
	if err != nil {
		return false, err
	}

	for _, driver := range drivers {
		if driver.ManagerID == nil || *driver.ManagerID != managerID {
			return false, nil
		}
	}
	return true, nil
}
