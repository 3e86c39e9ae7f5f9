package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"fleetdesk/internal/models"
	"fleetdesk/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. Conditional writes mirror the mongodb
// implementations so the concurrency guards can be exercised directly.

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[primitive.ObjectID]*models.AdminRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[primitive.ObjectID]*models.AdminRequest)}
}

func (r *fakeRequestRepo) Create(_ context.Context, request *models.AdminRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	request.ID = primitive.NewObjectID()
	request.Status = models.RequestStatusPending
	request.CreatedAt = time.Now()
	clone := *request
	r.requests[request.ID] = &clone
	return nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.AdminRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", id.Hex(), ErrNotFound)
	}
	clone := *request
	return &clone, nil
}

func (r *fakeRequestRepo) GetPending(ctx context.Context) ([]*models.AdminRequest, error) {
	return r.filter(func(req *models.AdminRequest) bool { return req.Status == models.RequestStatusPending })
}

func (r *fakeRequestRepo) GetAll(ctx context.Context) ([]*models.AdminRequest, error) {
	return r.filter(func(*models.AdminRequest) bool { return true })
}

func (r *fakeRequestRepo) GetByRequester(ctx context.Context, requesterID primitive.ObjectID) ([]*models.AdminRequest, error) {
	return r.filter(func(req *models.AdminRequest) bool { return req.RequesterID == requesterID })
}

func (r *fakeRequestRepo) filter(keep func(*models.AdminRequest) bool) ([]*models.AdminRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.AdminRequest
	for _, request := range r.requests {
		if keep(request) {
			clone := *request
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *fakeRequestRepo) MarkProcessed(_ context.Context, id primitive.ObjectID, status models.RequestStatus, adminResponse string, adminID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok || request.Status != models.RequestStatusPending {
		return false, nil
	}

	now := time.Now()
	request.Status = status
	request.AdminResponse = adminResponse
	request.ProcessedAt = &now
	request.ProcessedByID = &adminID
	return true, nil
}

func (r *fakeRequestRepo) DeleteProcessed(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, request := range r.requests {
		if request.Status != models.RequestStatusPending {
			delete(r.requests, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeDriverRepo struct {
	mu      sync.Mutex
	drivers map[primitive.ObjectID]*models.Driver
}

func newFakeDriverRepo() *fakeDriverRepo {
	return &fakeDriverRepo{drivers: make(map[primitive.ObjectID]*models.Driver)}
}

func (r *fakeDriverRepo) Create(_ context.Context, driver *models.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	driver.ID = primitive.NewObjectID()
	driver.CreatedAt = time.Now()
	driver.UpdatedAt = driver.CreatedAt
	clone := *driver
	r.drivers[driver.ID] = &clone
	return nil
}

func (r *fakeDriverRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	driver, ok := r.drivers[id]
	if !ok {
		return nil, fmt.Errorf("driver %s: %w", id.Hex(), ErrNotFound)
	}
	clone := *driver
	return &clone, nil
}

func (r *fakeDriverRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*models.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, driver := range r.drivers {
		if driver.UserID == userID {
			clone := *driver
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("driver for user %s: %w", userID.Hex(), ErrNotFound)
}

func (r *fakeDriverRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	driver, ok := r.drivers[id]
	if !ok {
		return fmt.Errorf("driver %s: %w", id.Hex(), ErrNotFound)
	}
	for field, value := range updates {
		switch field {
		case "full_name":
			driver.FullName = value.(string)
		case "phone":
			driver.Phone = value.(string)
		case "license_number":
			driver.LicenseNumber = value.(string)
		}
	}
	driver.UpdatedAt = time.Now()
	return nil
}

func (r *fakeDriverRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.drivers[id]; !ok {
		return fmt.Errorf("driver %s: %w", id.Hex(), ErrNotFound)
	}
	delete(r.drivers, id)
	return nil
}

func (r *fakeDriverRepo) List(_ context.Context, _ *utils.PaginationParams) ([]*models.Driver, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var drivers []*models.Driver
	for _, driver := range r.drivers {
		clone := *driver
		drivers = append(drivers, &clone)
	}
	return drivers, int64(len(drivers)), nil
}

func (r *fakeDriverRepo) GetByManager(_ context.Context, managerID primitive.ObjectID) ([]*models.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var drivers []*models.Driver
	for _, driver := range r.drivers {
		if driver.ManagerID != nil && *driver.ManagerID == managerID {
			clone := *driver
			drivers = append(drivers, &clone)
		}
	}
	return drivers, nil
}

func (r *fakeDriverRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]*models.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var drivers []*models.Driver
	for _, id := range ids {
		if driver, ok := r.drivers[id]; ok {
			clone := *driver
			drivers = append(drivers, &clone)
		}
	}
	return drivers, nil
}

func (r *fakeDriverRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.DriverStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	driver, ok := r.drivers[id]
	if !ok {
		return fmt.Errorf("driver %s: %w", id.Hex(), ErrNotFound)
	}
	driver.Status = status
	return nil
}

func (r *fakeDriverRepo) IncrementTripCount(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	driver, ok := r.drivers[id]
	if !ok {
		return fmt.Errorf("driver %s: %w", id.Hex(), ErrNotFound)
	}
	driver.TotalTrips++
	return nil
}

func (r *fakeDriverRepo) CountByStatus(_ context.Context, status models.DriverStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, driver := range r.drivers {
		if driver.Status == status {
			count++
		}
	}
	return count, nil
}

type fakeVehicleRepo struct {
	mu          sync.Mutex
	vehicles    map[primitive.ObjectID]*models.Vehicle
	assignments []*models.DriverVehicle
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: make(map[primitive.ObjectID]*models.Vehicle)}
}

func (r *fakeVehicleRepo) Create(_ context.Context, vehicle *models.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	plate := utils.NormalizePlate(vehicle.LicensePlate)
	for _, existing := range r.vehicles {
		if utils.NormalizePlate(existing.LicensePlate) == plate {
			return fmt.Errorf("vehicle with plate %s: %w", plate, ErrConflict)
		}
	}

	vehicle.ID = primitive.NewObjectID()
	vehicle.LicensePlate = plate
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = vehicle.CreatedAt
	clone := *vehicle
	r.vehicles[vehicle.ID] = &clone
	return nil
}

func (r *fakeVehicleRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	vehicle, ok := r.vehicles[id]
	if !ok {
		return nil, fmt.Errorf("vehicle %s: %w", id.Hex(), ErrNotFound)
	}
	clone := *vehicle
	return &clone, nil
}

func (r *fakeVehicleRepo) GetByLicensePlate(_ context.Context, plate string) (*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	normalized := utils.NormalizePlate(plate)
	for _, vehicle := range r.vehicles {
		if vehicle.LicensePlate == normalized {
			clone := *vehicle
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("vehicle with plate %s: %w", normalized, ErrNotFound)
}

func (r *fakeVehicleRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	vehicle, ok := r.vehicles[id]
	if !ok {
		return fmt.Errorf("vehicle %s: %w", id.Hex(), ErrNotFound)
	}
	for field, value := range updates {
		switch field {
		case "make":
			vehicle.Make = value.(string)
		case "model":
			vehicle.Model = value.(string)
		case "year":
			vehicle.Year = value.(int)
		case "fuel_consumption":
			vehicle.FuelConsumption = value.(float64)
		case "load_capacity_kg":
			vehicle.LoadCapacityKg = value.(float64)
		}
	}
	vehicle.UpdatedAt = time.Now()
	return nil
}

func (r *fakeVehicleRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.vehicles[id]; !ok {
		return fmt.Errorf("vehicle %s: %w", id.Hex(), ErrNotFound)
	}
	delete(r.vehicles, id)

	kept := r.assignments[:0]
	for _, assignment := range r.assignments {
		if assignment.VehicleID != id {
			kept = append(kept, assignment)
		}
	}
	r.assignments = kept
	return nil
}

func (r *fakeVehicleRepo) List(_ context.Context, _ *utils.PaginationParams) ([]*models.Vehicle, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var vehicles []*models.Vehicle
	for _, vehicle := range r.vehicles {
		clone := *vehicle
		vehicles = append(vehicles, &clone)
	}
	return vehicles, int64(len(vehicles)), nil
}

func (r *fakeVehicleRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.VehicleStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	vehicle, ok := r.vehicles[id]
	if !ok {
		return fmt.Errorf("vehicle %s: %w", id.Hex(), ErrNotFound)
	}
	vehicle.Status = status
	return nil
}

func (r *fakeVehicleRepo) IncrementMileage(_ context.Context, id primitive.ObjectID, distanceKm float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	vehicle, ok := r.vehicles[id]
	if !ok {
		return fmt.Errorf("vehicle %s: %w", id.Hex(), ErrNotFound)
	}
	vehicle.Mileage += distanceKm
	return nil
}

func (r *fakeVehicleRepo) AssignPrimary(_ context.Context, driverID, vehicleID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, assignment := range r.assignments {
		if assignment.DriverID == driverID || assignment.VehicleID == vehicleID {
			assignment.IsPrimary = false
		}
	}
	for _, assignment := range r.assignments {
		if assignment.DriverID == driverID && assignment.VehicleID == vehicleID {
			assignment.IsPrimary = true
			return nil
		}
	}
	r.assignments = append(r.assignments, &models.DriverVehicle{
		ID:        primitive.NewObjectID(),
		DriverID:  driverID,
		VehicleID: vehicleID,
		IsPrimary: true,
		CreatedAt: time.Now(),
	})
	return nil
}

func (r *fakeVehicleRepo) Assign(_ context.Context, driverID, vehicleID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, assignment := range r.assignments {
		if assignment.DriverID == driverID && assignment.VehicleID == vehicleID {
			return nil
		}
	}
	r.assignments = append(r.assignments, &models.DriverVehicle{
		ID:        primitive.NewObjectID(),
		DriverID:  driverID,
		VehicleID: vehicleID,
		CreatedAt: time.Now(),
	})
	return nil
}

func (r *fakeVehicleRepo) Unassign(_ context.Context, driverID, vehicleID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.assignments[:0]
	for _, assignment := range r.assignments {
		if assignment.DriverID != driverID || assignment.VehicleID != vehicleID {
			kept = append(kept, assignment)
		}
	}
	r.assignments = kept
	return nil
}

func (r *fakeVehicleRepo) GetAssignmentsByVehicle(_ context.Context, vehicleID primitive.ObjectID) ([]*models.DriverVehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.DriverVehicle
	for _, assignment := range r.assignments {
		if assignment.VehicleID == vehicleID {
			clone := *assignment
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeVehicleRepo) GetAssignmentsByDriver(_ context.Context, driverID primitive.ObjectID) ([]*models.DriverVehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.DriverVehicle
	for _, assignment := range r.assignments {
		if assignment.DriverID == driverID {
			clone := *assignment
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeVehicleRepo) GetPrimaryVehicle(_ context.Context, driverID primitive.ObjectID) (*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, assignment := range r.assignments {
		if assignment.DriverID == driverID && assignment.IsPrimary {
			if vehicle, ok := r.vehicles[assignment.VehicleID]; ok {
				clone := *vehicle
				return &clone, nil
			}
		}
	}
	return nil, fmt.Errorf("primary vehicle for driver %s: %w", driverID.Hex(), ErrNotFound)
}

type fakeTripRepo struct {
	mu       sync.Mutex
	trips    map[primitive.ObjectID]*models.Trip
	cargo    map[primitive.ObjectID]*models.Cargo
	routes   map[primitive.ObjectID]*models.TripRoute
	feedback map[primitive.ObjectID]*models.TripFeedback
}

func newFakeTripRepo() *fakeTripRepo {
	return &fakeTripRepo{
		trips:    make(map[primitive.ObjectID]*models.Trip),
		cargo:    make(map[primitive.ObjectID]*models.Cargo),
		routes:   make(map[primitive.ObjectID]*models.TripRoute),
		feedback: make(map[primitive.ObjectID]*models.TripFeedback),
	}
}

func (r *fakeTripRepo) Create(_ context.Context, trip *models.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	trip.ID = primitive.NewObjectID()
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = trip.CreatedAt
	clone := *trip
	r.trips[trip.ID] = &clone
	return nil
}

func (r *fakeTripRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trip, ok := r.trips[id]
	if !ok {
		return nil, fmt.Errorf("trip %s: %w", id.Hex(), ErrNotFound)
	}
	clone := *trip
	return &clone, nil
}

func (r *fakeTripRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	trip, ok := r.trips[id]
	if !ok {
		return fmt.Errorf("trip %s: %w", id.Hex(), ErrNotFound)
	}
	applyTripUpdates(trip, updates)
	return nil
}

func (r *fakeTripRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	trip, ok := r.trips[id]
	if !ok {
		return fmt.Errorf("trip %s: %w", id.Hex(), ErrNotFound)
	}
	delete(r.cargo, trip.CargoID)
	delete(r.trips, id)
	delete(r.routes, id)
	delete(r.feedback, id)
	return nil
}

func (r *fakeTripRepo) List(_ context.Context, _ *utils.PaginationParams) ([]*models.Trip, int64, error) {
	return r.collect(func(*models.Trip) bool { return true })
}

func (r *fakeTripRepo) GetByDriver(_ context.Context, driverID primitive.ObjectID, _ *utils.PaginationParams) ([]*models.Trip, int64, error) {
	return r.collect(func(t *models.Trip) bool { return t.DriverID == driverID })
}

func (r *fakeTripRepo) GetByManager(_ context.Context, managerID primitive.ObjectID, _ *utils.PaginationParams) ([]*models.Trip, int64, error) {
	return r.collect(func(t *models.Trip) bool { return t.ManagerID == managerID })
}

func (r *fakeTripRepo) collect(keep func(*models.Trip) bool) ([]*models.Trip, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var trips []*models.Trip
	for _, trip := range r.trips {
		if keep(trip) {
			clone := *trip
			trips = append(trips, &clone)
		}
	}
	return trips, int64(len(trips)), nil
}

func (r *fakeTripRepo) UpdateStatusFrom(_ context.Context, id primitive.ObjectID, from, to models.TripStatus, extra map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trip, ok := r.trips[id]
	if !ok || trip.Status != from {
		return false, nil
	}
	trip.Status = to
	applyTripUpdates(trip, extra)
	return true, nil
}

func (r *fakeTripRepo) MarkMileageAccounted(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trip, ok := r.trips[id]
	if !ok || trip.IsMileageAccounted {
		return false, nil
	}
	trip.IsMileageAccounted = true
	return true, nil
}

func applyTripUpdates(trip *models.Trip, updates map[string]interface{}) {
	for field, value := range updates {
		switch field {
		case "actual_departure":
			t := value.(time.Time)
			trip.ActualDeparture = &t
		case "actual_arrival":
			t := value.(time.Time)
			trip.ActualArrival = &t
		case "actual_fuel_consumption":
			v := value.(float64)
			trip.ActualFuelConsumption = &v
		case "estimated_fuel_cost":
			trip.EstimatedFuelCost = value.(float64)
		case "expected_profit":
			trip.ExpectedProfit = value.(float64)
		}
	}
	trip.UpdatedAt = time.Now()
}

func (r *fakeTripRepo) CreateCargo(_ context.Context, cargo *models.Cargo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cargo.ID = primitive.NewObjectID()
	cargo.CreatedAt = time.Now()
	clone := *cargo
	r.cargo[cargo.ID] = &clone
	return nil
}

func (r *fakeTripRepo) GetCargoByID(_ context.Context, id primitive.ObjectID) (*models.Cargo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cargo, ok := r.cargo[id]
	if !ok {
		return nil, fmt.Errorf("cargo %s: %w", id.Hex(), ErrNotFound)
	}
	clone := *cargo
	return &clone, nil
}

func (r *fakeTripRepo) CreateRoute(_ context.Context, route *models.TripRoute) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	route.ID = primitive.NewObjectID()
	route.CreatedAt = time.Now()
	clone := *route
	r.routes[route.TripID] = &clone
	return nil
}

func (r *fakeTripRepo) GetRouteByTrip(_ context.Context, tripID primitive.ObjectID) (*models.TripRoute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	route, ok := r.routes[tripID]
	if !ok {
		return nil, fmt.Errorf("route for trip %s: %w", tripID.Hex(), ErrNotFound)
	}
	clone := *route
	return &clone, nil
}

func (r *fakeTripRepo) UpsertFeedback(_ context.Context, tripID primitive.ObjectID, rating *int, review *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	feedback, ok := r.feedback[tripID]
	if !ok {
		feedback = &models.TripFeedback{
			ID:        primitive.NewObjectID(),
			TripID:    tripID,
			CreatedAt: time.Now(),
		}
		r.feedback[tripID] = feedback
	}
	if rating != nil {
		v := *rating
		feedback.Rating = &v
	}
	if review != nil {
		v := *review
		feedback.Review = &v
	}
	feedback.UpdatedAt = time.Now()
	return nil
}

func (r *fakeTripRepo) GetFeedbackByTrip(_ context.Context, tripID primitive.ObjectID) (*models.TripFeedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	feedback, ok := r.feedback[tripID]
	if !ok {
		return nil, fmt.Errorf("feedback for trip %s: %w", tripID.Hex(), ErrNotFound)
	}
	clone := *feedback
	return &clone, nil
}

func (r *fakeTripRepo) CountByStatus(_ context.Context, status models.TripStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, trip := range r.trips {
		if trip.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeTripRepo) GetEarningsByMonth(_ context.Context, _ int) ([]*utils.MonthlyEarnings, error) {
	return nil, nil
}

func (r *fakeTripRepo) GetDriverTripStats(_ context.Context, driverID primitive.ObjectID) (map[string]interface{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := make(map[string]interface{})
	for _, trip := range r.trips {
		if trip.DriverID == driverID {
			stats[string(trip.Status)] = nil
		}
	}
	return stats, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	for _, existing := range r.users {
		if existing.Email == email {
			return fmt.Errorf("user with email %s: %w", email, ErrConflict)
		}
	}

	user.ID = primitive.NewObjectID()
	user.Email = email
	user.IsActive = true
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id.Hex(), ErrNotFound)
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = strings.ToLower(email)
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
}

func (r *fakeUserRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id.Hex(), ErrNotFound)
	}
	for field, value := range updates {
		switch field {
		case "full_name":
			user.FullName = value.(string)
		case "phone":
			user.Phone = value.(string)
		case "password_hash":
			user.PasswordHash = value.(string)
		}
	}
	user.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id.Hex(), ErrNotFound)
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[id]; ok {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

type fakeLocationRepo struct {
	mu        sync.Mutex
	locations map[string]*models.Location
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{locations: make(map[string]*models.Location)}
}

func (r *fakeLocationRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, location := range r.locations {
		if location.ID == id {
			clone := *location
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("location %s: %w", id.Hex(), ErrNotFound)
}

func (r *fakeLocationRepo) GetOrCreate(_ context.Context, city, address string, lat, lng float64) (*models.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(city) + "|" + strings.ToLower(address)
	if location, ok := r.locations[key]; ok {
		clone := *location
		return &clone, nil
	}

	location := &models.Location{
		ID:        primitive.NewObjectID(),
		City:      city,
		Address:   address,
		Latitude:  lat,
		Longitude: lng,
		CreatedAt: time.Now(),
	}
	r.locations[key] = location
	clone := *location
	return &clone, nil
}

// Side-channel fakes capture what was sent for assertions.

type sentNotification struct {
	UserID  primitive.ObjectID
	Type    models.NotificationType
	Title   string
	Message string
}

type fakeNotificationService struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (s *fakeNotificationService) Send(_ context.Context, userID primitive.ObjectID, notificationType models.NotificationType, title, message, _ string, _ *primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentNotification{UserID: userID, Type: notificationType, Title: title, Message: message})
}

func (s *fakeNotificationService) GetByUser(context.Context, primitive.ObjectID, *utils.PaginationParams) ([]*models.Notification, int64, error) {
	return nil, 0, nil
}

func (s *fakeNotificationService) GetUnreadCount(context.Context, primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (s *fakeNotificationService) MarkAsRead(context.Context, primitive.ObjectID) error { return nil }

func (s *fakeNotificationService) MarkAllAsRead(context.Context, primitive.ObjectID) error {
	return nil
}

type fakeActivityService struct {
	mu      sync.Mutex
	actions []string
}

func (s *fakeActivityService) Record(_ context.Context, _ primitive.ObjectID, action, _, _ string, _ *primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action)
}

func (s *fakeActivityService) List(context.Context, *utils.PaginationParams) ([]*models.ActivityLog, int64, error) {
	return nil, 0, nil
}
