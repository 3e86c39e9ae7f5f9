package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"fleetdesk/internal/models"
	"fleetdesk/internal/repositories/interfaces"
	"fleetdesk/internal/utils"
	"fleetdesk/pkg/logger"
	"fleetdesk/pkg/routing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TripService drives the trip lifecycle. Every status change goes
// through a conditional write scoped to the expected current status, so
// racing callers cannot double-apply a transition or its side effects.
type TripService interface {
	Create(ctx context.Context, managerID primitive.ObjectID, input *CreateTripInput) (*TripDetails, error)
	GetDetails(ctx context.Context, id primitive.ObjectID) (*TripDetails, error)
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Trip, int64, error)
	ListByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Trip, int64, error)
	ListByManager(ctx context.Context, managerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Trip, int64, error)

	// Driver-gated transitions: the acting user must be the assigned driver.
	Accept(ctx context.Context, tripID, driverUserID primitive.ObjectID) error
	Decline(ctx context.Context, tripID, driverUserID primitive.ObjectID) error
	Start(ctx context.Context, tripID, driverUserID primitive.ObjectID) error
	Arrive(ctx context.Context, tripID, driverUserID primitive.ObjectID, actualFuelConsumption *float64) error
	Complete(ctx context.Context, tripID, driverUserID primitive.ObjectID) error

	// Confirm is the manager's side of completion: the owning manager
	// signs off an arrived trip, optionally recording rating and review
	// in the same call.
	Confirm(ctx context.Context, tripID, managerID primitive.ObjectID, isAdmin bool, rating *int, review *string) error

	// Cancel works from any non-terminal status and is manager-gated.
	Cancel(ctx context.Context, tripID, managerID primitive.ObjectID, isAdmin bool) error

	// Deletion: admins delete directly, managers file a moderation request
	// for trips they own.
	Delete(ctx context.Context, tripID primitive.ObjectID, adminID primitive.ObjectID) error
	RequestDeletion(ctx context.Context, tripID, managerID primitive.ObjectID, comment string) (*models.AdminRequest, error)

	// Feedback belongs to the trip's manager and may be attached once the
	// trip has arrived.
	AttachFeedback(ctx context.Context, tripID, actorID primitive.ObjectID, isAdmin bool, rating *int, review *string) error
}

type LocationInput struct {
	City      string  `json:"city" binding:"required"`
	Address   string  `json:"address" binding:"required"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CargoInput struct {
	Name      string  `json:"name" binding:"required"`
	CargoType string  `json:"cargo_type"`
	WeightKg  float64 `json:"weight_kg"`
}

type CreateTripInput struct {
	DriverID           primitive.ObjectID  `json:"driver_id" binding:"required"`
	VehicleID          *primitive.ObjectID `json:"vehicle_id"`
	Origin             LocationInput       `json:"origin" binding:"required"`
	Destination        LocationInput       `json:"destination" binding:"required"`
	Cargo              CargoInput          `json:"cargo" binding:"required"`
	ScheduledDeparture time.Time           `json:"scheduled_departure" binding:"required"`
	ScheduledArrival   time.Time           `json:"scheduled_arrival" binding:"required"`
	PaymentAmount      float64             `json:"payment_amount"`
	FuelPrice          *float64            `json:"fuel_price"`
}

// TripDetails is the hydrated read model: the trip row joined with its
// vertically partitioned sub-records.
type TripDetails struct {
	Trip        *models.Trip         `json:"trip"`
	Origin      *models.Location     `json:"origin"`
	Destination *models.Location     `json:"destination"`
	Cargo       *models.Cargo        `json:"cargo"`
	Route       *models.TripRoute    `json:"route,omitempty"`
	Feedback    *models.TripFeedback `json:"feedback,omitempty"`
}

type tripEvent string

const (
	eventAccept   tripEvent = "accept"
	eventDecline  tripEvent = "decline"
	eventStart    tripEvent = "start"
	eventArrive   tripEvent = "arrive"
	eventComplete tripEvent = "complete"
)

// The lifecycle graph. Cancel is handled apart because it fires from any
// non-terminal status.
var tripTransitions = map[tripEvent]struct {
	from models.TripStatus
	to   models.TripStatus
}{
	eventAccept:   {models.TripStatusPending, models.TripStatusAccepted},
	eventDecline:  {models.TripStatusPending, models.TripStatusDeclined},
	eventStart:    {models.TripStatusAccepted, models.TripStatusInTransit},
	eventArrive:   {models.TripStatusInTransit, models.TripStatusArrived},
	eventComplete: {models.TripStatusArrived, models.TripStatusCompleted},
}

func isTerminalTripStatus(status models.TripStatus) bool {
	switch status {
	case models.TripStatusDeclined, models.TripStatusCompleted, models.TripStatusCancelled:
		return true
	}
	return false
}

type tripService struct {
	tripRepo     interfaces.TripRepository
	driverRepo   interfaces.DriverRepository
	vehicleRepo  interfaces.VehicleRepository
	locationRepo interfaces.LocationRepository
	requests     RequestService
	notification NotificationService
	activity     ActivityService
	estimator    routing.RouteEstimator
	logger       *logger.Logger
}

func NewTripService(
	tripRepo interfaces.TripRepository,
	driverRepo interfaces.DriverRepository,
	vehicleRepo interfaces.VehicleRepository,
	locationRepo interfaces.LocationRepository,
	requests RequestService,
	notification NotificationService,
	activity ActivityService,
	estimator routing.RouteEstimator,
	log *logger.Logger,
) TripService {
	return &tripService{
		tripRepo:     tripRepo,
		driverRepo:   driverRepo,
		vehicleRepo:  vehicleRepo,
		locationRepo: locationRepo,
		requests:     requests,
		notification: notification,
		activity:     activity,
		estimator:    estimator,
		logger:       log,
	}
}

// Creation

func (s *tripService) Create(ctx context.Context, managerID primitive.ObjectID, input *CreateTripInput) (*TripDetails, error) {
	driver, err := s.driverRepo.GetByID(ctx, input.DriverID)
	if err != nil {
		return nil, err
	}

	// Default to the driver's primary vehicle when none is named.
	var vehicle *models.Vehicle
	if input.VehicleID != nil {
		vehicle, err = s.vehicleRepo.GetByID(ctx, *input.VehicleID)
	} else {
		vehicle, err = s.vehicleRepo.GetPrimaryVehicle(ctx, driver.ID)
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	origin, err := s.locationRepo.GetOrCreate(ctx, input.Origin.City, input.Origin.Address, input.Origin.Latitude, input.Origin.Longitude)
	if err != nil {
		return nil, err
	}
	destination, err := s.locationRepo.GetOrCreate(ctx, input.Destination.City, input.Destination.Address, input.Destination.Latitude, input.Destination.Longitude)
	if err != nil {
		return nil, err
	}

	estimate, err := s.estimator.EstimateRoute(ctx,
		routing.Point{Latitude: origin.Latitude, Longitude: origin.Longitude},
		routing.Point{Latitude: destination.Latitude, Longitude: destination.Longitude},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate route: %w", err)
	}

	cargo := &models.Cargo{
		Name:      input.Cargo.Name,
		CargoType: input.Cargo.CargoType,
		WeightKg:  input.Cargo.WeightKg,
	}
	if err := s.tripRepo.CreateCargo(ctx, cargo); err != nil {
		return nil, err
	}

	fuelPrice := utils.DefaultFuelPrice
	if input.FuelPrice != nil {
		fuelPrice = *input.FuelPrice
	}

	var estimatedFuelCost float64
	if vehicle != nil {
		estimatedFuelCost = fuelCost(estimate.DistanceKm, vehicle.FuelConsumption, fuelPrice)
	}

	trip := &models.Trip{
		TripNumber:         newTripNumber(),
		ManagerID:          managerID,
		DriverID:           driver.ID,
		OriginID:           origin.ID,
		DestinationID:      destination.ID,
		CargoID:            cargo.ID,
		Status:             models.TripStatusPending,
		DistanceKm:         estimate.DistanceKm,
		ScheduledDeparture: input.ScheduledDeparture,
		ScheduledArrival:   input.ScheduledArrival,
		PaymentAmount:      input.PaymentAmount,
		FuelPrice:          fuelPrice,
		EstimatedFuelCost:  estimatedFuelCost,
		ExpectedProfit:     round2(input.PaymentAmount - estimatedFuelCost),
	}
	if vehicle != nil {
		trip.VehicleID = &vehicle.ID
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	route := &models.TripRoute{
		TripID:      trip.ID,
		Polyline:    estimate.Polyline,
		DistanceKm:  estimate.DistanceKm,
		DurationMin: estimate.DurationMin,
	}
	if err := s.tripRepo.CreateRoute(ctx, route); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, managerID, "trip_created",
		fmt.Sprintf("created trip %s (%s to %s)", trip.TripNumber, origin.City, destination.City),
		"trip", &trip.ID)
	s.notification.Send(ctx, driver.UserID, models.NotificationTypeInfo,
		"New trip assigned",
		fmt.Sprintf("Trip %s from %s to %s is awaiting your response", trip.TripNumber, origin.City, destination.City),
		"trip", &trip.ID)

	return &TripDetails{
		Trip:        trip,
		Origin:      origin,
		Destination: destination,
		Cargo:       cargo,
		Route:       route,
	}, nil
}

// Reads

func (s *tripService) GetDetails(ctx context.Context, id primitive.ObjectID) (*TripDetails, error) {
	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &TripDetails{Trip: trip}

	if details.Origin, err = s.locationRepo.GetByID(ctx, trip.OriginID); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if details.Destination, err = s.locationRepo.GetByID(ctx, trip.DestinationID); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if details.Cargo, err = s.tripRepo.GetCargoByID(ctx, trip.CargoID); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if details.Route, err = s.tripRepo.GetRouteByTrip(ctx, trip.ID); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if details.Feedback, err = s.tripRepo.GetFeedbackByTrip(ctx, trip.ID); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return details, nil
}

func (s *tripService) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Trip, int64, error) {
	return s.tripRepo.List(ctx, params)
}

func (s *tripService) ListByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Trip, int64, error) {
	return s.tripRepo.GetByDriver(ctx, driverID, params)
}

func (s *tripService) ListByManager(ctx context.Context, managerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Trip, int64, error) {
	return s.tripRepo.GetByManager(ctx, managerID, params)
}

// Driver-gated transitions

func (s *tripService) Accept(ctx context.Context, tripID, driverUserID primitive.ObjectID) error {
	trip, driver, err := s.loadForDriver(ctx, tripID, driverUserID)
	if err != nil {
		return err
	}

	if err := s.transition(ctx, trip, eventAccept, nil); err != nil {
		return err
	}

	// The driver is committed to the trip from acceptance on.
	if err := s.driverRepo.UpdateStatus(ctx, driver.ID, models.DriverStatusOnTrip); err != nil {
		s.logger.WithError(err).Warnf("failed to set driver %s on trip", driver.ID.Hex())
	}

	s.notifyManager(ctx, trip, models.NotificationTypeSuccess, "Trip accepted",
		fmt.Sprintf("%s accepted trip %s", driver.FullName, trip.TripNumber))
	s.activity.Record(ctx, driverUserID, "trip_accepted", fmt.Sprintf("accepted trip %s", trip.TripNumber), "trip", &trip.ID)
	return nil
}

func (s *tripService) Decline(ctx context.Context, tripID, driverUserID primitive.ObjectID) error {
	trip, driver, err := s.loadForDriver(ctx, tripID, driverUserID)
	if err != nil {
		return err
	}

	if err := s.transition(ctx, trip, eventDecline, nil); err != nil {
		return err
	}

	s.notifyManager(ctx, trip, models.NotificationTypeError, "Trip declined",
		fmt.Sprintf("%s declined trip %s", driver.FullName, trip.TripNumber))
	s.activity.Record(ctx, driverUserID, "trip_declined", fmt.Sprintf("declined trip %s", trip.TripNumber), "trip", &trip.ID)
	return nil
}

func (s *tripService) Start(ctx context.Context, tripID, driverUserID primitive.ObjectID) error {
	trip, _, err := s.loadForDriver(ctx, tripID, driverUserID)
	if err != nil {
		return err
	}

	extra := map[string]interface{}{}
	if trip.ActualDeparture == nil {
		extra["actual_departure"] = time.Now()
	}
	if err := s.transition(ctx, trip, eventStart, extra); err != nil {
		return err
	}

	if trip.VehicleID != nil {
		if err := s.vehicleRepo.UpdateStatus(ctx, *trip.VehicleID, models.VehicleStatusInUse); err != nil {
			s.logger.WithError(err).Warnf("failed to set vehicle %s in use", trip.VehicleID.Hex())
		}
	}

	s.notifyManager(ctx, trip, models.NotificationTypeInfo, "Trip departed",
		fmt.Sprintf("Trip %s is now in transit", trip.TripNumber))
	s.activity.Record(ctx, driverUserID, "trip_started", fmt.Sprintf("departed on trip %s", trip.TripNumber), "trip", &trip.ID)
	return nil
}

func (s *tripService) Arrive(ctx context.Context, tripID, driverUserID primitive.ObjectID, actualFuelConsumption *float64) error {
	trip, _, err := s.loadForDriver(ctx, tripID, driverUserID)
	if err != nil {
		return err
	}

	extra := map[string]interface{}{
		"actual_arrival": time.Now(),
	}

	// Reported consumption replaces the creation-time estimate; the profit
	// projection absorbs the difference against the original budget.
	if actualFuelConsumption != nil {
		realFuelCost := fuelCost(trip.DistanceKm, *actualFuelConsumption, trip.FuelPrice)
		extra["actual_fuel_consumption"] = *actualFuelConsumption
		extra["estimated_fuel_cost"] = realFuelCost
		extra["expected_profit"] = round2(trip.ExpectedProfit + trip.EstimatedFuelCost - realFuelCost)
	}

	if err := s.transition(ctx, trip, eventArrive, extra); err != nil {
		return err
	}

	s.notifyManager(ctx, trip, models.NotificationTypeInfo, "Trip arrived",
		fmt.Sprintf("Trip %s has reached its destination", trip.TripNumber))
	s.activity.Record(ctx, driverUserID, "trip_arrived", fmt.Sprintf("arrived on trip %s", trip.TripNumber), "trip", &trip.ID)
	return nil
}

func (s *tripService) Complete(ctx context.Context, tripID, driverUserID primitive.ObjectID) error {
	trip, driver, err := s.loadForDriver(ctx, tripID, driverUserID)
	if err != nil {
		return err
	}

	extra := map[string]interface{}{}
	if trip.ActualArrival == nil {
		extra["actual_arrival"] = time.Now()
	}
	if err := s.transition(ctx, trip, eventComplete, extra); err != nil {
		return err
	}

	s.settleCompletion(ctx, trip, driver)

	s.notifyManager(ctx, trip, models.NotificationTypeSuccess, "Trip completed",
		fmt.Sprintf("Trip %s was completed", trip.TripNumber))
	s.activity.Record(ctx, driverUserID, "trip_completed", fmt.Sprintf("completed trip %s", trip.TripNumber), "trip", &trip.ID)
	return nil
}

func (s *tripService) Confirm(ctx context.Context, tripID, managerID primitive.ObjectID, isAdmin bool, rating *int, review *string) error {
	if rating != nil && (*rating < utils.MinRating || *rating > utils.MaxRating) {
		return fmt.Errorf("rating %d out of range: %w", *rating, ErrBadPayload)
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return err
	}
	if !isAdmin && trip.ManagerID != managerID {
		return fmt.Errorf("trip %s belongs to another manager: %w", tripID.Hex(), ErrForbidden)
	}

	extra := map[string]interface{}{}
	if trip.ActualArrival == nil {
		extra["actual_arrival"] = time.Now()
	}
	if err := s.transition(ctx, trip, eventComplete, extra); err != nil {
		return err
	}

	driver, err := s.driverRepo.GetByID(ctx, trip.DriverID)
	if err != nil {
		s.logger.WithError(err).Warnf("failed to load driver %s for settlement", trip.DriverID.Hex())
	} else {
		s.settleCompletion(ctx, trip, driver)
	}

	if rating != nil || review != nil {
		if err := s.tripRepo.UpsertFeedback(ctx, trip.ID, rating, review); err != nil {
			s.logger.WithError(err).Warnf("failed to save feedback for trip %s", trip.ID.Hex())
		}
	}

	if driver != nil {
		s.notification.Send(ctx, driver.UserID, models.NotificationTypeSuccess, "Trip confirmed",
			fmt.Sprintf("Trip %s was confirmed as completed", trip.TripNumber), "trip", &trip.ID)
	}
	s.activity.Record(ctx, managerID, "trip_confirmed", fmt.Sprintf("confirmed trip %s", trip.TripNumber), "trip", &trip.ID)
	return nil
}

// settleCompletion applies the one-time completion side effects. The
// mileage credit is guarded by a check-and-set flag so a retried
// completion cannot double-credit the vehicle.
func (s *tripService) settleCompletion(ctx context.Context, trip *models.Trip, driver *models.Driver) {
	claimed, err := s.tripRepo.MarkMileageAccounted(ctx, trip.ID)
	if err != nil {
		s.logger.WithError(err).Warnf("failed to claim mileage credit for trip %s", trip.ID.Hex())
	} else if claimed && trip.VehicleID != nil {
		if err := s.vehicleRepo.IncrementMileage(ctx, *trip.VehicleID, trip.DistanceKm); err != nil {
			s.logger.WithError(err).Warnf("failed to credit mileage to vehicle %s", trip.VehicleID.Hex())
		}
	}

	if err := s.driverRepo.UpdateStatus(ctx, driver.ID, models.DriverStatusAvailable); err != nil {
		s.logger.WithError(err).Warnf("failed to release driver %s", driver.ID.Hex())
	}
	if err := s.driverRepo.IncrementTripCount(ctx, driver.ID); err != nil {
		s.logger.WithError(err).Warnf("failed to increment trip count for driver %s", driver.ID.Hex())
	}
	if trip.VehicleID != nil {
		if err := s.vehicleRepo.UpdateStatus(ctx, *trip.VehicleID, models.VehicleStatusAvailable); err != nil {
			s.logger.WithError(err).Warnf("failed to release vehicle %s", trip.VehicleID.Hex())
		}
	}
}

// Cancel

func (s *tripService) Cancel(ctx context.Context, tripID, managerID primitive.ObjectID, isAdmin bool) error {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return err
	}
	if !isAdmin && trip.ManagerID != managerID {
		return fmt.Errorf("trip %s belongs to another manager: %w", tripID.Hex(), ErrForbidden)
	}
	if isTerminalTripStatus(trip.Status) {
		return fmt.Errorf("cannot cancel a %s trip: %w", trip.Status, ErrInvalidTransition)
	}

	// Conditional on the status we loaded; losing the race to another
	// transition surfaces as an invalid transition.
	ok, err := s.tripRepo.UpdateStatusFrom(ctx, trip.ID, trip.Status, models.TripStatusCancelled, nil)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("trip %s changed status concurrently: %w", tripID.Hex(), ErrInvalidTransition)
	}

	// The driver is held from acceptance on, the vehicle only from
	// departure; release whichever the cancelled trip was holding.
	if trip.Status != models.TripStatusPending {
		if err := s.driverRepo.UpdateStatus(ctx, trip.DriverID, models.DriverStatusAvailable); err != nil {
			s.logger.WithError(err).Warnf("failed to release driver %s", trip.DriverID.Hex())
		}
	}
	if trip.Status == models.TripStatusInTransit || trip.Status == models.TripStatusArrived {
		if trip.VehicleID != nil {
			if err := s.vehicleRepo.UpdateStatus(ctx, *trip.VehicleID, models.VehicleStatusAvailable); err != nil {
				s.logger.WithError(err).Warnf("failed to release vehicle %s", trip.VehicleID.Hex())
			}
		}
	}

	if driver, err := s.driverRepo.GetByID(ctx, trip.DriverID); err == nil {
		s.notification.Send(ctx, driver.UserID, models.NotificationTypeError, "Trip cancelled",
			fmt.Sprintf("Trip %s was cancelled", trip.TripNumber), "trip", &trip.ID)
	}
	s.activity.Record(ctx, managerID, "trip_cancelled", fmt.Sprintf("cancelled trip %s", trip.TripNumber), "trip", &trip.ID)
	return nil
}

// Deletion

func (s *tripService) Delete(ctx context.Context, tripID primitive.ObjectID, adminID primitive.ObjectID) error {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return err
	}

	if err := s.tripRepo.Delete(ctx, trip.ID); err != nil {
		return err
	}

	s.activity.Record(ctx, adminID, "trip_deleted", fmt.Sprintf("deleted trip %s", trip.TripNumber), "trip", &trip.ID)
	return nil
}

func (s *tripService) RequestDeletion(ctx context.Context, tripID, managerID primitive.ObjectID, comment string) (*models.AdminRequest, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.ManagerID != managerID {
		return nil, fmt.Errorf("trip %s belongs to another manager: %w", tripID.Hex(), ErrForbidden)
	}

	return s.requests.FileTripDeletion(ctx, managerID, trip.ID, trip.TripNumber, comment)
}

// Feedback

func (s *tripService) AttachFeedback(ctx context.Context, tripID, actorID primitive.ObjectID, isAdmin bool, rating *int, review *string) error {
	if rating != nil && (*rating < utils.MinRating || *rating > utils.MaxRating) {
		return fmt.Errorf("rating %d out of range: %w", *rating, ErrBadPayload)
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return err
	}
	if !isAdmin && trip.ManagerID != actorID {
		return fmt.Errorf("trip %s belongs to another manager: %w", tripID.Hex(), ErrForbidden)
	}
	if trip.Status != models.TripStatusArrived && trip.Status != models.TripStatusCompleted {
		return fmt.Errorf("trip %s has not arrived: %w", tripID.Hex(), ErrInvalidTransition)
	}

	return s.tripRepo.UpsertFeedback(ctx, tripID, rating, review)
}

// Helpers

func (s *tripService) loadForDriver(ctx context.Context, tripID, driverUserID primitive.ObjectID) (*models.Trip, *models.Driver, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	driver, err := s.driverRepo.GetByUserID(ctx, driverUserID)
	if err != nil {
		return nil, nil, err
	}
	if trip.DriverID != driver.ID {
		return nil, nil, fmt.Errorf("trip %s is assigned to another driver: %w", tripID.Hex(), ErrForbidden)
	}
	return trip, driver, nil
}

func (s *tripService) transition(ctx context.Context, trip *models.Trip, event tripEvent, extra map[string]interface{}) error {
	edge := tripTransitions[event]
	if trip.Status != edge.from {
		return fmt.Errorf("cannot %s a %s trip: %w", event, trip.Status, ErrInvalidTransition)
	}

	ok, err := s.tripRepo.UpdateStatusFrom(ctx, trip.ID, edge.from, edge.to, extra)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("trip %s changed status concurrently: %w", trip.ID.Hex(), ErrInvalidTransition)
	}

	trip.Status = edge.to
	return nil
}

func (s *tripService) notifyManager(ctx context.Context, trip *models.Trip, notificationType models.NotificationType, title, message string) {
	s.notification.Send(ctx, trip.ManagerID, notificationType, title, message, "trip", &trip.ID)
}

func fuelCost(distanceKm, consumptionPer100Km, pricePerLiter float64) float64 {
	return round2(distanceKm / 100 * consumptionPer100Km * pricePerLiter)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func newTripNumber() string {
	suffix := strings.ToUpper(primitive.NewObjectID().Hex())
	return fmt.Sprintf("%s-%s-%s", utils.TripNumberPrefix, time.Now().Format("20060102"), suffix[len(suffix)-6:])
}
