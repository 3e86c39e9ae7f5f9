package services

import (
	"context"
	"testing"

	"fleetdesk/internal/models"
	"fleetdesk/internal/utils"
	"fleetdesk/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type vehicleFixture struct {
	service     VehicleService
	vehicleRepo *fakeVehicleRepo
	driverRepo  *fakeDriverRepo
	requestRepo *fakeRequestRepo

	manager      primitive.ObjectID
	otherManager primitive.ObjectID
	myDriver     *models.Driver
	otherDriver  *models.Driver
	vehicle      *models.Vehicle
}

func newVehicleFixture(t *testing.T) *vehicleFixture {
	t.Helper()

	f := &vehicleFixture{
		vehicleRepo:  newFakeVehicleRepo(),
		driverRepo:   newFakeDriverRepo(),
		requestRepo:  newFakeRequestRepo(),
		manager:      primitive.NewObjectID(),
		otherManager: primitive.NewObjectID(),
	}

	activity := &fakeActivityService{}
	requests := NewRequestService(
		f.requestRepo, f.driverRepo, f.vehicleRepo, newFakeTripRepo(), newFakeUserRepo(),
		&fakeNotificationService{}, activity, logger.Default(),
	)
	f.service = NewVehicleService(f.vehicleRepo, f.driverRepo, requests, activity, logger.Default())

	f.myDriver = &models.Driver{UserID: primitive.NewObjectID(), ManagerID: &f.manager, FullName: "Ivan Petrov", Email: "ivan@example.com", LicenseNumber: "DL-1"}
	require.NoError(t, f.driverRepo.Create(context.Background(), f.myDriver))
	f.otherDriver = &models.Driver{UserID: primitive.NewObjectID(), ManagerID: &f.otherManager, FullName: "Petar Ivanov", Email: "petar@example.com", LicenseNumber: "DL-2"}
	require.NoError(t, f.driverRepo.Create(context.Background(), f.otherDriver))

	f.vehicle = &models.Vehicle{Make: "Volvo", Model: "FH16", Year: 2019, LicensePlate: "CB1234AB", Status: models.VehicleStatusAvailable, FuelConsumption: 32}
	require.NoError(t, f.vehicleRepo.Create(context.Background(), f.vehicle))

	return f
}

func TestUnassignedVehicleIsVisibleToEveryManager(t *testing.T) {
	f := newVehicleFixture(t)

	view, err := f.service.GetByID(context.Background(), f.otherManager, false, f.vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, f.vehicle.ID, view.ID)
	assert.Empty(t, view.AssignedDrivers)
}

func TestVehicleAssignedOutsideFleetIsHidden(t *testing.T) {
	f := newVehicleFixture(t)
	require.NoError(t, f.vehicleRepo.Assign(context.Background(), f.otherDriver.ID, f.vehicle.ID))

	_, err := f.service.GetByID(context.Background(), f.manager, false, f.vehicle.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// The owning manager and the admin still see it.
	_, err = f.service.GetByID(context.Background(), f.otherManager, false, f.vehicle.ID)
	assert.NoError(t, err)
	_, err = f.service.GetByID(context.Background(), f.manager, true, f.vehicle.ID)
	assert.NoError(t, err)
}

func TestMixedAssignmentHidesVehicleFromBothManagers(t *testing.T) {
	f := newVehicleFixture(t)
	require.NoError(t, f.vehicleRepo.Assign(context.Background(), f.myDriver.ID, f.vehicle.ID))
	require.NoError(t, f.vehicleRepo.Assign(context.Background(), f.otherDriver.ID, f.vehicle.ID))

	// Visibility requires every assigned driver to report to the manager.
	_, err := f.service.GetByID(context.Background(), f.manager, false, f.vehicle.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.service.GetByID(context.Background(), f.otherManager, false, f.vehicle.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListFiltersInvisibleVehiclesForManagers(t *testing.T) {
	f := newVehicleFixture(t)

	hidden := &models.Vehicle{Make: "Scania", Model: "R500", Year: 2021, LicensePlate: "CB5678CD", Status: models.VehicleStatusAvailable}
	require.NoError(t, f.vehicleRepo.Create(context.Background(), hidden))
	require.NoError(t, f.vehicleRepo.Assign(context.Background(), f.otherDriver.ID, hidden.ID))

	params := &utils.PaginationParams{Page: 1, PageSize: 20}

	views, total, err := f.service.List(context.Background(), f.manager, false, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, views, 1)
	assert.Equal(t, f.vehicle.ID, views[0].ID)

	views, total, err = f.service.List(context.Background(), f.manager, true, params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, views, 2)
}

func TestAssignmentAccessRequiresOwnDriverAndVisibleVehicle(t *testing.T) {
	f := newVehicleFixture(t)

	err := f.service.Assign(context.Background(), f.manager, false, f.otherDriver.ID, f.vehicle.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, f.service.Assign(context.Background(), f.manager, false, f.myDriver.ID, f.vehicle.ID))

	// Once the fleet owns the vehicle, a foreign manager cannot touch it
	// even through their own driver.
	err = f.service.Assign(context.Background(), f.otherManager, false, f.otherDriver.ID, f.vehicle.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// Admins bypass both checks.
	require.NoError(t, f.service.Assign(context.Background(), f.otherManager, true, f.otherDriver.ID, f.vehicle.ID))
}

func TestAssignPrimaryDisplacesPreviousPrimary(t *testing.T) {
	f := newVehicleFixture(t)

	second := &models.Vehicle{Make: "MAN", Model: "TGX", Year: 2020, LicensePlate: "CB9999EE", Status: models.VehicleStatusAvailable}
	require.NoError(t, f.vehicleRepo.Create(context.Background(), second))

	require.NoError(t, f.service.AssignPrimary(context.Background(), f.manager, false, f.myDriver.ID, f.vehicle.ID))
	require.NoError(t, f.service.AssignPrimary(context.Background(), f.manager, false, f.myDriver.ID, second.ID))

	primary, err := f.vehicleRepo.GetPrimaryVehicle(context.Background(), f.myDriver.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, primary.ID)
}

func TestCreateRejectsInvalidPlateAndDuplicates(t *testing.T) {
	f := newVehicleFixture(t)
	admin := primitive.NewObjectID()

	_, err := f.service.Create(context.Background(), admin, &CreateVehiclePayload{Make: "Volvo", Model: "FH16", LicensePlate: "??"})
	assert.ErrorIs(t, err, ErrBadPayload)

	_, err = f.service.Create(context.Background(), admin, &CreateVehiclePayload{Make: "Volvo", Model: "FH16", LicensePlate: "cb1234ab"})
	assert.ErrorIs(t, err, ErrConflict, "plates are compared after normalization")
}

func TestRequestDeletionFlagsVehicleInListing(t *testing.T) {
	f := newVehicleFixture(t)

	_, err := f.service.RequestDeletion(context.Background(), f.manager, f.vehicle.ID, "end of lease")
	require.NoError(t, err)

	view, err := f.service.GetByID(context.Background(), f.manager, false, f.vehicle.ID)
	require.NoError(t, err)
	assert.True(t, view.HasPendingDeletion)
	assert.False(t, view.HasPendingUpdate)
}
