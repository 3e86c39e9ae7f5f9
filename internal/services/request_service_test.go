package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"fleetdesk/internal/models"
	"fleetdesk/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type requestFixture struct {
	service      RequestService
	requestRepo  *fakeRequestRepo
	driverRepo   *fakeDriverRepo
	vehicleRepo  *fakeVehicleRepo
	tripRepo     *fakeTripRepo
	userRepo     *fakeUserRepo
	notification *fakeNotificationService
	activity     *fakeActivityService
}

func newRequestFixture() *requestFixture {
	f := &requestFixture{
		requestRepo:  newFakeRequestRepo(),
		driverRepo:   newFakeDriverRepo(),
		vehicleRepo:  newFakeVehicleRepo(),
		tripRepo:     newFakeTripRepo(),
		userRepo:     newFakeUserRepo(),
		notification: &fakeNotificationService{},
		activity:     &fakeActivityService{},
	}
	f.service = NewRequestService(
		f.requestRepo, f.driverRepo, f.vehicleRepo, f.tripRepo, f.userRepo,
		f.notification, f.activity, logger.Default(),
	)
	return f
}

func driverCreationPayload() *CreateDriverPayload {
	return &CreateDriverPayload{
		Email:         "ivan.petrov@example.com",
		FullName:      "Ivan Petrov",
		Phone:         "+359881234567",
		LicenseNumber: "DL-443210",
		Password:      "long-enough-secret",
	}
}

func TestFileDriverCreationSerializesPayload(t *testing.T) {
	f := newRequestFixture()
	manager := primitive.NewObjectID()

	request, err := f.service.FileDriverCreation(context.Background(), manager, driverCreationPayload())
	require.NoError(t, err)

	assert.Equal(t, models.RequestTypeDriverCreation, request.Type)
	assert.Equal(t, models.RequestStatusPending, request.Status)
	assert.Equal(t, manager, request.RequesterID)
	assert.Nil(t, request.TargetID)
	assert.Equal(t, "Ivan Petrov", request.TargetName)

	// The comment must carry the payload losslessly: it is replayed at
	// approval time.
	var decoded CreateDriverPayload
	require.NoError(t, json.Unmarshal([]byte(request.Comment), &decoded))
	assert.Equal(t, *driverCreationPayload(), decoded)
}

func TestResolveApprovalMaterializesDriver(t *testing.T) {
	f := newRequestFixture()
	manager := primitive.NewObjectID()
	admin := primitive.NewObjectID()

	request, err := f.service.FileDriverCreation(context.Background(), manager, driverCreationPayload())
	require.NoError(t, err)

	require.NoError(t, f.service.Resolve(context.Background(), request.ID, true, "welcome aboard", admin))

	stored, err := f.requestRepo.GetByID(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved, stored.Status)
	assert.Equal(t, "welcome aboard", stored.AdminResponse)
	require.NotNil(t, stored.ProcessedByID)
	assert.Equal(t, admin, *stored.ProcessedByID)
	assert.NotNil(t, stored.ProcessedAt)

	user, err := f.userRepo.GetByEmail(context.Background(), "ivan.petrov@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleDriver, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("long-enough-secret")))

	driver, err := f.driverRepo.GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DriverStatusOffline, driver.Status)
	require.NotNil(t, driver.ManagerID)
	assert.Equal(t, manager, *driver.ManagerID, "new driver reports to the requesting manager")

	require.Len(t, f.notification.sent, 1)
	assert.Equal(t, manager, f.notification.sent[0].UserID)
	assert.Equal(t, models.NotificationTypeSuccess, f.notification.sent[0].Type)
	assert.Contains(t, f.notification.sent[0].Message, "welcome aboard")
}

func TestResolveRejectionDoesNotMaterialize(t *testing.T) {
	f := newRequestFixture()
	manager := primitive.NewObjectID()

	request, err := f.service.FileDriverCreation(context.Background(), manager, driverCreationPayload())
	require.NoError(t, err)

	require.NoError(t, f.service.Resolve(context.Background(), request.ID, false, "no headcount", primitive.NewObjectID()))

	_, err = f.userRepo.GetByEmail(context.Background(), "ivan.petrov@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	stored, err := f.requestRepo.GetByID(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusRejected, stored.Status)

	require.Len(t, f.notification.sent, 1)
	assert.Equal(t, models.NotificationTypeError, f.notification.sent[0].Type)
	assert.Contains(t, f.notification.sent[0].Message, "no headcount")
}

func TestResolveTwiceFailsWithAlreadyProcessed(t *testing.T) {
	f := newRequestFixture()

	request, err := f.service.FileDriverCreation(context.Background(), primitive.NewObjectID(), driverCreationPayload())
	require.NoError(t, err)

	require.NoError(t, f.service.Resolve(context.Background(), request.ID, true, "ok", primitive.NewObjectID()))

	err = f.service.Resolve(context.Background(), request.ID, false, "changed my mind", primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	// The second resolve must not touch the outcome.
	stored, err := f.requestRepo.GetByID(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved, stored.Status)
	assert.Equal(t, "ok", stored.AdminResponse)
}

func TestResolveUndecodablePayloadLeavesRequestPending(t *testing.T) {
	f := newRequestFixture()

	request := &models.AdminRequest{
		Type:        models.RequestTypeDriverCreation,
		RequesterID: primitive.NewObjectID(),
		TargetName:  "broken",
		Comment:     "{not json",
	}
	require.NoError(t, f.requestRepo.Create(context.Background(), request))

	err := f.service.Resolve(context.Background(), request.ID, true, "ok", primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrBadPayload)

	stored, getErr := f.requestRepo.GetByID(context.Background(), request.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.RequestStatusPending, stored.Status, "a payload that cannot be replayed must not be claimed")
}

func TestResolveVehicleUpdateAppliesOnlyProvidedFields(t *testing.T) {
	f := newRequestFixture()
	manager := primitive.NewObjectID()

	vehicle := &models.Vehicle{
		Make:            "Volvo",
		Model:           "FH16",
		Year:            2019,
		LicensePlate:    "CB1234AB",
		FuelConsumption: 32.5,
	}
	require.NoError(t, f.vehicleRepo.Create(context.Background(), vehicle))

	newConsumption := 28.0
	request, err := f.service.FileVehicleUpdate(context.Background(), manager, vehicle.ID, vehicle.LicensePlate, &UpdateVehiclePayload{
		FuelConsumption: &newConsumption,
	})
	require.NoError(t, err)

	require.NoError(t, f.service.Resolve(context.Background(), request.ID, true, "approved", primitive.NewObjectID()))

	updated, err := f.vehicleRepo.GetByID(context.Background(), vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, 28.0, updated.FuelConsumption)
	assert.Equal(t, "Volvo", updated.Make)
	assert.Equal(t, 2019, updated.Year)
}

func TestResolveDeletionRemovesDriverAndAccount(t *testing.T) {
	f := newRequestFixture()
	manager := primitive.NewObjectID()

	user := &models.User{Email: "gone@example.com", FullName: "Gone Soon", Role: models.RoleDriver}
	require.NoError(t, f.userRepo.Create(context.Background(), user))
	driver := &models.Driver{UserID: user.ID, ManagerID: &manager, FullName: "Gone Soon", Email: user.Email, LicenseNumber: "DL-1"}
	require.NoError(t, f.driverRepo.Create(context.Background(), driver))

	request, err := f.service.FileDriverDeletion(context.Background(), manager, driver.ID, driver.FullName, "left the company")
	require.NoError(t, err)

	require.NoError(t, f.service.Resolve(context.Background(), request.ID, true, "confirmed", primitive.NewObjectID()))

	_, err = f.driverRepo.GetByID(context.Background(), driver.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.userRepo.GetByID(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveDeletionOfMissingTargetSucceeds(t *testing.T) {
	f := newRequestFixture()
	missing := primitive.NewObjectID()

	request, err := f.service.FileVehicleDeletion(context.Background(), primitive.NewObjectID(), missing, "scrapped", "")
	require.NoError(t, err)

	// The target vanished between filing and approval; the request still
	// resolves cleanly.
	assert.NoError(t, f.service.Resolve(context.Background(), request.ID, true, "ok", primitive.NewObjectID()))
}

func TestPurgeRemovesOnlyProcessedRequests(t *testing.T) {
	f := newRequestFixture()
	manager := primitive.NewObjectID()

	first, err := f.service.FileDriverCreation(context.Background(), manager, driverCreationPayload())
	require.NoError(t, err)
	second, err := f.service.FileVehicleDeletion(context.Background(), manager, primitive.NewObjectID(), "old truck", "")
	require.NoError(t, err)

	require.NoError(t, f.service.Resolve(context.Background(), second.ID, false, "keep it", primitive.NewObjectID()))

	deleted, err := f.service.Purge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	pending, err := f.service.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	_, err = f.requestRepo.GetByID(context.Background(), second.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPendingProjectionsSplitByKindAndEntity(t *testing.T) {
	f := newRequestFixture()
	manager := primitive.NewObjectID()
	driverID := primitive.NewObjectID()
	vehicleID := primitive.NewObjectID()

	_, err := f.service.FileDriverDeletion(context.Background(), manager, driverID, "Ivan Petrov", "")
	require.NoError(t, err)
	name := "FH16"
	_, err = f.service.FileVehicleUpdate(context.Background(), manager, vehicleID, "CB1234AB", &UpdateVehiclePayload{Model: &name})
	require.NoError(t, err)

	deletions, err := f.service.PendingDeletionIDs(context.Background(), EntityTypeDriver)
	require.NoError(t, err)
	assert.True(t, deletions[driverID.Hex()])
	assert.False(t, deletions[vehicleID.Hex()])

	updates, err := f.service.PendingUpdateIDs(context.Background(), EntityTypeVehicle)
	require.NoError(t, err)
	assert.True(t, updates[vehicleID.Hex()])
	assert.False(t, updates[driverID.Hex()])
}
