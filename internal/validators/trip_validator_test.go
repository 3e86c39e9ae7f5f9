package validators

import (
	"testing"
	"time"

	"fleetdesk/internal/services"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validTripInput() *services.CreateTripInput {
	return &services.CreateTripInput{
		DriverID:           primitive.NewObjectID(),
		Origin:             services.LocationInput{City: "Sofia", Address: "1 Industrial Blvd"},
		Destination:        services.LocationInput{City: "Varna", Address: "9 Port Rd"},
		Cargo:              services.CargoInput{Name: "Steel coils", WeightKg: 18000},
		ScheduledDeparture: time.Now().Add(24 * time.Hour),
		ScheduledArrival:   time.Now().Add(36 * time.Hour),
		PaymentAmount:      900,
	}
}

func TestValidateCreateTripAcceptsValidInput(t *testing.T) {
	assert.Empty(t, ValidateCreateTrip(validTripInput()))
}

func TestValidateCreateTripRejectsArrivalBeforeDeparture(t *testing.T) {
	input := validTripInput()
	input.ScheduledArrival = input.ScheduledDeparture.Add(-time.Hour)

	errs := ValidateCreateTrip(input)
	assert.Contains(t, errs.ToMap(), "ScheduledArrival")
}

func TestValidateCreateTripRejectsNegativeAmounts(t *testing.T) {
	input := validTripInput()
	input.PaymentAmount = -1
	input.Cargo.WeightKg = -5
	badPrice := 0.0
	input.FuelPrice = &badPrice

	errs := ValidateCreateTrip(input)
	errMap := errs.ToMap()
	assert.Contains(t, errMap, "PaymentAmount")
	assert.Contains(t, errMap, "WeightKg")
	assert.Contains(t, errMap, "FuelPrice")
}

func TestValidateFeedbackBounds(t *testing.T) {
	assert.Empty(t, ValidateFeedback(nil))

	ok := 3
	assert.Empty(t, ValidateFeedback(&ok))

	low, high := 0, 6
	assert.NotEmpty(t, ValidateFeedback(&low))
	assert.NotEmpty(t, ValidateFeedback(&high))
}
