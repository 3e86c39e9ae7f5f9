package validators

import (
	"fleetdesk/internal/services"
	"fleetdesk/internal/utils"
)

// ValidateCreateTrip checks the parts of the trip input that binding
// tags cannot express.
func ValidateCreateTrip(input *services.CreateTripInput) ValidationErrors {
	var errs ValidationErrors

	if structErrs := ValidateStruct(input); len(structErrs) > 0 {
		errs = append(errs, structErrs...)
	}

	if !input.ScheduledArrival.After(input.ScheduledDeparture) {
		errs = append(errs, ValidationError{
			Field:   "ScheduledArrival",
			Tag:     "after_departure",
			Message: "Scheduled arrival must be after scheduled departure",
		})
	}
	if input.PaymentAmount < 0 {
		errs = append(errs, ValidationError{
			Field:   "PaymentAmount",
			Tag:     "min",
			Message: "Payment amount cannot be negative",
		})
	}
	if input.FuelPrice != nil && *input.FuelPrice <= 0 {
		errs = append(errs, ValidationError{
			Field:   "FuelPrice",
			Tag:     "min",
			Message: "Fuel price must be positive",
		})
	}
	if input.Cargo.WeightKg < 0 {
		errs = append(errs, ValidationError{
			Field:   "WeightKg",
			Tag:     "min",
			Message: "Cargo weight cannot be negative",
		})
	}

	return errs
}

// ValidateFeedback checks a rating against the allowed band.
func ValidateFeedback(rating *int) ValidationErrors {
	if rating == nil {
		return nil
	}
	if *rating < utils.MinRating || *rating > utils.MaxRating {
		return ValidationErrors{{
			Field:   "Rating",
			Tag:     "rating_value",
			Message: getRatingMessage(),
		}}
	}
	return nil
}

func getRatingMessage() string {
	return "Rating must be between 1 and 5"
}
