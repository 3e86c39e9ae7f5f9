package validators

import (
	"time"

	"fleetdesk/internal/services"
	"fleetdesk/internal/utils"
)

func ValidateCreateDriver(payload *services.CreateDriverPayload) ValidationErrors {
	var errs ValidationErrors

	if structErrs := ValidateStruct(payload); len(structErrs) > 0 {
		errs = append(errs, structErrs...)
	}

	if !utils.IsValidEmail(payload.Email) {
		errs = append(errs, ValidationError{
			Field:   "Email",
			Tag:     "email",
			Message: "Invalid email format",
		})
	}
	if !utils.IsValidPassword(payload.Password) {
		errs = append(errs, ValidationError{
			Field:   "Password",
			Tag:     "strong_password",
			Message: "Password must be at least 8 characters with a letter and a digit",
		})
	}

	return errs
}

func ValidateCreateVehicle(payload *services.CreateVehiclePayload) ValidationErrors {
	var errs ValidationErrors

	if structErrs := ValidateStruct(payload); len(structErrs) > 0 {
		errs = append(errs, structErrs...)
	}

	if !utils.IsValidLicensePlate(payload.LicensePlate) {
		errs = append(errs, ValidationError{
			Field:   "LicensePlate",
			Tag:     "license_plate",
			Message: "Invalid license plate format",
		})
	}
	if payload.Year != 0 && (payload.Year < utils.MinManufactureYear || payload.Year > time.Now().Year()+1) {
		errs = append(errs, ValidationError{
			Field:   "Year",
			Tag:     "manufacture_year",
			Message: "Manufacture year is out of range",
		})
	}
	if payload.FuelConsumption < 0 {
		errs = append(errs, ValidationError{
			Field:   "FuelConsumption",
			Tag:     "min",
			Message: "Fuel consumption cannot be negative",
		})
	}

	return errs
}
