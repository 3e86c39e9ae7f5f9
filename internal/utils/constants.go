package utils

import "time"

// Application Constants
const (
	AppName    = "FleetDesk"
	AppVersion = "1.0.0"

	// Default values
	DefaultCurrency = "USD"
	DefaultTimeZone = "UTC"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL = 24 * time.Hour
	PasswordMinLength = 8

	// Trip Constants
	MaxTripDistance  = 5000.0 // kilometers
	MinRating        = 1
	MaxRating        = 5
	TripNumberPrefix = "TRP"
	DefaultFuelPrice = 1.5 // per liter, used when no rate snapshot is provided

	// Vehicle Constants
	MinManufactureYear = 1990

	// Response statuses
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error messages
const (
	ErrInternalServer   = "internal server error"
	ErrUnauthorized     = "unauthorized"
	ErrForbidden        = "forbidden"
	ErrValidationFailed = "validation failed"
)
