package services

import (
	"context"

	"fleetdesk/internal/models"
	"fleetdesk/internal/repositories/interfaces"
	"fleetdesk/internal/utils"
)

type AnalyticsService interface {
	GetDashboard(ctx context.Context) (*DashboardStats, error)
	GetMonthlyEarnings(ctx context.Context, months int) ([]*utils.MonthlyEarnings, error)
}

type DashboardStats struct {
	Trips           map[models.TripStatus]int64   `json:"trips"`
	Drivers         map[models.DriverStatus]int64 `json:"drivers"`
	PendingRequests int64                         `json:"pending_requests"`
}

type analyticsService struct {
	tripRepo    interfaces.TripRepository
	driverRepo  interfaces.DriverRepository
	requestRepo interfaces.RequestRepository
}

func NewAnalyticsService(tripRepo interfaces.TripRepository, driverRepo interfaces.DriverRepository, requestRepo interfaces.RequestRepository) AnalyticsService {
	return &analyticsService{
		tripRepo:    tripRepo,
		driverRepo:  driverRepo,
		requestRepo: requestRepo,
	}
}

func (s *analyticsService) GetDashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		Trips:   make(map[models.TripStatus]int64),
		Drivers: make(map[models.DriverStatus]int64),
	}

	tripStatuses := []models.TripStatus{
		models.TripStatusPending,
		models.TripStatusAccepted,
		models.TripStatusInTransit,
		models.TripStatusArrived,
		models.TripStatusCompleted,
		models.TripStatusCancelled,
	}
	for _, status := range tripStatuses {
		count, err := s.tripRepo.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		stats.Trips[status] = count
	}

	driverStatuses := []models.DriverStatus{
		models.DriverStatusOffline,
		models.DriverStatusAvailable,
		models.DriverStatusOnTrip,
		models.DriverStatusOnBreak,
	}
	for _, status := range driverStatuses {
		count, err := s.driverRepo.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		stats.Drivers[status] = count
	}

	pending, err := s.requestRepo.GetPending(ctx)
	if err != nil {
		return nil, err
	}
	stats.PendingRequests = int64(len(pending))

	return stats, nil
}

func (s *analyticsService) GetMonthlyEarnings(ctx context.Context, months int) ([]*utils.MonthlyEarnings, error) {
	if months <= 0 || months > 24 {
		months = 12
	}
	return s.tripRepo.GetEarningsByMonth(ctx, months)
}
