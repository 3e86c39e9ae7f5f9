package routing

import (
	"context"
	"math"
)

const (
	earthRadiusKm = 6371.0

	// Straight-line distance understates road distance; scale it up.
	roadFactor = 1.3

	// Assumed average speed for a loaded truck, km/h.
	averageSpeedKmh = 65.0
)

// StaticEstimator approximates routes from great-circle distance. Used
// when no maps API key is configured and as the fallback in tests.
type StaticEstimator struct{}

func NewStaticEstimator() *StaticEstimator {
	return &StaticEstimator{}
}

func (s *StaticEstimator) EstimateRoute(_ context.Context, origin, destination Point) (*RouteEstimate, error) {
	distance := haversineKm(origin, destination) * roadFactor

	return &RouteEstimate{
		DistanceKm:  math.Round(distance*100) / 100,
		DurationMin: int(math.Ceil(distance / averageSpeedKmh * 60)),
	}, nil
}

func haversineKm(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
