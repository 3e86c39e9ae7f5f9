package routing

import "context"

// RouteEstimator resolves the driving route between two points. The
// static estimator stands in when no maps provider is configured.
type RouteEstimator interface {
	EstimateRoute(ctx context.Context, origin, destination Point) (*RouteEstimate, error)
}

type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RouteEstimate struct {
	DistanceKm  float64 `json:"distance_km"`
	DurationMin int     `json:"duration_min"`
	Polyline    string  `json:"polyline"`
}
