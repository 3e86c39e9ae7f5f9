package routing

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

type GoogleEstimator struct {
	client *maps.Client
}

func NewGoogleEstimator(apiKey string) (*GoogleEstimator, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return &GoogleEstimator{
		client: client,
	}, nil
}

func (g *GoogleEstimator) EstimateRoute(ctx context.Context, origin, destination Point) (*RouteEstimate, error) {
	req := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude),
		Destination: fmt.Sprintf("%f,%f", destination.Latitude, destination.Longitude),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := g.client.Directions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, fmt.Errorf("no route found between %v and %v", origin, destination)
	}

	leg := routes[0].Legs[0]

	return &RouteEstimate{
		DistanceKm:  float64(leg.Distance.Meters) / 1000,
		DurationMin: int(leg.Duration.Minutes()),
		Polyline:    routes[0].OverviewPolyline.Points,
	}, nil
}
