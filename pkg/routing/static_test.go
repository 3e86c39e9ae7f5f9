package routing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sofia = Point{Latitude: 42.6977, Longitude: 23.3219}
	varna = Point{Latitude: 43.2141, Longitude: 27.9147}
)

func TestStaticEstimateIsPlausibleForKnownRoute(t *testing.T) {
	estimate, err := NewStaticEstimator().EstimateRoute(context.Background(), sofia, varna)
	require.NoError(t, err)

	// Great-circle Sofia to Varna is roughly 380 km; with the road factor
	// the estimate should land in the 450-550 km band.
	assert.Greater(t, estimate.DistanceKm, 450.0)
	assert.Less(t, estimate.DistanceKm, 550.0)
	assert.Greater(t, estimate.DurationMin, 0)
	assert.Empty(t, estimate.Polyline)
}

func TestStaticEstimateIsSymmetric(t *testing.T) {
	estimator := NewStaticEstimator()

	forward, err := estimator.EstimateRoute(context.Background(), sofia, varna)
	require.NoError(t, err)
	backward, err := estimator.EstimateRoute(context.Background(), varna, sofia)
	require.NoError(t, err)

	assert.InDelta(t, forward.DistanceKm, backward.DistanceKm, 0.01)
}

func TestStaticEstimateZeroForIdenticalPoints(t *testing.T) {
	estimate, err := NewStaticEstimator().EstimateRoute(context.Background(), sofia, sofia)
	require.NoError(t, err)

	assert.Equal(t, 0.0, estimate.DistanceKm)
	assert.Equal(t, 0, estimate.DurationMin)
}
