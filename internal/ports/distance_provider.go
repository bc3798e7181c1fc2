package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

const (
	metersPerMile  = 1609.344
	secondsPerHour = 3600.0
)

// Distance and travel duration between two locations.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Miles converts the distance to statute miles.
func (r DistanceResult) Miles() float64 { return float64(r.DistanceMeters) / metersPerMile }

// Hours converts the travel duration to hours.
func (r DistanceResult) Hours() float64 { return float64(r.DurationSeconds) / secondsPerHour }

// Contract for retrieving travel distance and duration between locations.
type DistanceProvider interface {
	// Return travel distance and estimated duration between two locations.
	GetDistance(ctx context.Context, origin string, destination string) (DistanceResult, error)
}

// Optional extension for providers that can skip geocoding when the caller
// already holds coordinates for both ends.
type CoordinateDistanceProvider interface {
	DistanceProvider
	GetDistanceBetween(
		ctx context.Context,
		origin string,
		destination string,
		from domain.Coordinates,
		to domain.Coordinates,
	) (DistanceResult, error)
}
