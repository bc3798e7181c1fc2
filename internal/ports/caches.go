package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// GeocodeCache stores address -> coordinate lookups between requests.
// Misses are simply absent from the returned map.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}

// DistanceCache stores origin -> destination routing results.
type DistanceCache interface {
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
	PutMany(ctx context.Context, origin string, results map[string]DistanceResult) error
}
