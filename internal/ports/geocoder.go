package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// Geocoder resolves free-form addresses to coordinates.
type Geocoder interface {
	// Geocode returns coordinates keyed by the addresses as given.
	// It fails if any address cannot be resolved.
	Geocode(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
}
