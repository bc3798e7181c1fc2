package distance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

const (
	earthRadiusMiles = 3958.7613
	metersPerMile    = 1609.344
	// Average loaded-truck speed used when no road routing is available.
	DefaultTruckSpeedMPH = 55.0
)

// StraightLineProvider estimates travel as the great-circle distance between
// geocoded endpoints driven at a constant average speed. It needs no routing
// API, only a Geocoder.
type StraightLineProvider struct {
	Geocoder ports.Geocoder
	SpeedMPH float64
}

func NewStraightLineProvider(geocoder ports.Geocoder) *StraightLineProvider {
	return &StraightLineProvider{Geocoder: geocoder, SpeedMPH: DefaultTruckSpeedMPH}
}

func (p *StraightLineProvider) GetDistance(
	ctx context.Context,
	origin string,
	destination string,
) (ports.DistanceResult, error) {
	if p.Geocoder == nil {
		return ports.DistanceResult{}, errors.New("straight line distance: geocoder is nil")
	}
	if p.SpeedMPH <= 0 {
		return ports.DistanceResult{}, fmt.Errorf("straight line distance: speed must be positive, got %g", p.SpeedMPH)
	}

	coords, err := p.Geocoder.Geocode(ctx, []string{origin, destination})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("straight line distance %q -> %q: %w", origin, destination, err)
	}

	return p.estimate(coords[origin], coords[destination]), nil
}

// GetDistanceBetween estimates from coordinates the caller already resolved.
func (p *StraightLineProvider) GetDistanceBetween(
	_ context.Context,
	_ string,
	_ string,
	from domain.Coordinates,
	to domain.Coordinates,
) (ports.DistanceResult, error) {
	if p.SpeedMPH <= 0 {
		return ports.DistanceResult{}, fmt.Errorf("straight line distance: speed must be positive, got %g", p.SpeedMPH)
	}
	return p.estimate(from, to), nil
}

func (p *StraightLineProvider) estimate(from, to domain.Coordinates) ports.DistanceResult {
	miles := GreatCircleMiles(from, to)
	hours := miles / p.SpeedMPH

	return ports.DistanceResult{
		DistanceMeters:  int(math.Round(miles * metersPerMile)),
		DurationSeconds: int(math.Round(hours * 3600)),
	}
}

// GreatCircleMiles returns the haversine distance between two points.
func GreatCircleMiles(a, b domain.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(h)))
}
