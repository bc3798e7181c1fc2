package services

import (
	"context"
	"fmt"
	"math"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

const (
	// Fixed on-site time for loading and unloading.
	stopServiceHours      = 1.0
	fuelStopIntervalMiles = 1000.0
)

// RouteData is the ordered leg sequence for a trip plus its aggregate figures.
type RouteData struct {
	Legs               []domain.RouteLeg
	TotalDistanceMiles float64
	TotalDurationHours float64
	FuelStopsNeeded    int
}

func (r *RouteData) Totals() domain.TripTotals {
	return domain.TripTotals{
		TotalDistanceMiles:     r.TotalDistanceMiles,
		EstimatedDurationHours: r.TotalDurationHours,
		FuelStopsNeeded:        r.FuelStopsNeeded,
	}
}

// FuelStopsForDistance returns one stop per full 1000 miles driven.
func FuelStopsForDistance(miles float64) int {
	if miles <= 0 || math.IsNaN(miles) {
		return 0
	}
	return int(math.Floor(miles / fuelStopIntervalMiles))
}

// BuildRoute produces the four legs of a trip: drive to the pickup, load,
// drive to the dropoff, unload. Both drives are looked up concurrently.
// coords may hold already geocoded trip locations; providers that accept
// coordinates then skip geocoding. It may be nil.
func BuildRoute(
	ctx context.Context,
	trip *domain.Trip,
	provider ports.DistanceProvider,
	coords map[string]domain.Coordinates,
) (_ *RouteData, err error) {
	defer obs.Time(ctx, "route.Build")(&err)

	if trip == nil {
		return nil, fmt.Errorf("build route: trip must be non-nil")
	}

	var toPickup, toDropoff ports.DistanceResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := lookupDistance(gctx, provider, coords, trip.CurrentLocation, trip.PickupLocation)
		if err != nil {
			return fmt.Errorf("distance %q -> %q: %w", trip.CurrentLocation, trip.PickupLocation, err)
		}
		toPickup = r
		return nil
	})
	g.Go(func() error {
		r, err := lookupDistance(gctx, provider, coords, trip.PickupLocation, trip.DropoffLocation)
		if err != nil {
			return fmt.Errorf("distance %q -> %q: %w", trip.PickupLocation, trip.DropoffLocation, err)
		}
		toDropoff = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build route: %w", err)
	}

	legs := []domain.RouteLeg{
		{
			StartLocation: trip.CurrentLocation,
			EndLocation:   trip.PickupLocation,
			DistanceMiles: toPickup.Miles(),
			DurationHours: toPickup.Hours(),
			Type:          domain.LegTravel,
		},
		{
			StartLocation: trip.PickupLocation,
			EndLocation:   trip.PickupLocation,
			DurationHours: stopServiceHours,
			Type:          domain.LegPickup,
		},
		{
			StartLocation: trip.PickupLocation,
			EndLocation:   trip.DropoffLocation,
			DistanceMiles: toDropoff.Miles(),
			DurationHours: toDropoff.Hours(),
			Type:          domain.LegTravel,
		},
		{
			StartLocation: trip.DropoffLocation,
			EndLocation:   trip.DropoffLocation,
			DurationHours: stopServiceHours,
			Type:          domain.LegDropoff,
		},
	}
	for i := range legs {
		legs[i].Sequence = i + 1
	}

	totalDistance := toPickup.Miles() + toDropoff.Miles()

	return &RouteData{
		Legs:               legs,
		TotalDistanceMiles: totalDistance,
		TotalDurationHours: toPickup.Hours() + toDropoff.Hours() + 2*stopServiceHours,
		FuelStopsNeeded:    FuelStopsForDistance(totalDistance),
	}, nil
}

func lookupDistance(
	ctx context.Context,
	provider ports.DistanceProvider,
	coords map[string]domain.Coordinates,
	origin string,
	destination string,
) (ports.DistanceResult, error) {
	if cp, ok := provider.(ports.CoordinateDistanceProvider); ok {
		from, okFrom := coords[origin]
		to, okTo := coords[destination]
		if okFrom && okTo {
			return cp.GetDistanceBetween(ctx, origin, destination, from, to)
		}
	}
	return provider.GetDistance(ctx, origin, destination)
}
