package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"github.com/google/uuid"
	"k8s.io/utils/clock"
)

type PlanTripRequest struct {
	CurrentLocation  string
	PickupLocation   string
	DropoffLocation  string
	CurrentCycleUsed float64
	// Optional. Defaults to the planner clock's current time.
	StartAt *time.Time
}

// TripPlan is everything produced for a successfully planned trip.
type TripPlan struct {
	Trip        *domain.Trip
	Route       *RouteData
	Coordinates TripCoordinates
	Log         *domain.DutyLog
}

type TripCoordinates struct {
	Current domain.Coordinates
	Pickup  domain.Coordinates
	Dropoff domain.Coordinates
}

// TripPlanner sequences geocoding, route building, HOS simulation and
// persistence for a new trip. Either the whole plan is stored or nothing is.
type TripPlanner struct {
	Repo      ports.TripRepository
	Geocoder  ports.Geocoder
	Distances ports.DistanceProvider
	Rules     domain.Ruleset
	Clock     clock.PassiveClock
}

func NewTripPlanner(
	repo ports.TripRepository,
	geocoder ports.Geocoder,
	distances ports.DistanceProvider,
	rules domain.Ruleset,
) *TripPlanner {
	return &TripPlanner{
		Repo:      repo,
		Geocoder:  geocoder,
		Distances: distances,
		Rules:     rules,
		Clock:     clock.RealClock{},
	}
}

func (p *TripPlanner) Plan(ctx context.Context, req PlanTripRequest) (_ *TripPlan, err error) {
	defer obs.Time(ctx, "trip.Plan")(&err)

	req.CurrentLocation = strings.TrimSpace(req.CurrentLocation)
	req.PickupLocation = strings.TrimSpace(req.PickupLocation)
	req.DropoffLocation = strings.TrimSpace(req.DropoffLocation)

	if err := p.validate(req); err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	now := p.Clock.Now()
	start := now
	if req.StartAt != nil {
		start = *req.StartAt
	}

	trip := &domain.Trip{
		ID:               uuid.New(),
		CurrentLocation:  req.CurrentLocation,
		PickupLocation:   req.PickupLocation,
		DropoffLocation:  req.DropoffLocation,
		CurrentCycleUsed: req.CurrentCycleUsed,
		CreatedAt:        now,
	}

	if err := p.Repo.CreateTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("plan trip: create trip: %w", err)
	}

	plan, err := p.planCreated(ctx, trip, start)
	if err != nil {
		// Compensate: the trip row must not outlive a failed plan.
		if derr := p.Repo.DeleteTrip(context.WithoutCancel(ctx), trip.ID); derr != nil {
			log.Printf("trip_id=%s op=trip.Plan discard failed: %v", trip.ID, derr)
			return nil, errors.Join(err, fmt.Errorf("plan trip: discard trip %s: %w", trip.ID, derr))
		}
		log.Printf("trip_id=%s op=trip.Plan discarded after failure: %v", trip.ID, err)
		return nil, err
	}

	return plan, nil
}

func (p *TripPlanner) planCreated(ctx context.Context, trip *domain.Trip, start time.Time) (*TripPlan, error) {
	addresses := []string{trip.CurrentLocation, trip.PickupLocation, trip.DropoffLocation}
	coords, err := p.Geocoder.Geocode(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w: %w", ErrGeocodeFailure, err)
	}
	for _, a := range addresses {
		if _, ok := coords[a]; !ok {
			return nil, fmt.Errorf("plan trip: %w: no coordinates for %q", ErrGeocodeFailure, a)
		}
	}

	route, err := BuildRoute(ctx, trip, p.Distances, coords)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	dutyLog, err := SimulateDutyLog(p.Rules, route.Legs, trip.CurrentCycleUsed, start)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	totals := route.Totals()
	if err := p.Repo.SavePlan(ctx, trip.ID, totals, route.Legs, dutyLog.Entries); err != nil {
		return nil, fmt.Errorf("plan trip: save plan: %w", err)
	}
	trip.Apply(totals)

	return &TripPlan{
		Trip:  trip,
		Route: route,
		Coordinates: TripCoordinates{
			Current: coords[trip.CurrentLocation],
			Pickup:  coords[trip.PickupLocation],
			Dropoff: coords[trip.DropoffLocation],
		},
		Log: dutyLog,
	}, nil
}

func (p *TripPlanner) validate(req PlanTripRequest) error {
	if req.CurrentLocation == "" || req.PickupLocation == "" || req.DropoffLocation == "" {
		return fmt.Errorf("%w: current, pickup and dropoff locations are required", ErrInvalidTripRequest)
	}

	c := req.CurrentCycleUsed
	if math.IsNaN(c) || c < 0 || c > p.Rules.MaxOnDutyWeekly {
		return fmt.Errorf("%w: current_cycle_used must be between 0 and %g hours, got %g",
			ErrInvalidTripRequest, p.Rules.MaxOnDutyWeekly, c)
	}

	return nil
}
