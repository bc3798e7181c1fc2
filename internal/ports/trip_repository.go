package ports

import (
	"context"
	"errors"
	"trip-planner-service/internal/domain"

	"github.com/google/uuid"
)

var ErrTripNotFound = errors.New("trip not found")

// Port: a boundary for storing trips together with their legs and duty logs.
type TripRepository interface {
	// Persist a new, unplanned trip.
	CreateTrip(ctx context.Context, trip *domain.Trip) error
	// Store computed totals, legs and log entries for a trip atomically.
	SavePlan(ctx context.Context, tripID uuid.UUID, totals domain.TripTotals, legs []domain.RouteLeg, entries []domain.DutyLogEntry) error
	// Remove a trip and everything attached to it. Deleting a missing trip is not an error.
	DeleteTrip(ctx context.Context, tripID uuid.UUID) error

	GetTrip(ctx context.Context, tripID uuid.UUID) (*domain.Trip, error)
	// Trips ordered newest first.
	ListTrips(ctx context.Context) ([]*domain.Trip, error)
	ListLegs(ctx context.Context, tripID uuid.UUID) ([]domain.RouteLeg, error)
	ListLogEntries(ctx context.Context, tripID uuid.UUID) ([]domain.DutyLogEntry, error)
}
