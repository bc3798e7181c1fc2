package domain

import (
	"time"

	"github.com/google/uuid"
)

// A planned trip from the driver's current location through a pickup to a
// dropoff. The computed fields are nil until a plan has been stored.
type Trip struct {
	ID               uuid.UUID
	CurrentLocation  string
	PickupLocation   string
	DropoffLocation  string
	CurrentCycleUsed float64
	CreatedAt        time.Time

	TotalDistanceMiles     *float64
	EstimatedDurationHours *float64
	FuelStopsNeeded        *int
}

// Planned reports whether route totals have been computed for the trip.
func (t *Trip) Planned() bool {
	return t.TotalDistanceMiles != nil && t.EstimatedDurationHours != nil && t.FuelStopsNeeded != nil
}

// Aggregate figures computed for a trip once its route is known.
type TripTotals struct {
	TotalDistanceMiles     float64
	EstimatedDurationHours float64
	FuelStopsNeeded        int
}

// Apply copies computed totals onto the trip.
func (t *Trip) Apply(totals TripTotals) {
	dist := totals.TotalDistanceMiles
	dur := totals.EstimatedDurationHours
	stops := totals.FuelStopsNeeded
	t.TotalDistanceMiles = &dist
	t.EstimatedDurationHours = &dur
	t.FuelStopsNeeded = &stops
}
