package domain

import "strings"

// LegType classifies one segment of a planned route.
type LegType string

const (
	LegTravel  LegType = "travel"
	LegPickup  LegType = "pickup"
	LegDropoff LegType = "dropoff"
	LegFuel    LegType = "fuel"
	LegRest    LegType = "rest"
)

// Valid reports whether t belongs to the closed set of leg types.
func (t LegType) Valid() bool {
	switch t {
	case LegTravel, LegPickup, LegDropoff, LegFuel, LegRest:
		return true
	}
	return false
}

// Title returns the leg type with its first letter upper-cased ("Travel").
func (t LegType) Title() string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Represents a single travel or stop segment of a trip, in the order it occurs.
// Distances are in miles and durations in hours. A RouteLeg is produced by the
// route builder and is never modified afterwards.
type RouteLeg struct {
	Sequence      int
	StartLocation string
	EndLocation   string
	DistanceMiles float64
	DurationHours float64
	Type          LegType
}
