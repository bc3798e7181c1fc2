package services

import "errors"

var (
	// One or more trip locations could not be resolved to coordinates.
	ErrGeocodeFailure = errors.New("geocode failure")
	// A leg or the initial cycle hours violate the simulator's input contract.
	ErrInvalidLegPrecondition = errors.New("invalid leg precondition")
	ErrInvalidTripRequest     = errors.New("invalid trip request")
	ErrInvalidRuleset         = errors.New("invalid ruleset")
)
