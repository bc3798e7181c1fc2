package dto

import "time"

type CreateTripRequest struct {
	CurrentLocation  string     `json:"current_location"`
	PickupLocation   string     `json:"pickup_location"`
	DropoffLocation  string     `json:"dropoff_location"`
	CurrentCycleUsed *float64   `json:"current_cycle_used"`
	StartAt          *time.Time `json:"start_at"`
}

type RouteLegResponse struct {
	Sequence      int     `json:"sequence_order"`
	StartLocation string  `json:"start_location"`
	EndLocation   string  `json:"end_location"`
	DistanceMiles float64 `json:"distance"`
	DurationHours float64 `json:"duration"`
	Type          string  `json:"segment_type"`
}

type DutyLogEntryResponse struct {
	Date          string    `json:"log_date"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"duty_status"`
	StatusLabel   string    `json:"duty_status_label"`
	Location      string    `json:"location"`
	DurationHours float64   `json:"duration"`
	Remarks       string    `json:"remarks"`
}

// TripResponse carries legs and log entries only on detail and create responses.
type TripResponse struct {
	ID                     string    `json:"id"`
	CurrentLocation        string    `json:"current_location"`
	PickupLocation         string    `json:"pickup_location"`
	DropoffLocation        string    `json:"dropoff_location"`
	CurrentCycleUsed       float64   `json:"current_cycle_used"`
	CreatedAt              time.Time `json:"created_at"`
	TotalDistanceMiles     *float64  `json:"total_distance"`
	EstimatedDurationHours *float64  `json:"estimated_duration"`
	FuelStopsNeeded        *int      `json:"fuel_stops_needed"`

	RouteSegments []RouteLegResponse     `json:"route_segments,omitempty"`
	DutyLogs      []DutyLogEntryResponse `json:"eld_logs,omitempty"`
}

type ListTripsResponse struct {
	Trips []TripResponse `json:"trips"`
}

type CoordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type RouteCoordinatesResponse struct {
	Current CoordinatesResponse `json:"current"`
	Pickup  CoordinatesResponse `json:"pickup"`
	Dropoff CoordinatesResponse `json:"dropoff"`
}

type CreateTripResponse struct {
	Trip             TripResponse             `json:"trip"`
	RouteCoordinates RouteCoordinatesResponse `json:"route_coordinates"`
	Message          string                   `json:"message"`
}

type ListRouteLegsResponse struct {
	TripID string             `json:"trip_id"`
	Legs   []RouteLegResponse `json:"route_segments"`
}

type ListDutyLogsResponse struct {
	TripID string                 `json:"trip_id"`
	Logs   []DutyLogEntryResponse `json:"eld_logs"`
}
