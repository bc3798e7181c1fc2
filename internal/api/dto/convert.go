package dto

import (
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/services"
)

func FromTrip(t *domain.Trip) TripResponse {
	return TripResponse{
		ID:                     t.ID.String(),
		CurrentLocation:        t.CurrentLocation,
		PickupLocation:         t.PickupLocation,
		DropoffLocation:        t.DropoffLocation,
		CurrentCycleUsed:       t.CurrentCycleUsed,
		CreatedAt:              t.CreatedAt,
		TotalDistanceMiles:     t.TotalDistanceMiles,
		EstimatedDurationHours: t.EstimatedDurationHours,
		FuelStopsNeeded:        t.FuelStopsNeeded,
	}
}

func FromLegs(legs []domain.RouteLeg) []RouteLegResponse {
	out := make([]RouteLegResponse, 0, len(legs))
	for _, l := range legs {
		out = append(out, RouteLegResponse{
			Sequence:      l.Sequence,
			StartLocation: l.StartLocation,
			EndLocation:   l.EndLocation,
			DistanceMiles: l.DistanceMiles,
			DurationHours: l.DurationHours,
			Type:          string(l.Type),
		})
	}
	return out
}

func FromEntries(entries []domain.DutyLogEntry) []DutyLogEntryResponse {
	out := make([]DutyLogEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, DutyLogEntryResponse{
			Date:          e.DateKey(),
			StartTime:     e.StartTime,
			EndTime:       e.EndTime,
			Status:        string(e.Status),
			StatusLabel:   e.Status.Label(),
			Location:      e.Location,
			DurationHours: e.DurationHours,
			Remarks:       e.Remarks,
		})
	}
	return out
}

func FromCoordinates(c domain.Coordinates) CoordinatesResponse {
	return CoordinatesResponse{Lat: c.Lat, Lon: c.Lon}
}

func FromLogSheets(sheets []services.LogSheet) []LogSheetResponse {
	out := make([]LogSheetResponse, 0, len(sheets))
	for _, s := range sheets {
		out = append(out, LogSheetResponse{
			Date: s.Date,
			Logs: FromEntries(s.Entries),
			Totals: StatusTotalsResponse{
				OffDuty:      s.Totals.OffDuty,
				SleeperBerth: s.Totals.SleeperBerth,
				Driving:      s.Totals.Driving,
				OnDuty:       s.Totals.OnDuty,
			},
		})
	}
	return out
}
