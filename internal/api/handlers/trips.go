package handlers

import (
	"context"
	"net/http"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"
)

type TripPlanner interface {
	Plan(ctx context.Context, req services.PlanTripRequest) (*services.TripPlan, error)
}

// TripHandler exposes trip planning and the read-only views of stored plans.
type TripHandler struct {
	Planner TripPlanner
	Repo    ports.TripRepository
	Rules   domain.Ruleset
}

func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.CurrentCycleUsed == nil {
		writeError(w, r, http.StatusBadRequest, "current_cycle_used is required")
		return
	}

	plan, err := h.Planner.Plan(r.Context(), services.PlanTripRequest{
		CurrentLocation:  req.CurrentLocation,
		PickupLocation:   req.PickupLocation,
		DropoffLocation:  req.DropoffLocation,
		CurrentCycleUsed: *req.CurrentCycleUsed,
		StartAt:          req.StartAt,
	})
	if err != nil {
		writeServiceError(w, r, "plan trip", err)
		return
	}

	trip := dto.FromTrip(plan.Trip)
	trip.RouteSegments = dto.FromLegs(plan.Route.Legs)
	trip.DutyLogs = dto.FromEntries(plan.Log.Entries)

	writeJSON(w, r, http.StatusCreated, dto.CreateTripResponse{
		Trip: trip,
		RouteCoordinates: dto.RouteCoordinatesResponse{
			Current: dto.FromCoordinates(plan.Coordinates.Current),
			Pickup:  dto.FromCoordinates(plan.Coordinates.Pickup),
			Dropoff: dto.FromCoordinates(plan.Coordinates.Dropoff),
		},
		Message: "Trip planned successfully",
	})
}

func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	trips, err := h.Repo.ListTrips(r.Context())
	if err != nil {
		writeServiceError(w, r, "list trips", err)
		return
	}

	res := dto.ListTripsResponse{Trips: make([]dto.TripResponse, 0, len(trips))}
	for _, t := range trips {
		res.Trips = append(res.Trips, dto.FromTrip(t))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.loadTrip(w, r)
	if !ok {
		return
	}

	legs, err := h.Repo.ListLegs(r.Context(), trip.ID)
	if err != nil {
		writeServiceError(w, r, "list legs", err)
		return
	}
	entries, err := h.Repo.ListLogEntries(r.Context(), trip.ID)
	if err != nil {
		writeServiceError(w, r, "list log entries", err)
		return
	}

	res := dto.FromTrip(trip)
	res.RouteSegments = dto.FromLegs(legs)
	res.DutyLogs = dto.FromEntries(entries)

	writeJSON(w, r, http.StatusOK, res)
}

func (h *TripHandler) Route(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.loadTrip(w, r)
	if !ok {
		return
	}

	legs, err := h.Repo.ListLegs(r.Context(), trip.ID)
	if err != nil {
		writeServiceError(w, r, "list legs", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListRouteLegsResponse{
		TripID: trip.ID.String(),
		Legs:   dto.FromLegs(legs),
	})
}

func (h *TripHandler) Logs(w http.ResponseWriter, r *http.Request) {
	trip, entries, ok := h.loadTripEntries(w, r)
	if !ok {
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListDutyLogsResponse{
		TripID: trip.ID.String(),
		Logs:   dto.FromEntries(entries),
	})
}

func (h *TripHandler) LogSheets(w http.ResponseWriter, r *http.Request) {
	trip, entries, ok := h.loadTripEntries(w, r)
	if !ok {
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListLogSheetsResponse{
		TripID:    trip.ID.String(),
		LogSheets: dto.FromLogSheets(services.BuildLogSheets(entries)),
	})
}

func (h *TripHandler) Summary(w http.ResponseWriter, r *http.Request) {
	trip, entries, ok := h.loadTripEntries(w, r)
	if !ok {
		return
	}

	s := services.Summarize(trip, entries, h.Rules)

	writeJSON(w, r, http.StatusOK, dto.TripSummaryResponse{
		TripID:  trip.ID.String(),
		Trip:    dto.FromTrip(trip),
		Ruleset: h.Rules.Name,
		TimeSummary: dto.TimeSummaryResponse{
			TotalDrivingHours:        s.Time.TotalDrivingHours,
			TotalOnDutyHours:         s.Time.TotalOnDutyHours,
			TotalOffDutyHours:        s.Time.TotalOffDutyHours,
			EstimatedCompletionHours: s.Time.EstimatedCompletionHours,
		},
		Compliance: dto.ComplianceResponse{
			WithinDailyDrivingLimit: s.Compliance.WithinDailyDrivingLimit,
			WithinDailyDutyLimit:    s.Compliance.WithinDailyDutyLimit,
			WithinCycleLimit:        s.Compliance.WithinCycleLimit,
			HasRequiredBreaks:       s.Compliance.HasRequiredBreaks,
		},
	})
}

func (h *TripHandler) loadTrip(w http.ResponseWriter, r *http.Request) (*domain.Trip, bool) {
	id, ok := tripID(w, r)
	if !ok {
		return nil, false
	}

	trip, err := h.Repo.GetTrip(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get trip", err)
		return nil, false
	}
	return trip, true
}

func (h *TripHandler) loadTripEntries(w http.ResponseWriter, r *http.Request) (*domain.Trip, []domain.DutyLogEntry, bool) {
	trip, ok := h.loadTrip(w, r)
	if !ok {
		return nil, nil, false
	}

	entries, err := h.Repo.ListLogEntries(r.Context(), trip.ID)
	if err != nil {
		writeServiceError(w, r, "list log entries", err)
		return nil, nil, false
	}
	return trip, entries, true
}
