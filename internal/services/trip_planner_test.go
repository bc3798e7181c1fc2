package services

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"trip-planner-service/internal/adapters/distance"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/ports"

	"github.com/google/uuid"
	testingclock "k8s.io/utils/clock/testing"
	_ "modernc.org/sqlite"
)

var plannerNow = time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

func plannerCoords() map[string]domain.Coordinates {
	return map[string]domain.Coordinates{
		"Dallas, TX":    {Lon: -96.797, Lat: 32.7767},
		"Memphis, TN":   {Lon: -90.049, Lat: 35.1495},
		"Nashville, TN": {Lon: -86.7816, Lat: 36.1627},
	}
}

func plannerDistances() *distance.MockDistanceProvider {
	return distance.NewMockDistanceProvider([]distance.MockPair{
		{From: "Dallas, TX", To: "Memphis, TN", Meters: 482_803, Seconds: 6 * 3600},
		{From: "Memphis, TN", To: "Nashville, TN", Meters: 337_962, Seconds: 4 * 3600},
	})
}

type plannerFixture struct {
	conn    *sql.DB
	repo    *repositories.SQLTripRepository
	planner *TripPlanner
}

func newPlannerFixture(t *testing.T) *plannerFixture {
	t.Helper()

	conn, _, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := repositories.InitSchema(conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	repo := repositories.NewSQLTripRepository(conn, db.SQLite)
	planner := NewTripPlanner(repo, &distance.MockGeocoder{Coords: plannerCoords()}, plannerDistances(), domain.PropertyCarrying7018())
	planner.Clock = testingclock.NewFakePassiveClock(plannerNow)

	return &plannerFixture{conn: conn, repo: repo, planner: planner}
}

func (f *plannerFixture) rows(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := f.conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func (f *plannerFixture) assertEmpty(t *testing.T) {
	t.Helper()
	for _, table := range []string{"trips", "route_legs", "duty_log_entries"} {
		if n := f.rows(t, table); n != 0 {
			t.Errorf("%s has %d rows, want 0", table, n)
		}
	}
}

func validRequest() PlanTripRequest {
	return PlanTripRequest{
		CurrentLocation: " Dallas, TX ",
		PickupLocation:  "Memphis, TN",
		DropoffLocation: "Nashville, TN",
	}
}

func TestTripPlannerPlan(t *testing.T) {
	ctx := context.Background()
	f := newPlannerFixture(t)

	plan, err := f.planner.Plan(ctx, validRequest())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	trip := plan.Trip
	if trip.ID == uuid.Nil {
		t.Fatalf("trip id not assigned")
	}
	if trip.CurrentLocation != "Dallas, TX" {
		t.Fatalf("current location = %q, want trimmed", trip.CurrentLocation)
	}
	if !trip.CreatedAt.Equal(plannerNow) {
		t.Fatalf("created at = %v, want %v", trip.CreatedAt, plannerNow)
	}
	if !trip.Planned() {
		t.Fatalf("trip totals not applied")
	}
	if math.Abs(*trip.TotalDistanceMiles-510) > 0.01 || *trip.EstimatedDurationHours != 12 || *trip.FuelStopsNeeded != 0 {
		t.Fatalf("totals = %v mi, %v h, %d stops", *trip.TotalDistanceMiles, *trip.EstimatedDurationHours, *trip.FuelStopsNeeded)
	}

	if plan.Coordinates.Pickup != plannerCoords()["Memphis, TN"] {
		t.Fatalf("pickup coordinates = %+v", plan.Coordinates.Pickup)
	}

	assertEntries(t, plan.Log.Entries, []wantEntry{
		{domain.StatusDriving, 6},
		{domain.StatusOnDuty, 1},
		{domain.StatusDriving, 4},
		{domain.StatusOnDuty, 1},
	})
	if !plan.Log.Entries[0].StartTime.Equal(plannerNow) {
		t.Fatalf("log starts at %v, want %v", plan.Log.Entries[0].StartTime, plannerNow)
	}

	stored, err := f.repo.GetTrip(ctx, trip.ID)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if !stored.Planned() || *stored.FuelStopsNeeded != 0 {
		t.Fatalf("stored trip not planned: %+v", stored)
	}
	if n := f.rows(t, "route_legs"); n != 4 {
		t.Fatalf("route_legs = %d, want 4", n)
	}
	if n := f.rows(t, "duty_log_entries"); n != 4 {
		t.Fatalf("duty_log_entries = %d, want 4", n)
	}
}

func TestTripPlannerPlanStartAtAndCycle(t *testing.T) {
	f := newPlannerFixture(t)

	start := time.Date(2026, 3, 5, 14, 0, 0, 0, time.UTC)
	req := validRequest()
	req.StartAt = &start
	req.CurrentCycleUsed = 30

	plan, err := f.planner.Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	first := plan.Log.Entries[0]
	if first.Status != domain.StatusOffDuty || !first.EndTime.Equal(start) {
		t.Fatalf("first entry = %+v, want off-duty reset ending at start", first)
	}
	if !plan.Trip.CreatedAt.Equal(plannerNow) {
		t.Fatalf("created at = %v, want clock time", plan.Trip.CreatedAt)
	}
	if plan.Trip.CurrentCycleUsed != 30 {
		t.Fatalf("cycle used = %v, want 30", plan.Trip.CurrentCycleUsed)
	}
}

func TestTripPlannerPlanRejectsInvalidRequest(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PlanTripRequest)
	}{
		{"blank current", func(r *PlanTripRequest) { r.CurrentLocation = "  " }},
		{"missing pickup", func(r *PlanTripRequest) { r.PickupLocation = "" }},
		{"missing dropoff", func(r *PlanTripRequest) { r.DropoffLocation = "" }},
		{"negative cycle", func(r *PlanTripRequest) { r.CurrentCycleUsed = -1 }},
		{"cycle above limit", func(r *PlanTripRequest) { r.CurrentCycleUsed = 70.5 }},
		{"NaN cycle", func(r *PlanTripRequest) { r.CurrentCycleUsed = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPlannerFixture(t)
			req := validRequest()
			tt.mutate(&req)

			_, err := f.planner.Plan(context.Background(), req)
			if !errors.Is(err, ErrInvalidTripRequest) {
				t.Fatalf("err = %v, want ErrInvalidTripRequest", err)
			}
			f.assertEmpty(t)
		})
	}
}

func TestTripPlannerPlanGeocodeFailureDiscardsTrip(t *testing.T) {
	f := newPlannerFixture(t)
	coords := plannerCoords()
	delete(coords, "Nashville, TN")
	f.planner.Geocoder = &distance.MockGeocoder{Coords: coords}

	_, err := f.planner.Plan(context.Background(), validRequest())
	if !errors.Is(err, ErrGeocodeFailure) {
		t.Fatalf("err = %v, want ErrGeocodeFailure", err)
	}
	f.assertEmpty(t)
}

func TestTripPlannerPlanDistanceFailureDiscardsTrip(t *testing.T) {
	f := newPlannerFixture(t)
	f.planner.Distances = distance.NewMockDistanceProvider(nil)

	if _, err := f.planner.Plan(context.Background(), validRequest()); err == nil {
		t.Fatalf("expected error when distances are unavailable")
	}
	f.assertEmpty(t)
}

func TestTripPlannerPlanInvalidRulesetDiscardsTrip(t *testing.T) {
	f := newPlannerFixture(t)
	f.planner.Rules.RequiredBreakDuration = 0

	_, err := f.planner.Plan(context.Background(), validRequest())
	if !errors.Is(err, ErrInvalidRuleset) {
		t.Fatalf("err = %v, want ErrInvalidRuleset", err)
	}
	f.assertEmpty(t)
}

// failingRepo fails SavePlan and optionally DeleteTrip, delegating the rest.
type failingRepo struct {
	ports.TripRepository
	deleteErr error
}

func (r *failingRepo) SavePlan(context.Context, uuid.UUID, domain.TripTotals, []domain.RouteLeg, []domain.DutyLogEntry) error {
	return errors.New("disk full")
}

func (r *failingRepo) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	return r.TripRepository.DeleteTrip(ctx, id)
}

func TestTripPlannerPlanSaveFailureDiscardsTrip(t *testing.T) {
	f := newPlannerFixture(t)
	f.planner.Repo = &failingRepo{TripRepository: f.repo}

	_, err := f.planner.Plan(context.Background(), validRequest())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("err = %v, want save failure", err)
	}
	f.assertEmpty(t)
}

func TestTripPlannerPlanReportsDiscardFailure(t *testing.T) {
	f := newPlannerFixture(t)
	discardErr := errors.New("connection lost")
	f.planner.Repo = &failingRepo{TripRepository: f.repo, deleteErr: discardErr}

	_, err := f.planner.Plan(context.Background(), validRequest())
	if !errors.Is(err, discardErr) {
		t.Fatalf("err = %v, want discard failure joined", err)
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("err = %v, want original failure kept", err)
	}
}

func TestTripPlannerPlanCanceledContextStillDiscards(t *testing.T) {
	f := newPlannerFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.planner.Distances = cancelingProvider{cancel: cancel}

	if _, err := f.planner.Plan(ctx, validRequest()); err == nil {
		t.Fatalf("expected error after cancellation")
	}
	f.assertEmpty(t)
}

// cancelingProvider cancels the request context mid-plan.
type cancelingProvider struct {
	cancel context.CancelFunc
}

func (p cancelingProvider) GetDistance(ctx context.Context, _, _ string) (ports.DistanceResult, error) {
	if p.cancel != nil {
		p.cancel()
	}
	<-ctx.Done()
	return ports.DistanceResult{}, ctx.Err()
}

// countingGeocoder counts Geocode calls made through it.
type countingGeocoder struct {
	ports.Geocoder
	calls atomic.Int32
}

func (g *countingGeocoder) Geocode(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	g.calls.Add(1)
	return g.Geocoder.Geocode(ctx, addresses)
}

func TestTripPlannerPlanGeocodesOnce(t *testing.T) {
	f := newPlannerFixture(t)
	geocoder := &countingGeocoder{Geocoder: &distance.MockGeocoder{Coords: plannerCoords()}}
	f.planner.Geocoder = geocoder
	f.planner.Distances = distance.NewStraightLineProvider(geocoder)

	plan, err := f.planner.Plan(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if got := geocoder.calls.Load(); got != 1 {
		t.Fatalf("geocode calls = %d, want 1", got)
	}
	if plan.Route.TotalDistanceMiles <= 0 {
		t.Fatalf("total distance = %v, want positive", plan.Route.TotalDistanceMiles)
	}
}
