package services

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"
	"trip-planner-service/internal/domain"
)

var simStart = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func travel(from, to string, miles, hours float64) domain.RouteLeg {
	return domain.RouteLeg{StartLocation: from, EndLocation: to, DistanceMiles: miles, DurationHours: hours, Type: domain.LegTravel}
}

func stop(kind domain.LegType, at string, hours float64) domain.RouteLeg {
	return domain.RouteLeg{StartLocation: at, EndLocation: at, DurationHours: hours, Type: kind}
}

func mustSimulate(t *testing.T, legs []domain.RouteLeg, cycle float64) *domain.DutyLog {
	t.Helper()
	log, err := SimulateDutyLog(domain.PropertyCarrying7018(), legs, cycle, simStart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return log
}

type wantEntry struct {
	status domain.DutyStatus
	hours  float64
}

func assertEntries(t *testing.T, got []domain.DutyLogEntry, want []wantEntry) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Status != w.status || !approxEqual(got[i].DurationHours, w.hours) {
			t.Errorf("entry %d = %s/%gh, want %s/%gh", i, got[i].Status, got[i].DurationHours, w.status, w.hours)
		}
	}
}

func assertContiguous(t *testing.T, entries []domain.DutyLogEntry) {
	t.Helper()
	for i, e := range entries {
		if !e.EndTime.Equal(e.StartTime.Add(hoursToDuration(e.DurationHours))) {
			t.Errorf("entry %d: end %v does not match start %v + %gh", i, e.EndTime, e.StartTime, e.DurationHours)
		}
		if i == 0 {
			continue
		}
		prev := entries[i-1]
		if !prev.EndTime.Equal(e.StartTime) {
			t.Errorf("entry %d starts at %v, previous ended at %v", i, e.StartTime, prev.EndTime)
		}
		if e.StartTime.Before(prev.StartTime) {
			t.Errorf("entry %d starts before entry %d", i, i-1)
		}
	}
}

func TestSimulateDutyLogPickupDropoffScenario(t *testing.T) {
	legs := []domain.RouteLeg{
		travel("Dallas, TX", "Memphis, TN", 600, 10.9),
		stop(domain.LegPickup, "Memphis, TN", 1),
		travel("Memphis, TN", "Jackson, TN", 50, 0.9),
		stop(domain.LegDropoff, "Jackson, TN", 1),
	}

	log := mustSimulate(t, legs, 0)

	assertEntries(t, log.Entries, []wantEntry{
		{domain.StatusDriving, 10.9},
		{domain.StatusOnDuty, 1},
		{domain.StatusOffDuty, 0.5},
		{domain.StatusDriving, 0.9},
		{domain.StatusOnDuty, 1},
	})
	assertContiguous(t, log.Entries)

	if got := log.TotalHours(); !approxEqual(got, 14.3) {
		t.Fatalf("total hours = %v, want 14.3", got)
	}
	if log.Entries[2].Remarks != "Required 30-minute break" {
		t.Errorf("break remarks = %q", log.Entries[2].Remarks)
	}
	if log.Entries[2].Location != "Memphis, TN" {
		t.Errorf("break location = %q, want leg start", log.Entries[2].Location)
	}
	if log.Entries[0].Remarks != "Travel - 600.0 miles" {
		t.Errorf("travel remarks = %q", log.Entries[0].Remarks)
	}
	if log.Entries[1].Location != "Memphis, TN" {
		t.Errorf("pickup location = %q", log.Entries[1].Location)
	}

	wantClock := simStart.Add(14*time.Hour + 18*time.Minute)
	if !log.Final.Clock.Equal(wantClock) {
		t.Errorf("final clock = %v, want %v", log.Final.Clock, wantClock)
	}
	if !approxEqual(log.Final.DrivingHoursToday, 0.9) {
		t.Errorf("driving = %v, want 0.9", log.Final.DrivingHoursToday)
	}
	if !approxEqual(log.Final.OnDutyHoursToday, 13.8) || !approxEqual(log.Final.CycleHoursUsed, 13.8) {
		t.Errorf("on duty = %v, cycle = %v, want 13.8", log.Final.OnDutyHoursToday, log.Final.CycleHoursUsed)
	}
}

func TestSimulateDutyLogBreakAtThreshold(t *testing.T) {
	log := mustSimulate(t, []domain.RouteLeg{
		travel("A", "B", 440, 8),
		travel("B", "C", 55, 1),
	}, 0)

	assertEntries(t, log.Entries, []wantEntry{
		{domain.StatusDriving, 8},
		{domain.StatusOffDuty, 0.5},
		{domain.StatusDriving, 1},
	})
	if log.Final.DrivingHoursToday != 1 {
		t.Errorf("driving = %v, want 1 after break", log.Final.DrivingHoursToday)
	}
	if log.Final.OnDutyHoursToday != 9 {
		t.Errorf("on duty = %v, want 9 (breaks do not clear on-duty time)", log.Final.OnDutyHoursToday)
	}
}

func TestSimulateDutyLogNoBreakBelowThreshold(t *testing.T) {
	log := mustSimulate(t, []domain.RouteLeg{
		travel("A", "B", 400, 7.5),
		travel("B", "C", 55, 1),
	}, 0)

	assertEntries(t, log.Entries, []wantEntry{
		{domain.StatusDriving, 7.5},
		{domain.StatusDriving, 1},
	})
}

func TestSimulateDutyLogBreakOnlyBeforeDriving(t *testing.T) {
	log := mustSimulate(t, []domain.RouteLeg{
		travel("A", "B", 500, 9),
		stop(domain.LegFuel, "B", 0.5),
		stop(domain.LegDropoff, "B", 1),
	}, 0)

	assertEntries(t, log.Entries, []wantEntry{
		{domain.StatusDriving, 9},
		{domain.StatusOnDuty, 0.5},
		{domain.StatusOnDuty, 1},
	})
}

func TestSimulateDutyLogDailyReset(t *testing.T) {
	log := mustSimulate(t, []domain.RouteLeg{
		travel("A", "B", 330, 6),
		stop(domain.LegPickup, "B", 1),
		travel("B", "C", 300, 5.5),
	}, 20)

	assertEntries(t, log.Entries, []wantEntry{
		{domain.StatusOffDuty, 10},
		{domain.StatusDriving, 6},
		{domain.StatusOnDuty, 1},
		{domain.StatusOffDuty, 10},
		{domain.StatusDriving, 5.5},
	})
	assertContiguous(t, log.Entries)

	if log.Entries[3].Remarks != "Daily 10-hour off-duty reset" {
		t.Errorf("reset remarks = %q", log.Entries[3].Remarks)
	}
	if log.Entries[3].Location != "B" {
		t.Errorf("reset location = %q, want B", log.Entries[3].Location)
	}

	// Driving, on-duty and cycle hours all restart from the reset.
	if log.Final.DrivingHoursToday != 5.5 || log.Final.OnDutyHoursToday != 5.5 || log.Final.CycleHoursUsed != 5.5 {
		t.Fatalf("final state = %+v, want all accumulators at 5.5", log.Final)
	}
}

func TestSimulateDutyLogDrivingLimitBoundary(t *testing.T) {
	tests := []struct {
		name      string
		second    float64
		wantReset bool
	}{
		{"reaches 10.9", 4.9, false},
		{"reaches exactly 11.0", 5, false},
		{"exceeds 11.0", 5.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := mustSimulate(t, []domain.RouteLeg{
				travel("A", "B", 330, 6),
				travel("B", "C", 280, tt.second),
			}, 0)

			gotReset := false
			for _, e := range log.Entries {
				if strings.HasPrefix(e.Remarks, "Daily") {
					gotReset = true
				}
			}
			if gotReset != tt.wantReset {
				t.Fatalf("reset inserted = %v, want %v", gotReset, tt.wantReset)
			}
		})
	}
}

func TestSimulateDutyLogBreakThenReset(t *testing.T) {
	log := mustSimulate(t, []domain.RouteLeg{
		travel("A", "B", 500, 9),
		travel("B", "C", 660, 12),
	}, 0)

	assertEntries(t, log.Entries, []wantEntry{
		{domain.StatusDriving, 9},
		{domain.StatusOffDuty, 0.5},
		{domain.StatusOffDuty, 10},
		{domain.StatusDriving, 12},
	})
	assertContiguous(t, log.Entries)
	if log.Final.CycleHoursUsed != 12 {
		t.Errorf("cycle hours = %v, want 12", log.Final.CycleHoursUsed)
	}
}

func TestSimulateDutyLogInitialReset(t *testing.T) {
	legs := []domain.RouteLeg{travel("Denver, CO", "Omaha, NE", 540, 9.8)}

	fresh := mustSimulate(t, legs, 0)
	if len(fresh.Entries) != 1 || fresh.Entries[0].Status != domain.StatusDriving {
		t.Fatalf("expected only the driving entry, got %+v", fresh.Entries)
	}

	used := mustSimulate(t, legs, 5)
	if len(used.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(used.Entries))
	}

	first := used.Entries[0]
	if first.Status != domain.StatusOffDuty || first.DurationHours != 10 {
		t.Fatalf("first entry = %s/%gh, want OFF/10h", first.Status, first.DurationHours)
	}
	if !first.EndTime.Equal(simStart) || !first.StartTime.Equal(simStart.Add(-10*time.Hour)) {
		t.Fatalf("initial reset spans %v-%v, want it to end at the start time", first.StartTime, first.EndTime)
	}
	if first.Remarks != "Required 10-hour off-duty period" || first.Location != "Denver, CO" {
		t.Fatalf("initial reset = %+v", first)
	}
	if !used.Entries[1].StartTime.Equal(simStart) {
		t.Fatalf("first leg starts at %v, want %v", used.Entries[1].StartTime, simStart)
	}
	if !approxEqual(used.Final.CycleHoursUsed, 14.8) {
		t.Fatalf("cycle hours = %v, want 14.8", used.Final.CycleHoursUsed)
	}
}

func TestSimulateDutyLogInitialResetDatedAtStart(t *testing.T) {
	// The reset begins the previous evening but belongs to the start day.
	legs := []domain.RouteLeg{travel("Denver, CO", "Omaha, NE", 110, 2)}

	log := mustSimulate(t, legs, 5)

	first := log.Entries[0]
	if first.StartTime.Day() == simStart.Day() {
		t.Fatalf("initial reset starts %v, want it to begin the day before", first.StartTime)
	}
	if got, want := first.DateKey(), simStart.Format(time.DateOnly); got != want {
		t.Fatalf("initial reset dated %s, want %s", got, want)
	}

	if sheets := BuildLogSheets(log.Entries); len(sheets) != 1 {
		t.Fatalf("got %d log sheets, want 1", len(sheets))
	}
}

func TestSimulateDutyLogRestAndZeroDurationLegs(t *testing.T) {
	log := mustSimulate(t, []domain.RouteLeg{
		stop(domain.LegPickup, "A", 0),
		stop(domain.LegRest, "A", 2),
		travel("A", "B", 100, 2),
	}, 0)

	assertEntries(t, log.Entries, []wantEntry{
		{domain.StatusOnDuty, 0},
		{domain.StatusOffDuty, 2},
		{domain.StatusDriving, 2},
	})
	assertContiguous(t, log.Entries)

	if log.Final.OnDutyHoursToday != 2 || log.Final.CycleHoursUsed != 2 {
		t.Fatalf("rest time must not count as on-duty: %+v", log.Final)
	}
}

func TestSimulateDutyLogEntryDates(t *testing.T) {
	start := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)
	log, err := SimulateDutyLog(domain.PropertyCarrying7018(), []domain.RouteLeg{
		travel("A", "B", 550, 10),
		stop(domain.LegDropoff, "B", 1),
	}, 0, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := log.Entries[0].DateKey(); got != "2026-03-02" {
		t.Errorf("first entry date = %s", got)
	}
	if got := log.Entries[1].DateKey(); got != "2026-03-03" {
		t.Errorf("second entry date = %s", got)
	}
}

func TestSimulateDutyLogCustomRuleset(t *testing.T) {
	rules := domain.PropertyCarrying7018()
	rules.RequiredBreakAfter = 4
	rules.RequiredBreakDuration = 0.25

	log, err := SimulateDutyLog(rules, []domain.RouteLeg{
		travel("A", "B", 220, 4),
		travel("B", "C", 110, 2),
	}, 0, simStart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertEntries(t, log.Entries, []wantEntry{
		{domain.StatusDriving, 4},
		{domain.StatusOffDuty, 0.25},
		{domain.StatusDriving, 2},
	})
	if log.Entries[1].Remarks != "Required 15-minute break" {
		t.Errorf("remarks = %q", log.Entries[1].Remarks)
	}
}

func TestSimulateDutyLogRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		legs  []domain.RouteLeg
		cycle float64
	}{
		{"negative cycle hours", nil, -1},
		{"NaN cycle hours", nil, math.NaN()},
		{"negative duration", []domain.RouteLeg{travel("A", "B", 10, -1)}, 0},
		{"negative distance", []domain.RouteLeg{travel("A", "B", -10, 1)}, 0},
		{"unknown leg type", []domain.RouteLeg{{Type: "ferry", DurationHours: 1}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SimulateDutyLog(domain.PropertyCarrying7018(), tt.legs, tt.cycle, simStart)
			if !errors.Is(err, ErrInvalidLegPrecondition) {
				t.Fatalf("err = %v, want ErrInvalidLegPrecondition", err)
			}
		})
	}

	_, err := SimulateDutyLog(domain.Ruleset{}, nil, 0, simStart)
	if !errors.Is(err, ErrInvalidRuleset) {
		t.Fatalf("err = %v, want ErrInvalidRuleset", err)
	}
}

func TestSimulateDutyLogEmptyRoute(t *testing.T) {
	log := mustSimulate(t, nil, 0)
	if len(log.Entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(log.Entries))
	}
	if !log.Final.Clock.Equal(simStart) {
		t.Fatalf("clock moved without legs: %v", log.Final.Clock)
	}
}

func TestSimulateDutyLogCoverageAndOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	types := []domain.LegType{domain.LegTravel, domain.LegTravel, domain.LegPickup, domain.LegDropoff, domain.LegFuel, domain.LegRest}
	rules := domain.PropertyCarrying7018()

	for run := 0; run < 200; run++ {
		n := 1 + rng.Intn(12)
		legs := make([]domain.RouteLeg, 0, n)
		legSum := 0.0
		for i := 0; i < n; i++ {
			kind := types[rng.Intn(len(types))]
			hours := math.Round(rng.Float64()*1300) / 100
			legs = append(legs, domain.RouteLeg{
				StartLocation: "X",
				EndLocation:   "Y",
				DistanceMiles: hours * 55,
				DurationHours: hours,
				Type:          kind,
			})
			legSum += hours
		}
		cycle := float64(rng.Intn(3)) * 7.5

		log, err := SimulateDutyLog(rules, legs, cycle, simStart)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", run, err)
		}

		inserted := 0.0
		synthetic := 0
		for _, e := range log.Entries {
			if strings.HasPrefix(e.Remarks, "Required") || strings.HasPrefix(e.Remarks, "Daily") {
				inserted += e.DurationHours
				synthetic++
			}
		}

		if len(log.Entries)-synthetic != len(legs) {
			t.Fatalf("run %d: %d leg entries for %d legs", run, len(log.Entries)-synthetic, len(legs))
		}
		if got := log.TotalHours(); math.Abs(got-(legSum+inserted)) > 1e-6 {
			t.Fatalf("run %d: total %v, want %v", run, got, legSum+inserted)
		}
		assertContiguous(t, log.Entries)

		if log.Final.DrivingHoursToday < 0 || log.Final.OnDutyHoursToday < 0 || log.Final.CycleHoursUsed < 0 {
			t.Fatalf("run %d: negative accumulator %+v", run, log.Final)
		}
		if log.Final.Clock.Before(simStart) {
			t.Fatalf("run %d: clock moved backwards", run)
		}
	}
}
