package services

import (
	"fmt"
	"time"
	"trip-planner-service/internal/domain"
)

// SimulateDutyLog walks legs in order and produces the duty log a driver would
// record under rules, inserting the mandated breaks and resets.
//
// The run is a single pass with no backtracking:
//   - if initialCycleHoursUsed > 0, an off-duty reset ending at start is logged first
//   - before a driving leg, a break is inserted once driving time reaches RequiredBreakAfter
//   - before a driving leg that would exceed MaxDrivingDaily, a full off-duty reset is inserted
//   - the leg itself is logged and its time added to the running totals
//
// A daily reset also clears CycleHoursUsed. That is a simplification of the
// 70-hour/8-day rule, which really needs a rolling window of past days.
//
// Only malformed input is rejected; for valid input the fold cannot fail.
func SimulateDutyLog(
	rules domain.Ruleset,
	legs []domain.RouteLeg,
	initialCycleHoursUsed float64,
	start time.Time,
) (*domain.DutyLog, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("simulate duty log: %w: %w", ErrInvalidRuleset, err)
	}
	if err := validateLegs(legs, initialCycleHoursUsed); err != nil {
		return nil, fmt.Errorf("simulate duty log: %w", err)
	}

	sim := &hosSimulator{
		rules: rules,
		state: domain.CycleState{
			CycleHoursUsed: initialCycleHoursUsed,
			Clock:          start,
		},
		entries: make([]domain.DutyLogEntry, 0, len(legs)+2),
	}

	if initialCycleHoursUsed > 0 {
		location := ""
		if len(legs) > 0 {
			location = legs[0].StartLocation
		}
		sim.initialReset(location)
	}

	for _, leg := range legs {
		sim.step(leg)
	}

	return &domain.DutyLog{Entries: sim.entries, Final: sim.state}, nil
}

func validateLegs(legs []domain.RouteLeg, initialCycleHoursUsed float64) error {
	if !finiteNonNegative(initialCycleHoursUsed) {
		return fmt.Errorf("%w: initial cycle hours must be a non-negative number, got %g",
			ErrInvalidLegPrecondition, initialCycleHoursUsed)
	}

	for i, leg := range legs {
		if !leg.Type.Valid() {
			return fmt.Errorf("%w: leg %d: unknown leg type %q", ErrInvalidLegPrecondition, i, leg.Type)
		}
		if !finiteNonNegative(leg.DurationHours) {
			return fmt.Errorf("%w: leg %d: duration must be non-negative, got %g",
				ErrInvalidLegPrecondition, i, leg.DurationHours)
		}
		if !finiteNonNegative(leg.DistanceMiles) {
			return fmt.Errorf("%w: leg %d: distance must be non-negative, got %g",
				ErrInvalidLegPrecondition, i, leg.DistanceMiles)
		}
	}

	return nil
}

type hosSimulator struct {
	rules   domain.Ruleset
	state   domain.CycleState
	entries []domain.DutyLogEntry
}

// initialReset logs the off-duty period that precedes the trip. It ends at the
// simulation start, so the clock does not move. Like every entry it is dated
// from the clock, which puts it on the trip's first log sheet.
func (s *hosSimulator) initialReset(location string) {
	end := s.state.Clock
	begin := end.Add(-hoursToDuration(s.rules.RequiredOffDuty))

	s.entries = append(s.entries, domain.DutyLogEntry{
		Date:          dateOf(end),
		StartTime:     begin,
		EndTime:       end,
		Status:        domain.StatusOffDuty,
		Location:      location,
		DurationHours: s.rules.RequiredOffDuty,
		Remarks:       fmt.Sprintf("Required %g-hour off-duty period", s.rules.RequiredOffDuty),
	})
}

func (s *hosSimulator) step(leg domain.RouteLeg) {
	status := domain.StatusForLeg(leg.Type)

	// At most one break per leg, checked before the daily limit.
	if status == domain.StatusDriving && s.state.DrivingHoursToday >= s.rules.RequiredBreakAfter {
		s.emit(
			domain.StatusOffDuty,
			leg.StartLocation,
			s.rules.RequiredBreakDuration,
			fmt.Sprintf("Required %g-minute break", s.rules.RequiredBreakDuration*60),
		)
		s.state.DrivingHoursToday = 0
	}

	if leg.Type == domain.LegTravel && s.state.DrivingHoursToday+leg.DurationHours > s.rules.MaxDrivingDaily {
		s.emit(
			domain.StatusOffDuty,
			leg.StartLocation,
			s.rules.RequiredOffDuty,
			fmt.Sprintf("Daily %g-hour off-duty reset", s.rules.RequiredOffDuty),
		)
		s.state.DrivingHoursToday = 0
		s.state.OnDutyHoursToday = 0
		s.state.CycleHoursUsed = 0
	}

	s.emit(
		status,
		leg.EndLocation,
		leg.DurationHours,
		fmt.Sprintf("%s - %.1f miles", leg.Type.Title(), leg.DistanceMiles),
	)

	if status.OnDuty() {
		s.state.OnDutyHoursToday += leg.DurationHours
		s.state.CycleHoursUsed += leg.DurationHours
		if status == domain.StatusDriving {
			s.state.DrivingHoursToday += leg.DurationHours
		}
	}
}

// emit appends an entry starting at the clock and advances the clock past it.
func (s *hosSimulator) emit(status domain.DutyStatus, location string, hours float64, remarks string) {
	begin := s.state.Clock
	end := begin.Add(hoursToDuration(hours))

	s.entries = append(s.entries, domain.DutyLogEntry{
		Date:          dateOf(begin),
		StartTime:     begin,
		EndTime:       end,
		Status:        status,
		Location:      location,
		DurationHours: hours,
		Remarks:       remarks,
	})

	s.state.Clock = end
}
