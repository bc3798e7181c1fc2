package services

import "trip-planner-service/internal/domain"

type TimeSummary struct {
	TotalDrivingHours        float64
	TotalOnDutyHours         float64
	TotalOffDutyHours        float64
	EstimatedCompletionHours float64
}

type ComplianceStatus struct {
	WithinDailyDrivingLimit bool
	WithinDailyDutyLimit    bool
	WithinCycleLimit        bool
	HasRequiredBreaks       bool
}

type TripSummary struct {
	Trip       *domain.Trip
	Time       TimeSummary
	Compliance ComplianceStatus
}

// Summarize totals a trip's duty log and checks it against rules.
//
// Daily limits are evaluated per duty period, a period ending at any off-duty
// or sleeper-berth stretch of at least RequiredOffDuty hours. The cycle check
// adds the trip's on-duty time to the hours already used when it was planned.
func Summarize(trip *domain.Trip, entries []domain.DutyLogEntry, rules domain.Ruleset) TripSummary {
	var driving, onDuty, offDuty float64
	for _, e := range entries {
		switch {
		case e.Status == domain.StatusDriving:
			driving += e.DurationHours
			onDuty += e.DurationHours
		case e.Status == domain.StatusOnDuty:
			onDuty += e.DurationHours
		case e.Status == domain.StatusOffDuty:
			offDuty += e.DurationHours
		}
	}

	estimated := 0.0
	if trip.EstimatedDurationHours != nil {
		estimated = *trip.EstimatedDurationHours
	}

	periodDriving, periodDuty := maxPeriodTotals(entries, rules)

	return TripSummary{
		Trip: trip,
		Time: TimeSummary{
			TotalDrivingHours:        round2(driving),
			TotalOnDutyHours:         round2(onDuty),
			TotalOffDutyHours:        round2(offDuty),
			EstimatedCompletionHours: round2(estimated),
		},
		Compliance: ComplianceStatus{
			WithinDailyDrivingLimit: periodDriving <= rules.MaxDrivingDaily,
			WithinDailyDutyLimit:    periodDuty <= rules.MaxOnDutyDaily,
			WithinCycleLimit:        trip.CurrentCycleUsed+onDuty <= rules.MaxOnDutyWeekly,
			HasRequiredBreaks:       hasRequiredBreaks(entries, rules),
		},
	}
}

// maxPeriodTotals returns the largest driving and on-duty totals seen in any
// duty period.
func maxPeriodTotals(entries []domain.DutyLogEntry, rules domain.Ruleset) (maxDriving, maxDuty float64) {
	var driving, duty float64
	for _, e := range entries {
		if resting(e.Status) {
			if e.DurationHours >= rules.RequiredOffDuty {
				driving, duty = 0, 0
			}
			continue
		}

		duty += e.DurationHours
		if e.Status == domain.StatusDriving {
			driving += e.DurationHours
		}
		maxDriving = max(maxDriving, driving)
		maxDuty = max(maxDuty, duty)
	}
	return maxDriving, maxDuty
}

// hasRequiredBreaks reports whether no stretch of driving longer than
// RequiredBreakAfter goes without a qualifying rest.
func hasRequiredBreaks(entries []domain.DutyLogEntry, rules domain.Ruleset) bool {
	driving := 0.0
	for _, e := range entries {
		switch {
		case resting(e.Status):
			if e.DurationHours >= rules.RequiredBreakDuration {
				driving = 0
			}
		case e.Status == domain.StatusDriving:
			driving += e.DurationHours
			if driving > rules.RequiredBreakAfter {
				return false
			}
		}
	}
	return true
}

func resting(s domain.DutyStatus) bool {
	return s == domain.StatusOffDuty || s == domain.StatusSleeperBerth
}
