package domain

import "time"

// Running HOS totals owned by a single simulation run.
//
// DrivingHoursToday is cleared by a qualifying break or a daily reset.
// OnDutyHoursToday and CycleHoursUsed are cleared only by a daily reset.
// Clock is the wall-clock position of the simulation and never moves back.
type CycleState struct {
	DrivingHoursToday float64
	OnDutyHoursToday  float64
	CycleHoursUsed    float64
	Clock             time.Time
}

// Output of one simulation run: every emitted entry in order plus the state
// after the last leg.
type DutyLog struct {
	Entries []DutyLogEntry
	Final   CycleState
}

// TotalHours sums the duration of all entries.
func (l *DutyLog) TotalHours() float64 {
	total := 0.0
	for _, e := range l.Entries {
		total += e.DurationHours
	}
	return total
}
