package domain

import "time"

// DutyStatus is the classification of a period in a driver's log.
type DutyStatus string

const (
	StatusOffDuty      DutyStatus = "OFF"
	StatusSleeperBerth DutyStatus = "SB"
	StatusDriving      DutyStatus = "D"
	StatusOnDuty       DutyStatus = "ON"
)

// Label returns the human readable name printed on log sheets.
func (s DutyStatus) Label() string {
	switch s {
	case StatusOffDuty:
		return "Off Duty"
	case StatusSleeperBerth:
		return "Sleeper Berth"
	case StatusDriving:
		return "Driving"
	case StatusOnDuty:
		return "On Duty (Not Driving)"
	}
	return string(s)
}

// OnDuty reports whether time in this status counts toward on-duty limits.
func (s DutyStatus) OnDuty() bool {
	return s == StatusDriving || s == StatusOnDuty
}

// StatusForLeg maps a leg type to the duty status recorded for it.
// Unknown types are logged as on-duty so a leg is never left unmapped.
func StatusForLeg(t LegType) DutyStatus {
	switch t {
	case LegTravel:
		return StatusDriving
	case LegPickup, LegDropoff, LegFuel:
		return StatusOnDuty
	case LegRest:
		return StatusOffDuty
	default:
		return StatusOnDuty
	}
}

// One row of a driver's duty log. Entries are emitted once, in order, and are
// contiguous: an entry's EndTime is the next entry's StartTime.
type DutyLogEntry struct {
	Date          time.Time
	StartTime     time.Time
	EndTime       time.Time
	Status        DutyStatus
	Location      string
	DurationHours float64
	Remarks       string
}

// DateKey formats the log date as YYYY-MM-DD.
func (e DutyLogEntry) DateKey() string {
	return e.Date.Format(time.DateOnly)
}
