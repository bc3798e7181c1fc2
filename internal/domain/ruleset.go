package domain

import (
	"errors"
	"fmt"
)

// Ruleset holds the Hours-of-Service thresholds a simulation enforces.
// All values are hours. A Ruleset is passed by value and never mutated.
type Ruleset struct {
	Name                  string
	MaxDrivingDaily       float64
	MaxOnDutyDaily        float64
	MaxOnDutyWeekly       float64
	RequiredOffDuty       float64
	RequiredBreakAfter    float64
	RequiredBreakDuration float64
}

// PropertyCarrying7018 returns the US property-carrying 70-hour/8-day rules.
func PropertyCarrying7018() Ruleset {
	return Ruleset{
		Name:                  "property-70-8",
		MaxDrivingDaily:       11,
		MaxOnDutyDaily:        14,
		MaxOnDutyWeekly:       70,
		RequiredOffDuty:       10,
		RequiredBreakAfter:    8,
		RequiredBreakDuration: 0.5,
	}
}

// Validate checks every threshold is positive and the daily limits are ordered.
func (r Ruleset) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"max_driving_daily", r.MaxDrivingDaily},
		{"max_on_duty_daily", r.MaxOnDutyDaily},
		{"max_on_duty_weekly", r.MaxOnDutyWeekly},
		{"required_off_duty", r.RequiredOffDuty},
		{"required_break_after", r.RequiredBreakAfter},
		{"required_break_duration", r.RequiredBreakDuration},
	}
	for _, f := range fields {
		if f.v <= 0 {
			return fmt.Errorf("ruleset %q: %s must be positive, got %g", r.Name, f.name, f.v)
		}
	}

	if r.MaxDrivingDaily > r.MaxOnDutyDaily {
		return errors.New("ruleset: max_driving_daily must not exceed max_on_duty_daily")
	}
	if r.MaxOnDutyDaily > r.MaxOnDutyWeekly {
		return errors.New("ruleset: max_on_duty_daily must not exceed max_on_duty_weekly")
	}

	return nil
}
