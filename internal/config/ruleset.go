package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"trip-planner-service/internal/domain"

	"gopkg.in/yaml.v3"
)

// rulesetFile mirrors the YAML layout. Pointers tell an omitted field apart
// from an explicit zero, which Validate must reject.
type rulesetFile struct {
	Name                  string   `yaml:"name"`
	MaxDrivingDaily       *float64 `yaml:"max_driving_daily"`
	MaxOnDutyDaily        *float64 `yaml:"max_on_duty_daily"`
	MaxOnDutyWeekly       *float64 `yaml:"max_on_duty_weekly"`
	RequiredOffDuty       *float64 `yaml:"required_off_duty"`
	RequiredBreakAfter    *float64 `yaml:"required_break_after"`
	RequiredBreakDuration *float64 `yaml:"required_break_duration"`
}

// LoadRuleset reads an HOS ruleset from a YAML file. An empty path yields the
// default 70-hour/8-day property-carrying rules. Fields missing from the file
// keep their default value.
func LoadRuleset(path string) (domain.Ruleset, error) {
	if path == "" {
		return domain.PropertyCarrying7018(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Ruleset{}, fmt.Errorf("load ruleset: %w", err)
	}

	rules, err := ParseRuleset(raw)
	if err != nil {
		return domain.Ruleset{}, fmt.Errorf("load ruleset %s: %w", path, err)
	}
	return rules, nil
}

// ParseRuleset decodes and validates a YAML ruleset document.
func ParseRuleset(raw []byte) (domain.Ruleset, error) {
	var f rulesetFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return domain.Ruleset{}, fmt.Errorf("parse ruleset: %w", err)
	}

	rules := domain.PropertyCarrying7018()
	if f.Name != "" {
		rules.Name = f.Name
	}
	override := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	override(&rules.MaxDrivingDaily, f.MaxDrivingDaily)
	override(&rules.MaxOnDutyDaily, f.MaxOnDutyDaily)
	override(&rules.MaxOnDutyWeekly, f.MaxOnDutyWeekly)
	override(&rules.RequiredOffDuty, f.RequiredOffDuty)
	override(&rules.RequiredBreakAfter, f.RequiredBreakAfter)
	override(&rules.RequiredBreakDuration, f.RequiredBreakDuration)

	if err := rules.Validate(); err != nil {
		return domain.Ruleset{}, err
	}
	return rules, nil
}
