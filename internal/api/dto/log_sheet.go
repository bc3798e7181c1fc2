package dto

type StatusTotalsResponse struct {
	OffDuty      float64 `json:"off_duty"`
	SleeperBerth float64 `json:"sleeper_berth"`
	Driving      float64 `json:"driving"`
	OnDuty       float64 `json:"on_duty"`
}

type LogSheetResponse struct {
	Date   string                 `json:"date"`
	Logs   []DutyLogEntryResponse `json:"logs"`
	Totals StatusTotalsResponse   `json:"totals"`
}

type ListLogSheetsResponse struct {
	TripID    string             `json:"trip_id"`
	LogSheets []LogSheetResponse `json:"log_sheets"`
}

type TimeSummaryResponse struct {
	TotalDrivingHours        float64 `json:"total_driving_hours"`
	TotalOnDutyHours         float64 `json:"total_on_duty_hours"`
	TotalOffDutyHours        float64 `json:"total_off_duty_hours"`
	EstimatedCompletionHours float64 `json:"estimated_completion_hours"`
}

type ComplianceResponse struct {
	WithinDailyDrivingLimit bool `json:"within_daily_driving_limit"`
	WithinDailyDutyLimit    bool `json:"within_daily_duty_limit"`
	WithinCycleLimit        bool `json:"within_cycle_limit"`
	HasRequiredBreaks       bool `json:"has_required_breaks"`
}

type TripSummaryResponse struct {
	TripID      string              `json:"trip_id"`
	Trip        TripResponse        `json:"trip_details"`
	Ruleset     string              `json:"ruleset"`
	TimeSummary TimeSummaryResponse `json:"time_summary"`
	Compliance  ComplianceResponse  `json:"compliance_status"`
}
