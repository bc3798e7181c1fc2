package services

import "trip-planner-service/internal/domain"

// Hours per duty status on one log sheet.
type StatusTotals struct {
	OffDuty      float64
	SleeperBerth float64
	Driving      float64
	OnDuty       float64
}

func (t *StatusTotals) add(status domain.DutyStatus, hours float64) {
	switch status {
	case domain.StatusOffDuty:
		t.OffDuty += hours
	case domain.StatusSleeperBerth:
		t.SleeperBerth += hours
	case domain.StatusDriving:
		t.Driving += hours
	case domain.StatusOnDuty:
		t.OnDuty += hours
	}
}

// One day of the driver's log: the entries that start on Date and their totals.
type LogSheet struct {
	Date    string
	Entries []domain.DutyLogEntry
	Totals  StatusTotals
}

// BuildLogSheets groups entries by log date, keeping the order in which dates
// first appear.
func BuildLogSheets(entries []domain.DutyLogEntry) []LogSheet {
	sheets := []LogSheet{}
	index := make(map[string]int)

	for _, e := range entries {
		key := e.DateKey()
		i, ok := index[key]
		if !ok {
			i = len(sheets)
			index[key] = i
			sheets = append(sheets, LogSheet{Date: key})
		}
		sheets[i].Entries = append(sheets[i].Entries, e)
		sheets[i].Totals.add(e.Status, e.DurationHours)
	}

	return sheets
}
