package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the trip, leg, duty log and cache tables if missing.
// The DDL is restricted to types both SQLite and Postgres accept.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createTripsQuery := `
	CREATE TABLE IF NOT EXISTS trips (
		id TEXT PRIMARY KEY,
		current_location TEXT NOT NULL,
		pickup_location TEXT NOT NULL,
		dropoff_location TEXT NOT NULL,
		current_cycle_used DOUBLE PRECISION NOT NULL,
		created_at TEXT NOT NULL,
		total_distance_miles DOUBLE PRECISION,
		estimated_duration_hours DOUBLE PRECISION,
		fuel_stops_needed INTEGER
	);
	`

	createRouteLegsQuery := `
	CREATE TABLE IF NOT EXISTS route_legs (
		trip_id TEXT NOT NULL REFERENCES trips(id),
		sequence_order INTEGER NOT NULL,
		start_location TEXT NOT NULL,
		end_location TEXT NOT NULL,
		distance_miles DOUBLE PRECISION NOT NULL,
		duration_hours DOUBLE PRECISION NOT NULL,
		leg_type TEXT NOT NULL,
		PRIMARY KEY (trip_id, sequence_order)
	);
	`

	createDutyLogQuery := `
	CREATE TABLE IF NOT EXISTS duty_log_entries (
		trip_id TEXT NOT NULL REFERENCES trips(id),
		entry_order INTEGER NOT NULL,
		log_date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		duty_status TEXT NOT NULL,
		location TEXT NOT NULL,
		duration_hours DOUBLE PRECISION NOT NULL,
		remarks TEXT NOT NULL,
		PRIMARY KEY (trip_id, entry_order)
	);
	`

	createDistanceCacheQuery := `
	CREATE TABLE IF NOT EXISTS distance_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_meters INTEGER NOT NULL,
		duration_seconds INTEGER NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_trips_created_at
	ON trips(created_at);
	`

	statements := []string{
		createTripsQuery,
		createRouteLegsQuery,
		createDutyLogQuery,
		createDistanceCacheQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
