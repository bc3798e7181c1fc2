package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"github.com/google/uuid"
)

// Fixed-width, and always written in UTC, so that text columns sort
// chronologically. log_date keeps the driver's local calendar day.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQL-backed implementation of the TripRepository port. The same queries run
// on SQLite and Postgres; placeholders are rebound per dialect.
type SQLTripRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLTripRepository(conn *sql.DB, dialect db.Dialect) *SQLTripRepository {
	return &SQLTripRepository{DB: conn, Dialect: dialect}
}

func (s *SQLTripRepository) q(query string) string { return s.Dialect.Rebind(query) }

func (s *SQLTripRepository) CreateTrip(ctx context.Context, trip *domain.Trip) (err error) {
	defer obs.Time(ctx, "trips.Create")(&err)

	if s.DB == nil {
		return errors.New("sql trip repository: DB is nil")
	}
	if trip == nil {
		return errors.New("create trip: trip is nil")
	}

	query := `
	INSERT INTO trips (
		id,
		current_location,
		pickup_location,
		dropoff_location,
		current_cycle_used,
		created_at
	)
	VALUES (?, ?, ?, ?, ?, ?);
	`
	_, err = s.DB.ExecContext(ctx, s.q(query),
		trip.ID.String(),
		trip.CurrentLocation,
		trip.PickupLocation,
		trip.DropoffLocation,
		trip.CurrentCycleUsed,
		trip.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("create trip %s: insert: %w", trip.ID, err)
	}

	return nil
}

func (s *SQLTripRepository) SavePlan(
	ctx context.Context,
	tripID uuid.UUID,
	totals domain.TripTotals,
	legs []domain.RouteLeg,
	entries []domain.DutyLogEntry,
) (err error) {
	defer obs.Time(ctx, "trips.SavePlan")(&err)

	if s.DB == nil {
		return errors.New("sql trip repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save plan: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, s.q(`
	UPDATE trips
	SET total_distance_miles = ?,
		estimated_duration_hours = ?,
		fuel_stops_needed = ?
	WHERE id = ?;
	`), totals.TotalDistanceMiles, totals.EstimatedDurationHours, totals.FuelStopsNeeded, tripID.String())
	if err != nil {
		return fmt.Errorf("save plan: update trip %s: %w", tripID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("save plan: trip %s: %w", tripID, ports.ErrTripNotFound)
	}

	// Replanning replaces whatever was stored before.
	if err := deleteChildren(ctx, tx, s.Dialect, tripID); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}

	legStmt, err := tx.PrepareContext(ctx, s.q(`
	INSERT INTO route_legs (
		trip_id,
		sequence_order,
		start_location,
		end_location,
		distance_miles,
		duration_hours,
		leg_type
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save plan: prepare legs: %w", err)
	}
	defer legStmt.Close()

	for i, leg := range legs {
		seq := leg.Sequence
		if seq == 0 {
			seq = i + 1
		}
		if _, err := legStmt.ExecContext(ctx,
			tripID.String(), seq, leg.StartLocation, leg.EndLocation,
			leg.DistanceMiles, leg.DurationHours, string(leg.Type),
		); err != nil {
			return fmt.Errorf("save plan: insert leg %d: %w", seq, err)
		}
	}

	entryStmt, err := tx.PrepareContext(ctx, s.q(`
	INSERT INTO duty_log_entries (
		trip_id,
		entry_order,
		log_date,
		start_time,
		end_time,
		duty_status,
		location,
		duration_hours,
		remarks
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save plan: prepare log entries: %w", err)
	}
	defer entryStmt.Close()

	for i, e := range entries {
		if _, err := entryStmt.ExecContext(ctx,
			tripID.String(), i+1, e.DateKey(),
			e.StartTime.UTC().Format(timeLayout), e.EndTime.UTC().Format(timeLayout),
			string(e.Status), e.Location, e.DurationHours, e.Remarks,
		); err != nil {
			return fmt.Errorf("save plan: insert log entry %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save plan: commit: %w", err)
	}

	return nil
}

func (s *SQLTripRepository) DeleteTrip(ctx context.Context, tripID uuid.UUID) (err error) {
	defer obs.Time(ctx, "trips.Delete")(&err)

	if s.DB == nil {
		return errors.New("sql trip repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete trip: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteChildren(ctx, tx, s.Dialect, tripID); err != nil {
		return fmt.Errorf("delete trip: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM trips WHERE id = ?;`), tripID.String()); err != nil {
		return fmt.Errorf("delete trip %s: %w", tripID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete trip: commit: %w", err)
	}

	return nil
}

func deleteChildren(ctx context.Context, tx *sql.Tx, dialect db.Dialect, tripID uuid.UUID) error {
	for _, table := range []string{"duty_log_entries", "route_legs"} {
		q := dialect.Rebind("DELETE FROM " + table + " WHERE trip_id = ?;")
		if _, err := tx.ExecContext(ctx, q, tripID.String()); err != nil {
			return fmt.Errorf("delete %s for trip %s: %w", table, tripID, err)
		}
	}
	return nil
}

const selectTripColumns = `
	SELECT
		id,
		current_location,
		pickup_location,
		dropoff_location,
		current_cycle_used,
		created_at,
		total_distance_miles,
		estimated_duration_hours,
		fuel_stops_needed
	FROM trips
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var (
		id, createdAt string
		distance      sql.NullFloat64
		duration      sql.NullFloat64
		fuelStops     sql.NullInt64
		trip          domain.Trip
	)

	if err := row.Scan(
		&id,
		&trip.CurrentLocation,
		&trip.PickupLocation,
		&trip.DropoffLocation,
		&trip.CurrentCycleUsed,
		&createdAt,
		&distance,
		&duration,
		&fuelStops,
	); err != nil {
		return nil, err
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse trip id %q: %w", id, err)
	}
	trip.ID = parsedID

	trip.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}

	if distance.Valid {
		trip.TotalDistanceMiles = &distance.Float64
	}
	if duration.Valid {
		trip.EstimatedDurationHours = &duration.Float64
	}
	if fuelStops.Valid {
		n := int(fuelStops.Int64)
		trip.FuelStopsNeeded = &n
	}

	return &trip, nil
}

func (s *SQLTripRepository) GetTrip(ctx context.Context, tripID uuid.UUID) (*domain.Trip, error) {
	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, s.q(selectTripColumns+` WHERE id = ?;`), tripID.String())
	trip, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get trip %s: %w", tripID, ports.ErrTripNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %s: %w", tripID, err)
	}

	return trip, nil
}

func (s *SQLTripRepository) ListTrips(ctx context.Context) ([]*domain.Trip, error) {
	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, selectTripColumns+` ORDER BY created_at DESC, id;`)
	if err != nil {
		return nil, fmt.Errorf("list trips: query trips table: %w", err)
	}
	defer rows.Close()

	trips := make([]*domain.Trip, 0, 16)
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("list trips: scan row: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: row iteration: %w", err)
	}

	return trips, nil
}

func (s *SQLTripRepository) ListLegs(ctx context.Context, tripID uuid.UUID) ([]domain.RouteLeg, error) {
	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}

	query := `
	SELECT
		sequence_order,
		start_location,
		end_location,
		distance_miles,
		duration_hours,
		leg_type
	FROM route_legs
	WHERE trip_id = ?
	ORDER BY sequence_order;
	`
	rows, err := s.DB.QueryContext(ctx, s.q(query), tripID.String())
	if err != nil {
		return nil, fmt.Errorf("list legs: query route_legs table: %w", err)
	}
	defer rows.Close()

	legs := make([]domain.RouteLeg, 0, 4)
	for rows.Next() {
		var leg domain.RouteLeg
		var legType string
		if err := rows.Scan(
			&leg.Sequence,
			&leg.StartLocation,
			&leg.EndLocation,
			&leg.DistanceMiles,
			&leg.DurationHours,
			&legType,
		); err != nil {
			return nil, fmt.Errorf("list legs: scan row: %w", err)
		}
		leg.Type = domain.LegType(legType)
		legs = append(legs, leg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list legs: row iteration: %w", err)
	}

	return legs, nil
}

func (s *SQLTripRepository) ListLogEntries(ctx context.Context, tripID uuid.UUID) ([]domain.DutyLogEntry, error) {
	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}

	query := `
	SELECT
		log_date,
		start_time,
		end_time,
		duty_status,
		location,
		duration_hours,
		remarks
	FROM duty_log_entries
	WHERE trip_id = ?
	ORDER BY entry_order;
	`
	rows, err := s.DB.QueryContext(ctx, s.q(query), tripID.String())
	if err != nil {
		return nil, fmt.Errorf("list log entries: query duty_log_entries table: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.DutyLogEntry, 0, 8)
	for rows.Next() {
		var (
			e                       domain.DutyLogEntry
			logDate, startAt, endAt string
			status                  string
		)
		if err := rows.Scan(&logDate, &startAt, &endAt, &status, &e.Location, &e.DurationHours, &e.Remarks); err != nil {
			return nil, fmt.Errorf("list log entries: scan row: %w", err)
		}

		if e.StartTime, err = time.Parse(timeLayout, startAt); err != nil {
			return nil, fmt.Errorf("list log entries: parse start_time %q: %w", startAt, err)
		}
		if e.EndTime, err = time.Parse(timeLayout, endAt); err != nil {
			return nil, fmt.Errorf("list log entries: parse end_time %q: %w", endAt, err)
		}
		if e.Date, err = time.ParseInLocation(time.DateOnly, logDate, e.StartTime.Location()); err != nil {
			return nil, fmt.Errorf("list log entries: parse log_date %q: %w", logDate, err)
		}
		e.Status = domain.DutyStatus(status)

		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list log entries: row iteration: %w", err)
	}

	return entries, nil
}
