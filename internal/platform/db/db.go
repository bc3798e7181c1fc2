package db

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dialect captures the SQL differences between the supported drivers.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite":
		return SQLite, nil
	case "pgx", "postgres":
		return Postgres, nil
	}
	return 0, fmt.Errorf("unsupported database driver %q", driver)
}

// driverName resolves the database/sql driver registered for driver.
// "postgres" is an alias: the only postgres driver linked in is pgx.
func driverName(driver string) string {
	if driver == "postgres" {
		return "pgx"
	}
	return driver
}

// Rebind rewrites '?' placeholders to '$n' for postgres. Queries must not
// contain literal question marks.
func (d Dialect) Rebind(q string) string {
	if d != Postgres {
		return q
	}

	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Placeholders returns "?, ?, ..." with n markers for an IN (...) clause.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// Open opens and pings a database for the given driver.
func Open(driver, dsn string) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, 0, fmt.Errorf("openDB: %w", err)
	}

	db, err := sql.Open(driverName(driver), dsn)
	if err != nil {
		return nil, 0, fmt.Errorf("openDB: open %s database: %w", driver, err)
	}

	switch dialect {
	case SQLite:
		// A single connection keeps :memory: databases shared and serializes writers.
		db.SetMaxOpenConns(1)
	case Postgres:
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, 0, fmt.Errorf("openDB: verify %s connection: %w", driver, err)
	}

	return db, dialect, nil
}
