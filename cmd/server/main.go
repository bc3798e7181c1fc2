package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	"trip-planner-service/internal/adapters/cache"
	"trip-planner-service/internal/adapters/distance"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/api"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQL store, ORS, caches) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	port := config.Get("PORT", "8080")

	conn, dialect, err := openDB()
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("startup: %w", err)
	}

	rules, err := config.LoadRuleset(config.Get("HOS_RULES_PATH", ""))
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	log.Printf("hos ruleset=%s driving=%gh duty=%gh cycle=%gh", rules.Name, rules.MaxDrivingDaily, rules.MaxOnDutyDaily, rules.MaxOnDutyWeekly)

	geocodeCache, closeCache, err := newGeocodeCache(conn, dialect)
	if err != nil {
		return err
	}
	defer closeCache()

	orsKey, err := config.Require("ORS_API_KEY")
	if err != nil {
		return err
	}

	// ORS provider uses persistent caches to avoid repeated geocode/matrix calls.
	ors, err := distance.NewORSProvider(
		distance.ORSConfig{APIKey: orsKey, BaseURL: config.Get("ORS_BASE_URL", "")},
		cache.NewSQLDistanceCache(conn, dialect),
		geocodeCache,
	)
	if err != nil {
		return err
	}

	var distances ports.DistanceProvider = ors
	switch mode := config.Get("ROUTING_MODE", "ors"); mode {
	case "ors":
	case "straight":
		speed, err := config.GetFloat("TRUCK_SPEED_MPH", distance.DefaultTruckSpeedMPH)
		if err != nil {
			return err
		}
		distances = &distance.StraightLineProvider{Geocoder: ors, SpeedMPH: speed}
	default:
		return fmt.Errorf("ROUTING_MODE must be ors or straight, got %q", mode)
	}

	repo := repositories.NewSQLTripRepository(conn, dialect)
	planner := services.NewTripPlanner(repo, ors, distances, rules)

	router := api.NewRouter(api.Deps{
		Planner:     planner,
		Repo:        repo,
		Rules:       rules,
		DB:          conn,
		CORSOrigins: config.List("CORS_ORIGINS", nil),
	})

	// Timeouts are tuned for cold-cache route planning (external API latency).
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Printf("Server listening addr=:%s", port)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openDB() (*sql.DB, db.Dialect, error) {
	driver := config.Get("DB_DRIVER", "sqlite")

	if driver == "sqlite" {
		dbPath := config.Get("DB_PATH", "data/app.db")
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, 0, fmt.Errorf("openDB: create directory for %q: %w", dbPath, err)
		}
		return db.Open(driver, dbPath)
	}

	databaseURL, err := config.Require("DATABASE_URL")
	if err != nil {
		return nil, 0, err
	}
	return db.Open(driver, databaseURL)
}

// newGeocodeCache prefers Redis when REDIS_ADDR is set so several server
// instances share geocodes; otherwise the SQL table is used.
func newGeocodeCache(conn *sql.DB, dialect db.Dialect) (ports.GeocodeCache, func(), error) {
	addr := config.Get("REDIS_ADDR", "")
	if addr == "" {
		return cache.NewSQLGeocodeCache(conn, dialect), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}

	log.Printf("geocode cache=redis addr=%s", addr)
	return cache.NewRedisGeocodeCache(client, 30*24*time.Hour), func() { client.Close() }, nil
}
