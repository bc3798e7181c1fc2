package api

import (
	"net/http"
	"trip-planner-service/internal/api/handlers"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/rs/cors"
)

type Deps struct {
	Planner handlers.TripPlanner
	Repo    ports.TripRepository
	Rules   domain.Ruleset
	DB      handlers.Pinger
	// Browser origins allowed to call the API. Empty allows all.
	CORSOrigins []string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	health := &handlers.HealthHandler{DB: d.DB}
	trips := &handlers.TripHandler{
		Planner: d.Planner,
		Repo:    d.Repo,
		Rules:   d.Rules,
	}

	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("POST /trips", trips.Create)
	mux.HandleFunc("GET /trips", trips.List)
	mux.HandleFunc("GET /trips/{id}", trips.Get)
	mux.HandleFunc("GET /trips/{id}/route", trips.Route)
	mux.HandleFunc("GET /trips/{id}/logs", trips.Logs)
	mux.HandleFunc("GET /trips/{id}/log-sheets", trips.LogSheets)
	mux.HandleFunc("GET /trips/{id}/summary", trips.Summary)

	c := cors.New(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	})

	return requestIDMiddleware(loggingMiddleware(c.Handler(mux)))
}
