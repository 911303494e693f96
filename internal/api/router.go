package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"shopping-tour-service/internal/api/handlers"
	"shopping-tour-service/internal/milp"
	"shopping-tour-service/internal/platform/metrics"
	"shopping-tour-service/internal/ports"
)

// Options carries the planning defaults and operational limits the handlers
// need. Zero values fall back to sensible defaults.
type Options struct {
	SolveTimeLimit time.Duration
	CacheTTL       time.Duration
	RateLimitRPS   float64
	Weights        milp.Weights
	Tuning         milp.Tuning
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(repo ports.ScenarioRepository, solver ports.Solver, planCache ports.PlanCache, opts Options) http.Handler {
	if opts.RateLimitRPS == 0 {
		opts.RateLimitRPS = 5
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = time.Hour
	}
	if opts.Weights == (milp.Weights{}) {
		opts.Weights = milp.DefaultWeights()
	}
	if opts.Tuning == (milp.Tuning{}) {
		opts.Tuning = milp.DefaultTuning()
	}

	metrics.Register()

	mux := http.NewServeMux()

	scenarioHandler := &handlers.ScenarioHandler{Repo: repo}
	tourHandler := &handlers.TourHandler{
		Repo:      repo,
		Solver:    solver,
		Cache:     planCache,
		TimeLimit: opts.SolveTimeLimit,
		CacheTTL:  opts.CacheTTL,
		Weights:   opts.Weights,
		Tuning:    opts.Tuning,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/shops", scenarioHandler.ListShops)
	mux.HandleFunc("/items", scenarioHandler.ListItems)
	mux.HandleFunc("/tours", tourHandler.Create)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimitRPS), int(opts.RateLimitRPS)*2)

	handler := rateLimitMiddleware(limiter, mux)
	handler = cors.Default().Handler(handler)
	return loggingMiddleware(handler)
}
