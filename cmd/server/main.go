package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"shopping-tour-service/internal/adapters/cache"
	"shopping-tour-service/internal/adapters/loader"
	"shopping-tour-service/internal/adapters/repositories"
	"shopping-tour-service/internal/adapters/solver"
	"shopping-tour-service/internal/api"
	"shopping-tour-service/internal/config"
	"shopping-tour-service/internal/domain"
	"shopping-tour-service/internal/milp"
	"shopping-tour-service/internal/platform/db"
	"shopping-tour-service/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (CSV/Postgres/SQLite scenario store, Redis plan
// cache, branch-and-bound solver) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")

	repo, closeRepo, err := buildScenarioRepository()
	if err != nil {
		log.Fatal(err)
	}
	defer closeRepo()

	planCache := buildPlanCache()

	planning, err := config.LoadPlanning(os.Getenv("PLANNING_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}

	weights := milp.DefaultWeights()
	if planning.Weights.Cost > 0 || planning.Weights.Distance > 0 {
		weights = milp.Weights{Cost: planning.Weights.Cost, Distance: planning.Weights.Distance}
	}
	tuning := milp.DefaultTuning()
	if planning.PriceSentinel > 0 {
		tuning.PriceSentinel = planning.PriceSentinel
	}
	if planning.VisitGuard > 0 {
		tuning.VisitGuard = planning.VisitGuard
	}

	solveLimit := config.GetDuration("SOLVE_TIME_LIMIT", 60*time.Second)
	bnb := solver.NewBranchAndBound(solver.Options{TimeLimit: solveLimit})

	router := api.NewRouter(repo, bnb, planCache, api.Options{
		SolveTimeLimit: solveLimit,
		CacheTTL:       config.GetDuration("PLAN_CACHE_TTL", time.Hour),
		Weights:        weights,
		Tuning:         tuning,
	})

	// Timeouts are tuned for solver-backed planning, which can run for the
	// full solve budget before a response is written.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      solveLimit + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// buildScenarioRepository picks the scenario source: a CSV directory when
// SCENARIO_DIR is set, the shared Postgres store (provisioned by dbtool) when
// DATABASE_URL is set, the local SQLite store otherwise.
func buildScenarioRepository() (ports.ScenarioRepository, func(), error) {
	if dir := os.Getenv("SCENARIO_DIR"); dir != "" {
		origin := domain.Coordinates{X: 50, Y: 50}
		return loader.NewCSVLoader(dir, origin), func() {}, nil
	}

	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		conn, err := db.Open(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewSQLScenarioRepository(conn), func() { conn.Close() }, nil
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/scenario.json")

	conn, err := openDB(dbPath)
	if err != nil {
		return nil, nil, err
	}

	if err := initAndSeed(conn, seedPath); err != nil {
		conn.Close()
		return nil, nil, err
	}

	return repositories.NewSqliteScenarioRepository(conn), func() { conn.Close() }, nil
}

// buildPlanCache returns a Redis plan cache when REDIS_URL is set, nil
// otherwise. Planning works without a cache, just slower on repeats.
func buildPlanCache() ports.PlanCache {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil
	}

	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("invalid REDIS_URL, running without plan cache: %v", err)
		return nil
	}
	return cache.NewRedisPlanCache(redis.NewClient(redisOpts))
}

func openDB(dbPath string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return conn, nil
}

func initAndSeed(conn *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(conn, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
