package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"shopping-tour-service/internal/adapters/repositories"
	"shopping-tour-service/internal/config"
	"shopping-tour-service/internal/platform/db"
)

// dbtool provisions the Postgres scenario store: schema plus one scenario
// seed from a JSON file.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/scenario.json")
	if err := initAndSeed(conn, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(conn *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchemaSQL(conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")

	raw, err := os.ReadFile(seedPath)
	if err != nil {
		return fmt.Errorf("read seed %q: %w", seedPath, err)
	}
	var seed repositories.ScenarioSeed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse seed %q: %w", seedPath, err)
	}

	log.Println("Seeding database...")
	if err := repositories.SeedSQL(conn, seed); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Println("Seeding complete.")

	return nil
}
