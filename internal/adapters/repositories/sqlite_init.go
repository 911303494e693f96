package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite scenario schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createScenarioQuery := `
	CREATE TABLE IF NOT EXISTS scenario (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		origin_x REAL NOT NULL,
		origin_y REAL NOT NULL
	);
	`

	createShopsQuery := `
	CREATE TABLE IF NOT EXISTS shops (
		name TEXT PRIMARY KEY,
		loc_x REAL NOT NULL,
		loc_y REAL NOT NULL
	);
	`

	createOffersQuery := `
	CREATE TABLE IF NOT EXISTS offers (
		shop_name TEXT NOT NULL,
		product TEXT NOT NULL,
		price REAL NOT NULL,
		stock INTEGER NOT NULL,
		PRIMARY KEY (shop_name, product)
	);
	`

	createItemsQuery := `
	CREATE TABLE IF NOT EXISTS items (
		product TEXT PRIMARY KEY,
		quantity INTEGER NOT NULL
	);
	`

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		route_id INTEGER PRIMARY KEY AUTOINCREMENT,
		shop_from TEXT NOT NULL,
		shop_to TEXT NOT NULL,
		time REAL NOT NULL,
		cost REAL NOT NULL
	);
	`

	createRouteIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_routes_from_to
	ON routes(shop_from, shop_to);
	`

	statements := []string{
		createScenarioQuery,
		createShopsQuery,
		createOffersQuery,
		createItemsQuery,
		createRoutesQuery,
		createRouteIndexQuery,
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

type OfferSeed struct {
	Product string  `json:"product"`
	Price   float64 `json:"price"`
	Stock   int     `json:"stock"`
}

type ShopSeed struct {
	Name   string      `json:"name"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Offers []OfferSeed `json:"offers"`
}

type ItemSeed struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type RouteSeed struct {
	ShopFrom string  `json:"shop_from"`
	ShopTo   string  `json:"shop_to"`
	Time     float64 `json:"time"`
	Cost     float64 `json:"cost"`
}

type ScenarioSeed struct {
	OriginX float64     `json:"origin_x"`
	OriginY float64     `json:"origin_y"`
	Shops   []ShopSeed  `json:"shops"`
	Items   []ItemSeed  `json:"items"`
	Routes  []RouteSeed `json:"routes"`
}

// Populate the database with one scenario from a JSON file. Existing rows
// are replaced so repeated local runs stay idempotent.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed scenario: read %q: %w", jsonPath, err)
	}

	var seed ScenarioSeed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return fmt.Errorf("seed scenario: parse json: %w", err)
	}

	shopNames := make(map[string]bool, len(seed.Shops))
	for i, s := range seed.Shops {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("seed scenario: shop at index %d has empty name", i)
		}
		shopNames[s.Name] = true
	}
	// An offer or route naming a shop outside the shop list is malformed
	// input, refused outright rather than repaired.
	for _, r := range seed.Routes {
		if !shopNames[r.ShopFrom] {
			return fmt.Errorf("seed scenario: route references unknown shop %q", r.ShopFrom)
		}
		if !shopNames[r.ShopTo] {
			return fmt.Errorf("seed scenario: route references unknown shop %q", r.ShopTo)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed scenario: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO scenario (id, origin_x, origin_y) VALUES (1, ?, ?);`,
		seed.OriginX, seed.OriginY,
	); err != nil {
		return fmt.Errorf("seed scenario: insert origin: %w", err)
	}

	shopStmt, err := tx.Prepare(`INSERT OR REPLACE INTO shops (name, loc_x, loc_y) VALUES (?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("seed scenario: prepare shop insert: %w", err)
	}
	defer shopStmt.Close()

	offerStmt, err := tx.Prepare(`INSERT OR REPLACE INTO offers (shop_name, product, price, stock) VALUES (?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("seed scenario: prepare offer insert: %w", err)
	}
	defer offerStmt.Close()

	for _, s := range seed.Shops {
		if _, err := shopStmt.Exec(s.Name, s.X, s.Y); err != nil {
			return fmt.Errorf("seed scenario: insert shop %q: %w", s.Name, err)
		}
		for _, o := range s.Offers {
			if _, err := offerStmt.Exec(s.Name, o.Product, o.Price, o.Stock); err != nil {
				return fmt.Errorf("seed scenario: insert offer %q at %q: %w", o.Product, s.Name, err)
			}
		}
	}

	itemStmt, err := tx.Prepare(`INSERT OR REPLACE INTO items (product, quantity) VALUES (?, ?);`)
	if err != nil {
		return fmt.Errorf("seed scenario: prepare item insert: %w", err)
	}
	defer itemStmt.Close()

	for _, it := range seed.Items {
		if _, err := itemStmt.Exec(it.Product, it.Quantity); err != nil {
			return fmt.Errorf("seed scenario: insert item %q: %w", it.Product, err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM routes;`); err != nil {
		return fmt.Errorf("seed scenario: clear routes: %w", err)
	}
	routeStmt, err := tx.Prepare(`INSERT INTO routes (shop_from, shop_to, time, cost) VALUES (?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("seed scenario: prepare route insert: %w", err)
	}
	defer routeStmt.Close()

	for _, r := range seed.Routes {
		if _, err := routeStmt.Exec(r.ShopFrom, r.ShopTo, r.Time, r.Cost); err != nil {
			return fmt.Errorf("seed scenario: insert route %s -> %s: %w", r.ShopFrom, r.ShopTo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed scenario: commit tx: %w", err)
	}

	return nil
}
