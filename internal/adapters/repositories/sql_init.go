package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres scenario schema (dbtool).
func InitSchemaSQL(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS scenario (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			origin_x DOUBLE PRECISION NOT NULL,
			origin_y DOUBLE PRECISION NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS shops (
			name TEXT PRIMARY KEY,
			loc_x DOUBLE PRECISION NOT NULL,
			loc_y DOUBLE PRECISION NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS offers (
			shop_name TEXT NOT NULL,
			product TEXT NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			stock INTEGER NOT NULL,
			PRIMARY KEY (shop_name, product)
		);`,
		`CREATE TABLE IF NOT EXISTS items (
			product TEXT PRIMARY KEY,
			quantity INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS routes (
			route_id SERIAL PRIMARY KEY,
			shop_from TEXT NOT NULL,
			shop_to TEXT NOT NULL,
			time DOUBLE PRECISION NOT NULL,
			cost DOUBLE PRECISION NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_routes_from_to ON routes(shop_from, shop_to);`,
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

// Populate Postgres with one scenario seed, replacing existing rows.
func SeedSQL(db *sql.DB, seed ScenarioSeed) error {
	shopNames := make(map[string]bool, len(seed.Shops))
	for _, s := range seed.Shops {
		shopNames[s.Name] = true
	}
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
		`INSERT INTO scenario (id, origin_x, origin_y) VALUES (1, $1, $2)
		 ON CONFLICT (id) DO UPDATE SET origin_x = EXCLUDED.origin_x, origin_y = EXCLUDED.origin_y;`,
		seed.OriginX, seed.OriginY,
	); err != nil {
		return fmt.Errorf("seed scenario: insert origin: %w", err)
	}

	for _, s := range seed.Shops {
		if _, err := tx.Exec(
			`INSERT INTO shops (name, loc_x, loc_y) VALUES ($1, $2, $3)
			 ON CONFLICT (name) DO UPDATE SET loc_x = EXCLUDED.loc_x, loc_y = EXCLUDED.loc_y;`,
			s.Name, s.X, s.Y,
		); err != nil {
			return fmt.Errorf("seed scenario: insert shop %q: %w", s.Name, err)
		}
		for _, o := range s.Offers {
			if _, err := tx.Exec(
				`INSERT INTO offers (shop_name, product, price, stock) VALUES ($1, $2, $3, $4)
				 ON CONFLICT (shop_name, product) DO UPDATE SET price = EXCLUDED.price, stock = EXCLUDED.stock;`,
				s.Name, o.Product, o.Price, o.Stock,
			); err != nil {
				return fmt.Errorf("seed scenario: insert offer %q at %q: %w", o.Product, s.Name, err)
			}
		}
	}

	for _, it := range seed.Items {
		if _, err := tx.Exec(
			`INSERT INTO items (product, quantity) VALUES ($1, $2)
			 ON CONFLICT (product) DO UPDATE SET quantity = EXCLUDED.quantity;`,
			it.Product, it.Quantity,
		); err != nil {
			return fmt.Errorf("seed scenario: insert item %q: %w", it.Product, err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM routes;`); err != nil {
		return fmt.Errorf("seed scenario: clear routes: %w", err)
	}
	for _, r := range seed.Routes {
		if _, err := tx.Exec(
			`INSERT INTO routes (shop_from, shop_to, time, cost) VALUES ($1, $2, $3, $4);`,
			r.ShopFrom, r.ShopTo, r.Time, r.Cost,
		); err != nil {
			return fmt.Errorf("seed scenario: insert route %s -> %s: %w", r.ShopFrom, r.ShopTo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed scenario: commit tx: %w", err)
	}

	return nil
}
