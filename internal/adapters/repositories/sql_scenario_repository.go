package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopping-tour-service/internal/domain"
	"shopping-tour-service/internal/platform/obs"
)

// SQLScenarioRepository is the Postgres-backed implementation of the
// ScenarioRepository port, used when scenarios are shared between runs.
type SQLScenarioRepository struct{ DB *sql.DB }

func NewSQLScenarioRepository(db *sql.DB) *SQLScenarioRepository {
	return &SQLScenarioRepository{DB: db}
}

// LoadWorld assembles the stored scenario into a world model.
func (s *SQLScenarioRepository) LoadWorld(ctx context.Context) (_ *domain.World, err error) {
	defer obs.Time(ctx, "scenario.sql.LoadWorld")(&err)

	if s.DB == nil {
		return nil, errors.New("sql scenario repository: DB is nil")
	}

	var origin domain.Coordinates
	err = s.DB.QueryRowContext(ctx, `SELECT origin_x, origin_y FROM scenario WHERE id = 1;`).
		Scan(&origin.X, &origin.Y)
	if errors.Is(err, sql.ErrNoRows) {
		origin = domain.Coordinates{X: 50, Y: 50}
	} else if err != nil {
		return nil, fmt.Errorf("load world: query scenario origin: %w", err)
	}

	shops := make([]*domain.Shop, 0, 16)
	byName := make(map[string]*domain.Shop, 16)
	rows, err := s.DB.QueryContext(ctx, `SELECT name, loc_x, loc_y FROM shops ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("load world: query shops table: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var x, y float64
		if err := rows.Scan(&name, &x, &y); err != nil {
			return nil, fmt.Errorf("load world: scan shop row: %w", err)
		}
		shop := domain.NewShop(name, domain.Coordinates{X: x, Y: y})
		shops = append(shops, shop)
		byName[name] = shop
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load world: shop row iteration: %w", err)
	}

	offerRows, err := s.DB.QueryContext(ctx, `SELECT shop_name, product, price, stock FROM offers;`)
	if err != nil {
		return nil, fmt.Errorf("load world: query offers table: %w", err)
	}
	defer offerRows.Close()
	for offerRows.Next() {
		var shopName, product string
		var price float64
		var stock int
		if err := offerRows.Scan(&shopName, &product, &price, &stock); err != nil {
			return nil, fmt.Errorf("load world: scan offer row: %w", err)
		}
		shop, ok := byName[shopName]
		if !ok {
			return nil, fmt.Errorf("load world: offer references unknown shop %q", shopName)
		}
		shop.PriceByProduct[product] = price
		shop.StockByProduct[product] = stock
	}
	if err := offerRows.Err(); err != nil {
		return nil, fmt.Errorf("load world: offer row iteration: %w", err)
	}

	items := make([]*domain.Item, 0, 16)
	itemRows, err := s.DB.QueryContext(ctx, `SELECT product, quantity FROM items ORDER BY product;`)
	if err != nil {
		return nil, fmt.Errorf("load world: query items table: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var product string
		var quantity int
		if err := itemRows.Scan(&product, &quantity); err != nil {
			return nil, fmt.Errorf("load world: scan item row: %w", err)
		}
		items = append(items, &domain.Item{Name: product, Quantity: quantity})
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("load world: item row iteration: %w", err)
	}

	routes := make([]domain.Route, 0, 32)
	routeRows, err := s.DB.QueryContext(ctx, `SELECT shop_from, shop_to, time, cost FROM routes ORDER BY route_id;`)
	if err != nil {
		return nil, fmt.Errorf("load world: query routes table: %w", err)
	}
	defer routeRows.Close()
	for routeRows.Next() {
		var r domain.Route
		if err := routeRows.Scan(&r.ShopFrom, &r.ShopTo, &r.Time, &r.Cost); err != nil {
			return nil, fmt.Errorf("load world: scan route row: %w", err)
		}
		routes = append(routes, r)
	}
	if err := routeRows.Err(); err != nil {
		return nil, fmt.Errorf("load world: route row iteration: %w", err)
	}

	world, err := domain.NewWorld(origin, shops, items, routes)
	if err != nil {
		return nil, fmt.Errorf("load world: %w", err)
	}
	return world, nil
}
