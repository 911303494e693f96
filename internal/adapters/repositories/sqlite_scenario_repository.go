package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopping-tour-service/internal/domain"
)

// SQLite-backed implementation of the ScenarioRepository port.
type SqliteScenarioRepository struct{ DB *sql.DB }

func NewSqliteScenarioRepository(db *sql.DB) *SqliteScenarioRepository {
	return &SqliteScenarioRepository{DB: db}
}

// LoadWorld assembles the stored scenario into a world model. An offer or
// route row referencing a shop missing from the shops table is a load-time
// inconsistency and fails immediately.
func (s *SqliteScenarioRepository) LoadWorld(ctx context.Context) (*domain.World, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite scenario repository: DB is nil")
	}

	origin, err := s.loadOrigin(ctx)
	if err != nil {
		return nil, err
	}

	shops, byName, err := s.loadShops(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.loadOffers(ctx, byName); err != nil {
		return nil, err
	}
	items, err := s.loadItems(ctx)
	if err != nil {
		return nil, err
	}
	routes, err := s.loadRoutes(ctx)
	if err != nil {
		return nil, err
	}

	world, err := domain.NewWorld(origin, shops, items, routes)
	if err != nil {
		return nil, fmt.Errorf("load world: %w", err)
	}
	return world, nil
}

func (s *SqliteScenarioRepository) loadOrigin(ctx context.Context) (domain.Coordinates, error) {
	var origin domain.Coordinates
	err := s.DB.QueryRowContext(ctx, `SELECT origin_x, origin_y FROM scenario WHERE id = 1;`).
		Scan(&origin.X, &origin.Y)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinates{X: 50, Y: 50}, nil
	}
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("load world: query scenario origin: %w", err)
	}
	return origin, nil
}

func (s *SqliteScenarioRepository) loadShops(ctx context.Context) ([]*domain.Shop, map[string]*domain.Shop, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT name, loc_x, loc_y FROM shops ORDER BY name;`)
	if err != nil {
		return nil, nil, fmt.Errorf("load world: query shops table: %w", err)
	}
	defer rows.Close()

	shops := make([]*domain.Shop, 0, 16)
	byName := make(map[string]*domain.Shop, 16)
	for rows.Next() {
		var name string
		var x, y float64
		if err := rows.Scan(&name, &x, &y); err != nil {
			return nil, nil, fmt.Errorf("load world: scan shop row: %w", err)
		}
		shop := domain.NewShop(name, domain.Coordinates{X: x, Y: y})
		shops = append(shops, shop)
		byName[name] = shop
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("load world: shop row iteration: %w", err)
	}
	return shops, byName, nil
}

func (s *SqliteScenarioRepository) loadOffers(ctx context.Context, byName map[string]*domain.Shop) error {
	rows, err := s.DB.QueryContext(ctx, `SELECT shop_name, product, price, stock FROM offers;`)
	if err != nil {
		return fmt.Errorf("load world: query offers table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var shopName, product string
		var price float64
		var stock int
		if err := rows.Scan(&shopName, &product, &price, &stock); err != nil {
			return fmt.Errorf("load world: scan offer row: %w", err)
		}
		shop, ok := byName[shopName]
		if !ok {
			return fmt.Errorf("load world: offer references unknown shop %q", shopName)
		}
		shop.PriceByProduct[product] = price
		shop.StockByProduct[product] = stock
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load world: offer row iteration: %w", err)
	}
	return nil
}

func (s *SqliteScenarioRepository) loadItems(ctx context.Context) ([]*domain.Item, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT product, quantity FROM items ORDER BY product;`)
	if err != nil {
		return nil, fmt.Errorf("load world: query items table: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.Item, 0, 16)
	for rows.Next() {
		var product string
		var quantity int
		if err := rows.Scan(&product, &quantity); err != nil {
			return nil, fmt.Errorf("load world: scan item row: %w", err)
		}
		items = append(items, &domain.Item{Name: product, Quantity: quantity})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load world: item row iteration: %w", err)
	}
	return items, nil
}

func (s *SqliteScenarioRepository) loadRoutes(ctx context.Context) ([]domain.Route, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT shop_from, shop_to, time, cost FROM routes ORDER BY route_id;`)
	if err != nil {
		return nil, fmt.Errorf("load world: query routes table: %w", err)
	}
	defer rows.Close()

	routes := make([]domain.Route, 0, 32)
	for rows.Next() {
		var r domain.Route
		if err := rows.Scan(&r.ShopFrom, &r.ShopTo, &r.Time, &r.Cost); err != nil {
			return nil, fmt.Errorf("load world: scan route row: %w", err)
		}
		routes = append(routes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load world: route row iteration: %w", err)
	}
	return routes, nil
}
