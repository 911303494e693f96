// Package loader reads the four headerless scenario tables from CSV files:
// shop_data.csv (name, x, y), product_data.csv (shop, product, price, stock),
// item_data.csv (product, quantity), route_data.csv (from, to, time, cost).
package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"shopping-tour-service/internal/domain"
)

const (
	ShopDataFile    = "shop_data.csv"
	ProductDataFile = "product_data.csv"
	ItemDataFile    = "item_data.csv"
	RouteDataFile   = "route_data.csv"
)

// CSV-backed implementation of the ScenarioRepository port, reading a
// scenario directory in the original tabular format.
type CSVLoader struct {
	Dir    string
	Origin domain.Coordinates
}

func NewCSVLoader(dir string, origin domain.Coordinates) *CSVLoader {
	return &CSVLoader{Dir: dir, Origin: origin}
}

// LoadWorld reads all four tables and assembles the world model. A product
// or route record naming a shop absent from shop_data.csv is a load-time
// inconsistency and fails immediately.
func (l *CSVLoader) LoadWorld(_ context.Context) (*domain.World, error) {
	shops, byName, err := l.loadShops()
	if err != nil {
		return nil, err
	}
	if err := l.loadOffers(byName); err != nil {
		return nil, err
	}
	items, err := l.loadItems()
	if err != nil {
		return nil, err
	}
	routes, err := l.loadRoutes()
	if err != nil {
		return nil, err
	}

	world, err := domain.NewWorld(l.Origin, shops, items, routes)
	if err != nil {
		return nil, fmt.Errorf("csv loader: %w", err)
	}
	return world, nil
}

func (l *CSVLoader) readTable(name string, fields int) ([][]string, error) {
	path := filepath.Join(l.Dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv loader: open %q: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = fields
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv loader: read %q: %w", path, err)
	}
	return records, nil
}

func (l *CSVLoader) loadShops() ([]*domain.Shop, map[string]*domain.Shop, error) {
	records, err := l.readTable(ShopDataFile, 3)
	if err != nil {
		return nil, nil, err
	}

	shops := make([]*domain.Shop, 0, len(records))
	byName := make(map[string]*domain.Shop, len(records))
	for i, rec := range records {
		x, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("csv loader: shop row %d: parse x: %w", i+1, err)
		}
		y, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("csv loader: shop row %d: parse y: %w", i+1, err)
		}
		shop := domain.NewShop(rec[0], domain.Coordinates{X: x, Y: y})
		shops = append(shops, shop)
		byName[shop.Name] = shop
	}
	return shops, byName, nil
}

func (l *CSVLoader) loadOffers(byName map[string]*domain.Shop) error {
	records, err := l.readTable(ProductDataFile, 4)
	if err != nil {
		return err
	}

	for i, rec := range records {
		shop, ok := byName[rec[0]]
		if !ok {
			return fmt.Errorf("csv loader: product row %d references unknown shop %q", i+1, rec[0])
		}
		price, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return fmt.Errorf("csv loader: product row %d: parse price: %w", i+1, err)
		}
		stock, err := strconv.Atoi(rec[3])
		if err != nil {
			return fmt.Errorf("csv loader: product row %d: parse stock: %w", i+1, err)
		}
		shop.PriceByProduct[rec[1]] = price
		shop.StockByProduct[rec[1]] = stock
	}
	return nil
}

func (l *CSVLoader) loadItems() ([]*domain.Item, error) {
	records, err := l.readTable(ItemDataFile, 2)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.Item, 0, len(records))
	for i, rec := range records {
		quantity, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("csv loader: item row %d: parse quantity: %w", i+1, err)
		}
		items = append(items, &domain.Item{Name: rec[0], Quantity: quantity})
	}
	return items, nil
}

func (l *CSVLoader) loadRoutes() ([]domain.Route, error) {
	records, err := l.readTable(RouteDataFile, 4)
	if err != nil {
		return nil, err
	}

	routes := make([]domain.Route, 0, len(records))
	for i, rec := range records {
		t, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("csv loader: route row %d: parse time: %w", i+1, err)
		}
		c, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("csv loader: route row %d: parse cost: %w", i+1, err)
		}
		routes = append(routes, domain.Route{ShopFrom: rec[0], ShopTo: rec[1], Time: t, Cost: c})
	}
	return routes, nil
}
