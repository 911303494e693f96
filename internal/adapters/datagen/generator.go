// Package datagen produces random shopping scenarios in the tabular format
// the CSV loader consumes, for exercising the schedulers and formulations on
// instances of controlled size.
package datagen

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
)

// Params bound the generated scenario. Zero values fall back to defaults.
type Params struct {
	ShopNames    []string
	ProductNames []string

	PriceMin, PriceMax float64
	StockMin, StockMax int
	LocMin, LocMax     float64
	NumOffers          int // offer rows in product_data.csv
	NumItems           int // shopping-list length
	MaxItemQuantity    int
	NumExtraRoutes     int // random non-walking routes
	CostMin, CostMax   float64
}

func (p *Params) applyDefaults() {
	if p.PriceMax == 0 {
		p.PriceMin, p.PriceMax = 0.1, 20.0
	}
	if p.StockMax == 0 {
		p.StockMin, p.StockMax = 1, 50
	}
	if p.LocMax == 0 {
		p.LocMin, p.LocMax = 0, 100
	}
	if p.NumOffers == 0 {
		p.NumOffers = 100
	}
	if p.NumItems == 0 {
		p.NumItems = 12
	}
	if p.MaxItemQuantity == 0 {
		p.MaxItemQuantity = 10
	}
	if p.NumExtraRoutes == 0 {
		p.NumExtraRoutes = 10
	}
	if p.CostMax == 0 {
		p.CostMin, p.CostMax = 1, 8
	}
}

// Generator emits random scenario tables from a seeded source, so generated
// fixtures are reproducible.
type Generator struct {
	params Params
	rng    *rand.Rand
}

func NewGenerator(params Params, seed int64) *Generator {
	params.applyDefaults()
	return &Generator{params: params, rng: rand.New(rand.NewSource(seed))}
}

type tables struct {
	shops    [][]string
	products [][]string
	items    [][]string
	routes   [][]string
}

func (g *Generator) generate() tables {
	var t tables

	for _, name := range g.params.ShopNames {
		t.shops = append(t.shops, []string{
			name,
			formatFloat(g.uniform(g.params.LocMin, g.params.LocMax)),
			formatFloat(g.uniform(g.params.LocMin, g.params.LocMax)),
		})
	}

	for i := 0; i < g.params.NumOffers; i++ {
		t.products = append(t.products, []string{
			g.pick(g.params.ShopNames),
			g.pick(g.params.ProductNames),
			formatFloat(g.uniform(g.params.PriceMin, g.params.PriceMax)),
			strconv.Itoa(g.intBetween(g.params.StockMin, g.params.StockMax)),
		})
	}

	for i := 0; i < g.params.NumItems; i++ {
		t.items = append(t.items, []string{
			g.pick(g.params.ProductNames),
			strconv.Itoa(g.intBetween(1, g.params.MaxItemQuantity)),
		})
	}

	// Extra non-walking routes between distinct random shops; the walking
	// network itself is synthesized at world assembly.
	for i := 0; i < g.params.NumExtraRoutes; i++ {
		from := g.pick(g.params.ShopNames)
		to := g.pick(g.params.ShopNames)
		if from == to {
			continue
		}
		t.routes = append(t.routes, []string{
			from,
			to,
			formatFloat(g.uniform(g.params.LocMin, g.params.LocMax)),
			formatFloat(g.uniform(g.params.CostMin, g.params.CostMax)),
		})
	}

	return t
}

// WriteCSV generates one scenario and writes the four tables into dir.
func (g *Generator) WriteCSV(dir string) error {
	if len(g.params.ShopNames) == 0 || len(g.params.ProductNames) == 0 {
		return fmt.Errorf("datagen: shop and product name lists must be non-empty")
	}

	t := g.generate()
	files := []struct {
		name    string
		records [][]string
	}{
		{"shop_data.csv", t.shops},
		{"product_data.csv", t.products},
		{"item_data.csv", t.items},
		{"route_data.csv", t.routes},
	}

	for _, f := range files {
		if err := writeTable(filepath.Join(dir, f.name), f.records); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("datagen: create %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("datagen: write %q: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("datagen: flush %q: %w", path, err)
	}
	return nil
}

func (g *Generator) uniform(min, max float64) float64 {
	return min + g.rng.Float64()*(max-min)
}

func (g *Generator) intBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rng.Intn(max-min+1)
}

func (g *Generator) pick(list []string) string {
	return list[g.rng.Intn(len(list))]
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
