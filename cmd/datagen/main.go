package main

import (
	"flag"
	"log"
	"strings"

	"shopping-tour-service/internal/adapters/datagen"
)

// datagen writes a random scenario in the CSV table format the loader reads.
func main() {
	var (
		dir      = flag.String("dir", "data/scenario", "output directory for the CSV tables")
		seed     = flag.Int64("seed", 1, "random seed")
		shops    = flag.String("shops", "albert,budget,crestline,delta,eastside", "comma-separated shop names")
		products = flag.String("products", "apples,bread,cheese,eggs,flour,honey,jam,milk,oats,rice,sugar,tea", "comma-separated product names")
		offers   = flag.Int("offers", 100, "number of offer rows")
		items    = flag.Int("items", 12, "shopping-list length")
		routes   = flag.Int("routes", 10, "extra non-walking routes")
	)
	flag.Parse()

	gen := datagen.NewGenerator(datagen.Params{
		ShopNames:      splitList(*shops),
		ProductNames:   splitList(*products),
		NumOffers:      *offers,
		NumItems:       *items,
		NumExtraRoutes: *routes,
	}, *seed)

	if err := gen.WriteCSV(*dir); err != nil {
		log.Fatal(err)
	}
	log.Printf("Scenario written dir=%s seed=%d", *dir, *seed)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
