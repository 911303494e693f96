package domain

import "sort"

const (
	// OriginShopName identifies the synthetic shop placed at the tour's
	// start/end point. It always sits at index 0 of World.Shops.
	OriginShopName = "origin"

	// ForcingProduct is offered only by the origin shop. Having it on the
	// shopping list forces every tour to resolve back to shop index 0.
	ForcingProduct = "origin-pass"

	// ForcingProductPrice is negligible so the forcing purchase never
	// influences which real shops a tour selects.
	ForcingProductPrice = 0.01
)

// Represents a single shop: a location plus a priced and stocked catalog.
// A product is purchasable only when it appears in both mappings.
type Shop struct {
	Name           string
	Location       Coordinates
	PriceByProduct map[string]float64
	StockByProduct map[string]int
}

func NewShop(name string, location Coordinates) *Shop {
	return &Shop{
		Name:           name,
		Location:       location,
		PriceByProduct: map[string]float64{},
		StockByProduct: map[string]int{},
	}
}

// Offers reports whether the product is both priced and stocked here.
func (s *Shop) Offers(product string) bool {
	_, priced := s.PriceByProduct[product]
	_, stocked := s.StockByProduct[product]
	return priced && stocked
}

// Price returns the product's price and whether the product is purchasable here.
func (s *Shop) Price(product string) (float64, bool) {
	if !s.Offers(product) {
		return 0, false
	}
	return s.PriceByProduct[product], true
}

// Stock returns the purchasable stock of the product, 0 when not offered.
func (s *Shop) Stock(product string) int {
	if !s.Offers(product) {
		return 0
	}
	return s.StockByProduct[product]
}

// AvailableProducts returns the sorted intersection of the price and stock
// mappings' keys.
func (s *Shop) AvailableProducts() []string {
	products := make([]string, 0, len(s.PriceByProduct))
	for p := range s.PriceByProduct {
		if _, ok := s.StockByProduct[p]; ok {
			products = append(products, p)
		}
	}
	sort.Strings(products)
	return products
}

// One line of the shopping list: a product name and the desired quantity.
type Item struct {
	Name     string
	Quantity int
}
