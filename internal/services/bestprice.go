package services

import (
	"fmt"
	"sort"

	"shopping-tour-service/internal/domain"
)

// BestPriceSchedule buys every listed item at the shop offering its lowest
// price (ties broken by shop encounter order) and stitches the purchases
// together with walking legs between consecutive distinct shops, ordered by
// shop name. Travel cost and time are ignored entirely, so the result
// brackets the optimum's purchase cost from below.
//
// Items no shop offers are skipped; callers report them via
// World.UnavailableItems instead of claiming they were bought.
func BestPriceSchedule(w *domain.World) (*domain.Schedule, error) {
	type pick struct {
		item *domain.Item
		shop *domain.Shop
	}

	picks := make([]pick, 0, len(w.Items))
	for _, item := range w.Items {
		if item.Name == domain.ForcingProduct {
			continue
		}
		var cheapest *domain.Shop
		bestPrice := 0.0
		for _, shop := range w.Shops {
			price, ok := shop.Price(item.Name)
			if !ok {
				continue
			}
			if cheapest == nil || price < bestPrice {
				cheapest = shop
				bestPrice = price
			}
		}
		if cheapest == nil {
			continue // unavailable item, reported by the caller
		}
		picks = append(picks, pick{item: item, shop: cheapest})
	}

	// Lexicographic shop order groups purchases per shop deterministically.
	sort.SliceStable(picks, func(i, j int) bool { return picks[i].shop.Name < picks[j].shop.Name })

	schedule := domain.NewSchedule(w.Origin)
	previous := domain.OriginShopName
	for _, p := range picks {
		if p.shop.Name != previous {
			route, err := w.WalkingRoute(previous, p.shop.Name)
			if err != nil {
				return nil, fmt.Errorf("best price schedule: %w", err)
			}
			schedule.AddTravel(route)
			previous = p.shop.Name
		}
		schedule.AddPurchase(p.item, p.shop, 1)
	}

	if previous != domain.OriginShopName {
		route, err := w.WalkingRoute(previous, domain.OriginShopName)
		if err != nil {
			return nil, fmt.Errorf("best price schedule: return leg: %w", err)
		}
		schedule.AddTravel(route)
	}
	return schedule, nil
}
