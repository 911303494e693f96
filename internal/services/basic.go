package services

import (
	"fmt"

	"shopping-tour-service/internal/domain"
)

// BasicSchedule builds a tour by walking shops in the world's input order,
// skipping the origin: at each shop it purchases every listed item available
// there that has not been purchased earlier, and adds a walking leg whenever
// a shop yielded at least one purchase.
//
// No cost or distance optimization is attempted; this is the baseline the
// solver-backed strategies are compared against.
func BasicSchedule(w *domain.World) (*domain.Schedule, error) {
	schedule := domain.NewSchedule(w.Origin)
	scheduled := make(map[string]bool, len(w.Items))
	previous := domain.OriginShopName

	for _, shop := range w.Shops {
		if shop.Name == domain.OriginShopName {
			continue
		}
		purchaseMade := false
		for _, item := range w.Items {
			if item.Name == domain.ForcingProduct || scheduled[item.Name] || !shop.Offers(item.Name) {
				continue
			}
			scheduled[item.Name] = true
			schedule.AddPurchase(item, shop, 1)
			purchaseMade = true
		}
		if !purchaseMade {
			continue
		}
		route, err := w.WalkingRoute(previous, shop.Name)
		if err != nil {
			return nil, fmt.Errorf("basic schedule: %w", err)
		}
		schedule.AddTravel(route)
		previous = shop.Name
	}

	if previous != domain.OriginShopName {
		route, err := w.WalkingRoute(previous, domain.OriginShopName)
		if err != nil {
			return nil, fmt.Errorf("basic schedule: return leg: %w", err)
		}
		schedule.AddTravel(route)
	}
	return schedule, nil
}
