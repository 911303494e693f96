package handlers

import (
	"log"
	"net/http"

	"shopping-tour-service/internal/api/dto"
	"shopping-tour-service/internal/domain"
	"shopping-tour-service/internal/ports"
)

// ScenarioHandler exposes read-only views of the loaded scenario. The
// synthetic origin shop and its forcing product are modeling artifacts and
// stay hidden from API responses.
type ScenarioHandler struct {
	Repo ports.ScenarioRepository
}

func (h *ScenarioHandler) ListShops(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	world, err := h.Repo.LoadWorld(r.Context())
	if err != nil {
		log.Printf("list shops failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListShopsResponse{Shops: make([]dto.ShopResponse, 0, len(world.Shops))}
	for _, shop := range world.Shops {
		if shop.Name == domain.OriginShopName {
			continue
		}
		products := make(map[string]float64, len(shop.PriceByProduct))
		for name, price := range shop.PriceByProduct {
			products[name] = price
		}
		res.Shops = append(res.Shops, dto.ShopResponse{
			Name:     shop.Name,
			X:        shop.Location.X,
			Y:        shop.Location.Y,
			Products: products,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ScenarioHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	world, err := h.Repo.LoadWorld(r.Context())
	if err != nil {
		log.Printf("list items failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	items := world.UserItems()
	res := dto.ListItemsResponse{Items: make([]dto.ItemResponse, 0, len(items))}
	for _, item := range items {
		res.Items = append(res.Items, dto.ItemResponse{Name: item.Name, Quantity: item.Quantity})
	}

	writeJSON(w, r, http.StatusOK, res)
}
