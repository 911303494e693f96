package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopping-tour-service/internal/api/dto"
	"shopping-tour-service/internal/domain"
)

func TestListShopsHidesOrigin(t *testing.T) {
	h := &ScenarioHandler{Repo: &stubRepo{world: testWorld(t)}}

	req := httptest.NewRequest(http.MethodGet, "/shops", nil)
	rec := httptest.NewRecorder()
	h.ListShops(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var res dto.ListShopsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Shops) != 2 {
		t.Fatalf("shops = %+v, want alpha and beta only", res.Shops)
	}
	for _, s := range res.Shops {
		if s.Name == domain.OriginShopName {
			t.Fatal("origin shop leaked into the response")
		}
	}
	if res.Shops[1].Products["bread"] != 3.0 {
		t.Fatalf("beta products = %v", res.Shops[1].Products)
	}
}

func TestListItemsHidesForcingProduct(t *testing.T) {
	h := &ScenarioHandler{Repo: &stubRepo{world: testWorld(t)}}

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	rec := httptest.NewRecorder()
	h.ListItems(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var res dto.ListItemsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("items = %+v", res.Items)
	}
	for _, it := range res.Items {
		if it.Name == domain.ForcingProduct {
			t.Fatal("forcing product leaked into the response")
		}
	}
}

func TestScenarioHandlersRejectNonGet(t *testing.T) {
	h := &ScenarioHandler{Repo: &stubRepo{world: testWorld(t)}}

	for _, fn := range []http.HandlerFunc{h.ListShops, h.ListItems} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		fn(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("status = %d, want 405", rec.Code)
		}
	}
}
