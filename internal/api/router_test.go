package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopping-tour-service/internal/domain"
	"shopping-tour-service/internal/milp"
)

type stubRepo struct{ world *domain.World }

func (r *stubRepo) LoadWorld(context.Context) (*domain.World, error) { return r.world, nil }

type stubSolver struct{}

func (stubSolver) Solve(_ context.Context, p *milp.Problem) (*milp.Solution, error) {
	return nil, milp.ErrInfeasible
}

func testRouter(t *testing.T, opts Options) http.Handler {
	t.Helper()

	alpha := domain.NewShop("alpha", domain.Coordinates{X: 1, Y: 1})
	alpha.PriceByProduct["milk"] = 2.0
	alpha.StockByProduct["milk"] = 5
	w, err := domain.NewWorld(domain.Coordinates{}, []*domain.Shop{alpha},
		[]*domain.Item{{Name: "milk", Quantity: 1}}, nil)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return NewRouter(&stubRepo{world: w}, stubSolver{}, nil, opts)
}

func TestRouterServesCoreEndpoints(t *testing.T) {
	router := testRouter(t, Options{RateLimitRPS: 1000})

	for _, path := range []string{"/health", "/shops", "/items", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d, body %s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestRouterSetsCORSHeaders(t *testing.T) {
	router := testRouter(t, Options{RateLimitRPS: 1000})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatal("expected CORS headers on cross-origin request")
	}
}

func TestRouterShedsLoad(t *testing.T) {
	router := testRouter(t, Options{RateLimitRPS: 1})

	tooMany := false
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			tooMany = true
		}
	}
	if !tooMany {
		t.Fatal("expected the rate limiter to reject part of the burst")
	}
}
