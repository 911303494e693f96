package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"shopping-tour-service/internal/api/dto"
	"shopping-tour-service/internal/domain"
	"shopping-tour-service/internal/milp"
	"shopping-tour-service/internal/platform/metrics"
	"shopping-tour-service/internal/platform/obs"
	"shopping-tour-service/internal/ports"
	"shopping-tour-service/internal/services"
	"shopping-tour-service/internal/validate"
)

// TourHandler plans shopping tours. It coordinates scenario loading, strategy
// dispatch, the solver boundary, validation and the plan cache.
type TourHandler struct {
	Repo   ports.ScenarioRepository
	Solver ports.Solver
	Cache  ports.PlanCache

	// TimeLimit bounds one solver-backed planning run.
	TimeLimit time.Duration
	CacheTTL  time.Duration

	Weights milp.Weights
	Tuning  milp.Tuning
}

// Create handles POST /tours.
func (h *TourHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.TourRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	strategy, err := services.ParseStrategy(req.Strategy)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "unknown strategy")
		return
	}

	weights := h.Weights
	if req.Weights != nil {
		if req.Weights.Cost < 0 || req.Weights.Distance < 0 {
			writeError(w, r, http.StatusBadRequest, "weights must be non-negative")
			return
		}
		if req.Weights.Cost == 0 && req.Weights.Distance == 0 {
			writeError(w, r, http.StatusBadRequest, "at least one weight must be positive")
			return
		}
		weights = milp.Weights{Cost: req.Weights.Cost, Distance: req.Weights.Distance}
	}

	ctx := obs.WithRequestID(r.Context(), uuid.NewString())

	world, err := h.Repo.LoadWorld(ctx)
	if err != nil {
		log.Printf("load world failed: %v", err)
		metrics.PlanRequests.WithLabelValues(string(strategy), "error").Inc()
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	key := planKey(strategy, weights, h.Tuning, world)
	if h.Cache != nil {
		payload, hit, err := h.Cache.Get(ctx, key)
		if err != nil {
			log.Printf("plan cache get failed: %v", err)
		}
		if hit {
			metrics.PlanRequests.WithLabelValues(string(strategy), "cached").Inc()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(payload)
			return
		}
	}

	if strategy.UsesSolver() && h.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.TimeLimit)
		defer cancel()
	}

	start := time.Now()
	schedule, err := services.PlanTour(ctx, world, services.PlanTourRequest{
		Strategy: strategy,
		Weights:  weights,
		Tuning:   h.Tuning,
	}, h.Solver)
	metrics.PlanDuration.WithLabelValues(string(strategy)).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, milp.ErrInfeasible) || errors.Is(err, ports.ErrTimeLimit) {
			metrics.PlanRequests.WithLabelValues(string(strategy), "infeasible").Inc()
			writeError(w, r, http.StatusUnprocessableEntity, "no feasible tour for this scenario")
			return
		}
		log.Printf("plan tour failed: %v", err)
		metrics.PlanRequests.WithLabelValues(string(strategy), "error").Inc()
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	metrics.PlanRequests.WithLabelValues(string(strategy), "ok").Inc()

	res := renderTour(strategy, world, schedule, validate.Run(world, schedule))

	payload, err := json.Marshal(res)
	if err != nil {
		log.Printf("marshal tour failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.Cache != nil {
		if err := h.Cache.Put(ctx, key, payload, h.CacheTTL); err != nil {
			log.Printf("plan cache put failed: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func renderTour(strategy services.Strategy, w *domain.World, s *domain.Schedule, report validate.Report) dto.TourResponse {
	res := dto.TourResponse{
		PlanID:    uuid.NewString(),
		Strategy:  string(strategy),
		Cost:      s.Cost(),
		Duration:  s.Duration(),
		Items:     s.ItemQuantities(),
		Decisions: make([]dto.DecisionResponse, 0, len(s.ShopDecisions)+len(s.TravelDecisions)),
		Checks:    make([]dto.CheckResponse, 0, len(report)),
		Valid:     report.Passed(),
	}
	for _, item := range w.UnavailableItems() {
		res.Unavailable = append(res.Unavailable, item.Name)
	}

	for _, d := range s.Merged() {
		switch d.Kind {
		case domain.DecisionTravel:
			res.Decisions = append(res.Decisions, dto.DecisionResponse{
				Kind: "travel",
				From: d.Travel.Route.ShopFrom,
				To:   d.Travel.Route.ShopTo,
				Time: d.Travel.Route.Time,
				Cost: d.Travel.Route.Cost,
			})
		case domain.DecisionPurchase:
			price, _ := d.Purchase.Shop.Price(d.Purchase.Item.Name)
			res.Decisions = append(res.Decisions, dto.DecisionResponse{
				Kind:     "purchase",
				Item:     d.Purchase.Item.Name,
				Shop:     d.Purchase.Shop.Name,
				Quantity: d.Purchase.Quantity,
				Price:    price,
			})
		}
	}

	for _, check := range report {
		res.Checks = append(res.Checks, dto.CheckResponse{Name: check.Name, Pass: check.Pass})
	}
	return res
}

// planKey digests the planning parameters and the full scenario content so a
// cached plan is replayed only for an identical request against identical
// data.
func planKey(strategy services.Strategy, weights milp.Weights, tuning milp.Tuning, w *domain.World) string {
	h := sha256.New()
	fmt.Fprintf(h, "strategy=%s;w=%g,%g;t=%g,%g;origin=%g,%g;",
		strategy, weights.Cost, weights.Distance,
		tuning.PriceSentinel, tuning.VisitGuard,
		w.Origin.X, w.Origin.Y)

	for _, shop := range w.Shops {
		fmt.Fprintf(h, "shop=%s@%g,%g;", shop.Name, shop.Location.X, shop.Location.Y)
		products := make([]string, 0, len(shop.PriceByProduct))
		for name := range shop.PriceByProduct {
			products = append(products, name)
		}
		sort.Strings(products)
		for _, name := range products {
			fmt.Fprintf(h, "offer=%s:%g:%d;", name, shop.PriceByProduct[name], shop.StockByProduct[name])
		}
	}
	for _, item := range w.Items {
		fmt.Fprintf(h, "item=%s:%d;", item.Name, item.Quantity)
	}
	for _, route := range w.Routes {
		fmt.Fprintf(h, "route=%s>%s:%g:%g;", route.ShopFrom, route.ShopTo, route.Time, route.Cost)
	}
	return hex.EncodeToString(h.Sum(nil))
}
