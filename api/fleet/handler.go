// Package fleet exposes the decision engine over HTTP.
package fleet

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kilianp07/trainready/core/model"
	"github.com/kilianp07/trainready/core/prediction"
	"github.com/kilianp07/trainready/core/ranking"
	"github.com/kilianp07/trainready/core/report"
	"github.com/kilianp07/trainready/core/rules"
	"github.com/kilianp07/trainready/infra/logger"
	"github.com/kilianp07/trainready/pkg/export"
)

// Engine is the decision surface served by the handler.
type Engine interface {
	Evaluate() []rules.Evaluation
	Rank(p ranking.Policy, k int) []ranking.Scored
	Predict() []prediction.VehiclePrediction
	StatusReport() report.Summary
	AlertReport() []report.AlertCount
	WhatIfReport(k int, w ranking.Weights) (report.WhatIf, error)
}

// RuleRow is one record of GET /api/rules.
type RuleRow struct {
	model.Vehicle
	Status rules.Status `json:"status"`
	Alerts string       `json:"alerts"`
}

// OptimizationRow is one record of GET /api/optimization.
type OptimizationRow struct {
	ID       string         `json:"id"`
	Branding model.Branding `json:"branding"`
	Mileage  float64        `json:"mileage"`
	Score    float64        `json:"score"`
}

// PredictiveRow is one record of GET /api/predictive.
type PredictiveRow struct {
	ID            string            `json:"id"`
	Route         string            `json:"route"`
	Mileage       float64           `json:"mileage"`
	PredictedDays float64           `json:"predicted_days"`
	Status        prediction.Status `json:"status"`
}

// WhatIfDefaults is the body of GET /api/whatif/defaults.
type WhatIfDefaults struct {
	K int `json:"k"`
	ranking.Weights
}

type handler struct {
	engine   Engine
	defaults ranking.Config
	log      logger.Logger
}

// NewHandler returns the fleet API routes. defaults supplies k and the
// what-if weights when a request omits them and is used as given; callers
// start from ranking.DefaultConfig. Every route allows cross-origin calls.
func NewHandler(e Engine, defaults ranking.Config, log logger.Logger) http.Handler {
	if log == nil {
		log = logger.NopLogger{}
	}
	h := &handler{engine: e, defaults: defaults, log: log}
	mux := http.NewServeMux()
	mux.Handle("/api/rules", get(h.rules))
	mux.Handle("/api/optimization", get(h.optimization))
	mux.Handle("/api/predictive", get(h.predictive))
	mux.Handle("/api/whatif", method(http.MethodPost, h.whatIf))
	mux.Handle("/api/whatif/defaults", get(h.whatIfDefaults))
	mux.Handle("/api/report/status", get(h.statusReport))
	mux.Handle("/api/report/alerts", get(h.alertReport))
	mux.Handle("/api/report/whatif", get(h.whatIfReport))
	return withCORS(mux)
}

// withCORS allows any origin and answers preflight requests directly.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := w.Header()
		hdr.Set("Access-Control-Allow-Origin", "*")
		hdr.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		hdr.Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func get(f http.HandlerFunc) http.Handler { return method(http.MethodGet, f) }

func method(m string, f http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != m {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		f(w, r)
	})
}

func (h *handler) rules(w http.ResponseWriter, _ *http.Request) {
	evals := h.engine.Evaluate()
	out := make([]RuleRow, len(evals))
	for i, e := range evals {
		out[i] = RuleRow{Vehicle: e.Vehicle, Status: e.Status, Alerts: e.AlertString()}
	}
	writeJSON(w, out)
}

func (h *handler) optimization(w http.ResponseWriter, r *http.Request) {
	k, err := h.queryK(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ranked := h.engine.Rank(ranking.Baseline{}, k)
	out := make([]OptimizationRow, len(ranked))
	for i, s := range ranked {
		out[i] = OptimizationRow{ID: s.Vehicle.ID, Branding: s.Vehicle.Branding, Mileage: s.Vehicle.Mileage, Score: s.Score}
	}
	writeJSON(w, out)
}

func (h *handler) predictive(w http.ResponseWriter, _ *http.Request) {
	preds := h.engine.Predict()
	out := make([]PredictiveRow, len(preds))
	for i, p := range preds {
		out[i] = PredictiveRow{ID: p.Vehicle.ID, Route: p.Vehicle.Route, Mileage: p.Vehicle.Mileage, PredictedDays: p.Days, Status: p.Status}
	}
	writeJSON(w, out)
}

func (h *handler) whatIf(w http.ResponseWriter, r *http.Request) {
	k, weights, err := h.whatIfParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.log.Debugw("what-if request", map[string]any{"k": k, "branding_weight": weights.BrandingWeight, "stabling_weight": weights.StablingWeight})
	writeJSON(w, export.Flatten(h.engine.Rank(ranking.WhatIf{Weights: weights}, k)))
}

func (h *handler) whatIfDefaults(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, WhatIfDefaults{K: h.defaults.DefaultK, Weights: h.defaults.WhatIf})
}

func (h *handler) statusReport(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.engine.StatusReport())
}

func (h *handler) alertReport(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.engine.AlertReport())
}

func (h *handler) whatIfReport(w http.ResponseWriter, r *http.Request) {
	k, weights, err := h.whatIfParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rep, err := h.engine.WhatIfReport(k, weights)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, rep)
}

func (h *handler) queryK(r *http.Request) (int, error) {
	s := r.URL.Query().Get("k")
	if s == "" {
		return h.defaults.DefaultK, nil
	}
	k, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid k %q", s)
	}
	if k < 0 {
		return 0, fmt.Errorf("k must not be negative")
	}
	return k, nil
}

func (h *handler) whatIfParams(r *http.Request) (int, ranking.Weights, error) {
	k, err := h.queryK(r)
	if err != nil {
		return 0, ranking.Weights{}, err
	}
	weights := h.defaults.WhatIf
	q := r.URL.Query()
	if weights.BrandingWeight, err = queryFloat(q.Get("branding_weight"), weights.BrandingWeight); err != nil {
		return 0, ranking.Weights{}, fmt.Errorf("invalid branding_weight: %w", err)
	}
	if weights.StablingWeight, err = queryFloat(q.Get("stabling_weight"), weights.StablingWeight); err != nil {
		return 0, ranking.Weights{}, fmt.Errorf("invalid stabling_weight: %w", err)
	}
	if err := weights.Validate(); err != nil {
		return 0, ranking.Weights{}, err
	}
	return k, weights, nil
}

func queryFloat(s string, def float64) (float64, error) {
	if s == "" {
		return def, nil
	}
	return strconv.ParseFloat(s, 64)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
