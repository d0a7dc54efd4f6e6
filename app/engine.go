package app

import (
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/trainready/core/events"
	"github.com/kilianp07/trainready/core/model"
	"github.com/kilianp07/trainready/core/prediction"
	"github.com/kilianp07/trainready/core/ranking"
	"github.com/kilianp07/trainready/core/report"
	"github.com/kilianp07/trainready/core/rules"
	"github.com/kilianp07/trainready/infra/logger"
	"github.com/kilianp07/trainready/internal/eventbus"
)

// Engine runs the decision components over one fleet snapshot. Every pass
// gets its own run ID and is published on the event bus when one is set.
type Engine struct {
	vehicles  []model.Vehicle
	evaluator rules.Evaluator
	estimator prediction.Estimator
	bus       *eventbus.Bus[events.Event]
	log       logger.Logger
	now       func() time.Time
}

// Option customises an Engine.
type Option func(*Engine)

// WithBus publishes pass events on bus.
func WithBus(bus *eventbus.Bus[events.Event]) Option {
	return func(e *Engine) { e.bus = bus }
}

// WithEstimator replaces the default trend model.
func WithEstimator(est prediction.Estimator) Option {
	return func(e *Engine) { e.estimator = est }
}

// WithLogger sets the logger used for pass decisions.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithClock overrides time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an Engine over vs. The slice is copied.
func NewEngine(vs []model.Vehicle, opts ...Option) *Engine {
	e := &Engine{
		vehicles:  append([]model.Vehicle(nil), vs...),
		evaluator: rules.NewEvaluator(),
		estimator: prediction.NewTrendModel(),
		log:       logger.NopLogger{},
		now:       time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Vehicles returns a copy of the snapshot.
func (e *Engine) Vehicles() []model.Vehicle {
	return append([]model.Vehicle(nil), e.vehicles...)
}

// Evaluate runs the eligibility rules on the whole fleet.
func (e *Engine) Evaluate() []rules.Evaluation {
	evals := e.evaluator.EvaluateAll(e.vehicles)
	ev := events.EvaluationEvent{RunID: uuid.NewString(), Evaluations: evals, Time: e.now()}
	e.log.Debugw("evaluation pass", map[string]any{"run_id": ev.RunID, "vehicles": len(evals)})
	e.publish(ev)
	return evals
}

// Rank selects the top k vehicles under p.
func (e *Engine) Rank(p ranking.Policy, k int) []ranking.Scored {
	ranked := ranking.Rank(e.vehicles, k, p)
	ev := events.RankingEvent{RunID: uuid.NewString(), Policy: p.Name(), K: k, Ranked: ranked, Time: e.now()}
	e.log.Debugw("ranking pass", map[string]any{"run_id": ev.RunID, "policy": ev.Policy, "k": k, "selected": len(ranked)})
	e.publish(ev)
	return ranked
}

// Predict estimates the remaining days of every vehicle.
func (e *Engine) Predict() []prediction.VehiclePrediction {
	preds := prediction.EstimateAll(e.vehicles, e.estimator)
	ev := events.PredictionEvent{RunID: uuid.NewString(), Predictions: preds, Time: e.now()}
	e.log.Debugw("prediction pass", map[string]any{"run_id": ev.RunID, "vehicles": len(preds)})
	e.publish(ev)
	return preds
}

// StatusReport summarizes a fresh evaluation pass.
func (e *Engine) StatusReport() report.Summary {
	return report.Summarize(e.Evaluate())
}

// AlertReport returns the alert histogram of a fresh evaluation pass,
// most frequent first.
func (e *Engine) AlertReport() []report.AlertCount {
	return report.SortedAlerts(report.Summarize(e.Evaluate()).AlertHistogram)
}

// WhatIfReport compares the baseline top-k with the what-if top-k.
func (e *Engine) WhatIfReport(k int, w ranking.Weights) (report.WhatIf, error) {
	if err := w.Validate(); err != nil {
		return report.WhatIf{}, err
	}
	before := e.Rank(ranking.Baseline{}, k)
	after := e.Rank(ranking.WhatIf{Weights: w}, k)
	return report.NewWhatIf(k, w, before, after), nil
}

func (e *Engine) publish(ev events.Event) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}
