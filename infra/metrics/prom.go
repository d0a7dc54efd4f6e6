package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/trainready/core/events"
	coremetrics "github.com/kilianp07/trainready/core/metrics"
	"github.com/kilianp07/trainready/core/report"
)

// PromSink exposes decision passes as Prometheus metrics.
type PromSink struct {
	evaluated   *prometheus.CounterVec
	alerts      *prometheus.CounterVec
	rankings    *prometheus.CounterVec
	avgScore    *prometheus.GaugeVec
	predictions *prometheus.CounterVec
	fleet       prometheus.Gauge
}

// NewPromSink registers the metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers the metrics on reg. A nil registerer
// defaults to the global one. Collectors already registered are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		evaluated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trainready_vehicles_evaluated_total",
			Help: "Vehicles evaluated by the eligibility rules, by status",
		}, []string{"status"}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trainready_alerts_total",
			Help: "Eligibility alerts raised, by reason",
		}, []string{"alert"}),
		rankings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trainready_ranking_runs_total",
			Help: "Top-k selections computed, by policy",
		}, []string{"policy"}),
		avgScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "trainready_ranking_average_score",
			Help: "Average score of the last non-empty selection, by policy",
		}, []string{"policy"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trainready_predictions_total",
			Help: "Degradation estimates computed, by status",
		}, []string{"status"}),
		fleet: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trainready_fleet_size",
			Help: "Number of vehicles in the loaded dataset",
		}),
	}
	var err error
	if s.evaluated, err = register(reg, s.evaluated); err != nil {
		return nil, err
	}
	if s.alerts, err = register(reg, s.alerts); err != nil {
		return nil, err
	}
	if s.rankings, err = register(reg, s.rankings); err != nil {
		return nil, err
	}
	if s.avgScore, err = register(reg, s.avgScore); err != nil {
		return nil, err
	}
	if s.predictions, err = register(reg, s.predictions); err != nil {
		return nil, err
	}
	if s.fleet, err = register(reg, s.fleet); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordEvaluation counts vehicles per status and alerts per reason.
func (s *PromSink) RecordEvaluation(ev events.EvaluationEvent) error {
	for _, e := range ev.Evaluations {
		s.evaluated.WithLabelValues(string(e.Status)).Inc()
		for _, a := range e.Alerts {
			s.alerts.WithLabelValues(a).Inc()
		}
	}
	return nil
}

// RecordRanking counts the run and updates the policy's average score.
func (s *PromSink) RecordRanking(ev events.RankingEvent) error {
	s.rankings.WithLabelValues(ev.Policy).Inc()
	if avg := report.Average(ev.Ranked); avg != nil {
		s.avgScore.WithLabelValues(ev.Policy).Set(*avg)
	}
	return nil
}

// RecordPrediction counts estimates per status.
func (s *PromSink) RecordPrediction(ev events.PredictionEvent) error {
	for _, p := range ev.Predictions {
		s.predictions.WithLabelValues(string(p.Status)).Inc()
	}
	return nil
}

// RecordFleetSize sets the fleet size gauge.
func (s *PromSink) RecordFleetSize(size int) error {
	s.fleet.Set(float64(size))
	return nil
}

var (
	_ coremetrics.MetricsSink       = (*PromSink)(nil)
	_ coremetrics.FleetSizeRecorder = (*PromSink)(nil)
)
