package metrics

import "github.com/kilianp07/trainready/core/events"

// MetricsSink records decision passes.
type MetricsSink interface {
	RecordEvaluation(ev events.EvaluationEvent) error
	RecordRanking(ev events.RankingEvent) error
	RecordPrediction(ev events.PredictionEvent) error
}

// FleetSizeRecorder records the number of vehicles loaded from the dataset.
type FleetSizeRecorder interface {
	RecordFleetSize(size int) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordEvaluation(events.EvaluationEvent) error { return nil }
func (NopSink) RecordRanking(events.RankingEvent) error       { return nil }
func (NopSink) RecordPrediction(events.PredictionEvent) error { return nil }
func (NopSink) RecordFleetSize(int) error                     { return nil }

// MultiSink fans records out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordEvaluation forwards to all sinks, returning the first error.
func (m *MultiSink) RecordEvaluation(ev events.EvaluationEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordEvaluation(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordRanking forwards to all sinks, returning the first error.
func (m *MultiSink) RecordRanking(ev events.RankingEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRanking(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordPrediction forwards to all sinks, returning the first error.
func (m *MultiSink) RecordPrediction(ev events.PredictionEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordPrediction(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordFleetSize forwards to the sinks that support it.
func (m *MultiSink) RecordFleetSize(size int) error {
	for _, s := range m.Sinks {
		if fr, ok := s.(FleetSizeRecorder); ok {
			if err := fr.RecordFleetSize(size); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close releases the sinks that hold resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
