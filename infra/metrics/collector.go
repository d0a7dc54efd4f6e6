package metrics

import (
	"context"

	"github.com/kilianp07/trainready/core/events"
	coremetrics "github.com/kilianp07/trainready/core/metrics"
	"github.com/kilianp07/trainready/infra/logger"
	"github.com/kilianp07/trainready/internal/eventbus"
)

// StartEventCollector subscribes to the bus and forwards every event to
// sink. It stops when ctx is canceled or the bus is closed. The returned
// channel is closed once the collector has exited.
func StartEventCollector(ctx context.Context, bus *eventbus.Bus[events.Event], sink coremetrics.MetricsSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := record(sink, ev); err != nil {
					log.Errorf("record %s event: %v", ev.EventName(), err)
				}
			}
		}
	}()
	return done
}

func record(sink coremetrics.MetricsSink, ev events.Event) error {
	switch e := ev.(type) {
	case events.EvaluationEvent:
		return sink.RecordEvaluation(e)
	case events.RankingEvent:
		return sink.RecordRanking(e)
	case events.PredictionEvent:
		return sink.RecordPrediction(e)
	}
	return nil
}
