package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/trainready/core/events"
	coremetrics "github.com/kilianp07/trainready/core/metrics"
	"github.com/kilianp07/trainready/core/rules"
	"github.com/kilianp07/trainready/infra/logger"
)

// InfluxSink writes decision passes to InfluxDB, one point per vehicle.
// The run ID is stored as a field so that series stay bounded by the fleet.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings InfluxDB and returns a NopSink when the
// health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordEvaluation writes one vehicle_evaluation point per vehicle.
func (s *InfluxSink) RecordEvaluation(ev events.EvaluationEvent) error {
	points := make([]*write.Point, 0, len(ev.Evaluations))
	for _, e := range ev.Evaluations {
		p := write.NewPointWithMeasurement("vehicle_evaluation").
			AddTag("vehicle_id", e.Vehicle.ID).
			AddTag("status", string(e.Status)).
			AddField("run_id", ev.RunID).
			AddField("alert_count", len(e.Alerts)).
			AddField("alerts", rules.JoinAlerts(e.Alerts)).
			SetTime(ev.Time)
		points = append(points, p)
	}
	return s.write(points)
}

// RecordRanking writes one induction_ranking point per selected vehicle.
func (s *InfluxSink) RecordRanking(ev events.RankingEvent) error {
	points := make([]*write.Point, 0, len(ev.Ranked))
	for i, r := range ev.Ranked {
		p := write.NewPointWithMeasurement("induction_ranking").
			AddTag("policy", ev.Policy).
			AddTag("vehicle_id", r.Vehicle.ID).
			AddField("run_id", ev.RunID).
			AddField("rank", i+1).
			AddField("score", round3(r.Score)).
			AddField("mileage", round3(r.Vehicle.Mileage)).
			SetTime(ev.Time)
		points = append(points, p)
	}
	return s.write(points)
}

// RecordPrediction writes one degradation_prediction point per vehicle.
func (s *InfluxSink) RecordPrediction(ev events.PredictionEvent) error {
	points := make([]*write.Point, 0, len(ev.Predictions))
	for _, pr := range ev.Predictions {
		p := write.NewPointWithMeasurement("degradation_prediction").
			AddTag("vehicle_id", pr.Vehicle.ID).
			AddTag("status", string(pr.Status)).
			AddField("run_id", ev.RunID).
			AddField("predicted_days", round3(pr.Days)).
			AddField("mileage", round3(pr.Vehicle.Mileage)).
			SetTime(ev.Time)
		points = append(points, p)
	}
	return s.write(points)
}

func (s *InfluxSink) write(points []*write.Point) error {
	if len(points) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, points...)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
