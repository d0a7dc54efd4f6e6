package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/trainready/config"
	"github.com/kilianp07/trainready/core/events"
	"github.com/kilianp07/trainready/core/factory"
	coremetrics "github.com/kilianp07/trainready/core/metrics"
	"github.com/kilianp07/trainready/core/ranking"
	"github.com/kilianp07/trainready/infra/mqtt"
)

const fleetCSV = `id,route,fitness,job_card_open,cleaning_due,branding,mileage,stabling_pos
T01,Aluva,1,0,0,High,120000,1
T02,Aluva,0,1,0,Low,240000,5
T03,Kakkanad,1,0,1,Medium,5000,2
`

type recordingSink struct {
	mu    sync.Mutex
	names []string
	size  int
}

func (r *recordingSink) add(n string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, n)
	return nil
}

func (r *recordingSink) RecordEvaluation(events.EvaluationEvent) error { return r.add("evaluation") }
func (r *recordingSink) RecordRanking(events.RankingEvent) error       { return r.add("ranking") }
func (r *recordingSink) RecordPrediction(events.PredictionEvent) error { return r.add("prediction") }
func (r *recordingSink) RecordFleetSize(n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.size = n
	return nil
}

func (r *recordingSink) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

var (
	testSink     = &recordingSink{}
	registerOnce sync.Once
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	registerOnce.Do(func() {
		require.NoError(t, coremetrics.RegisterMetricsSink("apptest", func(map[string]any) (coremetrics.MetricsSink, error) {
			return testSink, nil
		}))
	})
	path := filepath.Join(t.TempDir(), "fleet.csv")
	require.NoError(t, os.WriteFile(path, []byte(fleetCSV), 0o644))
	cfg := config.Default()
	cfg.Dataset.Path = path
	cfg.Dataset.SetDefaults()
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "apptest"}}
	return cfg
}

func TestServiceForwardsEvents(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	assert.Equal(t, 3, testSink.size)

	svc.Start(context.Background())
	svc.Engine.Evaluate()
	svc.Engine.Rank(ranking.Baseline{}, 2)
	svc.Engine.Predict()
	require.NoError(t, svc.Close())

	assert.Subset(t, testSink.recorded(), []string{"evaluation", "ranking", "prediction"})
}

func TestServiceHandler(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer svc.Close()

	rr := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/optimization?k=1", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":"T01"`)
}

func TestServicePublishPlan(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer svc.Close()

	ctx := context.Background()
	_, err = svc.PublishPlan(ctx, ranking.PolicyBaseline, 2, svc.Engine.Rank(ranking.Baseline{}, 2))
	assert.Error(t, err, "publisher disabled")

	pub := mqtt.NewMockPublisher()
	svc.Publisher = pub
	plan, err := svc.PublishPlan(ctx, ranking.PolicyWhatIf, 2, svc.Engine.Rank(ranking.NewWhatIf(), 2))
	require.NoError(t, err)
	assert.NotEmpty(t, plan.PlanID)
	assert.Equal(t, ranking.PolicyWhatIf, plan.Policy)
	require.Len(t, plan.Vehicles, 2)
	assert.Equal(t, "T02", plan.Vehicles[0].VehicleID)
	assert.Len(t, pub.Published(), 1)

	pub.Fail = true
	_, err = svc.PublishPlan(ctx, ranking.PolicyBaseline, 1, svc.Engine.Rank(ranking.Baseline{}, 1))
	assert.Error(t, err)
}

func TestServicePublishPlanUsesGivenSelection(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer svc.Close()

	pub := mqtt.NewMockPublisher()
	svc.Publisher = pub
	ranked := svc.Engine.Rank(ranking.Baseline{}, 3)
	require.Len(t, ranked, 3)
	// Reversed order cannot come from a fresh ranking pass.
	picked := []ranking.Scored{ranked[2], ranked[0]}
	plan, err := svc.PublishPlan(context.Background(), ranking.PolicyBaseline, 2, picked)
	require.NoError(t, err)
	require.Len(t, plan.Vehicles, 2)
	assert.Equal(t, ranked[2].Vehicle.ID, plan.Vehicles[0].VehicleID)
	assert.Equal(t, ranked[0].Vehicle.ID, plan.Vehicles[1].VehicleID)
}

func TestServiceRunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.API.Address = "127.0.0.1:0"
	svc, err := New(cfg)
	require.NoError(t, err)
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("service did not stop")
	}
}

func TestServiceMissingDataset(t *testing.T) {
	cfg := config.Default()
	cfg.Dataset.Path = filepath.Join(t.TempDir(), "none.csv")
	cfg.Dataset.SetDefaults()
	_, err := New(cfg)
	assert.Error(t, err)
}
