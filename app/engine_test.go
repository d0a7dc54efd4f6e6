package app

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/trainready/core/events"
	"github.com/kilianp07/trainready/core/model"
	"github.com/kilianp07/trainready/core/prediction"
	"github.com/kilianp07/trainready/core/ranking"
	"github.com/kilianp07/trainready/internal/eventbus"
)

func testFleet() []model.Vehicle {
	return []model.Vehicle{
		{ID: "T01", Fitness: true, Branding: model.BrandingHigh, Mileage: 120000, StablingPos: 1},
		{ID: "T02", Fitness: false, JobCardOpen: true, Branding: model.BrandingLow, Mileage: 240000, StablingPos: 5},
		{ID: "T03", Fitness: true, CleaningDue: true, Branding: model.BrandingMedium, Mileage: 5000, StablingPos: 2},
	}
}

func next(t *testing.T, sub <-chan events.Event) events.Event {
	t.Helper()
	select {
	case ev := <-sub:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event published")
		return nil
	}
}

func TestEnginePublishesPasses(t *testing.T) {
	bus := eventbus.New[events.Event]()
	defer bus.Close()
	sub := bus.Subscribe()
	at := time.Date(2025, 9, 1, 6, 0, 0, 0, time.UTC)
	e := NewEngine(testFleet(), WithBus(bus), WithClock(func() time.Time { return at }))

	evals := e.Evaluate()
	require.Len(t, evals, 3)
	ev, ok := next(t, sub).(events.EvaluationEvent)
	require.True(t, ok)
	assert.NotEmpty(t, ev.RunID)
	assert.Equal(t, at, ev.Time)
	assert.Len(t, ev.Evaluations, 3)

	ranked := e.Rank(ranking.Baseline{}, 2)
	require.Len(t, ranked, 2)
	rev, ok := next(t, sub).(events.RankingEvent)
	require.True(t, ok)
	assert.Equal(t, ranking.PolicyBaseline, rev.Policy)
	assert.Equal(t, 2, rev.K)
	assert.NotEqual(t, ev.RunID, rev.RunID)

	preds := e.Predict()
	require.Len(t, preds, 3)
	pev, ok := next(t, sub).(events.PredictionEvent)
	require.True(t, ok)
	assert.Len(t, pev.Predictions, 3)
}

func TestEngineWithoutBus(t *testing.T) {
	e := NewEngine(nil)
	assert.Empty(t, e.Evaluate())
	assert.Empty(t, e.Rank(ranking.Baseline{}, 3))
	assert.Empty(t, e.Predict())
	rep, err := e.WhatIfReport(3, ranking.DefaultWeights())
	require.NoError(t, err)
	assert.Nil(t, rep.AvgBefore)
	assert.Nil(t, rep.AvgAfter)
}

func TestEngineCopiesInput(t *testing.T) {
	vs := testFleet()
	e := NewEngine(vs)
	vs[0].ID = "changed"
	assert.Equal(t, "T01", e.Vehicles()[0].ID)
}

func TestEngineEstimator(t *testing.T) {
	e := NewEngine(testFleet(), WithEstimator(prediction.FixedEstimator{Default: 10}))
	for _, p := range e.Predict() {
		assert.Equal(t, prediction.StatusCritical, p.Status)
	}
}

func TestEngineReports(t *testing.T) {
	e := NewEngine(testFleet())
	sum := e.StatusReport()
	assert.Equal(t, 1, sum.EligibleCount)
	assert.Equal(t, 2, sum.BlockedCount)

	alerts := e.AlertReport()
	require.Len(t, alerts, 3)
	assert.Equal(t, 1, alerts[0].Count)

	rep, err := e.WhatIfReport(1, ranking.DefaultWeights())
	require.NoError(t, err)
	require.Len(t, rep.Baseline, 1)
	require.Len(t, rep.After, 1)
	assert.Equal(t, "T01", rep.Baseline[0].Vehicle.ID)
	assert.Equal(t, "T02", rep.After[0].Vehicle.ID)
	assert.Equal(t, 420000.0, *rep.AvgBefore)
	assert.Equal(t, 238020.0, *rep.AvgAfter)
}

func TestEngineWhatIfReportRejectsWeights(t *testing.T) {
	e := NewEngine(testFleet())
	_, err := e.WhatIfReport(1, ranking.Weights{BrandingWeight: 1, StablingWeight: posInf()})
	assert.Error(t, err)
}

func posInf() float64 { return math.Inf(1) }
