package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/trainready/core/model"
	"github.com/kilianp07/trainready/core/prediction"
	"github.com/kilianp07/trainready/core/ranking"
	"github.com/kilianp07/trainready/core/rules"
)

func sample() []ranking.Scored {
	return []ranking.Scored{
		{Vehicle: model.Vehicle{ID: "T01", Branding: model.BrandingHigh, Mileage: 120000, StablingPos: 1, Fitness: true}, Score: 420000},
		{Vehicle: model.Vehicle{ID: "T02", Branding: model.BrandingLow, Mileage: 50000.5, StablingPos: 3, Fitness: true}, Score: 149990.5},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "rank,id,branding,mileage,stabling_pos,score", lines[0])
	assert.Equal(t, "1,T01,High,120000,1,420000", lines[1])
	assert.Equal(t, "2,T02,Low,50000.5,3,149990.5", lines[2])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sample()))
	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "T01", got[0]["id"])
	assert.Equal(t, float64(1), got[0]["rank"])
	assert.Equal(t, float64(420000), got[0]["score"])
	assert.Equal(t, "High", got[0]["branding"])
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteEvaluationsCSV(t *testing.T) {
	evals := rules.EvaluateAll([]model.Vehicle{
		{ID: "T01", Fitness: true},
		{ID: "T02", Fitness: false, CleaningDue: true},
	})
	var buf bytes.Buffer
	require.NoError(t, WriteEvaluationsCSV(&buf, evals))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "T01,Eligible,-", lines[1])
	assert.Equal(t, "T02,Blocked,Fitness Expired; Cleaning Due", lines[2])
}

func TestWritePredictionsCSV(t *testing.T) {
	preds := prediction.EstimateAll([]model.Vehicle{{ID: "T01", Route: "Aluva", Mileage: 250000}}, prediction.NewTrendModel())
	var buf bytes.Buffer
	require.NoError(t, WritePredictionsCSV(&buf, preds))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,route,mileage,predicted_days,status", lines[0])
	assert.Equal(t, "T01,Aluva,250000,25.96,Critical", lines[1])
}
