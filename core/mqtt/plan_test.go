package mqtt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/trainready/core/model"
	"github.com/kilianp07/trainready/core/ranking"
)

func TestNewInductionPlan(t *testing.T) {
	vs := []model.Vehicle{
		{ID: "a", Branding: model.BrandingLow, Mileage: 10, StablingPos: 1},
		{ID: "b", Branding: model.BrandingHigh, Mileage: 5, StablingPos: 1},
	}
	ranked := ranking.Rank(vs, 2, ranking.Baseline{})
	at := time.Unix(0, 0)
	plan := NewInductionPlan("p1", "baseline", 2, ranked, at)
	assert.Equal(t, "p1", plan.PlanID)
	assert.Equal(t, at, plan.GeneratedAt)
	assert.Equal(t, []PlanEntry{
		{Rank: 1, VehicleID: "b", Branding: "High", Mileage: 5, Score: 300005},
		{Rank: 2, VehicleID: "a", Branding: "Low", Mileage: 10, Score: 100010},
	}, plan.Vehicles)
}
