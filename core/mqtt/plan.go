package mqtt

import (
	"context"
	"time"

	"github.com/kilianp07/trainready/core/ranking"
)

// PlanEntry is one vehicle selected for induction.
type PlanEntry struct {
	Rank      int     `json:"rank"`
	VehicleID string  `json:"vehicle_id"`
	Branding  string  `json:"branding"`
	Mileage   float64 `json:"mileage"`
	Score     float64 `json:"score"`
}

// InductionPlan is the message announcing the selected vehicles to depot
// systems.
type InductionPlan struct {
	PlanID      string      `json:"plan_id"`
	Policy      string      `json:"policy"`
	K           int         `json:"k"`
	GeneratedAt time.Time   `json:"generated_at"`
	Vehicles    []PlanEntry `json:"vehicles"`
}

// NewInductionPlan builds a plan from a ranking, keeping its order.
func NewInductionPlan(id, policy string, k int, ranked []ranking.Scored, at time.Time) InductionPlan {
	entries := make([]PlanEntry, len(ranked))
	for i, r := range ranked {
		entries[i] = PlanEntry{
			Rank:      i + 1,
			VehicleID: r.Vehicle.ID,
			Branding:  string(r.Vehicle.Branding),
			Mileage:   r.Vehicle.Mileage,
			Score:     r.Score,
		}
	}
	return InductionPlan{PlanID: id, Policy: policy, K: k, GeneratedAt: at, Vehicles: entries}
}

// PlanPublisher delivers induction plans to downstream consumers.
type PlanPublisher interface {
	PublishPlan(ctx context.Context, plan InductionPlan) error
	Close() error
}
