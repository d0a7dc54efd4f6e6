package ranking

import (
	"sort"

	"github.com/kilianp07/trainready/core/model"
)

// Scored pairs a vehicle with the score computed by a policy.
type Scored struct {
	Vehicle model.Vehicle `json:"vehicle"`
	Score   float64       `json:"score"`
}

// ScoreAll scores every vehicle in input order.
func ScoreAll(vs []model.Vehicle, p Policy) []Scored {
	out := make([]Scored, len(vs))
	for i, v := range vs {
		out[i] = Scored{Vehicle: v, Score: p.Score(v)}
	}
	return out
}

// Rank returns the min(k, len(vs)) best vehicles under p, ordered by
// descending score. Equal scores keep their input order. A negative k
// selects nothing. The input slice is not modified.
func Rank(vs []model.Vehicle, k int, p Policy) []Scored {
	if k < 0 {
		k = 0
	}
	scored := ScoreAll(vs, p)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if k < len(scored) {
		scored = scored[:k]
	}
	return scored
}

// Scores extracts the score column of a ranking.
func Scores(ranked []Scored) []float64 {
	out := make([]float64, len(ranked))
	for i, r := range ranked {
		out[i] = r.Score
	}
	return out
}
