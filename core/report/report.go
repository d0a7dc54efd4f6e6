package report

import (
	"sort"

	"github.com/kilianp07/trainready/core/ranking"
	"github.com/kilianp07/trainready/core/rules"
)

// Summary counts eligible and blocked vehicles of one evaluation pass.
type Summary struct {
	EligibleCount  int            `json:"eligible_count"`
	BlockedCount   int            `json:"blocked_count"`
	AlertHistogram map[string]int `json:"alert_histogram"`
}

// Summarize folds a batch of evaluations.
func Summarize(evals []rules.Evaluation) Summary {
	var s Summary
	alerts := make([]string, 0, len(evals))
	for _, e := range evals {
		if e.Status == rules.StatusEligible {
			s.EligibleCount++
		} else {
			s.BlockedCount++
		}
		alerts = append(alerts, e.AlertString())
	}
	s.AlertHistogram = AlertHistogram(alerts)
	return s
}

// AlertHistogram counts alert reasons across delimited alert strings.
// Empty strings and the "-" placeholder contribute nothing.
func AlertHistogram(alertStrings []string) map[string]int {
	hist := map[string]int{}
	for _, s := range alertStrings {
		for _, a := range rules.SplitAlerts(s) {
			hist[a]++
		}
	}
	return hist
}

// AlertCount is one histogram bucket.
type AlertCount struct {
	Alert string `json:"alert"`
	Count int    `json:"count"`
}

// SortedAlerts returns the histogram ordered by descending count, then
// alert name.
func SortedAlerts(hist map[string]int) []AlertCount {
	out := make([]AlertCount, 0, len(hist))
	for a, c := range hist {
		out = append(out, AlertCount{Alert: a, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Alert < out[j].Alert
	})
	return out
}

// Comparison holds average scores of a baseline and a what-if ranking.
// A nil average means the ranking was empty.
type Comparison struct {
	AvgBefore *float64 `json:"avg_before"`
	AvgAfter  *float64 `json:"avg_after"`
}

// Compare averages the scores of two rankings.
func Compare(before, after []ranking.Scored) Comparison {
	return Comparison{AvgBefore: Average(before), AvgAfter: Average(after)}
}

// Average returns the mean score, or nil for an empty ranking.
func Average(ranked []ranking.Scored) *float64 {
	if len(ranked) == 0 {
		return nil
	}
	var sum float64
	for _, r := range ranked {
		sum += r.Score
	}
	avg := sum / float64(len(ranked))
	return &avg
}

// WhatIf is the side-by-side view of a baseline and a what-if top-k.
type WhatIf struct {
	K        int              `json:"k"`
	Weights  ranking.Weights  `json:"weights"`
	Baseline []ranking.Scored `json:"baseline"`
	After    []ranking.Scored `json:"what_if"`
	Comparison
}

// NewWhatIf builds the view and its score comparison.
func NewWhatIf(k int, w ranking.Weights, baseline, after []ranking.Scored) WhatIf {
	return WhatIf{K: k, Weights: w, Baseline: baseline, After: after, Comparison: Compare(baseline, after)}
}
