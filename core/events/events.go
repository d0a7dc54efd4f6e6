package events

import (
	"time"

	"github.com/kilianp07/trainready/core/prediction"
	"github.com/kilianp07/trainready/core/ranking"
	"github.com/kilianp07/trainready/core/rules"
)

// Event is implemented by every event published on the bus.
type Event interface {
	EventName() string
}

// EvaluationEvent is published after the eligibility rules ran on a batch.
type EvaluationEvent struct {
	RunID       string
	Evaluations []rules.Evaluation
	Time        time.Time
}

func (EvaluationEvent) EventName() string { return "evaluation" }

// RankingEvent is published after a top-k selection.
type RankingEvent struct {
	RunID  string
	Policy string
	K      int
	Ranked []ranking.Scored
	Time   time.Time
}

func (RankingEvent) EventName() string { return "ranking" }

// PredictionEvent is published after degradation estimates were computed.
type PredictionEvent struct {
	RunID       string
	Predictions []prediction.VehiclePrediction
	Time        time.Time
}

func (PredictionEvent) EventName() string { return "prediction" }
