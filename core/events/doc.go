// Package events defines the events emitted on the event bus after each
// decision pass.
//
// Available event types:
//   - EvaluationEvent: eligibility rules applied to a batch
//   - RankingEvent: a top-k selection under a ranking policy
//   - PredictionEvent: degradation estimates for a batch
package events
