package rules

import (
	"strings"

	"github.com/kilianp07/trainready/core/model"
)

// Status is the dispatch eligibility of a vehicle.
type Status string

const (
	StatusEligible Status = "Eligible"
	StatusBlocked  Status = "Blocked"
)

// Alert reasons raised by the default rule set.
const (
	AlertFitnessExpired = "Fitness Expired"
	AlertOpenJobCard    = "Open Job Card"
	AlertCleaningDue    = "Cleaning Due"
)

// AlertDelimiter joins alerts for display. SplitAlerts splits on its
// trimmed form.
const AlertDelimiter = "; "

// NoAlerts is the placeholder shown by presentation layers for an empty
// alert list.
const NoAlerts = "-"

// Rule is a single eligibility check.
type Rule interface {
	// Alert is the reason reported when the rule matches.
	Alert() string
	// Match reports whether the vehicle violates the rule.
	Match(v model.Vehicle) bool
}

type ruleFunc struct {
	alert string
	match func(model.Vehicle) bool
}

func (r ruleFunc) Alert() string              { return r.alert }
func (r ruleFunc) Match(v model.Vehicle) bool { return r.match(v) }

// DefaultRules returns the rule set in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		ruleFunc{AlertFitnessExpired, func(v model.Vehicle) bool { return !v.Fitness }},
		ruleFunc{AlertOpenJobCard, func(v model.Vehicle) bool { return v.JobCardOpen }},
		ruleFunc{AlertCleaningDue, func(v model.Vehicle) bool { return v.CleaningDue }},
	}
}

// Evaluation is the outcome of running the rules against one vehicle.
type Evaluation struct {
	Vehicle model.Vehicle `json:"vehicle"`
	Status  Status        `json:"status"`
	Alerts  []string      `json:"alerts"`
}

// AlertString joins the alerts with AlertDelimiter.
func (e Evaluation) AlertString() string { return JoinAlerts(e.Alerts) }

// Evaluator applies an ordered rule set.
type Evaluator struct {
	rules []Rule
}

// NewEvaluator returns an Evaluator using the given rules, or DefaultRules
// when none are supplied.
func NewEvaluator(rules ...Rule) Evaluator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return Evaluator{rules: rules}
}

// Evaluate runs every rule in order. Status is derived from the alert list.
func (e Evaluator) Evaluate(v model.Vehicle) Evaluation {
	alerts := []string{}
	for _, r := range e.rules {
		if r.Match(v) {
			alerts = append(alerts, r.Alert())
		}
	}
	return Evaluation{Vehicle: v, Status: statusFor(alerts), Alerts: alerts}
}

// EvaluateAll evaluates a batch preserving input order.
func (e Evaluator) EvaluateAll(vs []model.Vehicle) []Evaluation {
	out := make([]Evaluation, len(vs))
	for i, v := range vs {
		out[i] = e.Evaluate(v)
	}
	return out
}

// Evaluate runs the default rule set against v.
func Evaluate(v model.Vehicle) Evaluation { return NewEvaluator().Evaluate(v) }

// EvaluateAll runs the default rule set against a batch.
func EvaluateAll(vs []model.Vehicle) []Evaluation { return NewEvaluator().EvaluateAll(vs) }

func statusFor(alerts []string) Status {
	if len(alerts) == 0 {
		return StatusEligible
	}
	return StatusBlocked
}

// JoinAlerts renders alerts as a single delimited string.
func JoinAlerts(alerts []string) string { return strings.Join(alerts, AlertDelimiter) }

// SplitAlerts parses a delimited alert string. Empty entries and the
// NoAlerts placeholder are dropped.
func SplitAlerts(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == NoAlerts {
		return nil
	}
	parts := strings.Split(s, strings.TrimSpace(AlertDelimiter))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
