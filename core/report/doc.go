// Package report folds evaluation and ranking outputs into the summary
// views consumed by dashboards and printed reports.
package report
