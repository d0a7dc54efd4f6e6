// Package rules classifies vehicles as Eligible or Blocked for induction.
// Each rule inspects a normalized vehicle and may raise one alert; a
// vehicle with at least one alert is Blocked.
package rules
