// Package prediction estimates the remaining days before a vehicle needs
// heavy maintenance from its accumulated mileage.
//
// The estimate comes from a straight line fitted once to a small table of
// historical (mileage, days to failure) observations. The line is
// extrapolated without bound, so mileages far outside the fitted range give
// low-confidence results; negative extrapolations are floored at zero.
package prediction
