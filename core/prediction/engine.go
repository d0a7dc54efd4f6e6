package prediction

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/trainready/core/model"
)

// Status labels the urgency of a prediction.
type Status string

const (
	StatusCritical Status = "Critical"
	StatusWarning  Status = "Warning"
	StatusSafe     Status = "Safe"
)

// Label thresholds in days.
const (
	CriticalDays = 30
	WarningDays  = 90
)

// Point is one historical observation.
type Point struct {
	Mileage       float64 `json:"mileage"`
	DaysToFailure float64 `json:"days_to_failure"`
}

// DefaultHistory is the reference sample the default trend is fitted on.
var DefaultHistory = []Point{
	{Mileage: 5000, DaysToFailure: 220},
	{Mileage: 100000, DaysToFailure: 160},
	{Mileage: 150000, DaysToFailure: 100},
	{Mileage: 200000, DaysToFailure: 60},
	{Mileage: 250000, DaysToFailure: 30},
}

// ErrDegenerateHistory is returned when the history cannot define a line.
var ErrDegenerateHistory = errors.New("history needs at least two distinct mileages")

// Prediction is the estimate for a single mileage.
type Prediction struct {
	Days   float64 `json:"predicted_days"`
	Status Status  `json:"status"`
}

// Estimator predicts remaining service days from mileage.
type Estimator interface {
	Estimate(mileage float64) Prediction
}

// TrendModel is an immutable least-squares line days = Intercept + Slope*mileage.
type TrendModel struct {
	Intercept  float64
	Slope      float64
	MinMileage float64
	MaxMileage float64
}

// FitTrend fits a TrendModel on the given history.
func FitTrend(history []Point) (TrendModel, error) {
	if len(history) < 2 {
		return TrendModel{}, ErrDegenerateHistory
	}
	xs := make([]float64, len(history))
	ys := make([]float64, len(history))
	for i, p := range history {
		if math.IsNaN(p.Mileage) || math.IsNaN(p.DaysToFailure) {
			return TrendModel{}, fmt.Errorf("history point %d is not a number", i)
		}
		xs[i] = p.Mileage
		ys[i] = p.DaysToFailure
	}
	lo, hi := floats.Min(xs), floats.Max(xs)
	if lo == hi {
		return TrendModel{}, ErrDegenerateHistory
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return TrendModel{Intercept: alpha, Slope: beta, MinMileage: lo, MaxMileage: hi}, nil
}

var defaultTrend = sync.OnceValue(func() TrendModel {
	m, err := FitTrend(DefaultHistory)
	if err != nil {
		panic(fmt.Sprintf("default trend: %v", err))
	}
	return m
})

// NewTrendModel returns the trend fitted on DefaultHistory. The fit runs
// once per process.
func NewTrendModel() TrendModel { return defaultTrend() }

// Days evaluates the line at mileage, floored at zero.
func (m TrendModel) Days(mileage float64) float64 {
	d := m.Intercept + m.Slope*mileage
	if d < 0 || math.IsNaN(d) {
		return 0
	}
	return d
}

// InRange reports whether mileage lies inside the fitted sample.
func (m TrendModel) InRange(mileage float64) bool {
	return mileage >= m.MinMileage && mileage <= m.MaxMileage
}

// Estimate implements Estimator.
func (m TrendModel) Estimate(mileage float64) Prediction {
	d := m.Days(mileage)
	return Prediction{Days: d, Status: Label(d)}
}

// Label maps remaining days to a status.
func Label(days float64) Status {
	switch {
	case days < CriticalDays:
		return StatusCritical
	case days < WarningDays:
		return StatusWarning
	default:
		return StatusSafe
	}
}

// VehiclePrediction ties an estimate to its vehicle.
type VehiclePrediction struct {
	Vehicle model.Vehicle `json:"vehicle"`
	Prediction
}

// EstimateAll estimates every vehicle in input order.
func EstimateAll(vs []model.Vehicle, est Estimator) []VehiclePrediction {
	out := make([]VehiclePrediction, len(vs))
	for i, v := range vs {
		out[i] = VehiclePrediction{Vehicle: v, Prediction: est.Estimate(v.Mileage)}
	}
	return out
}
