package ranking

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/kilianp07/trainready/core/model"
)

// Policy names accepted by ParsePolicy.
const (
	PolicyBaseline = "baseline"
	PolicyWhatIf   = "what-if"
)

// BaselineBrandingFactor dominates the mileage range so that branding tier
// decides the baseline order.
const BaselineBrandingFactor = 100000

// BaselineStablingPenalty is the per-bay penalty applied by Baseline.
const BaselineStablingPenalty = 5

// ErrUnknownPolicy is returned by ParsePolicy for unsupported names.
var ErrUnknownPolicy = errors.New("unknown ranking policy")

// Policy computes a ranking score for a vehicle. The set of policies is
// closed: Baseline and WhatIf.
type Policy interface {
	Name() string
	Score(v model.Vehicle) float64
	isPolicy()
}

// Weights parameterises the WhatIf policy.
type Weights struct {
	BrandingWeight float64 `json:"branding_weight"`
	StablingWeight float64 `json:"stabling_weight"`
}

// DefaultWeights returns the what-if weights used when the operator
// supplies none.
func DefaultWeights() Weights {
	return Weights{BrandingWeight: 2000, StablingWeight: 5}
}

// Validate rejects weights that would make scores undefined.
func (w Weights) Validate() error {
	if !finite(w.BrandingWeight) {
		return fmt.Errorf("branding_weight must be finite")
	}
	if !finite(w.StablingWeight) {
		return fmt.Errorf("stabling_weight must be finite")
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Baseline ranks by branding first, then mileage, then proximity to bay 1.
type Baseline struct{}

func (Baseline) Name() string { return PolicyBaseline }

// Score is 100000*branding + mileage - 5*|stabling_pos-1|.
func (Baseline) Score(v model.Vehicle) float64 {
	return BaselineBrandingFactor*float64(v.BrandingNum()) + v.Mileage - BaselineStablingPenalty*v.StablingDistance()
}

func (Baseline) isPolicy() {}

// WhatIf rewards mileage and stabling distance and penalises branding.
type WhatIf struct {
	Weights Weights
}

// NewWhatIf returns a WhatIf policy with default weights.
func NewWhatIf() WhatIf { return WhatIf{Weights: DefaultWeights()} }

func (WhatIf) Name() string { return PolicyWhatIf }

// Score is mileage - bw*branding + sw*|stabling_pos-1|.
func (p WhatIf) Score(v model.Vehicle) float64 {
	return v.Mileage - p.Weights.BrandingWeight*float64(v.BrandingNum()) + p.Weights.StablingWeight*v.StablingDistance()
}

func (WhatIf) isPolicy() {}

// ParsePolicy resolves a policy name. Weights are only used by WhatIf.
func ParsePolicy(name string, w Weights) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PolicyBaseline, "":
		return Baseline{}, nil
	case PolicyWhatIf, "whatif", "what_if":
		if err := w.Validate(); err != nil {
			return nil, err
		}
		return WhatIf{Weights: w}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}
