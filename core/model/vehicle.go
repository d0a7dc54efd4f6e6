package model

import (
	"math"
	"strconv"
	"strings"
)

// Branding is the advertising-contract tier carried by a train unit.
type Branding string

const (
	BrandingLow    Branding = "Low"
	BrandingMedium Branding = "Medium"
	BrandingHigh   Branding = "High"
)

// ParseBranding maps a raw tier to a Branding. Only exact matches are
// recognised; everything else is Low.
func ParseBranding(s string) Branding {
	switch Branding(s) {
	case BrandingMedium:
		return BrandingMedium
	case BrandingHigh:
		return BrandingHigh
	default:
		return BrandingLow
	}
}

// Num returns the numeric weight of the tier: Low=1, Medium=2, High=3.
func (b Branding) Num() int {
	switch b {
	case BrandingMedium:
		return 2
	case BrandingHigh:
		return 3
	default:
		return 1
	}
}

// BrandingNum maps any raw branding string to 1, 2 or 3.
func BrandingNum(s string) int { return ParseBranding(s).Num() }

// Vehicle is the normalized snapshot of one train unit for one evaluation pass.
type Vehicle struct {
	ID          string   `json:"id"`
	Route       string   `json:"route,omitempty"`
	Fitness     bool     `json:"fitness"`       // true while the fitness certificate is valid
	JobCardOpen bool     `json:"job_card_open"` // an open maintenance ticket exists
	CleaningDue bool     `json:"cleaning_due"`
	Branding    Branding `json:"branding"`
	Mileage     float64  `json:"mileage"`
	StablingPos float64  `json:"stabling_pos"`
}

// BrandingNum returns the numeric tier of the vehicle.
func (v Vehicle) BrandingNum() int { return v.Branding.Num() }

// StablingDistance is the distance of the vehicle's bay from bay 1.
func (v Vehicle) StablingDistance() float64 { return math.Abs(v.StablingPos - 1) }

// RawVehicle holds the untyped column values of one input row keyed by
// column name. A missing key means the column was absent.
type RawVehicle map[string]string

// Column names understood by Normalize.
const (
	ColID          = "id"
	ColRoute       = "route"
	ColFitness     = "fitness"
	ColJobCardOpen = "job_card_open"
	ColCleaningDue = "cleaning_due"
	ColBranding    = "branding"
	ColMileage     = "mileage"
	ColStablingPos = "stabling_pos"
)

// Normalize converts a raw row into a Vehicle. It never fails: every
// malformed or missing field resolves to its documented default.
func Normalize(raw RawVehicle) Vehicle {
	v := Vehicle{
		ID:          raw[ColID],
		Route:       raw[ColRoute],
		Fitness:     true,
		Branding:    BrandingLow,
		StablingPos: 1,
	}
	if n, ok := parseFlag(raw, ColFitness); ok && n == 0 {
		v.Fitness = false
	}
	if n, ok := parseFlag(raw, ColJobCardOpen); ok && n == 1 {
		v.JobCardOpen = true
	}
	if n, ok := parseFlag(raw, ColCleaningDue); ok && n == 1 {
		v.CleaningDue = true
	}
	if s, ok := raw[ColBranding]; ok {
		v.Branding = ParseBranding(s)
	}
	if f, ok := parseNumber(raw, ColMileage); ok && f >= 0 {
		v.Mileage = f
	}
	if f, ok := parseNumber(raw, ColStablingPos); ok {
		v.StablingPos = f
	}
	return v
}

// NormalizeAll normalizes a batch preserving order.
func NormalizeAll(raws []RawVehicle) []Vehicle {
	out := make([]Vehicle, len(raws))
	for i, r := range raws {
		out[i] = Normalize(r)
	}
	return out
}

// parseFlag reads an integer-like flag. Values such as "1.0" are accepted
// when they hold an integral number.
func parseFlag(raw RawVehicle, col string) (int, bool) {
	s, ok := raw[col]
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func parseNumber(raw RawVehicle, col string) (float64, bool) {
	s, ok := raw[col]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
