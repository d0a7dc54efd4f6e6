package prediction

// FixedEstimator returns preconfigured day counts per mileage and Default
// otherwise.
type FixedEstimator struct {
	Days    map[float64]float64
	Default float64
}

// Estimate returns the configured days for mileage, labelled with Label.
func (f FixedEstimator) Estimate(mileage float64) Prediction {
	d := f.Default
	if v, ok := f.Days[mileage]; ok {
		d = v
	}
	return Prediction{Days: d, Status: Label(d)}
}
