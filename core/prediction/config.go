package prediction

// Config allows replacing the historical sample the trend is fitted on.
type Config struct {
	History []Point `json:"history"`
}

// Model returns the trend described by the configuration. An empty history
// yields the shared default model.
func (c Config) Model() (TrendModel, error) {
	if len(c.History) == 0 {
		return NewTrendModel(), nil
	}
	return FitTrend(c.History)
}

// Validate checks that the configured history can be fitted.
func (c Config) Validate() error {
	_, err := c.Model()
	return err
}
