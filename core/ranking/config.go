package ranking

import "fmt"

// DefaultK is the number of vehicles selected when neither the operator
// nor the configuration gives one.
const DefaultK = 3

// Config holds the ranking defaults exposed to operators. Zero values are
// meaningful: default_k 0 selects nobody and a zero weight disables its
// term. Loaders seed DefaultConfig before decoding so that only absent keys
// fall back.
type Config struct {
	DefaultK int     `json:"default_k"`
	WhatIf   Weights `json:"what_if"`
}

// DefaultConfig returns the ranking defaults.
func DefaultConfig() Config {
	return Config{DefaultK: DefaultK, WhatIf: DefaultWeights()}
}

// Validate checks the configured defaults.
func (c Config) Validate() error {
	if c.DefaultK < 0 {
		return fmt.Errorf("default_k must not be negative")
	}
	return c.WhatIf.Validate()
}
