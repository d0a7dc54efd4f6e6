package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/trainready/core/metrics"
	"github.com/kilianp07/trainready/core/prediction"
	"github.com/kilianp07/trainready/core/ranking"
	"github.com/kilianp07/trainready/infra/dataset"
	"github.com/kilianp07/trainready/infra/mqtt"
)

type Config struct {
	Dataset    dataset.Config    `json:"dataset"`
	API        APIConfig         `json:"api"`
	Ranking    ranking.Config    `json:"ranking"`
	Prediction prediction.Config `json:"prediction"`
	Metrics    metrics.Config    `json:"metrics"`
	Logging    LoggingConfig     `json:"logging"`
	Publisher  mqtt.Config       `json:"publisher"`
}

// Default returns a configuration with every section defaulted. It is used
// when no config file is given.
func Default() *Config {
	cfg := Config{Ranking: ranking.DefaultConfig()}
	cfg.SetDefaults()
	return &cfg
}

// seedRanking stores the ranking defaults in k so that a file or the
// environment can override each key, including with an explicit zero.
func seedRanking(k *koanf.Koanf) error {
	d := ranking.DefaultConfig()
	seeds := []struct {
		key string
		val any
	}{
		{"ranking.default_k", d.DefaultK},
		{"ranking.what_if.branding_weight", d.WhatIf.BrandingWeight},
		{"ranking.what_if.stabling_weight", d.WhatIf.StablingWeight},
	}
	for _, s := range seeds {
		if err := k.Set(s.key, s.val); err != nil {
			return fmt.Errorf("seed %s: %w", s.key, err)
		}
	}
	return nil
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := seedRanking(k); err != nil {
		return nil, err
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies the defaults of every section that treats a zero
// value as unset. Ranking defaults are seeded by Load and Default instead.
func (c *Config) SetDefaults() {
	c.Dataset.SetDefaults()
	c.API.SetDefaults()
	c.Logging.SetDefaults()
	c.Publisher.SetDefaults()
}

// Validate checks every section. The dataset is only checked when a path
// is configured since commands may receive it as a flag.
func (c Config) Validate() error {
	if c.Dataset.Path != "" {
		if err := c.Dataset.Validate(); err != nil {
			return fmt.Errorf("dataset: %w", err)
		}
	}
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Ranking.Validate(); err != nil {
		return fmt.Errorf("ranking: %w", err)
	}
	if err := c.Prediction.Validate(); err != nil {
		return fmt.Errorf("prediction: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Publisher.Validate(); err != nil {
		return fmt.Errorf("publisher: %w", err)
	}
	return nil
}
