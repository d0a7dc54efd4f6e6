package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/trainready/app"
	"github.com/kilianp07/trainready/config"
	"github.com/kilianp07/trainready/infra/logger"
)

var (
	cfgPath  string
	dataPath string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:          "trainready",
	Short:        "Fleet induction readiness engine",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file")
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "", "fleet snapshot (overrides dataset.path)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides logging.level)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if cfgPath == "" {
		cfg = config.Default()
	} else {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if dataPath != "" {
		cfg.Dataset.Path = dataPath
		cfg.Dataset.Format = ""
		cfg.Dataset.SetDefaults()
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Dataset.Path == "" {
		return nil, fmt.Errorf("no dataset: set dataset.path or --data")
	}
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withService loads the configuration, starts the event collector and
// hands the service to fn.
func withService(fn func(ctx context.Context, svc *app.Service) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	svc.Start(ctx)
	return fn(ctx, svc)
}
