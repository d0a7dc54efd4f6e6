package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/trainready/api/fleet"
	"github.com/kilianp07/trainready/config"
	"github.com/kilianp07/trainready/core/events"
	coremetrics "github.com/kilianp07/trainready/core/metrics"
	coremqtt "github.com/kilianp07/trainready/core/mqtt"
	"github.com/kilianp07/trainready/core/ranking"
	"github.com/kilianp07/trainready/infra/dataset"
	"github.com/kilianp07/trainready/infra/logger"
	"github.com/kilianp07/trainready/infra/metrics"
	"github.com/kilianp07/trainready/infra/mqtt"
	"github.com/kilianp07/trainready/internal/eventbus"
)

// Service wires the decision engine to its metrics sinks, the plan
// publisher and the HTTP API.
type Service struct {
	Engine    *Engine
	Publisher coremqtt.PlanPublisher
	cfg       *config.Config
	bus       *eventbus.Bus[events.Event]
	sink      coremetrics.MetricsSink
	log       logger.Logger
	collector <-chan struct{}
}

// New loads the fleet snapshot and builds a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	vehicles, err := dataset.Load(cfg.Dataset)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	trend, err := cfg.Prediction.Model()
	if err != nil {
		return nil, fmt.Errorf("prediction model: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	logg.Debugf("metrics sinks: %d configured, types available: %v", len(cfg.Metrics.Sinks), coremetrics.SinkTypes())
	if fr, ok := sink.(coremetrics.FleetSizeRecorder); ok {
		if err := fr.RecordFleetSize(len(vehicles)); err != nil {
			logg.Warnf("record fleet size: %v", err)
		}
	}

	var pub coremqtt.PlanPublisher
	if cfg.Publisher.Enabled {
		pub, err = mqtt.NewPahoPublisher(cfg.Publisher)
		if err != nil {
			return nil, fmt.Errorf("plan publisher: %w", err)
		}
	}

	bus := eventbus.New[events.Event]()
	engine := NewEngine(vehicles, WithBus(bus), WithEstimator(trend), WithLogger(logger.New("engine")))
	logg.Infof("loaded %d vehicles from %s", len(vehicles), cfg.Dataset.Path)
	return &Service{Engine: engine, Publisher: pub, cfg: cfg, bus: bus, sink: sink, log: logg}, nil
}

// Start forwards engine events to the metrics sinks until ctx is canceled
// or the service is closed.
func (s *Service) Start(ctx context.Context) {
	if s.collector == nil {
		s.collector = metrics.StartEventCollector(ctx, s.bus, s.sink, logger.New("collector"))
	}
}

// Config returns the configuration the service was built from.
func (s *Service) Config() *config.Config { return s.cfg }

// Handler returns the fleet API.
func (s *Service) Handler() http.Handler {
	return fleet.NewHandler(s.Engine, s.cfg.Ranking, logger.New("api"))
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.Start(ctx)
	if s.cfg.Metrics.PrometheusPort != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	srv := &http.Server{
		Addr:         s.cfg.API.Address,
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.cfg.API.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.API.WriteTimeoutSeconds) * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.log.Infof("fleet API listening on %s", s.cfg.API.Address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// PublishPlan publishes an already ranked selection as an induction plan.
// policy and k describe how ranked was produced.
func (s *Service) PublishPlan(ctx context.Context, policy string, k int, ranked []ranking.Scored) (coremqtt.InductionPlan, error) {
	if s.Publisher == nil {
		return coremqtt.InductionPlan{}, fmt.Errorf("plan publisher is disabled")
	}
	plan := coremqtt.NewInductionPlan(uuid.NewString(), policy, k, ranked, time.Now().UTC())
	if err := s.Publisher.PublishPlan(ctx, plan); err != nil {
		return plan, err
	}
	return plan, nil
}

// Close stops event forwarding and releases the sinks and the publisher.
func (s *Service) Close() error {
	s.bus.Close()
	if s.collector != nil {
		<-s.collector
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	if s.Publisher != nil {
		return s.Publisher.Close()
	}
	return nil
}
