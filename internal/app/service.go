// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/zerotrustai/modelgate/internal/domain/model"
	"github.com/zerotrustai/modelgate/internal/domain/predictor"
	"github.com/zerotrustai/modelgate/internal/domain/registry"
	"github.com/zerotrustai/modelgate/internal/domain/request"
	"github.com/zerotrustai/modelgate/internal/domain/strategy"
	"github.com/zerotrustai/modelgate/internal/domain/types"
	"github.com/zerotrustai/modelgate/pkg/logger"
	"github.com/zerotrustai/modelgate/pkg/metrics"
)

// Service wires the strategy set, the prediction service and the model
// registry behind one composition root. Instances are explicitly
// constructed and injected; there is no ambient global state, so tests
// build isolated services.
type Service struct {
	mu sync.Mutex

	// Core components
	strategies *strategy.Set
	predictor  *predictor.Predictor
	registry   *registry.Registry

	// Configuration
	defaultStrategy   strategy.Name
	retrainThreshold  float64
	retrainMinSamples int

	// State
	started bool

	// Logging
	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDefaultStrategy sets the strategy used for requests that name
// none, or an unknown one.
func WithDefaultStrategy(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.defaultStrategy = strategy.Name(name)
		}
	}
}

// WithRetrainThreshold sets the mean-confidence retrain threshold.
func WithRetrainThreshold(threshold float64) Option {
	return func(s *Service) {
		if threshold > 0 && threshold <= 1 {
			s.retrainThreshold = threshold
		}
	}
}

// WithRetrainMinSamples sets the minimum history length for the
// retrain trigger.
func WithRetrainMinSamples(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.retrainMinSamples = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaultStrategy:   strategy.Basic,
		retrainThreshold:  0.75,
		retrainMinSamples: 10,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components and seeds the registry with
// the initial model versions: the default strategy's model starts
// active, the rest staged.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.log == nil {
		s.log = logger.Get()
	}

	s.log.Info(ctx, "starting model gateway service...")

	s.strategies = strategy.NewSet()
	s.predictor = predictor.New(s.strategies,
		predictor.WithDefaultStrategy(s.defaultStrategy),
		predictor.WithRetrainThreshold(s.retrainThreshold),
		predictor.WithRetrainMinSamples(s.retrainMinSamples),
		predictor.WithLogger(s.log),
	)
	s.registry = registry.New(registry.WithLogger(s.log))

	for _, name := range s.strategies.Names() {
		state := model.StateStaging
		if name == string(s.defaultStrategy) {
			state = model.StateActive
		}
		if err := s.registry.Register(ctx, name, 1, state); err != nil {
			return fmt.Errorf("seed registry: %w", err)
		}
	}
	metrics.UpdateRegistryModels(s.registry.Len())
	metrics.UpdateModelVersion(s.predictor.Version())

	s.started = true
	s.log.Info(ctx, "model gateway service started",
		logger.Int("strategies", s.strategies.Len()),
		logger.String("default_strategy", string(s.defaultStrategy)),
	)
	return nil
}

// Stop shuts the service down. All state is in-memory, so this only
// flips the lifecycle flag.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.log.Info(context.Background(), "model gateway service stopped")
	s.started = false
}

// Predict validates nothing itself; it expects a sanitized request
// from the boundary and routes it to the prediction service.
func (s *Service) Predict(ctx context.Context, req request.Prediction) (types.PredictionResult, error) {
	return s.predictor.Predict(ctx, req.Input, req.Strategy)
}

// Stats returns the prediction service snapshot.
func (s *Service) Stats() types.Stats {
	return s.predictor.Stats()
}

// Metrics returns the confidence metrics together with the retrain
// recommendation. Reading it never triggers a retrain.
func (s *Service) Metrics() types.MetricsReport {
	stats := s.predictor.Stats()
	return types.MetricsReport{
		Confidence:    stats.Confidence,
		ModelVersion:  stats.ModelVersion,
		LastRetrain:   stats.LastRetrain,
		ShouldRetrain: s.predictor.ShouldTriggerRetrain(),
	}
}

// Retrain bumps the model version and clears the confidence history,
// returning the new version.
func (s *Service) Retrain(ctx context.Context) int {
	return s.predictor.Retrain(ctx)
}

// Strategies returns the available strategy names and the default.
func (s *Service) Strategies() ([]string, string) {
	return s.strategies.Names(), string(s.defaultStrategy)
}

// StrategyCount reports how many strategies are loaded; the health
// endpoint uses it as the models-loaded signal.
func (s *Service) StrategyCount() int {
	if s.strategies == nil {
		return 0
	}
	return s.strategies.Len()
}

// ListModels returns registry entry snapshots.
func (s *Service) ListModels() []model.ModelEntry {
	return s.registry.List()
}

// PromoteModel activates the given model version, archiving any other
// active version of the same name.
func (s *Service) PromoteModel(ctx context.Context, name string, version int) error {
	return s.registry.Promote(ctx, name, version)
}

// ArchiveModel archives the given model version.
func (s *Service) ArchiveModel(ctx context.Context, name string, version int) error {
	return s.registry.Archive(ctx, name, version)
}

// RegisterModel adds a new model version to the registry.
func (s *Service) RegisterModel(ctx context.Context, name string, version int, state model.ModelState) error {
	if err := s.registry.Register(ctx, name, version, state); err != nil {
		return err
	}
	metrics.UpdateRegistryModels(s.registry.Len())
	return nil
}

// AuditLog returns the governance transition history in order.
func (s *Service) AuditLog() []model.AuditEvent {
	return s.registry.AuditLog()
}
