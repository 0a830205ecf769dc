// Package predictor orchestrates strategy dispatch, confidence
// accumulation and the retrain trigger for the prediction service.
package predictor

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/zerotrustai/modelgate/internal/domain/confidence"
	"github.com/zerotrustai/modelgate/internal/domain/strategy"
	"github.com/zerotrustai/modelgate/internal/domain/types"
	"github.com/zerotrustai/modelgate/pkg/logger"
	"github.com/zerotrustai/modelgate/pkg/metrics"
)

// Default retrain trigger configuration.
const (
	defaultRetrainThreshold  = 0.75
	defaultRetrainMinSamples = 10

	initialModelVersion = 1
	avgPrecision        = 4
)

// Option applies a configuration option to the Predictor.
type Option func(*Predictor)

// WithDefaultStrategy sets the strategy used when a request names an
// unknown one.
func WithDefaultStrategy(name strategy.Name) Option {
	return func(p *Predictor) {
		if name != "" {
			p.defaultName = name
		}
	}
}

// WithRetrainThreshold sets the mean-confidence threshold below which
// a retrain is recommended.
func WithRetrainThreshold(threshold float64) Option {
	return func(p *Predictor) {
		if threshold > 0 && threshold <= 1 {
			p.threshold = threshold
		}
	}
}

// WithRetrainMinSamples sets the minimum confidence-history length
// before the retrain trigger may fire.
func WithRetrainMinSamples(n int) Option {
	return func(p *Predictor) {
		if n > 0 {
			p.minSamples = n
		}
	}
}

// WithLogger sets a custom logger for the predictor.
func WithLogger(log logger.Logger) Option {
	return func(p *Predictor) {
		if log != nil {
			p.log = log
		}
	}
}

// Predictor owns the service metrics aggregate: counters, the rolling
// confidence history and the model version. All mutation happens under
// a single mutex so each prediction updates the aggregate atomically.
type Predictor struct {
	mu sync.RWMutex

	set         *strategy.Set
	defaultName strategy.Name
	threshold   float64
	minSamples  int

	total       int
	usage       map[string]int
	history     []float64
	version     int
	lastRetrain *time.Time

	log logger.Logger
}

// New builds a Predictor over the given strategy set.
func New(set *strategy.Set, opts ...Option) *Predictor {
	p := &Predictor{
		set:         set,
		defaultName: strategy.Basic,
		threshold:   defaultRetrainThreshold,
		minSamples:  defaultRetrainMinSamples,
		usage:       make(map[string]int),
		version:     initialModelVersion,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Get()
	}
	if p.set != nil {
		for _, name := range p.set.Names() {
			p.usage[name] = 0
		}
	}
	return p
}

// Predict classifies the input with the named strategy, falling back
// to the default on an unknown name. The request still succeeds on a
// miss; the fallback is logged as a warning, never an error. Counter
// increments and the history append are applied as one atomic unit.
func (p *Predictor) Predict(ctx context.Context, text, strategyName string) (types.PredictionResult, error) {
	if p.set == nil || p.set.Len() == 0 {
		return types.PredictionResult{}, fmt.Errorf("predict: %w: no strategies registered", ErrInternal)
	}

	name := strategy.Name(strategyName)
	if name == "" {
		name = p.defaultName
	}
	st, ok := p.set.Resolve(name)
	if !ok {
		p.log.Warn(ctx, "unknown strategy, falling back to default",
			logger.String("requested", strategyName),
			logger.String("default", string(p.defaultName)),
		)
		metrics.RecordStrategyFallback()
		st, ok = p.set.Resolve(p.defaultName)
		if !ok {
			return types.PredictionResult{}, fmt.Errorf("predict: %w: default strategy %q missing", ErrInternal, p.defaultName)
		}
	}
	used := string(st.Name())

	start := time.Now()
	label := st.Classify(text)
	elapsed := time.Since(start)
	conf := confidence.Estimate(text, label)

	p.mu.Lock()
	p.total++
	p.usage[used]++
	p.history = append(p.history, conf)
	version := p.version
	historyLen := len(p.history)
	p.mu.Unlock()

	latencyMS := float64(elapsed.Microseconds()) / 1e3
	metrics.RecordPrediction(used)
	metrics.RecordInferenceLatency(latencyMS)
	metrics.ObserveConfidence(conf)
	metrics.UpdateConfidenceHistorySize(historyLen)

	return types.PredictionResult{
		Prediction:      label,
		StrategyUsed:    used,
		InferenceTimeMS: latencyMS,
		Confidence:      conf,
		Timestamp:       time.Now().UTC(),
		ModelVersion:    version,
	}, nil
}

// Stats returns a snapshot of the service aggregates. Repeated calls
// without intervening mutations return identical results.
func (p *Predictor) Stats() types.Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	usage := make(map[string]int, len(p.usage))
	for name, count := range p.usage {
		usage[name] = count
	}

	var available []string
	if p.set != nil {
		available = p.set.Names()
	}

	return types.Stats{
		TotalPredictions:    p.total,
		StrategyUsage:       usage,
		AvailableStrategies: available,
		ModelVersion:        p.version,
		LastRetrain:         copyTime(p.lastRetrain),
		Confidence:          summarize(p.history),
	}
}

// ShouldTriggerRetrain reports whether the mean confidence over the
// full history is strictly below the threshold. Always false while the
// history holds fewer than the minimum samples. Pure read; evaluating
// it never mutates state.
func (p *Predictor) ShouldTriggerRetrain() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.history) < p.minSamples {
		return false
	}
	return mean(p.history) < p.threshold
}

// Retrain advances the model version, stamps the retrain time and
// clears the confidence history. Every call bumps the version, even a
// redundant one; history never carries across version boundaries.
func (p *Predictor) Retrain(ctx context.Context) int {
	p.mu.Lock()
	p.version++
	now := time.Now().UTC()
	p.lastRetrain = &now
	p.history = nil
	version := p.version
	p.mu.Unlock()

	p.log.Info(ctx, "model retrained", logger.Int("new_version", version))
	metrics.RecordRetrain()
	metrics.UpdateModelVersion(version)
	metrics.UpdateConfidenceHistorySize(0)
	return version
}

// Version returns the current model version.
func (p *Predictor) Version() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.version
}

func summarize(history []float64) types.ConfidenceSummary {
	s := types.ConfidenceSummary{Count: len(history)}
	if len(history) == 0 {
		return s
	}
	minV, maxV := history[0], history[0]
	for _, c := range history[1:] {
		minV = math.Min(minV, c)
		maxV = math.Max(maxV, c)
	}
	avg := round(mean(history), avgPrecision)
	s.Avg = &avg
	s.Min = &minV
	s.Max = &maxV
	return s
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
