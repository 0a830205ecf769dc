// Package types contains common read shapes shared across the application.
package types

import (
	"time"

	"github.com/zerotrustai/modelgate/internal/domain/model"
)

// PredictionResult is the per-request outcome returned to callers.
// It is produced once per request and never retained by the service.
type PredictionResult struct {
	Prediction      model.PriorityLabel `json:"prediction"`
	StrategyUsed    string              `json:"strategy_used"`
	InferenceTimeMS float64             `json:"inference_time_ms"`
	Confidence      float64             `json:"confidence"`
	Timestamp       time.Time           `json:"timestamp"`
	ModelVersion    int                 `json:"model_version"`
}

// ConfidenceSummary aggregates the rolling confidence history.
// Avg, Min and Max are nil while the history is empty.
type ConfidenceSummary struct {
	Count int      `json:"count"`
	Avg   *float64 `json:"avg_confidence"`
	Min   *float64 `json:"min_confidence"`
	Max   *float64 `json:"max_confidence"`
}

// Stats is a point-in-time snapshot of the prediction service.
type Stats struct {
	TotalPredictions    int               `json:"total_predictions"`
	StrategyUsage       map[string]int    `json:"strategy_usage"`
	AvailableStrategies []string          `json:"available_strategies"`
	ModelVersion        int               `json:"model_version"`
	LastRetrain         *time.Time        `json:"last_retrain"`
	Confidence          ConfidenceSummary `json:"confidence_metrics"`
}

// MetricsReport combines confidence metrics with the retrain
// recommendation for the monitoring endpoint.
type MetricsReport struct {
	Confidence    ConfidenceSummary `json:"confidence_metrics"`
	ModelVersion  int               `json:"model_version"`
	LastRetrain   *time.Time        `json:"last_retrain"`
	ShouldRetrain bool              `json:"should_retrain"`
}
