package loadgen

import "time"

// Config holds configuration for the prediction load test
type Config struct {
	BaseURL     string        // Base URL of the service
	NumRequests int           // Number of prediction requests to generate
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	LogFile     string        // Log file for test output
	Verbose     bool          // Enable verbose logging
}

// Request represents a prediction request to be submitted
type Request struct {
	Input    string         `json:"input"`
	Strategy string         `json:"strategy,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Result represents the prediction returned by the service
type Result struct {
	Prediction   string  `json:"prediction"`
	StrategyUsed string  `json:"strategy_used"`
	Confidence   float64 `json:"confidence"`
	ModelVersion int     `json:"model_version"`
}

// ServiceStats mirrors the aggregate counters exposed on /stats
type ServiceStats struct {
	TotalPredictions int            `json:"total_predictions"`
	StrategyUsage    map[string]int `json:"strategy_usage"`
	ModelVersion     int            `json:"model_version"`
}

// Stats holds load test statistics
type Stats struct {
	RequestsGenerated  int
	RequestsSubmitted  int
	RequestsSuccessful int
	RequestsRejected   int
	RequestsFailed     int
	LabelCounts        map[string]int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
