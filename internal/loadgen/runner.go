package loadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zerotrustai/modelgate/pkg/logger"
)

// Run executes the complete prediction load test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting prediction load test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("requests", config.NumRequests),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate requests
	requests := generateRequests(ctx, config, stats)

	// Step 3: Submit requests concurrently
	submitRequests(ctx, config, requests, stats)

	// Step 4: Verify the service counters against what was submitted
	if err := verifyServiceStats(ctx, config, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "load test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}

	if resp.StatusCode != statusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	var health struct {
		Status       string `json:"status"`
		ModelsLoaded int    `json:"models_loaded"`
	}
	if err := json.Unmarshal(body, &health); err != nil {
		return fmt.Errorf("failed to parse health response: %w", err)
	}
	if health.Status != "healthy" {
		return fmt.Errorf("service reported status %q", health.Status)
	}

	logger.Get().Info(ctx, "service is healthy",
		logger.Int("modelsLoaded", health.ModelsLoaded))
	return nil
}

// verifyServiceStats cross-checks the service's /stats counters against
// the number of successful submissions.
func verifyServiceStats(ctx context.Context, config *Config, stats *Stats) error {
	logger.Get().Info(ctx, "verifying service counters")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/stats"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read stats response: %w", err)
	}
	if resp.StatusCode != statusOK {
		return fmt.Errorf("stats request failed with status: %d", resp.StatusCode)
	}

	var svcStats ServiceStats
	if err := json.Unmarshal(body, &svcStats); err != nil {
		return fmt.Errorf("failed to parse stats response: %w", err)
	}

	// Other clients may be hitting the service; the counter can only be
	// checked as a lower bound.
	if svcStats.TotalPredictions < stats.RequestsSuccessful {
		return fmt.Errorf("service counted %d predictions but %d submissions succeeded",
			svcStats.TotalPredictions, stats.RequestsSuccessful)
	}

	logger.Get().Info(ctx, "service counters verified",
		logger.Int("totalPredictions", svcStats.TotalPredictions),
		logger.Int("modelVersion", svcStats.ModelVersion))

	if config.Verbose {
		for name, count := range svcStats.StrategyUsage {
			logger.Get().Info(ctx, "strategy usage",
				logger.String("strategy", name),
				logger.Int("count", count))
		}
	}
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, requestsPerSecond float64

	if stats.RequestsSubmitted > 0 {
		successRate = float64(stats.RequestsSuccessful) / float64(stats.RequestsSubmitted) * percentageMultiplier
	}

	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.RequestsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("requestsGenerated", stats.RequestsGenerated),
		logger.Int("requestsSubmitted", stats.RequestsSubmitted),
		logger.Int("requestsSuccessful", stats.RequestsSuccessful),
		logger.Int("requestsRejected", stats.RequestsRejected),
		logger.Int("requestsFailed", stats.RequestsFailed),
		logger.Any("labelCounts", stats.LabelCounts),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
