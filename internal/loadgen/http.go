package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zerotrustai/modelgate/pkg/logger"
)

// HTTPClient wraps http.Client with a timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// Post performs a POST request with a JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// submitRequests submits prediction requests concurrently using a worker pool
func submitRequests(ctx context.Context, config *Config, requests []Request, stats *Stats) {
	logger.Get().Info(ctx, "submitting prediction requests",
		logger.Int("requests", len(requests)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/predict"

	var (
		successful int64
		rejected   int64
		failed     int64
		submitted  int64
	)

	var labelMu sync.Mutex
	labels := make(map[string]int)

	requestChan := make(chan Request, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for req := range requestChan {
				select {
				case <-ctx.Done():
					return
				default:
					outcome, label := submitSingleRequest(ctx, client, url, req)

					atomic.AddInt64(&submitted, 1)
					switch outcome {
					case "success":
						atomic.AddInt64(&successful, 1)
						labelMu.Lock()
						labels[label]++
						labelMu.Unlock()
					case "rejected":
						atomic.AddInt64(&rejected, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}
				}
			}
		}()
	}

	go func() {
		defer close(requestChan)
		for _, req := range requests {
			select {
			case <-ctx.Done():
				return
			case requestChan <- req:
			}
		}
	}()

	wg.Wait()

	stats.RequestsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.RequestsSuccessful = int(atomic.LoadInt64(&successful))
	stats.RequestsRejected = int(atomic.LoadInt64(&rejected))
	stats.RequestsFailed = int(atomic.LoadInt64(&failed))
	stats.LabelCounts = labels

	logger.Get().Info(ctx, "request submission completed",
		logger.Int("successful", stats.RequestsSuccessful),
		logger.Int("rejected", stats.RequestsRejected),
		logger.Int("failed", stats.RequestsFailed))
}

// submitSingleRequest submits one request and classifies the outcome.
func submitSingleRequest(ctx context.Context, client *HTTPClient, url string, req Request) (string, string) {
	resp, err := client.Post(ctx, url, req)
	if err != nil {
		return "failed", ""
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed", ""
	}

	switch resp.StatusCode {
	case statusOK:
		var res Result
		if err := json.Unmarshal(body, &res); err != nil {
			return "failed", ""
		}
		return "success", res.Prediction
	case statusBadRequest:
		return "rejected", ""
	default:
		return "failed", ""
	}
}
