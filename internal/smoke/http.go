package smoke

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/crudapi/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Do sends method to path with an optional JSON body and returns the
// status code and the fully read response body.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

// submitRequests sends every request through a worker pool and verifies
// each response against the contract.
func submitRequests(ctx context.Context, config *Config, client *HTTPClient, requests []Request, stats *Stats) {
	logger.Get().Info(ctx, "submitting requests",
		logger.Int("count", len(requests)),
		logger.Int("workers", config.Workers))

	var (
		submitted int64
		passed    int64
		failed    int64
	)

	var lastReport atomic.Int64
	lastReport.Store(time.Now().UnixNano())

	requestChan := make(chan Request, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for req := range requestChan {
				if ctx.Err() != nil {
					return
				}

				err := submitSingleRequest(ctx, client, req)
				atomic.AddInt64(&submitted, 1)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					logger.Get().Debug(ctx, "request check failed",
						logger.String("id", req.ID),
						logger.String("operation", req.Operation.String()),
						logger.Error(err))
				} else {
					atomic.AddInt64(&passed, 1)
				}

				last := lastReport.Load()
				now := time.Now().UnixNano()
				if time.Duration(now-last) >= ProgressInterval && lastReport.CompareAndSwap(last, now) {
					logger.Get().Info(ctx, "progress",
						logger.Int("submitted", int(atomic.LoadInt64(&submitted))),
						logger.Int("total", len(requests)),
						logger.Int("passed", int(atomic.LoadInt64(&passed))),
						logger.Int("failed", int(atomic.LoadInt64(&failed))))
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
	stats.RequestsPassed = int(atomic.LoadInt64(&passed))
	stats.RequestsFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "request submission completed",
		logger.Int("passed", stats.RequestsPassed),
		logger.Int("failed", stats.RequestsFailed))
}

// submitSingleRequest sends one request and checks its response.
func submitSingleRequest(ctx context.Context, client *HTTPClient, req Request) error {
	status, body, err := client.Do(ctx, req.Operation.String(), "/crud", req.Body)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, status, body)
	}
	return verifyAck(req, body)
}
