// Package smoke drives a running CRUD API with concurrent requests and
// checks every response against the /crud contract.
package smoke

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/crudapi/pkg/logger"
)

// Run executes the complete smoke run.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	if config.Workers < 1 {
		config.Workers = 1
	}

	logger.Get().Info(ctx, "starting crud api smoke run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("requests", config.NumRequests),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("verbose", config.Verbose))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Check the greeting
	if err := verifyRoot(ctx, client); err != nil {
		return fmt.Errorf("root check failed: %w", err)
	}

	// Step 3: Generate requests
	requests, err := generateRequests(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("request generation failed: %w", err)
	}

	// Step 4: Submit and verify concurrently
	submitRequests(ctx, config, client, requests, stats)

	// Step 5: Idempotence and malformed input
	if len(requests) > 0 {
		if err := verifyIdempotence(ctx, client, requests[0]); err != nil {
			stats.ChecksFailed++
			logger.Get().Error(ctx, "idempotence check failed", logger.Error(err))
		}
	}
	if err := verifyMalformed(ctx, client); err != nil {
		stats.ChecksFailed++
		logger.Get().Error(ctx, "malformed body check failed", logger.Error(err))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	if stats.RequestsFailed > 0 || stats.ChecksFailed > 0 {
		return fmt.Errorf("%w: %d requests, %d checks", ErrChecksFailed, stats.RequestsFailed, stats.ChecksFailed)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("smoke run interrupted: %w", err)
	}

	logger.Get().Info(ctx, "smoke run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service health")

	status, _, err := client.Do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: health check returned %d", ErrUnexpectedStatus, status)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(stats *Stats) {
	var passRate, requestsPerSecond float64

	if stats.RequestsSubmitted > 0 {
		passRate = float64(stats.RequestsPassed) / float64(stats.RequestsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.RequestsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("requestsGenerated", stats.RequestsGenerated),
		logger.Int("requestsSubmitted", stats.RequestsSubmitted),
		logger.Int("requestsPassed", stats.RequestsPassed),
		logger.Int("requestsFailed", stats.RequestsFailed),
		logger.Int("checksFailed", stats.ChecksFailed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("passRate", passRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
