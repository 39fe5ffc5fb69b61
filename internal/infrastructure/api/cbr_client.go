package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/damon-houk/cbr-currency-exporter/internal/domain/entity"
	"github.com/damon-houk/cbr-currency-exporter/internal/domain/service"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/logger"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/telemetry"
)

const (
	// DefaultURL is the CBR daily rates endpoint
	DefaultURL = "https://www.cbr-xml-daily.ru/daily_json.js"

	// charCodeField is injected into every record, since the payload keys entries by code
	charCodeField = "CharCode"
)

var (
	// ErrUnexpectedStatus is returned for any non-2xx response
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrMissingValute is returned when the payload has no Valute object
	ErrMissingValute = errors.New("response has no Valute object")
	// ErrMalformedEntry is returned when a Valute entry is not an object
	ErrMalformedEntry = errors.New("malformed Valute entry")
)

// CBRClient fetches the daily rates snapshot published by the Central Bank of Russia
type CBRClient struct {
	url        string
	httpClient *http.Client
	logger     logger.Logger
}

var _ service.RecordProvider = (*CBRClient)(nil)

// NewCBRClient creates a new CBR client. An empty url selects DefaultURL.
func NewCBRClient(url string, httpClient *http.Client, log logger.Logger) *CBRClient {
	if url == "" {
		url = DefaultURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &CBRClient{
		url:        url,
		httpClient: httpClient,
		logger:     log,
	}
}

// URL returns the endpoint the client reads from
func (c *CBRClient) URL() string {
	return c.url
}

// dailyResponse is the part of the payload we read
type dailyResponse struct {
	Valute *entity.Record `json:"Valute"`
}

// Fetch performs one GET and returns one record per Valute entry.
// It never returns an error: any failure is logged and yields an empty set.
func (c *CBRClient) Fetch(ctx context.Context) entity.RecordSet {
	start := time.Now()
	defer telemetry.MeasureFetch(start)

	records, stage, err := c.fetch(ctx)
	if err != nil {
		c.logger.Error("Failed to fetch currency data", map[string]interface{}{
			"url":   c.url,
			"stage": stage,
			"error": err.Error(),
		})
		telemetry.IncrFetchFailed(stage)
		return entity.RecordSet{}
	}

	c.logger.Debug("Currency data fetched", map[string]interface{}{
		"url":     c.url,
		"records": len(records),
	})
	telemetry.IncrFetchSucceeded(len(records))

	return records
}

// fetch does the actual work and reports which stage failed
func (c *CBRClient) fetch(ctx context.Context) (entity.RecordSet, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, "request", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "request", fmt.Errorf("failed to execute request: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "status", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "read", fmt.Errorf("failed to read response body: %w", err)
	}

	records, err := parseDaily(body)
	if err != nil {
		return nil, "decode", err
	}

	return records, "", nil
}

// parseDaily turns a daily_json payload into records, in payload order
func parseDaily(body []byte) (entity.RecordSet, error) {
	var daily dailyResponse
	if err := json.Unmarshal(body, &daily); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if daily.Valute == nil {
		return nil, ErrMissingValute
	}

	records := make(entity.RecordSet, 0, daily.Valute.Len())
	for _, code := range daily.Valute.Keys() {
		value, _ := daily.Valute.Get(code)
		rec, ok := value.(*entity.Record)
		if !ok {
			return nil, fmt.Errorf("%w: %s is %T", ErrMalformedEntry, code, value)
		}
		rec.Set(charCodeField, code)
		records = append(records, rec)
	}

	return records, nil
}
