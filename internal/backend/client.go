package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Endpoint paths of the recommendation backend.
const (
	RecommendPath = "/recommend"
	FeedbackPath  = "/feedback"
	HealthPath    = "/health"
)

// RequestIDHeader carries the correlation ID of every backend call.
const RequestIDHeader = "X-Request-ID"

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks JSON over HTTP to the recommendation backend.
type Client struct {
	client  HTTPClient       // HTTP client for making requests
	baseURL string           // Base URL of the backend, without trailing slash
	log     *slog.Logger     // Logger for logging operations
	limiter *rate.Limiter    // Rate limiter shared by all endpoints
	metrics *metrics.Metrics // Metrics for request durations and API errors
}

// ErrEmptyUserID is returned when clearing feedback without a user.
var ErrEmptyUserID = errors.New("user id is required")

// APIError is returned for a non-2xx response. Detail holds the backend's
// "detail" field when the error body carried a string one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Detail)
}

// Message is the text shown to the user: the detail, or the raw status code when absent.
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return strconv.Itoa(e.StatusCode)
}

// ErrorMessage is the user-facing text of a failed call: the backend's detail
// or status code for API errors, the error text otherwise.
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}

// NewClient creates a backend client with its own http.Client.
// A zero timeout leaves requests unbounded.
func NewClient(
	baseURL string,
	timeout time.Duration,
	rateLimit int,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *Client {
	limit := rate.Inf
	if rateLimit > 0 {
		limit = rate.Limit(rateLimit)
	}

	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		log:     log,
		limiter: rate.NewLimiter(limit, max(rateLimit, 1)),
		metrics: metrics,
	}
}

// NewClientWithHTTP allows injecting custom HTTP client and limiter.
func NewClientWithHTTP(
	client HTTPClient,
	baseURL string,
	limiter *rate.Limiter,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *Client {
	return &Client{
		client:  client,
		baseURL: baseURL,
		log:     log,
		limiter: limiter,
		metrics: metrics,
	}
}

// Recommend requests a ranked list of places for the given search.
// A missing "results" field is treated as an empty list.
func (c *Client) Recommend(ctx context.Context, req models.SearchRequest) ([]models.PlaceResult, error) {
	body, err := c.do(ctx, http.MethodPost, RecommendPath, req)
	if err != nil {
		return nil, err
	}

	var resp models.RecommendResponse
	if err = json.Unmarshal(body, &resp); err != nil {
		c.log.ErrorContext(ctx, "Failed to parse recommend response", "error", err, "body", string(body))
		return nil, fmt.Errorf("failed to decode recommend response: %w", err)
	}

	if resp.Results == nil {
		return []models.PlaceResult{}, nil
	}

	return resp.Results, nil
}

// SendFeedback posts one feedback event. The response body is not consumed.
func (c *Client) SendFeedback(ctx context.Context, event models.FeedbackEvent) error {
	_, err := c.do(ctx, http.MethodPost, FeedbackPath, event)
	return err
}

// ClearFeedback removes every feedback event recorded for the user.
func (c *Client) ClearFeedback(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}

	_, err := c.do(ctx, http.MethodDelete, FeedbackPath+"/"+url.PathEscape(userID), nil)
	return err
}

// Health checks that the backend answers its health endpoint.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, HealthPath, nil)
	return err
}

// do performs a single request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.DebugContext(ctx, "Backend request", "method", method, "path", path, "request_id", requestID)

	startTime := time.Now()
	resp, err := c.client.Do(req)
	c.metrics.RequestSeconds.WithLabelValues(path).Observe(time.Since(startTime).Seconds())
	if err != nil {
		c.metrics.APIErrors.Inc()
		return nil, fmt.Errorf("failed to execute %s request: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.metrics.APIErrors.Inc()
		c.log.ErrorContext(ctx, "Backend API error",
			"path", path,
			"status", resp.StatusCode,
			"request_id", requestID,
			"body", string(body))
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: parseDetail(body)}
	}

	return body, nil
}

// parseDetail extracts a string "detail" field from an error body.
// Anything else (invalid JSON, missing or non-string detail) yields "".
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}

	return detail
}
