package backend_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/UnknownOlympus/compass/internal/backend"
	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const baseURL = "http://backend.test"

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func respond(status int, body string) func(*http.Request) (*http.Response, error) {
	return func(_ *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(bytes.NewBufferString(body)),
		}, nil
	}
}

func newClient(t *testing.T, doFunc func(*http.Request) (*http.Response, error)) (*backend.Client, *metrics.Metrics) {
	t.Helper()
	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	client := backend.NewClientWithHTTP(
		&mockHTTPClient{doFunc: doFunc},
		baseURL,
		rate.NewLimiter(rate.Inf, 0),
		slog.Default(),
		appMetrics,
	)
	return client, appMetrics
}

func TestClient_Recommend(t *testing.T) {
	ctx := context.Background()
	userID := "u1"
	request := models.SearchRequest{
		Lat:        30.4213,
		Lng:        -87.2169,
		Query:      "quiet coffee shop to work",
		RadiusM:    2000,
		MaxResults: 5,
		OpenNow:    true,
		UserID:     &userID,
	}

	t.Run("successful recommendation", func(t *testing.T) {
		client, _ := newClient(t, func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, baseURL+"/recommend", req.URL.String())
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			assert.NotEmpty(t, req.Header.Get(backend.RequestIDHeader))

			var body map[string]any
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			assert.InEpsilon(t, 30.4213, body["lat"], 0.0001)
			assert.InEpsilon(t, -87.2169, body["lng"], 0.0001)
			assert.Equal(t, "quiet coffee shop to work", body["query"])
			assert.InEpsilon(t, 2000.0, body["radius_m"], 0.0001)
			assert.InEpsilon(t, 5.0, body["max_results"], 0.0001)
			assert.Equal(t, true, body["open_now"])
			assert.Equal(t, "u1", body["user_id"])
			assert.NotContains(t, body, "categories")

			return respond(http.StatusOK, `{"results":[
				{"place_id":"osm:node:1","name":"Cafe","address":null,"distance_m":120,"score":0.8,
				 "personal_boost":null,"categories":[],"lat":30.42,"lng":-87.21},
				{"place_id":"osm:node:2","name":"Library","address":"1 Main St","distance_m":300.5,"score":0.6,
				 "personal_boost":0.02,"categories":["amenity:library"],"lat":30.43,"lng":-87.22}
			]}`)(req)
		})

		results, err := client.Recommend(ctx, request)

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "osm:node:1", results[0].PlaceID)
		assert.Nil(t, results[0].Address)
		assert.Nil(t, results[0].PersonalBoost)
		assert.Equal(t, "Library", results[1].Name)
		require.NotNil(t, results[1].Address)
		assert.Equal(t, "1 Main St", *results[1].Address)
		assert.Equal(t, []string{"amenity:library"}, results[1].Categories)
	})

	t.Run("null user id is sent as null", func(t *testing.T) {
		client, _ := newClient(t, func(req *http.Request) (*http.Response, error) {
			var body map[string]any
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			assert.Contains(t, body, "user_id")
			assert.Nil(t, body["user_id"])
			return respond(http.StatusOK, `{"results":[]}`)(req)
		})

		anonymous := request
		anonymous.UserID = nil
		_, err := client.Recommend(ctx, anonymous)

		require.NoError(t, err)
	})

	t.Run("missing results field is an empty list", func(t *testing.T) {
		client, _ := newClient(t, respond(http.StatusOK, `{}`))

		results, err := client.Recommend(ctx, request)

		require.NoError(t, err)
		require.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("error status with detail", func(t *testing.T) {
		client, appMetrics := newClient(t, respond(http.StatusInternalServerError, `{"detail":"overloaded"}`))

		results, err := client.Recommend(ctx, request)

		require.Nil(t, results)
		var apiErr *backend.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Equal(t, "overloaded", apiErr.Message())
		assert.InDelta(t, 1.0, testutil.ToFloat64(appMetrics.APIErrors), 0)
	})

	t.Run("error status with unparsable body", func(t *testing.T) {
		client, _ := newClient(t, respond(http.StatusInternalServerError, `<html>oops</html>`))

		_, err := client.Recommend(ctx, request)

		var apiErr *backend.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Empty(t, apiErr.Detail)
		assert.Equal(t, "500", apiErr.Message())
		assert.Contains(t, err.Error(), "backend returned status 500")
	})

	t.Run("error status with structured detail", func(t *testing.T) {
		client, _ := newClient(t, respond(http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","lat"]}]}`))

		_, err := client.Recommend(ctx, request)

		var apiErr *backend.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "422", apiErr.Message())
	})

	t.Run("invalid JSON success body", func(t *testing.T) {
		client, _ := newClient(t, respond(http.StatusOK, `invalid json`))

		results, err := client.Recommend(ctx, request)

		require.Error(t, err)
		require.Nil(t, results)
		assert.Contains(t, err.Error(), "failed to decode recommend response")
	})

	t.Run("HTTP client returns error", func(t *testing.T) {
		client, appMetrics := newClient(t, func(_ *http.Request) (*http.Response, error) {
			return nil, assert.AnError
		})

		results, err := client.Recommend(ctx, request)

		require.Nil(t, results)
		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to execute /recommend request")
		assert.InDelta(t, 1.0, testutil.ToFloat64(appMetrics.APIErrors), 0)
	})

	t.Run("rate limit exceeded", func(t *testing.T) {
		rateCtx, cancel := context.WithCancel(context.Background())
		cancel()
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				t.Fatal("HTTP client should not be called when rate limit blocks")
				return &http.Response{}, nil
			},
		}
		limiter := rate.NewLimiter(rate.Every(time.Second), 1)
		require.True(t, limiter.Allow())

		client := backend.NewClientWithHTTP(
			mockClient, baseURL, limiter, slog.Default(), metrics.NewMetrics(prometheus.NewRegistry()),
		)
		_, err := client.Recommend(rateCtx, request)

		require.Error(t, err)
		assert.ErrorContains(t, err, "rate limit exceeded")
	})
}

func TestClient_SendFeedback(t *testing.T) {
	ctx := context.Background()
	hint := "bakery"
	event := models.FeedbackEvent{
		UserID:       "u1",
		PlaceID:      "p42",
		Action:       models.ActionLike,
		CategoryHint: &hint,
	}

	t.Run("sends event as body", func(t *testing.T) {
		client, _ := newClient(t, func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, baseURL+"/feedback", req.URL.String())

			raw, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			assert.JSONEq(t,
				`{"user_id":"u1","place_id":"p42","action":"like","category_hint":"bakery"}`,
				string(raw))

			return respond(http.StatusOK, `{"status":"saved"}`)(req)
		})

		require.NoError(t, client.SendFeedback(ctx, event))
	})

	t.Run("nil category hint is sent as null", func(t *testing.T) {
		client, _ := newClient(t, func(req *http.Request) (*http.Response, error) {
			raw, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			assert.JSONEq(t,
				`{"user_id":"u1","place_id":"p1","action":"dislike","category_hint":null}`,
				string(raw))
			return respond(http.StatusOK, ``)(req)
		})

		err := client.SendFeedback(ctx, models.FeedbackEvent{UserID: "u1", PlaceID: "p1", Action: models.ActionDislike})

		require.NoError(t, err)
	})

	t.Run("backend rejects feedback", func(t *testing.T) {
		client, _ := newClient(t, respond(http.StatusBadGateway, `{"detail":"db down"}`))

		err := client.SendFeedback(ctx, event)

		var apiErr *backend.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "db down", apiErr.Message())
	})
}

func TestClient_ClearFeedback(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes user feedback", func(t *testing.T) {
		client, _ := newClient(t, func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, http.MethodDelete, req.Method)
			assert.Equal(t, "/feedback/nitin%20test", req.URL.EscapedPath())
			return respond(http.StatusOK, `{"status":"cleared"}`)(req)
		})

		require.NoError(t, client.ClearFeedback(ctx, "nitin test"))
	})

	t.Run("empty user id", func(t *testing.T) {
		client, _ := newClient(t, func(_ *http.Request) (*http.Response, error) {
			t.Fatal("HTTP client should not be called without a user id")
			return nil, nil
		})

		require.ErrorIs(t, client.ClearFeedback(ctx, ""), backend.ErrEmptyUserID)
	})
}

func TestClient_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		client, _ := newClient(t, func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, baseURL+"/health", req.URL.String())
			return respond(http.StatusOK, `{"status":"ok"}`)(req)
		})

		require.NoError(t, client.Health(context.Background()))
	})

	t.Run("unhealthy", func(t *testing.T) {
		client, _ := newClient(t, respond(http.StatusServiceUnavailable, ``))

		require.Error(t, client.Health(context.Background()))
	})
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"api error with detail", &backend.APIError{StatusCode: 502, Detail: "db down"}, "db down"},
		{"api error without detail", &backend.APIError{StatusCode: 500}, "500"},
		{"wrapped api error", fmt.Errorf("failed to clear: %w", &backend.APIError{StatusCode: 404}), "404"},
		{"transport error", errors.New("connection refused"), "connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, backend.ErrorMessage(tt.err))
		})
	}
}

func TestNewClient(t *testing.T) {
	client := backend.NewClient(baseURL, 0, 5, slog.Default(), metrics.NewMetrics(prometheus.NewRegistry()))

	require.NotNil(t, client)
}
