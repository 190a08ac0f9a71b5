package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/UnknownOlympus/compass/internal/backend"
	"github.com/UnknownOlympus/compass/internal/form"
	"github.com/UnknownOlympus/compass/internal/mapview"
	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/UnknownOlympus/compass/internal/render"
	"github.com/google/uuid"
)

// Status texts set by a search activation.
const (
	SearchingStatus = "Searching…"
	OriginLabel     = "You"
)

// ErrStaleResponse is returned by a search whose response arrived after a newer search was issued.
var ErrStaleResponse = errors.New("response superseded by a newer search")

// Recommender requests ranked places from the backend.
type Recommender interface {
	Recommend(ctx context.Context, req models.SearchRequest) ([]models.PlaceResult, error)
}

// ResultRenderer shows a list of results.
type ResultRenderer interface {
	Render(results []models.PlaceResult)
}

// StatusArea is the one-line status the controller reports to.
type StatusArea interface {
	SetStatus(text string)
}

// Controller orchestrates search activations: it reads the form, resets the map,
// issues the recommendation request and renders the response.
//
// Every activation takes a sequence number. Only the latest activation may apply
// its response; older ones are discarded when they complete.
type Controller struct {
	log         *slog.Logger
	form        form.Inputs
	status      StatusArea
	mapView     *mapview.MapView
	renderer    ResultRenderer
	recommender Recommender
	metrics     *metrics.Metrics

	mu        sync.Mutex // guards seq, mapView, renderer and status updates
	seq       uint64
	publishMu sync.Mutex // serializes surface publishing, which runs without mu
	wg        sync.WaitGroup
}

// New creates a new instance of Controller.
func New(
	log *slog.Logger,
	inputs form.Inputs,
	status StatusArea,
	mapView *mapview.MapView,
	renderer ResultRenderer,
	recommender Recommender,
	metrics *metrics.Metrics,
) *Controller {
	return &Controller{
		log:         log,
		form:        inputs,
		status:      status,
		mapView:     mapView,
		renderer:    renderer,
		recommender: recommender,
		metrics:     metrics,
	}
}

// Search runs one search activation and blocks until its response is handled.
//
// Before the request is sent the status is set to searching, the map is
// re-centered on the origin and its markers are replaced by a single origin
// marker. On success the results are rendered and one marker is added per result.
// On failure only the status text changes.
func (c *Controller) Search(ctx context.Context) error {
	log := c.log.With("activation", uuid.NewString())

	req, err := form.ParseSearch(c.form)
	if err != nil {
		log.InfoContext(ctx, "Search input rejected", "error", err)
		c.metrics.Searches.WithLabelValues("invalid").Inc()
		c.setStatus("Invalid input: " + err.Error())
		return err
	}

	seq, err := c.begin(ctx, req.Origin())
	if err != nil {
		log.ErrorContext(ctx, "Failed to prepare map", "error", err)
		c.metrics.Searches.WithLabelValues("failure").Inc()
		return err
	}

	log.DebugContext(ctx, "Issuing search", "seq", seq, "query", req.Query, "radius_m", req.RadiusM)

	c.metrics.InFlight.Inc()
	results, err := c.recommender.Recommend(ctx, req)
	c.metrics.InFlight.Dec()

	return c.complete(ctx, log, seq, results, err)
}

// Trigger starts a search activation in the background, like pressing the search button.
func (c *Controller) Trigger(ctx context.Context) {
	c.Go(ctx, func(ctx context.Context) {
		if err := c.Search(ctx); err != nil && !errors.Is(err, ErrStaleResponse) {
			c.log.DebugContext(ctx, "Search activation ended with error", "error", err)
		}
	})
}

// Go runs fn in the background and tracks it for Wait.
func (c *Controller) Go(ctx context.Context, fn func(ctx context.Context)) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn(ctx)
	}()
}

// Wait blocks until every background activation has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// MarkerCount returns the number of markers currently on the map.
func (c *Controller) MarkerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.mapView.MarkerCount()
}

// begin performs the synchronous part of an activation and returns its sequence number.
func (c *Controller) begin(ctx context.Context, origin models.Coordinates) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.status.SetStatus(SearchingStatus)

	if err := c.mapView.Initialize(origin); err != nil {
		c.status.SetStatus("Error: " + err.Error())
		return 0, fmt.Errorf("failed to initialize map: %w", err)
	}
	c.mapView.ClearMarkers()
	c.mapView.AddMarker(origin, OriginLabel)
	c.schedulePublish(ctx)

	return c.seq, nil
}

// complete applies the response of activation seq if it is still the latest one.
func (c *Controller) complete(
	ctx context.Context,
	log *slog.Logger,
	seq uint64,
	results []models.PlaceResult,
	err error,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		log.InfoContext(ctx, "Discarding stale search response", "seq", seq, "latest", c.seq)
		c.metrics.Searches.WithLabelValues("stale").Inc()
		return ErrStaleResponse
	}

	if err != nil {
		log.ErrorContext(ctx, "Search request failed", "seq", seq, "error", err)
		c.metrics.Searches.WithLabelValues("failure").Inc()
		c.status.SetStatus("Error: " + backend.ErrorMessage(err))
		return err
	}

	c.renderer.Render(results)
	for _, p := range results {
		c.mapView.AddMarker(p.Location(), render.MarkerLabel(p))
	}
	c.status.SetStatus(fmt.Sprintf("Found %d places", len(results)))
	c.schedulePublish(ctx)

	log.InfoContext(ctx, "Search completed", "seq", seq, "results", len(results))
	c.metrics.Searches.WithLabelValues("success").Inc()

	return nil
}

// schedulePublish records the marker count and flushes the surface in the
// background. The caller holds mu; the flush runs without it.
// Failures are logged and do not affect the search.
func (c *Controller) schedulePublish(ctx context.Context) {
	c.metrics.Markers.Set(float64(c.mapView.MarkerCount()))
	if _, ok := c.mapView.Surface().(mapview.Publisher); !ok {
		return
	}

	c.Go(ctx, func(ctx context.Context) {
		c.publishMu.Lock()
		defer c.publishMu.Unlock()

		if err := c.mapView.Publish(ctx); err != nil {
			c.log.WarnContext(ctx, "Failed to publish map", "error", err)
		}
	})
}

func (c *Controller) setStatus(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status.SetStatus(text)
}
