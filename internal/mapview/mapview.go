package mapview

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/compass/internal/models"
)

// SurfaceFactory builds the map surface the first time a MapView is initialized.
type SurfaceFactory func(center models.Coordinates, zoom int) (Surface, error)

// MapView owns a single map surface and the markers currently displayed on it.
// It is not safe for concurrent use; the controller serializes access.
// Publish is the exception: once the surface exists it may run alongside the other methods.
type MapView struct {
	newSurface SurfaceFactory
	surface    Surface
	markers    []MarkerHandle
	log        *slog.Logger
}

// NewMapView creates a MapView. The surface is not built until Initialize.
func NewMapView(factory SurfaceFactory, log *slog.Logger) *MapView {
	return &MapView{newSurface: factory, log: log}
}

// Initialize creates the surface centered at center on first use and
// re-centers the existing one afterwards. The surface is never recreated.
func (mv *MapView) Initialize(center models.Coordinates) error {
	if mv.surface != nil {
		mv.surface.Recenter(center, DefaultZoom)
		return nil
	}

	surface, err := mv.newSurface(center, DefaultZoom)
	if err != nil {
		return fmt.Errorf("failed to create map surface: %w", err)
	}
	mv.surface = surface
	mv.log.Debug("Map surface created", "lat", center.Latitude, "lng", center.Longitude, "zoom", DefaultZoom)

	return nil
}

// ClearMarkers removes every marker from the surface. Calling it with no
// markers, or before Initialize, does nothing.
func (mv *MapView) ClearMarkers() {
	for _, h := range mv.markers {
		mv.surface.RemoveMarker(h)
	}
	mv.markers = nil
}

// AddMarker places a marker with a popup label and keeps it until the next ClearMarkers.
func (mv *MapView) AddMarker(at models.Coordinates, label string) {
	if mv.surface == nil {
		mv.log.Warn("Marker dropped, map surface not initialized", "label", label)
		return
	}
	mv.markers = append(mv.markers, mv.surface.AddMarker(at, label))
}

// MarkerCount returns the number of live markers.
func (mv *MapView) MarkerCount() int {
	return len(mv.markers)
}

// Surface returns the underlying surface, or nil before Initialize.
func (mv *MapView) Surface() Surface {
	return mv.surface
}

// Publish renders the surface if it supports publishing.
func (mv *MapView) Publish(ctx context.Context) error {
	publisher, ok := mv.surface.(Publisher)
	if !ok {
		return nil
	}
	if err := publisher.Publish(ctx); err != nil {
		return fmt.Errorf("failed to publish map: %w", err)
	}

	return nil
}
