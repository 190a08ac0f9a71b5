package mapview_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/compass/internal/mapview"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pensacola = models.Coordinates{Latitude: 30.4213, Longitude: -87.2169}
	kyiv      = models.Coordinates{Latitude: 50.45, Longitude: 30.52}
)

// countingFactory builds memory surfaces and records how many were built.
func countingFactory(built *[]*mapview.MemorySurface) mapview.SurfaceFactory {
	return func(center models.Coordinates, zoom int) (mapview.Surface, error) {
		surface := mapview.NewMemorySurface(center, zoom)
		*built = append(*built, surface)
		return surface, nil
	}
}

func TestMapView_Initialize(t *testing.T) {
	t.Run("surface is created once and re-centered afterwards", func(t *testing.T) {
		var built []*mapview.MemorySurface
		view := mapview.NewMapView(countingFactory(&built), slog.Default())

		require.NoError(t, view.Initialize(pensacola))
		require.NoError(t, view.Initialize(kyiv))

		require.Len(t, built, 1)
		center, zoom := built[0].View()
		assert.Equal(t, kyiv, center)
		assert.Equal(t, mapview.DefaultZoom, zoom)
		assert.Equal(t, mapview.TileURL, built[0].TileLayer())
		assert.Same(t, built[0], view.Surface())
	})

	t.Run("factory error", func(t *testing.T) {
		view := mapview.NewMapView(func(models.Coordinates, int) (mapview.Surface, error) {
			return nil, assert.AnError
		}, slog.Default())

		err := view.Initialize(pensacola)

		require.ErrorIs(t, err, assert.AnError)
		assert.Nil(t, view.Surface())
	})
}

func TestMapView_Markers(t *testing.T) {
	t.Run("clear on empty set is a no-op", func(t *testing.T) {
		var built []*mapview.MemorySurface
		view := mapview.NewMapView(countingFactory(&built), slog.Default())

		assert.NotPanics(t, view.ClearMarkers)
		require.NoError(t, view.Initialize(pensacola))
		assert.NotPanics(t, view.ClearMarkers)
		assert.NotPanics(t, view.ClearMarkers)
		assert.Zero(t, view.MarkerCount())
	})

	t.Run("clear removes every marker from the surface", func(t *testing.T) {
		var built []*mapview.MemorySurface
		view := mapview.NewMapView(countingFactory(&built), slog.Default())
		require.NoError(t, view.Initialize(pensacola))

		view.AddMarker(pensacola, "You")
		view.AddMarker(kyiv, "Cafe<br/>score: 0.8")
		require.Equal(t, 2, view.MarkerCount())

		markers := built[0].Markers()
		require.Len(t, markers, 2)
		assert.Equal(t, "You", markers[0].Label)
		assert.Equal(t, kyiv, markers[1].Location)

		view.ClearMarkers()

		assert.Zero(t, view.MarkerCount())
		assert.Empty(t, built[0].Markers())
	})

	t.Run("repeated cycles do not leak markers", func(t *testing.T) {
		var built []*mapview.MemorySurface
		view := mapview.NewMapView(countingFactory(&built), slog.Default())

		for cycle := 1; cycle <= 3; cycle++ {
			require.NoError(t, view.Initialize(pensacola))
			view.ClearMarkers()
			view.AddMarker(pensacola, "You")
			for i := 0; i < cycle; i++ {
				view.AddMarker(kyiv, "place")
			}

			assert.Equal(t, 1+cycle, view.MarkerCount())
			assert.Len(t, built[0].Markers(), 1+cycle)
		}
	})

	t.Run("marker before initialize is dropped", func(t *testing.T) {
		var built []*mapview.MemorySurface
		view := mapview.NewMapView(countingFactory(&built), slog.Default())

		view.AddMarker(pensacola, "You")

		assert.Zero(t, view.MarkerCount())
		assert.Empty(t, built)
	})
}

func TestMemorySurface_RemoveUnknownMarker(t *testing.T) {
	surface := mapview.NewMemorySurface(pensacola, mapview.DefaultZoom)
	surface.AddMarker(pensacola, "You")

	surface.RemoveMarker(mapview.MarkerHandle(42))

	assert.Len(t, surface.Markers(), 1)
}

func TestMapView_PublishWithoutPublisher(t *testing.T) {
	var built []*mapview.MemorySurface
	view := mapview.NewMapView(countingFactory(&built), slog.Default())

	require.NoError(t, view.Publish(context.Background()))
	require.NoError(t, view.Initialize(pensacola))
	require.NoError(t, view.Publish(context.Background()))
}
