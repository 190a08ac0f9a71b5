package mapview

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Foreign members carrying the view settings of a published FeatureCollection.
const (
	memberCenter  = "center"
	memberZoom    = "zoom"
	memberMaxZoom = "max_zoom"
	memberTiles   = "tiles"
)

// GeoJSONSurface publishes its markers as a GeoJSON FeatureCollection.
// The view (center, zoom, tile layer) travels as foreign members of the collection.
type GeoJSONSurface struct {
	*MemorySurface
	path string
}

// NewGeoJSONSurface creates a surface written to path on every Publish.
func NewGeoJSONSurface(path string, center models.Coordinates, zoom int) *GeoJSONSurface {
	return &GeoJSONSurface{MemorySurface: NewMemorySurface(center, zoom), path: path}
}

// FeatureCollection converts the markers to point features in placement order
// and attaches the current view.
func (s *GeoJSONSurface) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, m := range s.Markers() {
		feature := geojson.NewFeature(toPoint(m.Location))
		feature.ID = uint64(m.Handle)
		feature.Properties["popup"] = m.Label
		fc.Append(feature)
	}

	center, zoom := s.View()
	fc.ExtraMembers = geojson.Properties{
		memberCenter:  toPoint(center),
		memberZoom:    zoom,
		memberMaxZoom: MaxZoom,
		memberTiles:   s.TileLayer(),
	}

	return fc
}

// Publish writes the collection atomically, replacing the previous one.
func (s *GeoJSONSurface) Publish(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s.FeatureCollection(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode geojson: %w", err)
	}

	return writeFileAtomic(s.path, func(w io.Writer) error {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write geojson: %w", err)
		}
		return nil
	})
}

func toPoint(c models.Coordinates) orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}
