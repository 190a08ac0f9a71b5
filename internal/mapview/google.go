package mapview

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"strconv"

	"github.com/UnknownOlympus/compass/internal/models"
	"googlemaps.github.io/maps"
)

const (
	staticMapSize  = "640x480"
	originColor    = "blue"
	placeColor     = "red"
	maxDigitLabels = 9
)

// StaticMapClient is the part of the Google Maps client used to render snapshots.
type StaticMapClient interface {
	StaticMap(ctx context.Context, r *maps.StaticMapRequest) (image.Image, error)
}

// GoogleSurface renders the view as a Google Static Maps PNG on Publish.
// The first marker is drawn as the origin, the rest are numbered by rank.
type GoogleSurface struct {
	*MemorySurface
	client StaticMapClient
	path   string
	log    *slog.Logger
}

// NewGoogleSurface creates a surface rendered through client and written to path.
func NewGoogleSurface(
	client StaticMapClient,
	path string,
	center models.Coordinates,
	zoom int,
	log *slog.Logger,
) *GoogleSurface {
	return &GoogleSurface{MemorySurface: NewMemorySurface(center, zoom), client: client, path: path, log: log}
}

// Request builds the static map request for the current view.
func (s *GoogleSurface) Request() *maps.StaticMapRequest {
	center, zoom := s.View()
	req := &maps.StaticMapRequest{
		Center: formatLatLng(center),
		Zoom:   zoom,
		Size:   staticMapSize,
	}

	for i, m := range s.Markers() {
		marker := maps.Marker{
			Color:    placeColor,
			Location: []maps.LatLng{{Lat: m.Location.Latitude, Lng: m.Location.Longitude}},
		}
		switch {
		case i == 0:
			marker.Color = originColor
		case i <= maxDigitLabels:
			marker.Label = strconv.Itoa(i)
		}
		req.Markers = append(req.Markers, marker)
	}

	return req
}

// Publish fetches the static map and replaces the PNG snapshot atomically.
func (s *GoogleSurface) Publish(ctx context.Context) error {
	req := s.Request()
	s.log.DebugContext(ctx, "Rendering static map", "center", req.Center, "markers", len(req.Markers))

	img, err := s.client.StaticMap(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to render static map: %w", err)
	}

	return writeFileAtomic(s.path, func(w io.Writer) error {
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("failed to encode static map: %w", err)
		}
		return nil
	})
}

func formatLatLng(c models.Coordinates) string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}
