package mapview

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/compass/internal/models"
	"googlemaps.github.io/maps"
)

// SurfaceType represents the kind of map surface.
type SurfaceType string

const (
	// SurfaceTypeMemory keeps the map in memory only.
	SurfaceTypeMemory SurfaceType = "memory"
	// SurfaceTypeGeoJSON publishes the map as a GeoJSON document.
	SurfaceTypeGeoJSON SurfaceType = "geojson"
	// SurfaceTypeGoogle publishes the map as a Google Static Maps image.
	SurfaceTypeGoogle SurfaceType = "google"
)

// SurfaceConfig holds configuration for creating a map surface.
type SurfaceConfig struct {
	Type   SurfaceType  // Type of surface to create
	Output string       // File the surface is published to
	APIKey string       // API key (used by Google surface)
	Logger *slog.Logger // Logger for the surface
}

// NewSurfaceFactory validates config and returns a factory for the configured surface.
// The surface itself is only built when the map is first initialized.
func NewSurfaceFactory(config SurfaceConfig) (SurfaceFactory, error) {
	switch config.Type {
	case SurfaceTypeMemory:
		return func(center models.Coordinates, zoom int) (Surface, error) {
			return NewMemorySurface(center, zoom), nil
		}, nil
	case SurfaceTypeGeoJSON:
		if config.Output == "" {
			return nil, errors.New("output path is required for geojson surface")
		}
		return func(center models.Coordinates, zoom int) (Surface, error) {
			return NewGeoJSONSurface(config.Output, center, zoom), nil
		}, nil
	case SurfaceTypeGoogle:
		return newGoogleFactory(config)
	default:
		return nil, fmt.Errorf("unsupported surface type: %s", config.Type)
	}
}

func newGoogleFactory(config SurfaceConfig) (SurfaceFactory, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Google surface")
	}
	if config.Output == "" {
		return nil, errors.New("output path is required for Google surface")
	}

	client, err := maps.NewClient(maps.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return func(center models.Coordinates, zoom int) (Surface, error) {
		return NewGoogleSurface(client, config.Output, center, zoom, config.Logger), nil
	}, nil
}
