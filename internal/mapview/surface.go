package mapview

import (
	"context"
	"sync"

	"github.com/UnknownOlympus/compass/internal/models"
)

// Default view settings of a newly created surface.
const (
	DefaultZoom = 14
	MaxZoom     = 19
	TileURL     = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
)

// MarkerHandle identifies a marker placed on a surface.
type MarkerHandle uint64

// Surface is the mapping capability a MapView drives.
type Surface interface {
	Recenter(center models.Coordinates, zoom int)
	AddMarker(at models.Coordinates, label string) MarkerHandle
	RemoveMarker(h MarkerHandle)
}

// Publisher is implemented by surfaces that render their state somewhere
// outside the process (a file, an image).
type Publisher interface {
	Publish(ctx context.Context) error
}

// Marker is a snapshot of one placed marker.
type Marker struct {
	Handle   MarkerHandle
	Location models.Coordinates
	Label    string
}

// MemorySurface keeps the view and its markers in memory.
// The other surfaces embed it and render its state on Publish.
type MemorySurface struct {
	mu      sync.Mutex
	center  models.Coordinates
	zoom    int
	tiles   string
	nextID  MarkerHandle
	markers []Marker
}

// NewMemorySurface creates a surface centered at center with the background tile layer.
func NewMemorySurface(center models.Coordinates, zoom int) *MemorySurface {
	return &MemorySurface{center: center, zoom: zoom, tiles: TileURL}
}

func (s *MemorySurface) Recenter(center models.Coordinates, zoom int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.center = center
	s.zoom = zoom
}

func (s *MemorySurface) AddMarker(at models.Coordinates, label string) MarkerHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.markers = append(s.markers, Marker{Handle: s.nextID, Location: at, Label: label})

	return s.nextID
}

// RemoveMarker removes the marker; unknown handles are ignored.
func (s *MemorySurface) RemoveMarker(h MarkerHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.markers {
		if m.Handle == h {
			s.markers = append(s.markers[:i], s.markers[i+1:]...)
			return
		}
	}
}

// View returns the current center and zoom level.
func (s *MemorySurface) View() (models.Coordinates, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.center, s.zoom
}

// TileLayer returns the URL template of the background tiles.
func (s *MemorySurface) TileLayer() string {
	return s.tiles
}

// Markers returns the markers on the surface in placement order.
func (s *MemorySurface) Markers() []Marker {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Marker(nil), s.markers...)
}
