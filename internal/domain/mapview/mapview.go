// Package mapview projects directory companies onto map markers and picks the camera framing.
package mapview

import (
	"encoding/json"
	"fmt"
	"sync"

	"portal/internal/domain/entity"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// Options controls camera selection.
type Options struct {
	DefaultCenter orb.Point // lng, lat
	DefaultZoom   int
	SingleZoom    int

	// SingleCompany frames the only marker at street level, e.g. on a profile page.
	SingleCompany bool
}

// Marker is one company placed on the map.
type Marker struct {
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Category  string    `json:"category"`
	ImageURL  string    `json:"image_url"`
	Highlight bool      `json:"highlight"`
	Position  orb.Point `json:"-"`
}

// MarshalJSON adds explicit lat/lng fields next to the marker details.
func (m Marker) MarshalJSON() ([]byte, error) {
	type alias Marker

	return json.Marshal(struct {
		alias
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}{alias(m), m.Position.Lat(), m.Position.Lon()})
}

// Camera is the framing of the map panel.
type Camera struct {
	Center orb.Point    `json:"-"`
	Zoom   int          `json:"zoom"`
	Tile   maptile.Tile `json:"-"`
}

// MarshalJSON encodes the center as lat/lng and the covering basemap tile.
func (c Camera) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Lat  float64 `json:"lat"`
		Lng  float64 `json:"lng"`
		Zoom int     `json:"zoom"`
		Tile string  `json:"tile"`
	}{c.Center.Lat(), c.Center.Lon(), c.Zoom, fmt.Sprintf("%d/%d/%d", c.Tile.Z, c.Tile.X, c.Tile.Y)})
}

// View is the marker layer plus framing for one render cycle.
type View struct {
	Markers []Marker   `json:"markers"`
	Camera  Camera     `json:"camera"`
	Bound   *orb.Bound `json:"-"`

	// Key changes whenever center, zoom or page change; the client remounts the map on change.
	Key string `json:"key"`
}

// Project builds the view for companies shown on the given page.
// Companies without a usable location are left out of the markers.
func Project(companies []*entity.Company, page int, opts Options) View {
	markers := make([]Marker, 0, len(companies))
	points := make(orb.MultiPoint, 0, len(companies))

	for _, company := range companies {
		if company == nil || !company.HasLocation() {
			continue
		}

		pos := orb.Point{*company.Longitude, *company.Latitude}
		markers = append(markers, Marker{
			CompanyID: company.ID,
			Name:      company.Name,
			Address:   company.Address,
			Category:  company.PrimaryCategory(),
			ImageURL:  company.DisplayImage(),
			Highlight: company.Highlight,
			Position:  pos,
		})
		points = append(points, pos)
	}

	camera := Camera{Center: opts.DefaultCenter, Zoom: opts.DefaultZoom}
	if opts.SingleCompany && len(markers) == 1 {
		camera = Camera{Center: markers[0].Position, Zoom: opts.SingleZoom}
	}
	camera.Tile = maptile.At(camera.Center, maptile.Zoom(camera.Zoom))

	view := View{
		Markers: markers,
		Camera:  camera,
		Key:     viewKey(camera, page),
	}
	if len(points) > 0 {
		bound := points.Bound()
		view.Bound = &bound
	}

	return view
}

func viewKey(camera Camera, page int) string {
	return fmt.Sprintf("%.6f,%.6f@%d#%d", camera.Center.Lat(), camera.Center.Lon(), camera.Zoom, page)
}

// Synchronizer keeps the latest view for one directory session.
// It owns the framing state; callers only read it.
type Synchronizer struct {
	opts Options

	mu      sync.RWMutex
	view    View
	version uint64
}

// NewSynchronizer creates a synchronizer framed on the default center.
func NewSynchronizer(opts Options) *Synchronizer {
	return &Synchronizer{
		opts: opts,
		view: Project(nil, 1, opts),
	}
}

// Sync recomputes the view from the companies listed at the given directory
// version. Versions older than the one already held are ignored and the held
// view is returned instead.
func (s *Synchronizer) Sync(companies []*entity.Company, page int, version uint64) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	if version < s.version {
		return s.view
	}

	s.view = Project(companies, page, s.opts)
	s.version = version

	return s.view
}

// Version reports the directory version the held view was computed from.
func (s *Synchronizer) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.version
}

// View returns the latest computed view.
func (s *Synchronizer) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.view
}
