// Package maptiles serves basemap vector tiles for the directory map panel
// from a PMTiles archive.
package maptiles

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"portal/config"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/domain/service"
	"portal/internal/errors"

	"github.com/protomaps/go-pmtiles/pmtiles"
	"go.uber.org/fx"
)

const (
	tileCacheSize      = 64
	maxZoom            = 22
	defaultContentType = "application/x-protobuf"
)

type pmtilesTileService struct {
	server      *pmtiles.Server
	tilesetName string
	logger      *slog.Logger
}

// TileServiceParams holds dependencies for the tile service
type TileServiceParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewTileService creates the PMTiles-backed tile service, or a disabled one
// when no archive is configured.
func NewTileService(params TileServiceParams) (service.TileService, error) {
	cfg := params.Config.PMTiles
	logger := params.Logger

	if cfg == nil || !cfg.Enabled {
		logger.Info("PMTiles basemap disabled")

		return disabledTileService{}, nil
	}

	if cfg.Source == "" {
		return nil, errors.New("PMTiles source is required when enabled")
	}

	bucketPath, prefix, tilesetName := parseSourcePath(cfg.Source)

	// pmtiles requires a *log.Logger
	silentLogger := log.New(io.Discard, "", 0)

	server, err := pmtiles.NewServer(bucketPath, prefix, silentLogger, tileCacheSize, "")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PMTiles server")
	}
	server.Start()

	logger.Info("PMTiles basemap initialized",
		slog.String("source", cfg.Source),
		slog.String("tileset", tilesetName),
	)

	return &pmtilesTileService{
		server:      server,
		tilesetName: tilesetName,
		logger:      logger,
	}, nil
}

func (s *pmtilesTileService) Enabled() bool {
	return true
}

func (s *pmtilesTileService) GetTile(ctx context.Context, z, x, y int) (*service.Tile, error) {
	if !validTile(z, x, y) {
		return nil, domainerrors.ErrTileNotFound.WithDetails(fmt.Sprintf("%d/%d/%d", z, x, y))
	}

	tilePath := fmt.Sprintf("/%s/%d/%d/%d.mvt", s.tilesetName, z, x, y)
	status, headers, data := s.server.Get(ctx, tilePath)

	switch status {
	case http.StatusOK:
	case http.StatusNoContent, http.StatusNotFound:
		return nil, domainerrors.ErrTileNotFound.WithDetails(tilePath)
	default:
		return nil, errors.Errorf("pmtiles returned status %d for %s", status, tilePath)
	}

	tile := &service.Tile{
		Data:        data,
		ContentType: headers["Content-Type"],
		Encoding:    headers["Content-Encoding"],
	}
	if tile.ContentType == "" {
		tile.ContentType = defaultContentType
	}

	return tile, nil
}

func validTile(z, x, y int) bool {
	if z < 0 || z > maxZoom || x < 0 || y < 0 {
		return false
	}
	n := 1 << uint(z)

	return x < n && y < n
}

type disabledTileService struct{}

func (disabledTileService) Enabled() bool {
	return false
}

func (disabledTileService) GetTile(context.Context, int, int, int) (*service.Tile, error) {
	return nil, domainerrors.ErrTilesDisabled
}

// parseSourcePath splits a PMTiles source into the bucket URL, the key prefix
// inside the bucket and the tileset name.
//   - "/path/to/base.pmtiles" -> ("file:///path/to", "", "base")
//   - "https://example.com/tiles/base.pmtiles" -> ("https://example.com/tiles", "", "base")
//   - "gs://bucket/sub/dir/base.pmtiles" -> ("gs://bucket", "sub/dir", "base")
func parseSourcePath(source string) (bucketPath, prefix, tilesetName string) {
	if scheme, rest, ok := strings.Cut(source, "://"); ok {
		switch scheme {
		case "file":
			dir := filepath.Dir(rest)
			tilesetName = strings.TrimSuffix(filepath.Base(rest), ".pmtiles")

			return "file://" + dir, "", tilesetName
		case "http", "https":
			lastSlash := strings.LastIndex(source, "/")
			tilesetName = strings.TrimSuffix(source[lastSlash+1:], ".pmtiles")

			return source[:lastSlash], "", tilesetName
		default:
			bucket, key, _ := strings.Cut(rest, "/")
			dir, file := "", key
			if i := strings.LastIndex(key, "/"); i >= 0 {
				dir, file = key[:i], key[i+1:]
			}

			return scheme + "://" + bucket, dir, strings.TrimSuffix(file, ".pmtiles")
		}
	}

	dir := filepath.Dir(source)
	tilesetName = strings.TrimSuffix(filepath.Base(source), ".pmtiles")

	return "file://" + dir, "", tilesetName
}
