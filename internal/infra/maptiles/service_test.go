package maptiles

import (
	"context"
	"log/slog"
	"testing"

	"portal/config"
	domainerrors "portal/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSourcePath(t *testing.T) {
	tests := []struct {
		name            string
		source          string
		expectedBucket  string
		expectedPrefix  string
		expectedTileset string
	}{
		{"absolute path", "/data/floripa.pmtiles", "file:///data", "", "floripa"},
		{"relative path", "tiles/floripa.pmtiles", "file://tiles", "", "floripa"},
		{"file scheme", "file:///srv/maps/base.pmtiles", "file:///srv/maps", "", "base"},
		{"file root", "file:///base.pmtiles", "file:///", "", "base"},
		{"https", "https://cdn.example.com/tiles/base.pmtiles", "https://cdn.example.com/tiles", "", "base"},
		{"http with port", "http://localhost:8080/data/base.pmtiles", "http://localhost:8080/data", "", "base"},
		{"without extension", "/path/to/basemap", "file:///path/to", "", "basemap"},
		{"gs bucket root", "gs://maps/base.pmtiles", "gs://maps", "", "base"},
		{"gs nested", "gs://maps/sc/floripa/base.pmtiles", "gs://maps", "sc/floripa", "base"},
		{"s3 folder", "s3://maps/folder/base.pmtiles", "s3://maps", "folder", "base"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, prefix, tileset := parseSourcePath(tt.source)
			assert.Equal(t, tt.expectedBucket, bucket, "bucket mismatch")
			assert.Equal(t, tt.expectedPrefix, prefix, "prefix mismatch")
			assert.Equal(t, tt.expectedTileset, tileset, "tileset mismatch")
		})
	}
}

func TestValidTile(t *testing.T) {
	assert.True(t, validTile(0, 0, 0))
	assert.True(t, validTile(12, 1500, 2300))
	assert.False(t, validTile(0, 1, 0))
	assert.False(t, validTile(2, 4, 0))
	assert.False(t, validTile(-1, 0, 0))
	assert.False(t, validTile(3, -1, 0))
	assert.False(t, validTile(40, 0, 0))
}

func TestNewTileService_Disabled(t *testing.T) {
	svc, err := NewTileService(TileServiceParams{
		Config: &config.Config{},
		Logger: slog.New(slog.DiscardHandler),
	})
	require.NoError(t, err)
	assert.False(t, svc.Enabled())

	_, err = svc.GetTile(context.Background(), 1, 0, 0)
	assert.ErrorIs(t, err, domainerrors.ErrTilesDisabled)
}

func TestNewTileService_RequiresSource(t *testing.T) {
	_, err := NewTileService(TileServiceParams{
		Config: &config.Config{PMTiles: &config.PMTilesConfig{Enabled: true}},
		Logger: slog.New(slog.DiscardHandler),
	})
	assert.Error(t, err)
}

func TestGetTile_RejectsOutOfRangeCoordinates(t *testing.T) {
	svc := &pmtilesTileService{tilesetName: "base", logger: slog.New(slog.DiscardHandler)}

	_, err := svc.GetTile(context.Background(), 2, 9, 0)
	assert.ErrorIs(t, err, domainerrors.ErrTileNotFound)
}
