package service

import (
	"context"
)

// Tile is an encoded basemap tile with its response headers
type Tile struct {
	Data        []byte
	ContentType string
	Encoding    string
}

// TileService serves basemap tiles for the directory map panel
type TileService interface {
	// GetTile returns the tile at z/x/y, or domain ErrTileNotFound
	GetTile(ctx context.Context, z, x, y int) (*Tile, error)

	// Enabled reports whether a basemap archive is configured
	Enabled() bool
}
