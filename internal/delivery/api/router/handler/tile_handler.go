package handler

import (
	"net/http"

	"portal/internal/delivery/api/response"
	"portal/internal/domain/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// TileHandlerParams holds dependencies for TileHandler, injected by Fx.
type TileHandlerParams struct {
	fx.In

	TileService service.TileService
}

// TileHandler serves basemap vector tiles for the map panel
type TileHandler struct {
	tiles service.TileService
}

// NewTileHandler is the constructor for TileHandler
func NewTileHandler(params TileHandlerParams) *TileHandler {
	return &TileHandler{tiles: params.TileService}
}

// TileRequest addresses one z/x/y tile
type TileRequest struct {
	Z int `param:"z" validate:"gte=0,lte=22"`
	X int `param:"x" validate:"gte=0"`
	Y int `param:"y" validate:"gte=0"`
}

// GetTile returns the encoded tile bytes
func (h *TileHandler) GetTile(c echo.Context) error {
	var req TileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid tile coordinates")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tile, err := h.tiles.GetTile(c.Request().Context(), req.Z, req.X, req.Y)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	header := c.Response().Header()
	header.Set(echo.HeaderCacheControl, "public, max-age=86400")
	if tile.Encoding != "" {
		header.Set(echo.HeaderContentEncoding, tile.Encoding)
	}

	return c.Blob(http.StatusOK, tile.ContentType, tile.Data)
}
