package handler

import (
	"log/slog"
	"net/http"

	"portal/internal/delivery/api/response"
	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// DirectoryHandlerParams holds dependencies for DirectoryHandler, injected by Fx.
type DirectoryHandlerParams struct {
	fx.In

	DirectoryUC usecase.DirectoryUsecase
	Logger      *slog.Logger
}

// DirectoryHandler serves the business directory and its browsing sessions
type DirectoryHandler struct {
	directoryUC usecase.DirectoryUsecase
	logger      *slog.Logger
}

// NewDirectoryHandler is the constructor for DirectoryHandler
func NewDirectoryHandler(params DirectoryHandlerParams) *DirectoryHandler {
	return &DirectoryHandler{
		directoryUC: params.DirectoryUC,
		logger:      params.Logger,
	}
}

// BrowseRequest is the directory query, from the query string or a JSON body
type BrowseRequest struct {
	Category string `query:"categoria" json:"categoria" validate:"max=100"`
	District string `query:"district" json:"district" validate:"max=100"`
	Search   string `query:"search" json:"search" validate:"max=100"`
	Page     int    `query:"page" json:"page" validate:"gte=0"`
}

func (r BrowseRequest) toQuery() usecase.BrowseQuery {
	return usecase.BrowseQuery{
		Category: r.Category,
		District: r.District,
		Search:   r.Search,
		Page:     r.Page,
	}
}

// SessionPath binds the session id path parameter
type SessionPath struct {
	ID string `param:"id" validate:"required,uuid"`
}

// SetFilterRequest changes one filter of a session
type SetFilterRequest struct {
	SessionPath
	Field entity.FilterField `json:"field" validate:"required,oneof=category district search"`
	Value string             `json:"value" validate:"max=100"`
}

// SetPageRequest moves a session to another page. Page is a pointer so that
// 0 passes the required check and is clamped like any other out of range page.
type SetPageRequest struct {
	SessionPath
	Page *int `json:"page" validate:"required"`
}

// SearchRequest schedules a debounced search term
type SearchRequest struct {
	SessionPath
	Term string `json:"term" validate:"max=100"`
}

// Browse renders a one-shot directory view
func (h *DirectoryHandler) Browse(c echo.Context) error {
	var req BrowseRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid directory query")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	view, err := h.directoryUC.Browse(c.Request().Context(), req.toQuery())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view)
}

// Categories lists the directory categories
func (h *DirectoryHandler) Categories(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.directoryUC.Categories())
}

// OpenSession starts a browsing session and returns its first view
func (h *DirectoryHandler) OpenSession(c echo.Context) error {
	var req BrowseRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid directory query")
	}
	if req.Category == "" {
		req.Category = c.QueryParam("categoria")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	view, err := h.directoryUC.OpenSession(c.Request().Context(), req.toQuery())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, view)
}

// GetView returns the current view of a session
func (h *DirectoryHandler) GetView(c echo.Context) error {
	var req SessionPath
	if err := h.bindSession(c, &req); err != nil {
		return err
	}

	view, err := h.directoryUC.GetView(c.Request().Context(), req.ID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view)
}

// SetFilter changes one filter and refetches from page 1
func (h *DirectoryHandler) SetFilter(c echo.Context) error {
	var req SetFilterRequest
	if err := h.bindSession(c, &req); err != nil {
		return err
	}

	view, err := h.directoryUC.SetFilter(c.Request().Context(), req.ID, req.Field, req.Value)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view)
}

// SetPage moves to a page, clamped into the available range
func (h *DirectoryHandler) SetPage(c echo.Context) error {
	var req SetPageRequest
	if err := h.bindSession(c, &req); err != nil {
		return err
	}

	view, err := h.directoryUC.SetPage(c.Request().Context(), req.ID, *req.Page)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view)
}

// ScheduleSearch applies a search term once typing settles
func (h *DirectoryHandler) ScheduleSearch(c echo.Context) error {
	var req SearchRequest
	if err := h.bindSession(c, &req); err != nil {
		return err
	}

	if err := h.directoryUC.ScheduleSearch(c.Request().Context(), req.ID, req.Term); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

// DismissError hides the error banner and keeps the last result
func (h *DirectoryHandler) DismissError(c echo.Context) error {
	var req SessionPath
	if err := h.bindSession(c, &req); err != nil {
		return err
	}

	view, err := h.directoryUC.DismissError(c.Request().Context(), req.ID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view)
}

// CloseSession ends a session when the user navigates away
func (h *DirectoryHandler) CloseSession(c echo.Context) error {
	var req SessionPath
	if err := h.bindSession(c, &req); err != nil {
		return err
	}

	if err := h.directoryUC.CloseSession(c.Request().Context(), req.ID); err != nil {
		return response.HandleAppError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *DirectoryHandler) bindSession(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid session request")
	}

	return c.Validate(req)
}
