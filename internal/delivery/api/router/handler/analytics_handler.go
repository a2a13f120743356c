package handler

import (
	"log/slog"
	"net/http"

	"portal/internal/delivery/api/response"
	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/entity"
	"portal/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AnalyticsHandlerParams holds dependencies for AnalyticsHandler, injected by Fx.
type AnalyticsHandlerParams struct {
	fx.In

	AnalyticsUC usecase.AnalyticsUsecase
	Logger      *slog.Logger
}

// AnalyticsHandler receives visibility signals and interaction events from the front end
type AnalyticsHandler struct {
	analyticsUC usecase.AnalyticsUsecase
	logger      *slog.Logger
}

// NewAnalyticsHandler is the constructor for AnalyticsHandler
func NewAnalyticsHandler(params AnalyticsHandlerParams) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsUC: params.AnalyticsUC,
		logger:      params.Logger,
	}
}

// PositionRequest locates a subject within the rendered list
type PositionRequest struct {
	Index int `json:"index" validate:"gte=0"`
	Page  int `json:"page" validate:"gte=0"`
	Total int `json:"total" validate:"gte=0"`
}

func (p PositionRequest) toEntity() entity.ListPosition {
	return entity.ListPosition{Index: p.Index, Page: p.Page, Total: p.Total}
}

// VisibilityRequest is one intersection callback
type VisibilityRequest struct {
	PositionRequest
	SessionID string                  `json:"sessionId" validate:"max=64"`
	Subject   entity.AnalyticsSubject `json:"subject" validate:"required,oneof=company article banner"`
	SubjectID string                  `json:"subjectId" validate:"required,max=64"`
	Ratio     *float64                `json:"ratio" validate:"required,gte=0,lte=1"`
}

// UnregisterRequest identifies an unmounted subject
type UnregisterRequest struct {
	SessionID string                  `param:"session" validate:"required,max=64"`
	Subject   entity.AnalyticsSubject `param:"subject" validate:"required,oneof=company article banner"`
	SubjectID string                  `param:"id" validate:"required,max=64"`
}

// EventRequest is an interaction event sent directly by the front end
type EventRequest struct {
	PositionRequest
	SessionID string                  `json:"sessionId" validate:"max=64"`
	Subject   entity.AnalyticsSubject `json:"subject" validate:"required,oneof=company article banner"`
	SubjectID string                  `json:"subjectId" validate:"required,max=64"`
	EventType entity.EventType        `json:"eventType" validate:"required,oneof=click whatsapp_click map_click profile_view"`
	ExtraData map[string]any          `json:"extraData"`
}

// sessionOrHeader prefers the session id in the body over the X-Session-Id header
func sessionOrHeader(c echo.Context, sessionID string) string {
	if sessionID != "" {
		return sessionID
	}

	return deliverycontext.GetSessionIDFromContext(c.Request().Context())
}

// Observe feeds a visibility signal into the subject's view tracking
func (h *AnalyticsHandler) Observe(c echo.Context) error {
	var req VisibilityRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid visibility signal")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	observation, err := h.analyticsUC.Observe(c.Request().Context(), usecase.VisibilitySignal{
		SessionID: sessionOrHeader(c, req.SessionID),
		Subject:   req.Subject,
		SubjectID: req.SubjectID,
		Ratio:     *req.Ratio,
		Position:  req.toEntity(),
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, observation)
}

// Unregister drops the tracking state of an unmounted subject
func (h *AnalyticsHandler) Unregister(c echo.Context) error {
	var req UnregisterRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid subject")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	h.analyticsUC.Unregister(req.SessionID, req.Subject, req.SubjectID)

	return c.NoContent(http.StatusNoContent)
}

// TrackEvent sends an interaction event; delivery happens in the background
func (h *AnalyticsHandler) TrackEvent(c echo.Context) error {
	var req EventRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid analytics event")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	event := &entity.AnalyticsEvent{
		Subject:   req.Subject,
		SubjectID: req.SubjectID,
		EventType: req.EventType,
		Position:  req.toEntity(),
		SessionID: sessionOrHeader(c, req.SessionID),
		ExtraData: req.ExtraData,
	}
	if err := h.analyticsUC.Track(c.Request().Context(), event); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusAccepted, map[string]string{"status": "accepted"})
}
