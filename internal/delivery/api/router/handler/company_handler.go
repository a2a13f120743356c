package handler

import (
	"log/slog"
	"net/http"

	"portal/internal/delivery/api/response"
	"portal/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CompanyHandlerParams holds dependencies for CompanyHandler, injected by Fx.
type CompanyHandlerParams struct {
	fx.In

	CompanyUC usecase.CompanyUsecase
	Logger    *slog.Logger
}

// CompanyHandler serves public company profiles
type CompanyHandler struct {
	companyUC usecase.CompanyUsecase
	logger    *slog.Logger
}

// NewCompanyHandler is the constructor for CompanyHandler
func NewCompanyHandler(params CompanyHandlerParams) *CompanyHandler {
	return &CompanyHandler{
		companyUC: params.CompanyUC,
		logger:    params.Logger,
	}
}

// CompanyPath binds the company id path parameter
type CompanyPath struct {
	ID string `param:"id" validate:"required,max=64"`
}

// GetCompany returns the profile of an active company
func (h *CompanyHandler) GetCompany(c echo.Context) error {
	var req CompanyPath
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid company id")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	detail, err := h.companyUC.GetCompany(c.Request().Context(), req.ID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, detail)
}

// GetCompanyQRCode renders a PNG QR code of the company's profile link
func (h *CompanyHandler) GetCompanyQRCode(c echo.Context) error {
	var req CompanyPath
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid company id")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	png, err := h.companyUC.GetCompanyQRCode(c.Request().Context(), req.ID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=3600")

	return c.Blob(http.StatusOK, "image/png", png)
}
