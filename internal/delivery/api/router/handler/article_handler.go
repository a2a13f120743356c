package handler

import (
	"net/http"
	"strconv"

	"portal/internal/delivery/api/response"
	"portal/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ArticleHandlerParams holds dependencies for ArticleHandler, injected by Fx.
type ArticleHandlerParams struct {
	fx.In

	ArticleUC usecase.ArticleUsecase
}

// ArticleHandler serves the news article listing
type ArticleHandler struct {
	articleUC usecase.ArticleUsecase
}

// NewArticleHandler is the constructor for ArticleHandler
func NewArticleHandler(params ArticleHandlerParams) *ArticleHandler {
	return &ArticleHandler{articleUC: params.ArticleUC}
}

// ListArticlesRequest is the article listing query
type ListArticlesRequest struct {
	Page      int    `query:"page" validate:"gte=0"`
	Limit     int    `query:"limit" validate:"gte=0,lte=50"`
	Category  string `query:"category" validate:"max=100"`
	Highlight string `query:"highlight" validate:"omitempty,boolean"`
}

// ListArticles returns one page of articles
func (h *ArticleHandler) ListArticles(c echo.Context) error {
	var req ListArticlesRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid article query")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	query := usecase.ArticleQuery{
		Page:     req.Page,
		Limit:    req.Limit,
		Category: req.Category,
	}
	if req.Highlight != "" {
		highlight, _ := strconv.ParseBool(req.Highlight)
		query.Highlight = &highlight
	}

	list, err := h.articleUC.ListArticles(c.Request().Context(), query)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, list)
}
