// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"portal/config"
	"portal/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	DirectoryHandler *handler.DirectoryHandler
	CompanyHandler   *handler.CompanyHandler
	ArticleHandler   *handler.ArticleHandler
	AnalyticsHandler *handler.AnalyticsHandler
	TileHandler      *handler.TileHandler
	Config           *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	directoryHandler *handler.DirectoryHandler
	companyHandler   *handler.CompanyHandler
	articleHandler   *handler.ArticleHandler
	analyticsHandler *handler.AnalyticsHandler
	tileHandler      *handler.TileHandler
	config           *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		directoryHandler: params.DirectoryHandler,
		companyHandler:   params.CompanyHandler,
		articleHandler:   params.ArticleHandler,
		analyticsHandler: params.AnalyticsHandler,
		tileHandler:      params.TileHandler,
		config:           params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	directoryGroup := e.Group("/directory")
	{
		directoryGroup.GET("", r.directoryHandler.Browse)
		directoryGroup.GET("/categories", r.directoryHandler.Categories)

		sessionsGroup := directoryGroup.Group("/sessions")
		sessionsGroup.POST("", r.directoryHandler.OpenSession)
		sessionsGroup.GET("/:id", r.directoryHandler.GetView)
		sessionsGroup.PUT("/:id/filters", r.directoryHandler.SetFilter)
		sessionsGroup.PUT("/:id/page", r.directoryHandler.SetPage)
		sessionsGroup.POST("/:id/search", r.directoryHandler.ScheduleSearch)
		sessionsGroup.DELETE("/:id/error", r.directoryHandler.DismissError)
		sessionsGroup.DELETE("/:id", r.directoryHandler.CloseSession)
	}

	companiesGroup := e.Group("/companies")
	{
		companiesGroup.GET("/:id", r.companyHandler.GetCompany)
		companiesGroup.GET("/:id/qrcode", r.companyHandler.GetCompanyQRCode)
	}

	e.GET("/articles", r.articleHandler.ListArticles)

	analyticsGroup := e.Group("/analytics")
	{
		analyticsGroup.POST("/visibility", r.analyticsHandler.Observe)
		analyticsGroup.DELETE("/visibility/:session/:subject/:id", r.analyticsHandler.Unregister)
		analyticsGroup.POST("/events", r.analyticsHandler.TrackEvent)
	}

	// Without an archive every tile request would answer TILES_DISABLED.
	if r.config.PMTiles != nil && r.config.PMTiles.Enabled {
		e.GET("/tiles/:z/:x/:y", r.tileHandler.GetTile)
	}
}
