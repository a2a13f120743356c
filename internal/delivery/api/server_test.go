package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"portal/config"
	"portal/internal/delivery/api/response"
	"portal/internal/delivery/api/router"
	"portal/internal/delivery/api/router/handler"
	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/domain/repository"
	"portal/internal/domain/service"
	"portal/internal/infra/qrcode"
	mockRepo "portal/internal/mocks/repository"
	mockSvc "portal/internal/mocks/service"
	"portal/internal/usecase"
	"portal/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

type envelope struct {
	Data  json.RawMessage     `json:"data"`
	Error *response.ErrorInfo `json:"error"`
	Meta  *response.MetaInfo  `json:"meta"`
}

type fakeTiles struct{}

func (fakeTiles) Enabled() bool { return true }

func (fakeTiles) GetTile(_ context.Context, z, x, y int) (*service.Tile, error) {
	if z == 14 && x == 6000 && y == 9300 {
		return &service.Tile{Data: []byte{0x1a, 0x02}, ContentType: "application/x-protobuf", Encoding: "gzip"}, nil
	}

	return nil, domainerrors.ErrTileNotFound
}

type testServer struct {
	echo      *echo.Echo
	companies *mockRepo.MockCompanyRepository
	articles  *mockRepo.MockArticleRepository
	publisher *mockSvc.MockAnalyticsPublisher
}

func newTestServer(t *testing.T) *testServer {
	cfg := &config.Config{PMTiles: &config.PMTilesConfig{Enabled: true, Source: "unused"}}
	cfg.ApplyDefaults()
	logger := slog.New(slog.DiscardHandler)
	lc := fxtest.NewLifecycle(t)

	companies := mockRepo.NewMockCompanyRepository(t)
	articles := mockRepo.NewMockArticleRepository(t)
	publisher := mockSvc.NewMockAnalyticsPublisher(t)

	analyticsUC := impl.NewAnalyticsTracker(impl.AnalyticsTrackerParams{Lc: lc, Config: cfg, Logger: logger, Publisher: publisher})
	directoryUC := impl.NewDirectoryService(impl.DirectoryServiceParams{Lc: lc, Config: cfg, Logger: logger, Repo: companies, Analytics: analyticsUC})
	companyUC := impl.NewCompanyService(cfg, companies, qrcode.NewQRCodeService(128, "M", "https://portal.example"), logger)

	e := newEcho(cfg, logger)
	router.NewRouter(router.RouterParams{
		DirectoryHandler: handler.NewDirectoryHandler(handler.DirectoryHandlerParams{DirectoryUC: directoryUC, Logger: logger}),
		CompanyHandler:   handler.NewCompanyHandler(handler.CompanyHandlerParams{CompanyUC: companyUC, Logger: logger}),
		ArticleHandler:   handler.NewArticleHandler(handler.ArticleHandlerParams{ArticleUC: impl.NewArticleService(articles)}),
		AnalyticsHandler: handler.NewAnalyticsHandler(handler.AnalyticsHandlerParams{AnalyticsUC: analyticsUC, Logger: logger}),
		TileHandler:      handler.NewTileHandler(handler.TileHandlerParams{TileService: fakeTiles{}}),
		Config:           cfg,
	}).RegisterRoutes(e)

	return &testServer{echo: e, companies: companies, articles: articles, publisher: publisher}
}

func (s *testServer) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set(deliverycontext.HeaderXRequestID, "req-test")

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec, env
}

func companiesFrom(from, to int) []*entity.Company {
	out := make([]*entity.Company, 0, to-from+1)
	for i := from; i <= to; i++ {
		lat, lng := -27.59, -48.55+float64(i)/1000
		out = append(out, &entity.Company{
			ID:        strconv.Itoa(i),
			Name:      "Empresa",
			Status:    entity.CompanyStatusActive,
			Latitude:  &lat,
			Longitude: &lng,
		})
	}

	return out
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-test", rec.Header().Get(deliverycontext.HeaderXRequestID))
	assert.Equal(t, "req-test", env.Meta.RequestID)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))

	rec, _ = srv.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "portal_http_requests_total")
}

func TestServer_Browse(t *testing.T) {
	srv := newTestServer(t)

	srv.companies.EXPECT().
		ListCompanies(mock.Anything, repository.CompanyQuery{Page: 2, Limit: 9, Category: "restaurante"}).
		Return(entity.NewPage(companiesFrom(10, 18), 25, 2, 9), nil).
		Once()

	rec, env := srv.do(t, http.MethodGet, "/directory?categoria=restaurante&page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view usecase.DirectoryView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, usecase.ViewStateOK, view.State)
	assert.Equal(t, "Restaurante", view.Filters.ActiveCategory)
	assert.Len(t, view.Items, 9)
	assert.Equal(t, 3, view.TotalPages)
	assert.Len(t, view.Map.Markers, 9)
	assert.NotEmpty(t, view.Map.Key)
}

func TestServer_BrowseUnknownCategory(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodGet, "/directory?categoria=inexistente", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view usecase.DirectoryView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, usecase.ViewStateCategoryNotFound, view.State)
	srv.companies.AssertNotCalled(t, "ListCompanies", mock.Anything, mock.Anything)
}

func TestServer_BrowseUpstreamDown(t *testing.T) {
	srv := newTestServer(t)

	srv.companies.EXPECT().
		ListCompanies(mock.Anything, mock.Anything).
		Return(nil, errors.Wrap(repository.ErrUpstream, "status 503")).
		Once()

	rec, env := srv.do(t, http.MethodGet, "/directory", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", env.Error.Code)
	assert.Nil(t, env.Error.Details)
}

func TestServer_BrowseRejectsBadPage(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodGet, "/directory?page=-2", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}

func TestServer_SessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	srv.companies.EXPECT().
		ListCompanies(mock.Anything, repository.CompanyQuery{Page: 1, Limit: 9, Category: "padaria"}).
		Return(entity.NewPage(companiesFrom(1, 9), 12, 1, 9), nil).
		Twice()
	srv.companies.EXPECT().
		ListCompanies(mock.Anything, repository.CompanyQuery{Page: 2, Limit: 9, Category: "padaria"}).
		Return(entity.NewPage(companiesFrom(10, 12), 12, 2, 9), nil).
		Once()
	srv.companies.EXPECT().
		ListCompanies(mock.Anything, repository.CompanyQuery{Page: 1, Limit: 9, Category: "padaria", District: "centro"}).
		Return(entity.NewPage(companiesFrom(1, 2), 2, 1, 9), nil).
		Once()

	rec, env := srv.do(t, http.MethodPost, "/directory/sessions?categoria=padaria", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var opened usecase.DirectoryView
	require.NoError(t, json.Unmarshal(env.Data, &opened))
	require.NotEmpty(t, opened.SessionID)
	base := "/directory/sessions/" + opened.SessionID

	rec, env = srv.do(t, http.MethodPut, base+"/page", `{"page":0}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var first usecase.DirectoryView
	require.NoError(t, json.Unmarshal(env.Data, &first))
	assert.Equal(t, 1, first.Filters.CurrentPage, "page 0 is clamped to the first page")

	rec, env = srv.do(t, http.MethodPut, base+"/page", `{"page":999}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var last usecase.DirectoryView
	require.NoError(t, json.Unmarshal(env.Data, &last))
	assert.Equal(t, 2, last.Filters.CurrentPage, "pages past the end are clamped to the last page")
	assert.Len(t, last.Items, 3)

	rec, env = srv.do(t, http.MethodPut, base+"/page", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)

	rec, env = srv.do(t, http.MethodPut, base+"/filters", `{"field":"district","value":"Centro"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var filtered usecase.DirectoryView
	require.NoError(t, json.Unmarshal(env.Data, &filtered))
	assert.Equal(t, "Centro", filtered.Filters.SelectedDistrict)
	assert.Equal(t, 1, filtered.Filters.CurrentPage)
	assert.Len(t, filtered.Items, 2)

	rec, env = srv.do(t, http.MethodPut, base+"/filters", `{"field":"color","value":"blue"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Equal(t, map[string]any{"field": "oneof"}, env.Error.Details)

	rec, _ = srv.do(t, http.MethodPost, base+"/search", `{"term":"pão"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec, _ = srv.do(t, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = srv.do(t, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SESSION_NOT_FOUND", env.Error.Code)
}

func TestServer_SessionIDMustBeUUID(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodGet, "/directory/sessions/not-a-session", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}

func TestServer_Company(t *testing.T) {
	srv := newTestServer(t)

	srv.companies.EXPECT().
		FindCompanyByID(mock.Anything, "1").
		Return(&entity.Company{ID: "1", Name: "Fechada", Status: entity.CompanyStatusInactive}, nil).
		Once()
	srv.companies.EXPECT().
		FindCompanyByID(mock.Anything, "2").
		Return(&entity.Company{ID: "2", Name: "Aberta", Status: entity.CompanyStatusActive}, nil).
		Once()

	rec, env := srv.do(t, http.MethodGet, "/companies/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "COMPANY_NOT_FOUND", env.Error.Code)

	rec, _ = srv.do(t, http.MethodGet, "/companies/2/qrcode", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))
}

func TestServer_Articles(t *testing.T) {
	srv := newTestServer(t)

	highlight := true
	srv.articles.EXPECT().
		ListArticles(mock.Anything, repository.ArticleQuery{Page: 1, Limit: 3, Highlight: &highlight}).
		Return(entity.NewPage([]*entity.Article{{ID: "1", Title: "Feira"}}, 1, 1, 3), nil).
		Once()

	rec, env := srv.do(t, http.MethodGet, "/articles?limit=3&highlight=true", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list usecase.ArticleList
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list.Items, 1)

	rec, _ = srv.do(t, http.MethodGet, "/articles?highlight=sometimes", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Visibility(t *testing.T) {
	srv := newTestServer(t)

	published := make(chan *entity.AnalyticsEvent, 1)
	srv.publisher.EXPECT().
		PublishAnalyticsEvent(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, event *entity.AnalyticsEvent) error {
			published <- event

			return nil
		}).
		Once()

	body := `{"sessionId":"s-1","subject":"company","subjectId":"42","ratio":0.8,"index":2,"page":1,"total":9}`
	rec, env := srv.do(t, http.MethodPost, "/analytics/visibility", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var obs usecase.Observation
	require.NoError(t, json.Unmarshal(env.Data, &obs))
	assert.Equal(t, usecase.TrackingInitialViewSent, obs.State)

	select {
	case event := <-published:
		assert.Equal(t, entity.ViewInitial, event.ViewType)
		assert.Equal(t, "req-test", event.RequestID)
		assert.Equal(t, entity.ListPosition{Index: 2, Page: 1, Total: 9}, event.Position)
	case <-time.After(time.Second):
		t.Fatal("view event was not published")
	}

	rec, _ = srv.do(t, http.MethodDelete, "/analytics/visibility/s-1/company/42", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = srv.do(t, http.MethodPost, "/analytics/visibility", `{"subject":"company","subjectId":"42"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{"ratio": "required"}, env.Error.Details)
}

func TestServer_TrackEventRejectsViewEvents(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodPost, "/analytics/events", `{"subject":"company","subjectId":"42","eventType":"view"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}

func TestServer_Tiles(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := srv.do(t, http.MethodGet, "/tiles/14/6000/9300", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get(echo.HeaderContentEncoding))
	assert.Equal(t, []byte{0x1a, 0x02}, rec.Body.Bytes())

	rec, env := srv.do(t, http.MethodGet, "/tiles/14/1/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "TILE_NOT_FOUND", env.Error.Code)
}
