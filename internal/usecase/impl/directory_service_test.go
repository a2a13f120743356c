package impl

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"portal/config"
	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/domain/repository"
	mockRepo "portal/internal/mocks/repository"
	"portal/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type directoryServiceFixtures struct {
	service   *directoryService
	repo      *mockRepo.MockCompanyRepository
	analytics *trackerFixtures
	now       *time.Time
}

func createTestDirectoryService(t *testing.T) directoryServiceFixtures {
	cfg := &config.Config{}
	cfg.ApplyDefaults()

	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	repo := mockRepo.NewMockCompanyRepository(t)
	analytics := createTestTracker(t, nil)
	srv := newDirectoryService(cfg, repo, analytics.tracker, slog.New(slog.DiscardHandler), func() time.Time { return now })

	return directoryServiceFixtures{service: srv, repo: repo, analytics: analytics, now: &now}
}

// seen records a visible company for the session in the tracker.
func (f directoryServiceFixtures) seen(t *testing.T, sessionID string) {
	t.Helper()
	signal := companySignal(1)
	signal.SessionID = sessionID

	_, err := f.analytics.tracker.Observe(context.Background(), signal)
	require.NoError(t, err)
}

func located(company *entity.Company, lat, lng float64) *entity.Company {
	company.Latitude = &lat
	company.Longitude = &lng

	return company
}

func TestDirectoryService_OpenSessionProjectsMap(t *testing.T) {
	fx := createTestDirectoryService(t)
	ctx := context.Background()

	companies := makeCompanies(1, 3)
	located(companies[0], -27.5969, -48.5495)
	located(companies[1], 0, 0)

	fx.repo.EXPECT().
		ListCompanies(mock.Anything, repository.CompanyQuery{Page: 1, Limit: 9, Category: "padaria"}).
		Return(entity.NewPage(companies, 3, 1, 9), nil).
		Once()

	view, err := fx.service.OpenSession(ctx, usecase.BrowseQuery{Category: "padaria"})
	require.NoError(t, err)

	assert.NotEmpty(t, view.SessionID)
	assert.Equal(t, "Padaria", view.Filters.ActiveCategory)
	assert.Len(t, view.Items, 3)
	require.Len(t, view.Map.Markers, 1)
	assert.Equal(t, "1", view.Map.Markers[0].CompanyID)
	assert.Equal(t, 12, view.Map.Camera.Zoom, "multiple-company views keep the regional framing")

	again, err := fx.service.GetView(ctx, view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, view.Map.Key, again.Map.Key)
}

func TestDirectoryService_MapKeyFollowsPage(t *testing.T) {
	fx := createTestDirectoryService(t)
	ctx := context.Background()

	fx.repo.EXPECT().
		ListCompanies(mock.Anything, repository.CompanyQuery{Page: 1, Limit: 9}).
		Return(entity.NewPage(makeCompanies(1, 9), 20, 1, 9), nil).
		Once()
	fx.repo.EXPECT().
		ListCompanies(mock.Anything, repository.CompanyQuery{Page: 2, Limit: 9}).
		Return(entity.NewPage(makeCompanies(10, 18), 20, 2, 9), nil).
		Once()

	first, err := fx.service.OpenSession(ctx, usecase.BrowseQuery{})
	require.NoError(t, err)

	second, err := fx.service.SetPage(ctx, first.SessionID, 2)
	require.NoError(t, err)

	assert.NotEqual(t, first.Map.Key, second.Map.Key)
	assert.True(t, second.ScrollToTop)
}

func TestDirectoryService_UnknownSession(t *testing.T) {
	fx := createTestDirectoryService(t)
	ctx := context.Background()

	_, err := fx.service.GetView(ctx, "missing")
	assert.ErrorIs(t, err, domainerrors.ErrSessionNotFound)

	_, err = fx.service.SetFilter(ctx, "missing", entity.FilterSearch, "x")
	assert.ErrorIs(t, err, domainerrors.ErrSessionNotFound)

	assert.ErrorIs(t, fx.service.ScheduleSearch(ctx, "missing", "x"), domainerrors.ErrSessionNotFound)
	assert.ErrorIs(t, fx.service.CloseSession(ctx, "missing"), domainerrors.ErrSessionNotFound)
}

func TestDirectoryService_CloseSession(t *testing.T) {
	fx := createTestDirectoryService(t)
	ctx := context.Background()

	fx.repo.EXPECT().
		ListCompanies(mock.Anything, mock.Anything).
		Return(entity.NewPage(makeCompanies(1, 1), 1, 1, 9), nil).
		Once()

	view, err := fx.service.OpenSession(ctx, usecase.BrowseQuery{})
	require.NoError(t, err)
	fx.seen(t, view.SessionID)
	require.Equal(t, 1, fx.analytics.tracked())

	require.NoError(t, fx.service.CloseSession(ctx, view.SessionID))
	assert.Zero(t, fx.analytics.tracked())

	_, err = fx.service.GetView(ctx, view.SessionID)
	assert.ErrorIs(t, err, domainerrors.ErrSessionNotFound)
}

func TestDirectoryService_SweepExpiresIdleSessions(t *testing.T) {
	fx := createTestDirectoryService(t)
	ctx := context.Background()

	fx.repo.EXPECT().
		ListCompanies(mock.Anything, mock.Anything).
		Return(entity.NewPage(makeCompanies(1, 1), 1, 1, 9), nil).
		Twice()

	idle, err := fx.service.OpenSession(ctx, usecase.BrowseQuery{})
	require.NoError(t, err)
	fx.seen(t, idle.SessionID)

	*fx.now = fx.now.Add(20 * time.Minute)
	active, err := fx.service.OpenSession(ctx, usecase.BrowseQuery{})
	require.NoError(t, err)
	fx.seen(t, active.SessionID)
	require.Equal(t, 2, fx.analytics.tracked())

	assert.Equal(t, 1, fx.service.sweep(fx.now.Add(15*time.Minute)))
	assert.Equal(t, 1, fx.analytics.tracked(), "the expired session's subjects are unregistered")

	_, err = fx.service.GetView(ctx, idle.SessionID)
	assert.ErrorIs(t, err, domainerrors.ErrSessionNotFound)
	_, err = fx.service.GetView(ctx, active.SessionID)
	assert.NoError(t, err)
}

func TestDirectoryService_ShutdownUnregistersSessions(t *testing.T) {
	fx := createTestDirectoryService(t)
	ctx := context.Background()

	fx.repo.EXPECT().
		ListCompanies(mock.Anything, mock.Anything).
		Return(entity.NewPage(makeCompanies(1, 1), 1, 1, 9), nil).
		Once()

	view, err := fx.service.OpenSession(ctx, usecase.BrowseQuery{})
	require.NoError(t, err)
	fx.seen(t, view.SessionID)

	go fx.service.runSweeper()
	fx.service.shutdown(ctx)

	assert.Zero(t, fx.analytics.tracked())
	_, err = fx.service.GetView(ctx, view.SessionID)
	assert.ErrorIs(t, err, domainerrors.ErrSessionNotFound)
}

func TestDirectoryService_Browse(t *testing.T) {
	fx := createTestDirectoryService(t)
	ctx := context.Background()

	companies := []*entity.Company{located(makeCompanies(4, 4)[0], -27.5, -48.6)}
	fx.repo.EXPECT().
		ListCompanies(mock.Anything, repository.CompanyQuery{Page: 1, Limit: 9, Name: "oficina"}).
		Return(entity.NewPage(companies, 1, 1, 9), nil).
		Once()

	view, err := fx.service.Browse(ctx, usecase.BrowseQuery{Search: "Oficina"})
	require.NoError(t, err)
	assert.Empty(t, view.SessionID)
	assert.Len(t, view.Map.Markers, 1)
	assert.Equal(t, 12, view.Map.Camera.Zoom)
}

func TestDirectoryService_BrowseUnknownCategory(t *testing.T) {
	fx := createTestDirectoryService(t)

	view, err := fx.service.Browse(context.Background(), usecase.BrowseQuery{Category: "inexistente"})
	require.NoError(t, err)
	assert.Equal(t, usecase.ViewStateCategoryNotFound, view.State)
	assert.Equal(t, "inexistente", view.Filters.ActiveCategory)
}

func TestDirectoryService_BrowseUpstreamFailure(t *testing.T) {
	fx := createTestDirectoryService(t)

	fx.repo.EXPECT().
		ListCompanies(mock.Anything, mock.Anything).
		Return(nil, errors.Wrap(repository.ErrUpstream, "timeout")).
		Once()

	_, err := fx.service.Browse(context.Background(), usecase.BrowseQuery{})
	assert.ErrorIs(t, err, domainerrors.ErrUpstreamUnavailable)
}

func TestCategoryCatalog_Resolve(t *testing.T) {
	catalog := NewCategoryCatalog(config.DefaultCategories)

	tests := []struct {
		value string
		want  string
		ok    bool
	}{
		{"", "Todos", true},
		{"todos", "Todos", true},
		{"beleza-e-estetica", "Beleza e Estética", true},
		{"Pet Shop", "Pet Shop", true},
		{"pet-shop", "Pet Shop", true},
		{"ALIMENTACAO", "Alimentação", true},
		{"inexistente", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := catalog.Resolve(tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "inexistente", catalog.Canonical(" inexistente "))
	assert.Len(t, catalog.Categories(), len(config.DefaultCategories))
}
