package impl

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"portal/config"
	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/domain/mapview"
	"portal/internal/domain/repository"
	"portal/internal/infra/metrics"
	"portal/internal/usecase"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"go.uber.org/fx"
)

const minSweepInterval = time.Second

type directorySession struct {
	id          string
	controller  *directoryController
	mapSync     *mapview.Synchronizer
	unsubscribe func()
	lastSeen    time.Time
}

// directoryService implements usecase.DirectoryUsecase with one controller per browsing session.
type directoryService struct {
	repo      repository.CompanyRepository
	analytics usecase.AnalyticsUsecase
	catalog   *CategoryCatalog
	logger    *slog.Logger
	opts      controllerOptions
	mapOpts   mapview.Options
	ttl       time.Duration
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*directorySession

	stop chan struct{}
	done chan struct{}
}

// DirectoryServiceParams holds dependencies for the directory service, injected by Fx.
type DirectoryServiceParams struct {
	fx.In

	Lc        fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
	Repo      repository.CompanyRepository
	Analytics usecase.AnalyticsUsecase
}

// NewDirectoryService is the constructor for directoryService.
func NewDirectoryService(params DirectoryServiceParams) usecase.DirectoryUsecase {
	srv := newDirectoryService(params.Config, params.Repo, params.Analytics, params.Logger, time.Now)

	params.Lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go srv.runSweeper()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			srv.shutdown(ctx)

			return nil
		},
	})

	return srv
}

func newDirectoryService(cfg *config.Config, repo repository.CompanyRepository, analytics usecase.AnalyticsUsecase, logger *slog.Logger, now func() time.Time) *directoryService {
	dir := cfg.Directory

	return &directoryService{
		repo:      repo,
		analytics: analytics,
		catalog:   NewCategoryCatalog(dir.Categories),
		logger:    logger,
		opts: controllerOptions{
			itemsPerPage:   dir.ItemsPerPage,
			searchDebounce: dir.SearchDebounce,
			searchTimeout:  cfg.PortalAPI.Timeout,
		},
		mapOpts: mapview.Options{
			DefaultCenter: orb.Point{dir.Map.CenterLng, dir.Map.CenterLat},
			DefaultZoom:   dir.Map.Zoom,
			SingleZoom:    dir.Map.SingleZoom,
		},
		ttl:      dir.SessionTTL,
		now:      now,
		sessions: make(map[string]*directorySession),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (srv *directoryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *directoryService) newController(query usecase.BrowseQuery) *directoryController {
	filters := entity.NewFilterState()
	filters.ActiveCategory = srv.catalog.Canonical(query.Category)
	filters.SelectedDistrict = strings.TrimSpace(query.District)
	filters.SearchTerm = strings.TrimSpace(query.Search)
	if query.Page > 1 {
		filters.CurrentPage = query.Page
	}

	return newDirectoryController(srv.repo, srv.catalog, srv.logger, srv.opts, filters)
}

// Browse renders a one-shot view. With no earlier result to fall back on,
// an upstream failure is returned as an error.
func (srv *directoryService) Browse(ctx context.Context, query usecase.BrowseQuery) (*usecase.DirectoryView, error) {
	controller := srv.newController(query)
	defer controller.Close()

	view, err := controller.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if view.State == usecase.ViewStateError {
		return nil, domainerrors.ErrUpstreamUnavailable
	}

	view.Map = mapview.Project(view.Items, view.Page, srv.mapOpts)

	return view, nil
}

func (srv *directoryService) OpenSession(ctx context.Context, query usecase.BrowseQuery) (*usecase.DirectoryView, error) {
	session := &directorySession{
		id:         uuid.New().String(),
		controller: srv.newController(query),
		mapSync:    mapview.NewSynchronizer(srv.mapOpts),
		lastSeen:   srv.now(),
	}
	session.unsubscribe = session.controller.Subscribe(func(view *usecase.DirectoryView) {
		session.mapSync.Sync(view.Items, view.Page, view.Version)
	})

	srv.mu.Lock()
	srv.sessions[session.id] = session
	srv.mu.Unlock()
	metrics.ActiveSessions.Inc()

	srv.log(ctx).Debug("Directory session opened",
		slog.String("session_id", session.id),
		slog.String("category", query.Category),
	)

	view, err := session.controller.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	return srv.decorate(session, view), nil
}

func (srv *directoryService) lookup(sessionID string) (*directorySession, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	session, ok := srv.sessions[sessionID]
	if !ok {
		return nil, domainerrors.ErrSessionNotFound
	}
	session.lastSeen = srv.now()

	return session, nil
}

func (srv *directoryService) decorate(session *directorySession, view *usecase.DirectoryView) *usecase.DirectoryView {
	view.SessionID = session.id
	view.Map = session.mapSync.View()

	return view
}

func (srv *directoryService) GetView(_ context.Context, sessionID string) (*usecase.DirectoryView, error) {
	session, err := srv.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	return srv.decorate(session, session.controller.View()), nil
}

func (srv *directoryService) SetFilter(ctx context.Context, sessionID string, field entity.FilterField, value string) (*usecase.DirectoryView, error) {
	session, err := srv.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	view, err := session.controller.SetFilter(ctx, field, value)
	if err != nil {
		return nil, err
	}

	return srv.decorate(session, view), nil
}

func (srv *directoryService) SetPage(ctx context.Context, sessionID string, page int) (*usecase.DirectoryView, error) {
	session, err := srv.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	view, err := session.controller.SetPage(ctx, page)
	if err != nil {
		return nil, err
	}

	return srv.decorate(session, view), nil
}

func (srv *directoryService) ScheduleSearch(ctx context.Context, sessionID, term string) error {
	session, err := srv.lookup(sessionID)
	if err != nil {
		return err
	}
	session.controller.ScheduleSearch(ctx, term)

	return nil
}

func (srv *directoryService) DismissError(_ context.Context, sessionID string) (*usecase.DirectoryView, error) {
	session, err := srv.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	return srv.decorate(session, session.controller.DismissError()), nil
}

func (srv *directoryService) CloseSession(ctx context.Context, sessionID string) error {
	srv.mu.Lock()
	session, ok := srv.sessions[sessionID]
	delete(srv.sessions, sessionID)
	srv.mu.Unlock()

	if !ok {
		return domainerrors.ErrSessionNotFound
	}
	srv.closeSession(session)
	srv.log(ctx).Debug("Directory session closed", slog.String("session_id", sessionID))

	return nil
}

func (srv *directoryService) Categories() []string {
	return srv.catalog.Categories()
}

// closeSession releases everything held for the session. Every close path
// goes through here, so tracking state never outlives its session.
func (srv *directoryService) closeSession(session *directorySession) {
	session.unsubscribe()
	session.controller.Close()
	srv.analytics.UnregisterSession(session.id)
	metrics.ActiveSessions.Dec()
}

// sweep closes sessions idle for longer than the TTL and returns how many were closed.
func (srv *directoryService) sweep(now time.Time) int {
	srv.mu.Lock()
	expired := make([]*directorySession, 0)
	for id, session := range srv.sessions {
		if now.Sub(session.lastSeen) > srv.ttl {
			expired = append(expired, session)
			delete(srv.sessions, id)
		}
	}
	srv.mu.Unlock()

	for _, session := range expired {
		srv.closeSession(session)
	}
	if len(expired) > 0 {
		srv.logger.Debug("Expired idle directory sessions", slog.Int("count", len(expired)))
	}

	return len(expired)
}

func (srv *directoryService) runSweeper() {
	defer close(srv.done)

	interval := max(srv.ttl/4, minSweepInterval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-srv.stop:
			return
		case <-ticker.C:
			srv.sweep(srv.now())
		}
	}
}

func (srv *directoryService) shutdown(ctx context.Context) {
	close(srv.stop)
	select {
	case <-srv.done:
	case <-ctx.Done():
	}

	srv.mu.Lock()
	sessions := make([]*directorySession, 0, len(srv.sessions))
	for id, session := range srv.sessions {
		sessions = append(sessions, session)
		delete(srv.sessions, id)
	}
	srv.mu.Unlock()

	for _, session := range sessions {
		srv.closeSession(session)
	}
}
