package impl

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/constants"
	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/domain/pagination"
	"portal/internal/domain/repository"
	"portal/internal/errors"
	"portal/internal/infra/metrics"
	"portal/internal/usecase"
	"portal/internal/util"
)

type controllerOptions struct {
	itemsPerPage   int
	searchDebounce time.Duration
	searchTimeout  time.Duration
}

// directoryController implements usecase.DirectoryController.
//
// Every fetch takes a new sequence token under mu and releases the lock for
// the upstream call. A response is applied only while its token is still the
// latest, so an older request resolving late never overwrites a newer result.
type directoryController struct {
	repo    repository.CompanyRepository
	catalog *CategoryCatalog
	logger  *slog.Logger
	opts    controllerOptions
	search  *util.Debouncer

	mu          sync.Mutex
	seq         uint64
	applied     uint64
	filters     entity.FilterState
	result      *entity.Page[*entity.Company]
	state       usecase.ViewState
	viewErr     *usecase.ViewError
	loading     bool
	scrollToTop bool
	closed      bool
	listeners   map[int]func(*usecase.DirectoryView)
	nextID      int
}

func newDirectoryController(
	repo repository.CompanyRepository,
	catalog *CategoryCatalog,
	logger *slog.Logger,
	opts controllerOptions,
	initial entity.FilterState,
) *directoryController {
	if initial.CurrentPage < 1 {
		initial.CurrentPage = 1
	}
	if initial.ActiveCategory == "" {
		initial.ActiveCategory = constants.CategoryAll
	}

	return &directoryController{
		repo:      repo,
		catalog:   catalog,
		logger:    logger,
		opts:      opts,
		search:    util.NewDebouncer(opts.searchDebounce),
		filters:   initial,
		state:     usecase.ViewStateOK,
		listeners: make(map[int]func(*usecase.DirectoryView)),
	}
}

func (c *directoryController) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, c.logger)
}

func (c *directoryController) SetFilter(ctx context.Context, field entity.FilterField, value string) (*usecase.DirectoryView, error) {
	return c.setFilter(ctx, field, value, true)
}

func (c *directoryController) setFilter(ctx context.Context, field entity.FilterField, value string, cancelPending bool) (*usecase.DirectoryView, error) {
	if !field.IsValid() {
		return nil, domainerrors.ErrInvalidFilter.WithDetails(string(field))
	}
	value = strings.TrimSpace(value)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()

		return nil, domainerrors.ErrSessionNotFound
	}

	switch field {
	case entity.FilterCategory:
		c.filters.ActiveCategory = c.catalog.Canonical(value)
	case entity.FilterDistrict:
		c.filters.SelectedDistrict = value
	case entity.FilterSearch:
		c.filters.SearchTerm = value
	}
	c.filters.CurrentPage = 1
	c.scrollToTop = false
	c.mu.Unlock()

	// A direct search supersedes a debounced one.
	if cancelPending && field == entity.FilterSearch {
		c.search.Cancel()
	}

	return c.Fetch(ctx)
}

func (c *directoryController) SetPage(ctx context.Context, page int) (*usecase.DirectoryView, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()

		return nil, domainerrors.ErrSessionNotFound
	}

	totalPages := 1
	if c.result != nil {
		totalPages = c.result.TotalPages
	}
	c.filters.CurrentPage = pagination.ClampPage(page, totalPages)
	c.scrollToTop = true
	c.mu.Unlock()

	return c.Fetch(ctx)
}

func (c *directoryController) Fetch(ctx context.Context) (*usecase.DirectoryView, error) {
	view, retry, err := c.fetchOnce(ctx)
	if err != nil || !retry {
		return view, err
	}

	// The page fell off the end of a shrunken result; load the clamped page.
	view, _, err = c.fetchOnce(ctx)

	return view, err
}

func (c *directoryController) fetchOnce(ctx context.Context) (*usecase.DirectoryView, bool, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()

		return nil, false, domainerrors.ErrSessionNotFound
	}
	c.seq++
	token := c.seq
	filters := c.filters
	c.loading = true
	c.mu.Unlock()

	category, known := c.catalog.Resolve(filters.ActiveCategory)
	if !known {
		c.log(ctx).Debug("Unknown directory category", slog.String("category", filters.ActiveCategory))
		view, _ := c.apply(token, func() {
			c.state = usecase.ViewStateCategoryNotFound
			c.result = nil
			c.viewErr = nil
		})

		return view, false, nil
	}

	query := repository.CompanyQuery{
		Page:     filters.CurrentPage,
		Limit:    c.opts.itemsPerPage,
		Name:     util.Normalize(filters.SearchTerm),
		District: util.Normalize(filters.SelectedDistrict),
	}
	if category != constants.CategoryAll {
		query.Category = util.Normalize(category)
	}

	page, err := c.repo.ListCompanies(ctx, query)

	retry := false
	view, applied := c.apply(token, func() {
		if err != nil {
			c.state = usecase.ViewStateError
			c.viewErr = &usecase.ViewError{
				Code:    domainerrors.ErrUpstreamUnavailable.ErrorCode(),
				Message: domainerrors.ErrUpstreamUnavailable.Message(),
			}

			return
		}

		c.result = page
		c.viewErr = nil
		c.state = usecase.ViewStateOK
		if len(page.Items) == 0 {
			c.state = usecase.ViewStateEmpty
		}
		if page.Total > 0 && len(page.Items) == 0 && c.filters.CurrentPage > page.TotalPages {
			c.filters.CurrentPage = page.TotalPages
			retry = true
		}
	})

	if err != nil {
		level := slog.LevelWarn
		if !applied || !errors.Is(err, repository.ErrUpstream) {
			level = slog.LevelDebug
		}
		c.log(ctx).Log(ctx, level, "Directory fetch failed, keeping last result",
			slog.Uint64("token", token),
			slog.Bool("applied", applied),
			slog.Any("error", err),
		)
	}

	return view, retry && applied, nil
}

// apply runs update and notifies listeners only if token is still the latest.
func (c *directoryController) apply(token uint64, update func()) (*usecase.DirectoryView, bool) {
	c.mu.Lock()
	if c.closed || token != c.seq {
		view := c.viewLocked()
		c.mu.Unlock()
		metrics.DirectoryStaleResponses.Inc()

		return view, false
	}

	update()
	c.loading = false
	c.applied = token
	view := c.viewLocked()

	listeners := make([]func(*usecase.DirectoryView), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	metrics.DirectoryFetches.WithLabelValues(string(view.State)).Inc()
	for _, fn := range listeners {
		fn(view)
	}

	return view, true
}

func (c *directoryController) ScheduleSearch(ctx context.Context, term string) {
	base := context.WithoutCancel(ctx)

	c.search.Schedule(func() {
		runCtx, cancel := context.WithTimeout(base, c.opts.searchTimeout)
		defer cancel()

		if _, err := c.setFilter(runCtx, entity.FilterSearch, term, false); err != nil && !errors.IsAny(err, domainerrors.ErrSessionNotFound, context.Canceled) {
			c.log(base).Warn("Debounced search failed", slog.Any("error", err))
		}
	})
}

func (c *directoryController) DismissError() *usecase.DirectoryView {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.viewErr = nil
	if c.state == usecase.ViewStateError {
		c.state = usecase.ViewStateOK
		if c.result == nil || len(c.result.Items) == 0 {
			c.state = usecase.ViewStateEmpty
		}
	}

	return c.viewLocked()
}

func (c *directoryController) View() *usecase.DirectoryView {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.viewLocked()
}

func (c *directoryController) Subscribe(fn func(*usecase.DirectoryView)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *directoryController) Close() {
	c.mu.Lock()
	c.closed = true
	c.seq++
	clear(c.listeners)
	c.mu.Unlock()

	c.search.Cancel()
}

func (c *directoryController) viewLocked() *usecase.DirectoryView {
	view := &usecase.DirectoryView{
		State:         c.state,
		Filters:       c.filters,
		Items:         []*entity.Company{},
		Page:          c.filters.CurrentPage,
		TotalPages:    1,
		ItemsPerPage:  c.opts.itemsPerPage,
		ActiveFilters: c.filters.ActiveFilters(),
		Categories:    c.catalog.Categories(),
		Loading:       c.loading,
		ScrollToTop:   c.scrollToTop,
		Version:       c.applied,
	}
	if c.viewErr != nil {
		viewErr := *c.viewErr
		view.Error = &viewErr
	}

	// While in error the last good result stays on screen, with its own page.
	if c.result != nil {
		view.Items = slices.Clone(c.result.Items)
		view.Total = c.result.Total
		view.TotalPages = c.result.TotalPages
		view.Page = c.result.Page
	}
	view.Pages = pagination.PageList(view.Page, view.TotalPages)

	return view
}
