// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"portal/internal/domain/entity"
	"portal/internal/domain/mapview"
	"portal/internal/domain/pagination"
)

// ViewState tells the front end which directory state to render.
type ViewState string

const (
	ViewStateOK               ViewState = "ok"
	ViewStateEmpty            ViewState = "empty"
	ViewStateCategoryNotFound ViewState = "category_not_found"
	ViewStateError            ViewState = "error"
)

// ViewError is the dismissible error shown above a stale result.
type ViewError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DirectoryView is the rendered state of a directory session.
type DirectoryView struct {
	SessionID     string                `json:"sessionId,omitempty"`
	State         ViewState             `json:"state"`
	Filters       entity.FilterState    `json:"filters"`
	Items         []*entity.Company     `json:"items"`
	Total         int                   `json:"total"`
	Page          int                   `json:"page"`
	TotalPages    int                   `json:"totalPages"`
	ItemsPerPage  int                   `json:"itemsPerPage"`
	Pages         []pagination.Item     `json:"pages"`
	ActiveFilters []entity.ActiveFilter `json:"activeFilters"`
	Categories    []string              `json:"categories"`
	Error         *ViewError            `json:"error,omitempty"`
	Map           mapview.View          `json:"map"`
	Loading       bool                  `json:"loading"`
	ScrollToTop   bool                  `json:"scrollToTop"`

	// Version is the sequence token of the response the view reflects.
	Version uint64 `json:"version"`
}

// BrowseQuery is the directory query string: ?categoria=<slug>&district=&search=&page=
type BrowseQuery struct {
	Category string
	District string
	Search   string
	Page     int
}

// DirectoryController owns the filter state and result of one browsing session.
type DirectoryController interface {
	// SetFilter updates one filter, resets the page to 1 and refetches.
	SetFilter(ctx context.Context, field entity.FilterField, value string) (*DirectoryView, error)

	// SetPage clamps page into [1, totalPages] and refetches.
	SetPage(ctx context.Context, page int) (*DirectoryView, error)

	// Fetch reads the current filters from upstream. Only the response of the
	// latest issued request is applied; failures keep the last good result.
	Fetch(ctx context.Context) (*DirectoryView, error)

	// ScheduleSearch sets the search filter after the debounce delay,
	// replacing any search still pending. ctx only contributes its values.
	ScheduleSearch(ctx context.Context, term string)

	// DismissError clears the error banner and keeps the stale result.
	DismissError() *DirectoryView

	View() *DirectoryView

	// Subscribe registers fn for every applied result and returns its cancel func.
	Subscribe(fn func(*DirectoryView)) func()

	// Close ignores any response still in flight and stops pending searches.
	Close()
}

// DirectoryUsecase manages directory browsing sessions.
type DirectoryUsecase interface {
	// Browse renders a one-shot view without keeping a session.
	Browse(ctx context.Context, query BrowseQuery) (*DirectoryView, error)

	OpenSession(ctx context.Context, query BrowseQuery) (*DirectoryView, error)
	GetView(ctx context.Context, sessionID string) (*DirectoryView, error)
	SetFilter(ctx context.Context, sessionID string, field entity.FilterField, value string) (*DirectoryView, error)
	SetPage(ctx context.Context, sessionID string, page int) (*DirectoryView, error)
	ScheduleSearch(ctx context.Context, sessionID, term string) error
	DismissError(ctx context.Context, sessionID string) (*DirectoryView, error)
	CloseSession(ctx context.Context, sessionID string) error

	// Categories lists the known directory categories.
	Categories() []string
}
