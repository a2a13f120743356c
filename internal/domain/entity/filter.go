package entity

import "portal/internal/domain/constants"

// FilterField names one of the directory filters that can be changed.
type FilterField string

const (
	FilterCategory FilterField = "category"
	FilterDistrict FilterField = "district"
	FilterSearch   FilterField = "search"
)

// IsValid checks if the FilterField is a known field.
func (f FilterField) IsValid() bool {
	switch f {
	case FilterCategory, FilterDistrict, FilterSearch:
		return true
	default:
		return false
	}
}

// FilterState is the active filter and page of a directory session.
type FilterState struct {
	ActiveCategory   string `json:"active_category"`
	SelectedDistrict string `json:"selected_district"`
	SearchTerm       string `json:"search_term"`
	CurrentPage      int    `json:"current_page"`
}

// NewFilterState returns the unfiltered first page.
func NewFilterState() FilterState {
	return FilterState{
		ActiveCategory: constants.CategoryAll,
		CurrentPage:    1,
	}
}

// HasCategory reports whether a category filter other than "Todos" is applied.
func (f FilterState) HasCategory() bool {
	return f.ActiveCategory != "" && f.ActiveCategory != constants.CategoryAll
}

// ActiveFilters lists the filters currently narrowing the result, for empty-state messages.
func (f FilterState) ActiveFilters() []ActiveFilter {
	active := make([]ActiveFilter, 0, 3)
	if f.HasCategory() {
		active = append(active, ActiveFilter{Field: FilterCategory, Value: f.ActiveCategory})
	}
	if f.SelectedDistrict != "" {
		active = append(active, ActiveFilter{Field: FilterDistrict, Value: f.SelectedDistrict})
	}
	if f.SearchTerm != "" {
		active = append(active, ActiveFilter{Field: FilterSearch, Value: f.SearchTerm})
	}

	return active
}

// ActiveFilter is one applied filter.
type ActiveFilter struct {
	Field FilterField `json:"field"`
	Value string      `json:"value"`
}
