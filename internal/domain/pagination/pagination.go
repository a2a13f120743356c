// Package pagination turns a page position into the list of page links shown to visitors.
package pagination

import (
	"encoding/json"
	"strconv"

	"portal/internal/errors"
)

const (
	// maxFullList is the largest page count listed without ellipses.
	maxFullList = 7
	// windowRadius is how many pages are shown on each side of the current page.
	windowRadius = 2
	windowSize   = 2*windowRadius + 1
)

// EllipsisLabel is rendered in place of a run of hidden pages.
const EllipsisLabel = "…"

// Item is either a page number or an ellipsis marker.
type Item struct {
	Page     int
	Ellipsis bool
}

// PageItem returns an item linking to page n.
func PageItem(n int) Item {
	return Item{Page: n}
}

// EllipsisItem returns an ellipsis marker.
func EllipsisItem() Item {
	return Item{Ellipsis: true}
}

// String renders the item as shown to the visitor.
func (i Item) String() string {
	if i.Ellipsis {
		return EllipsisLabel
	}

	return strconv.Itoa(i.Page)
}

// MarshalJSON encodes pages as numbers and ellipses as the ellipsis label.
func (i Item) MarshalJSON() ([]byte, error) {
	if i.Ellipsis {
		return json.Marshal(EllipsisLabel)
	}

	return json.Marshal(i.Page)
}

// UnmarshalJSON accepts the forms written by MarshalJSON.
func (i *Item) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		if label != EllipsisLabel {
			return errors.Errorf("unknown pagination item %q", label)
		}
		*i = EllipsisItem()

		return nil
	}

	var page int
	if err := json.Unmarshal(data, &page); err != nil {
		return errors.Wrap(err, "invalid pagination item")
	}
	*i = PageItem(page)

	return nil
}

// PageList returns the page links for the current page out of total pages.
//
// Up to seven pages are all listed. Beyond that the first and last pages are
// always present, with a five-page window around current that slides inwards
// near either edge instead of shrinking. A hidden run of exactly one page is
// shown as that page; longer runs collapse into one ellipsis.
func PageList(current, total int) []Item {
	if total < 1 {
		total = 1
	}
	current = clamp(current, 1, total)

	if total <= maxFullList {
		items := make([]Item, 0, total)
		for p := 1; p <= total; p++ {
			items = append(items, PageItem(p))
		}

		return items
	}

	start := clamp(current-windowRadius, 2, total-windowSize)
	end := start + windowSize - 1

	items := make([]Item, 0, windowSize+4)
	items = append(items, PageItem(1))

	switch {
	case start == 3:
		items = append(items, PageItem(2))
	case start > 3:
		items = append(items, EllipsisItem())
	}

	for p := start; p <= end; p++ {
		items = append(items, PageItem(p))
	}

	switch {
	case end == total-2:
		items = append(items, PageItem(total-1))
	case end < total-2:
		items = append(items, EllipsisItem())
	}

	return append(items, PageItem(total))
}

// ClampPage moves page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}

	return clamp(page, 1, totalPages)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
