package impl

import (
	"slices"
	"strings"

	"portal/internal/domain/constants"
	"portal/internal/util"
)

// CategoryCatalog is the fixed set of directory categories. Lookups compare
// normalized text, so labels, slugs and unaccented spellings all match.
type CategoryCatalog struct {
	labels []string
	index  map[string]string
}

// NewCategoryCatalog builds a catalog from display labels.
func NewCategoryCatalog(labels []string) *CategoryCatalog {
	catalog := &CategoryCatalog{
		labels: make([]string, 0, len(labels)),
		index:  make(map[string]string, len(labels)),
	}
	for _, label := range labels {
		key := util.Normalize(label)
		if key == "" {
			continue
		}
		if _, dup := catalog.index[key]; dup {
			continue
		}
		catalog.index[key] = label
		catalog.labels = append(catalog.labels, label)
	}

	return catalog
}

// Resolve returns the display label for value. An empty value or the "Todos"
// sentinel resolves to constants.CategoryAll.
func (c *CategoryCatalog) Resolve(value string) (string, bool) {
	key := util.Normalize(value)
	if key == "" || key == util.Normalize(constants.CategoryAll) {
		return constants.CategoryAll, true
	}

	label, ok := c.index[key]

	return label, ok
}

// Canonical returns the display label for known values and the trimmed input otherwise.
func (c *CategoryCatalog) Canonical(value string) string {
	if label, ok := c.Resolve(value); ok {
		return label
	}

	return strings.TrimSpace(value)
}

func (c *CategoryCatalog) Categories() []string {
	return slices.Clone(c.labels)
}
