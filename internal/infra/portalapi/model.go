package portalapi

import (
	"bytes"
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"portal/internal/domain/entity"
)

// flexString accepts JSON strings and numbers, e.g. numeric ids.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""

		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexString(str)

		return nil
	}
	*s = flexString(data)

	return nil
}

// flexFloat accepts numbers, numeric strings, empty strings and null.
// Anything that does not parse to a number is treated as absent.
type flexFloat struct {
	value *float64
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	f.value = nil

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		f.value = &v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(v, ",", ".")), 64)
		if err == nil && !math.IsNaN(parsed) {
			f.value = &parsed
		}
	}

	return nil
}

// categoryList accepts a single category string or a list of categories.
type categoryList []string

func (c *categoryList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*c = list

		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		*c = nil

		return nil //nolint:nilerr // unknown shapes mean no category
	}
	if single == "" {
		*c = nil

		return nil
	}
	*c = categoryList{single}

	return nil
}

// companyModel is the upstream company representation.
type companyModel struct {
	ID         flexString   `json:"id"`
	Name       string       `json:"name"`
	Slug       string       `json:"slug"`
	Address    string       `json:"address"`
	Category   categoryList `json:"category"`
	Categories categoryList `json:"categories"`
	District   string       `json:"district"`
	Lat        flexFloat    `json:"lat"`
	Lng        flexFloat    `json:"lng"`
	Status     string       `json:"status"`
	Image      string       `json:"image"`
	Phone      string       `json:"phone"`
	WhatsApp   string       `json:"whatsapp"`
	Highlight  bool         `json:"highlight"`
}

func (m *companyModel) toEntity() *entity.Company {
	categories := append([]string{}, m.Categories...)
	for _, cat := range m.Category {
		if !slices.Contains(categories, cat) {
			categories = append(categories, cat)
		}
	}

	return &entity.Company{
		ID:         string(m.ID),
		Name:       m.Name,
		Slug:       m.Slug,
		Address:    m.Address,
		Categories: categories,
		District:   m.District,
		Latitude:   m.Lat.value,
		Longitude:  m.Lng.value,
		Status:     entity.CompanyStatus(strings.ToLower(strings.TrimSpace(m.Status))),
		ImageURL:   m.Image,
		Phone:      m.Phone,
		WhatsApp:   m.WhatsApp,
		Highlight:  m.Highlight,
	}
}

// articleModel is the upstream article representation.
type articleModel struct {
	ID           flexString `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Summary      string     `json:"summary"`
	CategoryName string     `json:"category_name"`
	Image        string     `json:"image"`
	Author       string     `json:"author"`
	Highlight    bool       `json:"highlight"`
	PublishedAt  string     `json:"published_at"`
}

func (m *articleModel) toEntity() *entity.Article {
	return &entity.Article{
		ID:           string(m.ID),
		Title:        m.Title,
		Slug:         m.Slug,
		Summary:      m.Summary,
		CategoryName: m.CategoryName,
		ImageURL:     m.Image,
		Author:       m.Author,
		Highlight:    m.Highlight,
		PublishedAt:  parseTimestamp(m.PublishedAt),
	}
}

// parseTimestamp reads RFC 3339 timestamps; other values yield the zero time.
func parseTimestamp(value string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}

	return time.Time{}
}

// pageEnvelope is the pagination envelope shared by listing endpoints.
type pageEnvelope[T any] struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
	Data       []T `json:"data"`
}

// detailEnvelope wraps single-resource responses.
type detailEnvelope[T any] struct {
	Response *T `json:"response"`
}
