package entity

import "time"

// Article is a news article published on the portal.
type Article struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Summary      string    `json:"summary"`
	CategoryName string    `json:"category_name"`
	ImageURL     string    `json:"image_url"`
	Author       string    `json:"author,omitempty"`
	Highlight    bool      `json:"highlight"`
	PublishedAt  time.Time `json:"published_at"`
}
