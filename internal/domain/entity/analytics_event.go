package entity

import "time"

// EventType is the kind of analytics event.
type EventType string

const (
	EventView          EventType = "view"
	EventViewEnd       EventType = "view_end"
	EventClick         EventType = "click"
	EventWhatsAppClick EventType = "whatsapp_click"
	EventMapClick      EventType = "map_click"
	EventProfileView   EventType = "profile_view"
)

// IsValid checks if the EventType is known.
func (e EventType) IsValid() bool {
	switch e {
	case EventView, EventViewEnd, EventClick, EventWhatsAppClick, EventMapClick, EventProfileView:
		return true
	default:
		return false
	}
}

// ViewType distinguishes the first view of a subject from later re-entries.
type ViewType string

const (
	ViewInitial  ViewType = "initial"
	ViewReappear ViewType = "reappear"
)

// AnalyticsSubject is the kind of entity an event refers to, e.g. "company".
type AnalyticsSubject string

const (
	SubjectCompany AnalyticsSubject = "company"
	SubjectArticle AnalyticsSubject = "article"
	SubjectBanner  AnalyticsSubject = "banner"
)

// IsValid checks if the subject is known.
func (s AnalyticsSubject) IsValid() bool {
	switch s {
	case SubjectCompany, SubjectArticle, SubjectBanner:
		return true
	default:
		return false
	}
}

// ListPosition locates a subject within the visible list.
type ListPosition struct {
	Index int `json:"index"`
	Page  int `json:"page"`
	Total int `json:"total"`
}

// AnalyticsEvent is a fire-and-forget tracking event.
type AnalyticsEvent struct {
	Subject   AnalyticsSubject `json:"subject"`
	SubjectID string           `json:"subject_id"`
	EventType EventType        `json:"event_type"`
	ViewType  ViewType         `json:"view_type,omitempty"`
	Position  ListPosition     `json:"position"`
	SessionID string           `json:"session_id,omitempty"`
	RequestID string           `json:"request_id,omitempty"`
	ExtraData map[string]any   `json:"extra_data,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}
