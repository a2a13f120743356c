package usecase

import (
	"context"

	"portal/internal/domain/entity"
)

// VisibilitySignal is one intersection callback for a tracked subject.
type VisibilitySignal struct {
	SessionID string
	Subject   entity.AnalyticsSubject
	SubjectID string

	// Ratio is the visible fraction of the subject's rendered bounds.
	Ratio    float64
	Position entity.ListPosition
}

// TrackingState is the per-subject view tracking state.
type TrackingState string

const (
	TrackingUnseen           TrackingState = "unseen"
	TrackingInitialViewSent  TrackingState = "initial_view_sent"
	TrackingAwaitingReappear TrackingState = "awaiting_reappear"
	TrackingReappearSent     TrackingState = "reappear_sent"
)

// Observation reports what a visibility signal did.
type Observation struct {
	State      TrackingState          `json:"state"`
	Visible    bool                   `json:"visible"`
	Emitted    *entity.AnalyticsEvent `json:"emitted,omitempty"`
	Suppressed bool                   `json:"suppressed"`
}

// AnalyticsUsecase emits view tracking and interaction events.
// Delivery is fire-and-forget: send failures are logged and never returned.
type AnalyticsUsecase interface {
	// Observe advances the subject's tracking state machine.
	Observe(ctx context.Context, signal VisibilitySignal) (*Observation, error)

	// Unregister drops a subject's tracking state when it unmounts.
	Unregister(sessionID string, subject entity.AnalyticsSubject, subjectID string)

	// UnregisterSession drops every subject tracked for the session.
	UnregisterSession(sessionID string)

	// Track sends an interaction event such as a click.
	Track(ctx context.Context, event *entity.AnalyticsEvent) error

	// Wait blocks until in-flight sends finish or ctx is done.
	Wait(ctx context.Context) error
}
