package service

import (
	"context"

	"portal/internal/domain/entity"
)

// AnalyticsPublisher delivers analytics events to the tracking backend
type AnalyticsPublisher interface {
	// PublishAnalyticsEvent sends one event; callers treat failures as non-fatal
	PublishAnalyticsEvent(ctx context.Context, event *entity.AnalyticsEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
