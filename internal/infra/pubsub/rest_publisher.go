package pubsub

import (
	"context"
	"log/slog"
	"strconv"

	"portal/internal/domain/entity"
	"portal/internal/domain/service"
	"portal/internal/errors"
	"portal/internal/infra/portalapi"
)

// analyticsPayload is the body of POST /analytics/event-{subject}.
type analyticsPayload struct {
	SubjectID        string         `json:"subjectId"`
	EventType        string         `json:"eventType"`
	ExtraData        map[string]any `json:"extra_data"`
	VirtualIncrement bool           `json:"virtualIncrement"`
}

// restPublisher posts analytics events to the portal API
type restPublisher struct {
	client *portalapi.Client
	logger *slog.Logger
}

// NewRESTPublisher creates a publisher that delivers events to the portal API
func NewRESTPublisher(client *portalapi.Client, logger *slog.Logger) service.AnalyticsPublisher {
	return &restPublisher{
		client: client,
		logger: logger,
	}
}

func (p *restPublisher) PublishAnalyticsEvent(ctx context.Context, event *entity.AnalyticsEvent) error {
	if !event.Subject.IsValid() {
		return errors.Errorf("unknown analytics subject %q", event.Subject)
	}

	path := "/analytics/event-" + string(event.Subject)
	if _, err := p.client.PostJSON(ctx, path, newAnalyticsPayload(event)); err != nil {
		return err
	}

	p.logger.Debug("[RestAnalytics] Event delivered",
		slog.String("subject", string(event.Subject)),
		slog.String("subject_id", event.SubjectID),
		slog.String("event_type", string(event.EventType)),
	)

	return nil
}

func (p *restPublisher) Close() error {
	return nil
}

func newAnalyticsPayload(event *entity.AnalyticsEvent) analyticsPayload {
	extra := make(map[string]any, len(event.ExtraData)+6)
	for k, v := range event.ExtraData {
		extra[k] = v
	}
	if event.ViewType != "" {
		extra["viewType"] = string(event.ViewType)
	}
	if event.Position.Page > 0 {
		extra["index"] = event.Position.Index
		extra["page"] = event.Position.Page
		extra["total"] = event.Position.Total
	}
	if event.SessionID != "" {
		extra["sessionId"] = event.SessionID
	}
	extra["timestamp"] = strconv.FormatInt(event.Timestamp.UnixMilli(), 10)

	return analyticsPayload{
		SubjectID: event.SubjectID,
		EventType: string(event.EventType),
		ExtraData: extra,
	}
}
