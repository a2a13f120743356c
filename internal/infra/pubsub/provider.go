package pubsub

import (
	"context"
	"log/slog"

	"portal/config"
	"portal/internal/domain/constants"
	"portal/internal/domain/entity"
	"portal/internal/domain/service"
	"portal/internal/infra/portalapi"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// noopPublisher drops events when analytics delivery is disabled
type noopPublisher struct {
	logger *slog.Logger
}

func (p *noopPublisher) PublishAnalyticsEvent(_ context.Context, event *entity.AnalyticsEvent) error {
	p.logger.Debug("[NoopAnalytics] Event delivery disabled, skipping",
		slog.String("subject_id", event.SubjectID),
		slog.String("event_type", string(event.EventType)),
	)

	return nil
}

func (p *noopPublisher) Close() error {
	return nil
}

// PublisherParams holds dependencies for AnalyticsPublisher, injected by Fx
type PublisherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
	Client *portalapi.Client
}

// NewAnalyticsPublisher creates an AnalyticsPublisher based on configuration
func NewAnalyticsPublisher(params PublisherParams) (service.AnalyticsPublisher, error) {
	cfg := params.Config.PubSub
	logger := params.Logger

	if cfg == nil || cfg.Provider == "" {
		logger.Info("Analytics delivery not configured, using no-op publisher")

		return &noopPublisher{logger: logger}, nil
	}

	var publisher service.AnalyticsPublisher
	var err error

	switch cfg.Provider {
	case constants.PubSubProviderREST:
		logger.Info("Using portal API for analytics delivery")

		publisher = NewRESTPublisher(params.Client, logger)

	case constants.PubSubProviderGoogle:
		if cfg.ProjectID == "" {
			return nil, errors.New("project ID is required for google provider")
		}
		if cfg.TopicID == "" {
			return nil, errors.New("topic ID is required for google provider")
		}
		logger.Info("Using Google Pub/Sub for analytics delivery",
			slog.String("project_id", cfg.ProjectID),
			slog.String("topic_id", cfg.TopicID),
		)

		publisher, err = NewGooglePubSubPublisher(params.Ctx, cfg.ProjectID, cfg.TopicID, logger)
		if err != nil {
			return nil, err
		}

	default:
		return nil, errors.Errorf("unknown pubsub provider: %s", cfg.Provider)
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing AnalyticsPublisher")

			return publisher.Close()
		},
	})

	return publisher, nil
}

// Module provides the analytics publisher FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewAnalyticsPublisher),
)
