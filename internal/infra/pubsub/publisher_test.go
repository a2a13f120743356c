package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portal/config"
	"portal/internal/domain/entity"
	"portal/internal/domain/repository"
	"portal/internal/infra/portalapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *portalapi.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := portalapi.NewClientWithHTTP(server.URL, "portal.test", &http.Client{Timeout: time.Second}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	return client
}

func TestRESTPublisher_PostsToSubjectEndpoint(t *testing.T) {
	var got analyticsPayload
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analytics/event-company", r.URL.Path)
		assert.Equal(t, "portal.test", r.URL.Query().Get("portalReferer"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	})

	publisher := NewRESTPublisher(client, slog.New(slog.DiscardHandler))
	err := publisher.PublishAnalyticsEvent(context.Background(), &entity.AnalyticsEvent{
		Subject:   entity.SubjectCompany,
		SubjectID: "42",
		EventType: entity.EventView,
		ViewType:  entity.ViewReappear,
		Position:  entity.ListPosition{Index: 3, Page: 2, Total: 25},
		SessionID: "s-1",
		Timestamp: time.UnixMilli(1_700_000_000_000),
	})
	require.NoError(t, err)

	assert.Equal(t, "42", got.SubjectID)
	assert.Equal(t, "view", got.EventType)
	assert.False(t, got.VirtualIncrement)
	assert.Equal(t, "reappear", got.ExtraData["viewType"])
	assert.EqualValues(t, 3, got.ExtraData["index"])
	assert.EqualValues(t, 2, got.ExtraData["page"])
	assert.EqualValues(t, 25, got.ExtraData["total"])
	assert.Equal(t, "s-1", got.ExtraData["sessionId"])
	assert.Equal(t, "1700000000000", got.ExtraData["timestamp"])
}

func TestRESTPublisher_ReturnsUpstreamErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := NewRESTPublisher(client, slog.New(slog.DiscardHandler)).PublishAnalyticsEvent(context.Background(), &entity.AnalyticsEvent{
		Subject:   entity.SubjectArticle,
		SubjectID: "7",
		EventType: entity.EventClick,
	})
	assert.ErrorIs(t, err, repository.ErrUpstream)
}

func TestRESTPublisher_RejectsUnknownSubject(t *testing.T) {
	client := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Error("no request expected")
	})

	err := NewRESTPublisher(client, slog.New(slog.DiscardHandler)).PublishAnalyticsEvent(context.Background(), &entity.AnalyticsEvent{
		Subject: "../admin",
	})
	assert.Error(t, err)
}

func TestNewAnalyticsPublisher_Providers(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("noop when unset", func(t *testing.T) {
		publisher, err := NewAnalyticsPublisher(PublisherParams{
			Lc:     fxtest.NewLifecycle(t),
			Ctx:    context.Background(),
			Config: &config.Config{},
			Logger: logger,
		})
		require.NoError(t, err)
		assert.IsType(t, &noopPublisher{}, publisher)
		assert.NoError(t, publisher.PublishAnalyticsEvent(context.Background(), &entity.AnalyticsEvent{SubjectID: "1"}))
	})

	t.Run("rest", func(t *testing.T) {
		publisher, err := NewAnalyticsPublisher(PublisherParams{
			Lc:     fxtest.NewLifecycle(t),
			Ctx:    context.Background(),
			Config: &config.Config{PubSub: &config.PubSubConfig{Provider: "rest"}},
			Logger: logger,
			Client: newTestClient(t, func(http.ResponseWriter, *http.Request) {}),
		})
		require.NoError(t, err)
		assert.IsType(t, &restPublisher{}, publisher)
	})

	t.Run("google requires project", func(t *testing.T) {
		_, err := NewAnalyticsPublisher(PublisherParams{
			Lc:     fxtest.NewLifecycle(t),
			Ctx:    context.Background(),
			Config: &config.Config{PubSub: &config.PubSubConfig{Provider: "google"}},
			Logger: logger,
		})
		assert.Error(t, err)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewAnalyticsPublisher(PublisherParams{
			Lc:     fxtest.NewLifecycle(t),
			Ctx:    context.Background(),
			Config: &config.Config{PubSub: &config.PubSubConfig{Provider: "kafka"}},
			Logger: logger,
		})
		assert.Error(t, err)
	})
}
