package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"portal/config"
	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/domain/service"
	"portal/internal/errors"
	"portal/internal/infra/metrics"
	"portal/internal/usecase"

	"go.uber.org/fx"
)

type trackerOptions struct {
	debounceWindow time.Duration
	visibleRatio   float64
	sendTimeout    time.Duration
	subjectTTL     time.Duration
}

type subjectKey struct {
	sessionID string
	subject   entity.AnalyticsSubject
	subjectID string
}

type trackedSubject struct {
	state        usecase.TrackingState
	visible      bool
	visibleSince time.Time

	// lastViewSent is when the last view event went out; re-entries inside
	// the debounce window after it are treated as flicker.
	lastViewSent time.Time
	sentState    usecase.TrackingState

	lastSeen time.Time
}

// analyticsTracker implements usecase.AnalyticsUsecase.
//
// Per subject: Unseen -> InitialViewSent -> AwaitingReappear -> ReappearSent
// -> AwaitingReappear -> ... Sends run on their own goroutine and never
// report failures back to the caller.
type analyticsTracker struct {
	publisher service.AnalyticsPublisher
	logger    *slog.Logger
	opts      trackerOptions
	now       func() time.Time

	mu       sync.Mutex
	subjects map[subjectKey]*trackedSubject

	inflight sync.WaitGroup

	stop chan struct{}
	done chan struct{}
}

// AnalyticsTrackerParams holds dependencies for the analytics tracker, injected by Fx.
type AnalyticsTrackerParams struct {
	fx.In

	Lc        fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
	Publisher service.AnalyticsPublisher
}

// NewAnalyticsTracker is the constructor for analyticsTracker.
func NewAnalyticsTracker(params AnalyticsTrackerParams) usecase.AnalyticsUsecase {
	cfg := params.Config.Analytics
	tracker := newAnalyticsTracker(params.Publisher, params.Logger, trackerOptions{
		debounceWindow: cfg.DebounceWindow,
		visibleRatio:   cfg.VisibleRatio,
		sendTimeout:    cfg.SendTimeout,
		subjectTTL:     cfg.SubjectTTL,
	}, time.Now)

	// Registered after the publisher, so stopped before it is closed.
	params.Lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go tracker.runSweeper()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(tracker.stop)
			select {
			case <-tracker.done:
			case <-ctx.Done():
			}

			return tracker.Wait(ctx)
		},
	})

	return tracker
}

func newAnalyticsTracker(publisher service.AnalyticsPublisher, logger *slog.Logger, opts trackerOptions, now func() time.Time) *analyticsTracker {
	return &analyticsTracker{
		publisher: publisher,
		logger:    logger,
		opts:      opts,
		now:       now,
		subjects:  make(map[subjectKey]*trackedSubject),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (t *analyticsTracker) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, t.logger)
}

func (t *analyticsTracker) Observe(ctx context.Context, signal usecase.VisibilitySignal) (*usecase.Observation, error) {
	if !signal.Subject.IsValid() || signal.SubjectID == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown analytics subject")
	}
	if signal.Ratio < 0 || signal.Ratio > 1 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("ratio must be within [0, 1]")
	}

	now := t.now()
	visible := signal.Ratio >= t.opts.visibleRatio
	key := subjectKey{sessionID: signal.SessionID, subject: signal.Subject, subjectID: signal.SubjectID}

	t.mu.Lock()
	tracked, ok := t.subjects[key]
	if !ok {
		tracked = &trackedSubject{state: usecase.TrackingUnseen}
		t.subjects[key] = tracked
	}
	tracked.lastSeen = now

	var event *entity.AnalyticsEvent
	suppressed := false

	switch {
	case visible && !tracked.visible:
		tracked.visible = true
		tracked.visibleSince = now

		switch {
		case tracked.state == usecase.TrackingUnseen:
			tracked.state = usecase.TrackingInitialViewSent
			event = t.newEvent(ctx, signal, entity.EventView, entity.ViewInitial, now)
		case now.Sub(tracked.lastViewSent) < t.opts.debounceWindow:
			// Flicker right after a send: treat it as never having left.
			tracked.state = tracked.sentState
			suppressed = true
		default:
			tracked.state = usecase.TrackingReappearSent
			event = t.newEvent(ctx, signal, entity.EventView, entity.ViewReappear, now)
		}

		if event != nil {
			tracked.lastViewSent = now
			tracked.sentState = tracked.state
		}

	case !visible && tracked.visible:
		tracked.visible = false
		if tracked.state == usecase.TrackingInitialViewSent || tracked.state == usecase.TrackingReappearSent {
			tracked.state = usecase.TrackingAwaitingReappear
		}

		if shown := now.Sub(tracked.visibleSince); shown >= t.opts.debounceWindow {
			event = t.newEvent(ctx, signal, entity.EventViewEnd, "", now)
			event.ExtraData = map[string]any{"durationMs": shown.Milliseconds()}
		}
	}

	observation := &usecase.Observation{
		State:      tracked.state,
		Visible:    tracked.visible,
		Emitted:    event,
		Suppressed: suppressed,
	}
	t.mu.Unlock()

	if suppressed {
		metrics.AnalyticsEvents.WithLabelValues(string(signal.Subject), string(entity.EventView), metrics.OutcomeSuppressed).Inc()
	}
	if event != nil {
		t.dispatch(ctx, event)
	}

	return observation, nil
}

func (t *analyticsTracker) newEvent(ctx context.Context, signal usecase.VisibilitySignal, eventType entity.EventType, viewType entity.ViewType, now time.Time) *entity.AnalyticsEvent {
	return &entity.AnalyticsEvent{
		Subject:   signal.Subject,
		SubjectID: signal.SubjectID,
		EventType: eventType,
		ViewType:  viewType,
		Position:  signal.Position,
		SessionID: signal.SessionID,
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		Timestamp: now,
	}
}

func (t *analyticsTracker) Unregister(sessionID string, subject entity.AnalyticsSubject, subjectID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.subjects, subjectKey{sessionID: sessionID, subject: subject, subjectID: subjectID})
}

func (t *analyticsTracker) UnregisterSession(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key := range t.subjects {
		if key.sessionID == sessionID {
			delete(t.subjects, key)
		}
	}
}

// sweep drops subjects with no signal for longer than the subject TTL and
// returns how many were dropped. Sessionless subjects are only ever cleared here.
func (t *analyticsTracker) sweep(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	dropped := 0
	for key, tracked := range t.subjects {
		if now.Sub(tracked.lastSeen) > t.opts.subjectTTL {
			delete(t.subjects, key)
			dropped++
		}
	}
	if dropped > 0 {
		t.logger.Debug("Expired idle analytics subjects", slog.Int("count", dropped))
	}

	return dropped
}

func (t *analyticsTracker) runSweeper() {
	defer close(t.done)

	ticker := time.NewTicker(max(t.opts.subjectTTL/4, minSweepInterval))
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.sweep(t.now())
		}
	}
}

func (t *analyticsTracker) Track(ctx context.Context, event *entity.AnalyticsEvent) error {
	if event == nil || !event.Subject.IsValid() || event.SubjectID == "" {
		return domainerrors.ErrValidationFailed.WithDetails("unknown analytics subject")
	}
	if !event.EventType.IsValid() {
		return domainerrors.ErrValidationFailed.WithDetails("unknown event type")
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = t.now()
	}
	if event.RequestID == "" {
		event.RequestID = deliverycontext.GetRequestIDFromContext(ctx)
	}
	t.dispatch(ctx, event)

	return nil
}

// dispatch sends event in the background, detached from the request's cancellation.
func (t *analyticsTracker) dispatch(ctx context.Context, event *entity.AnalyticsEvent) {
	base := context.WithoutCancel(ctx)

	t.inflight.Add(1)
	go func() {
		defer t.inflight.Done()

		sendCtx, cancel := context.WithTimeout(base, t.opts.sendTimeout)
		defer cancel()

		labels := []string{string(event.Subject), string(event.EventType)}
		if err := t.publisher.PublishAnalyticsEvent(sendCtx, event); err != nil {
			metrics.AnalyticsEvents.WithLabelValues(append(labels, metrics.OutcomeFailed)...).Inc()
			t.log(base).Warn("Analytics event dropped",
				slog.String("subject", string(event.Subject)),
				slog.String("subject_id", event.SubjectID),
				slog.String("event_type", string(event.EventType)),
				slog.Any("error", err),
			)

			return
		}
		metrics.AnalyticsEvents.WithLabelValues(append(labels, metrics.OutcomeSent)...).Inc()
	}()
}

func (t *analyticsTracker) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	}
}
