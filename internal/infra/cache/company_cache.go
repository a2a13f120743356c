// Package cache provides a Redis read-through cache in front of the portal API.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"portal/config"
	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/entity"
	"portal/internal/domain/repository"
	"portal/internal/errors"
	"portal/internal/infra/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "portal:companies:"

// DecorateParams holds dependencies for the cache decorator, injected by Fx.
type DecorateParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
	Next   repository.CompanyRepository
}

// DecorateCompanyRepository wraps the upstream repository with the Redis cache
// when a redis section is configured, and returns it unchanged otherwise.
func DecorateCompanyRepository(params DecorateParams) repository.CompanyRepository {
	if params.Config.Redis == nil || params.Config.Redis.Addr == "" {
		return params.Next
	}

	client := redis.NewClient(&redis.Options{
		Addr:         params.Config.Redis.Addr,
		Password:     params.Config.Redis.Password,
		DB:           params.Config.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return errors.WithStack(client.Close())
		},
	})

	params.Logger.Info("Company cache enabled",
		slog.String("addr", params.Config.Redis.Addr),
		slog.Duration("ttl", params.Config.Redis.TTL),
	)

	return NewCompanyCache(client, params.Next, params.Config.Redis.TTL, params.Config.PortalAPI.Timeout, params.Logger)
}

type companyCache struct {
	client        redis.Cmdable
	next          repository.CompanyRepository
	ttl           time.Duration
	flightTimeout time.Duration
	logger        *slog.Logger
	group         singleflight.Group
}

// NewCompanyCache returns a repository that serves from Redis and falls back to next.
// Cache failures are logged and never surface to callers. Upstream fetches are
// shared between concurrent callers and bounded by flightTimeout.
func NewCompanyCache(client redis.Cmdable, next repository.CompanyRepository, ttl, flightTimeout time.Duration, logger *slog.Logger) repository.CompanyRepository {
	return &companyCache{
		client:        client,
		next:          next,
		ttl:           ttl,
		flightTimeout: flightTimeout,
		logger:        logger,
	}
}

// flight derives the context for a shared upstream fetch. It keeps the
// caller's values but not its cancellation, since other callers wait on the
// same result.
func (c *companyCache) flight(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), c.flightTimeout)
}

func listKey(query repository.CompanyQuery) string {
	return fmt.Sprintf("%slist:%d:%d:%q:%q:%q", keyPrefix, query.Page, query.Limit, query.Name, query.Category, query.District)
}

func companyKey(id string) string {
	return keyPrefix + "id:" + id
}

func (c *companyCache) ListCompanies(ctx context.Context, query repository.CompanyQuery) (*entity.Page[*entity.Company], error) {
	var page entity.Page[*entity.Company]
	key := listKey(query)

	if c.lookup(ctx, key, &page) {
		return &page, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		flightCtx, cancel := c.flight(ctx)
		defer cancel()

		fresh, err := c.next.ListCompanies(flightCtx, query)
		if err != nil {
			return nil, err
		}
		c.store(flightCtx, key, fresh)

		return fresh, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*entity.Page[*entity.Company]), nil
}

func (c *companyCache) FindCompanyByID(ctx context.Context, id string) (*entity.Company, error) {
	var company entity.Company
	key := companyKey(id)

	if c.lookup(ctx, key, &company) {
		return &company, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		flightCtx, cancel := c.flight(ctx)
		defer cancel()

		fresh, err := c.next.FindCompanyByID(flightCtx, id)
		if err != nil {
			return nil, err
		}
		c.store(flightCtx, key, fresh)

		return fresh, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*entity.Company), nil
}

func (c *companyCache) lookup(ctx context.Context, key string, out any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		metrics.CacheLookups.WithLabelValues("miss").Inc()

		return false
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		deliverycontext.GetLoggerOrDefault(ctx, c.logger).Warn("Company cache read failed",
			slog.String("key", key),
			slog.Any("error", err),
		)

		return false
	}

	if err := json.Unmarshal(raw, out); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		deliverycontext.GetLoggerOrDefault(ctx, c.logger).Warn("Discarding corrupt cache entry",
			slog.String("key", key),
			slog.Any("error", err),
		)
		_ = c.client.Del(ctx, key).Err()

		return false
	}

	metrics.CacheLookups.WithLabelValues("hit").Inc()

	return true
}

func (c *companyCache) store(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, c.logger).Warn("Company cache write failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}
