package cache

import (
	"context"
	"log/slog"

	"github.com/central-university-dev/go-commander/internal/bot/converters"
	"github.com/central-university-dev/go-commander/internal/domain/models"
)

// CachedResolver — кэширующая обёртка над справочником сущностей:
// сначала Redis, при промахе — запрос к справочнику с записью результата.
// Ошибки кэша не прерывают разрешение, только логируются.
type CachedResolver struct {
	resolver    converters.EntityResolver
	entityCache EntityCache
	logger      *slog.Logger
}

func NewCachedResolver(resolver converters.EntityResolver, entityCache EntityCache, logger *slog.Logger) *CachedResolver {
	return &CachedResolver{
		resolver:    resolver,
		entityCache: entityCache,
		logger:      logger,
	}
}

func (r *CachedResolver) ResolveUser(ctx context.Context, raw string) (*models.User, error) {
	cached, err := r.entityCache.GetUser(ctx, raw)
	if err == nil && cached != nil {
		r.logger.Debug("Пользователь получен из кэша",
			"raw", raw,
		)

		return cached, nil
	}

	user, err := r.resolver.ResolveUser(ctx, raw)
	if err != nil {
		return nil, err
	}

	if err := r.entityCache.SetUser(ctx, raw, user); err != nil {
		r.logger.Error("Ошибка при кэшировании пользователя",
			"error", err,
			"raw", raw,
		)
	}

	return user, nil
}

func (r *CachedResolver) ResolveChat(ctx context.Context, raw string) (*models.Chat, error) {
	cached, err := r.entityCache.GetChat(ctx, raw)
	if err == nil && cached != nil {
		r.logger.Debug("Чат получен из кэша",
			"raw", raw,
		)

		return cached, nil
	}

	chat, err := r.resolver.ResolveChat(ctx, raw)
	if err != nil {
		return nil, err
	}

	if err := r.entityCache.SetChat(ctx, raw, chat); err != nil {
		r.logger.Error("Ошибка при кэшировании чата",
			"error", err,
			"raw", raw,
		)
	}

	return chat, nil
}
