package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/central-university-dev/go-commander/internal/domain/models"
)

type EntityCache interface {
	GetUser(ctx context.Context, raw string) (*models.User, error)
	SetUser(ctx context.Context, raw string, user *models.User) error
	GetChat(ctx context.Context, raw string) (*models.Chat, error)
	SetChat(ctx context.Context, raw string, chat *models.Chat) error
}

// RedisEntityCache хранит разрешённые сущности справочника по сырому
// упоминанию. Инвалидации нет: записи живут до истечения TTL.
type RedisEntityCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisEntityCache(redisURL, password string, db int, ttl time.Duration, logger *slog.Logger) (*RedisEntityCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ошибка при подключении к Redis: %w", err)
	}

	logger.Info("Соединение с Redis успешно установлено")

	return &RedisEntityCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (c *RedisEntityCache) GetUser(ctx context.Context, raw string) (*models.User, error) {
	key := fmt.Sprintf("user:%s", raw)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			c.logger.Debug("Кэш не найден",
				"key", key,
			)

			return nil, nil
		}

		c.logger.Error("Ошибка при получении данных из Redis",
			"error", err,
			"key", key,
		)

		return nil, fmt.Errorf("ошибка при получении данных из Redis: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		c.logger.Error("Ошибка при десериализации данных из Redis",
			"error", err,
			"key", key,
		)

		return nil, fmt.Errorf("ошибка при десериализации данных из Redis: %w", err)
	}

	return &user, nil
}

func (c *RedisEntityCache) SetUser(ctx context.Context, raw string, user *models.User) error {
	key := fmt.Sprintf("user:%s", raw)

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("ошибка при сериализации данных для Redis: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Error("Ошибка при сохранении данных в Redis",
			"error", err,
			"key", key,
		)

		return fmt.Errorf("ошибка при сохранении данных в Redis: %w", err)
	}

	c.logger.Debug("Пользователь сохранён в кэш",
		"key", key,
		"ttl", c.ttl,
	)

	return nil
}

func (c *RedisEntityCache) GetChat(ctx context.Context, raw string) (*models.Chat, error) {
	key := fmt.Sprintf("chat:%s", raw)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			c.logger.Debug("Кэш не найден",
				"key", key,
			)

			return nil, nil
		}

		c.logger.Error("Ошибка при получении данных из Redis",
			"error", err,
			"key", key,
		)

		return nil, fmt.Errorf("ошибка при получении данных из Redis: %w", err)
	}

	var chat models.Chat
	if err := json.Unmarshal(data, &chat); err != nil {
		c.logger.Error("Ошибка при десериализации данных из Redis",
			"error", err,
			"key", key,
		)

		return nil, fmt.Errorf("ошибка при десериализации данных из Redis: %w", err)
	}

	return &chat, nil
}

func (c *RedisEntityCache) SetChat(ctx context.Context, raw string, chat *models.Chat) error {
	key := fmt.Sprintf("chat:%s", raw)

	data, err := json.Marshal(chat)
	if err != nil {
		return fmt.Errorf("ошибка при сериализации данных для Redis: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Error("Ошибка при сохранении данных в Redis",
			"error", err,
			"key", key,
		)

		return fmt.Errorf("ошибка при сохранении данных в Redis: %w", err)
	}

	c.logger.Debug("Чат сохранён в кэш",
		"key", key,
		"ttl", c.ttl,
	)

	return nil
}

func (c *RedisEntityCache) Close() error {
	return c.client.Close()
}
