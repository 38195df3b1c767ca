package converters

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/central-university-dev/go-commander/internal/commands"
	"github.com/central-university-dev/go-commander/internal/domain/models"
)

// EntityResolver разрешает сырые упоминания (@username, числовой ID)
// в сущности Telegram через справочный сервис.
type EntityResolver interface {
	ResolveUser(ctx context.Context, raw string) (*models.User, error)
	ResolveChat(ctx context.Context, raw string) (*models.Chat, error)
}

// UserConverter разрешает аргумент команды в пользователя.
type UserConverter struct {
	resolver EntityResolver
}

func NewUserConverter(resolver EntityResolver) *UserConverter {
	return &UserConverter{resolver: resolver}
}

func (c *UserConverter) Convert(ctx context.Context, _ *commands.Invocation, raw string) (any, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("пустое упоминание пользователя")
	}

	user, err := c.resolver.ResolveUser(ctx, strings.TrimPrefix(trimmed, "@"))
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ChatConverter разрешает аргумент команды в чат.
type ChatConverter struct {
	resolver EntityResolver
}

func NewChatConverter(resolver EntityResolver) *ChatConverter {
	return &ChatConverter{resolver: resolver}
}

func (c *ChatConverter) Convert(ctx context.Context, _ *commands.Invocation, raw string) (any, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("пустое упоминание чата")
	}

	chat, err := c.resolver.ResolveChat(ctx, strings.TrimPrefix(trimmed, "@"))
	if err != nil {
		return nil, err
	}

	return chat, nil
}

// Duration разбирает длительность в формате time.ParseDuration ("30s", "5m", "1h30m").
func Duration() commands.Converter {
	return commands.ConvertFunc(func(_ context.Context, _ *commands.Invocation, raw string) (any, error) {
		duration, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("ожидалась длительность вида '30s' или '5m', получено '%s'", raw)
		}

		if duration <= 0 {
			return nil, fmt.Errorf("длительность должна быть положительной, получено '%s'", raw)
		}

		return duration, nil
	})
}

// ChatIDList разбирает список идентификаторов чатов через запятую: "123,-456".
func ChatIDList() commands.Converter {
	return commands.ConvertFunc(func(_ context.Context, _ *commands.Invocation, raw string) (any, error) {
		parts := strings.Split(raw, ",")
		ids := make([]int64, 0, len(parts))

		for _, part := range parts {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("ожидался список ID чатов через запятую, получено '%s'", raw)
			}

			ids = append(ids, id)
		}

		return ids, nil
	})
}
