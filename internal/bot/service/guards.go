package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/central-university-dev/go-commander/internal/commands"
)

// NewAdminGuard пропускает только пользователей из списка администраторов.
func NewAdminGuard(adminIDs []int64) commands.Guard {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}

	return commands.NewGuard("admin", func(_ context.Context, inv *commands.Invocation) (bool, error) {
		if _, ok := admins[inv.Message.UserID]; !ok {
			return false, fmt.Errorf("команда доступна только администраторам")
		}

		return true, nil
	})
}

// NewDisabledCommandsGuard блокирует команды, отключённые в чате.
// Администраторы проходят всегда, иначе отключение команды settings
// стало бы необратимым из самого чата. При недоступном хранилище guard
// пропускает вызов: настройки не должны останавливать работу бота.
func NewDisabledCommandsGuard(settings *SettingsService, adminIDs []int64, logger *slog.Logger) commands.Guard {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}

	return commands.NewGuard("disabled_commands", func(ctx context.Context, inv *commands.Invocation) (bool, error) {
		if _, ok := admins[inv.Message.UserID]; ok {
			return true, nil
		}

		chatSettings, err := settings.GetSettings(ctx, inv.Message.ChatID)
		if err != nil {
			logger.Error("Ошибка при получении настроек чата, команда пропущена без проверки",
				"error", err,
				"chatID", inv.Message.ChatID,
			)

			return true, nil
		}

		if chatSettings.IsCommandDisabled(inv.Command.Root().Name) {
			return false, fmt.Errorf("команда отключена в этом чате")
		}

		return true, nil
	})
}
