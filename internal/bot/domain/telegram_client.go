package domain

import (
	"context"
)

type TelegramClientAPI interface {
	SendMessage(ctx context.Context, chatID int64, text string) error

	GetUpdates(ctx context.Context, offset int) ([]Update, error)

	SetMyCommands(ctx context.Context, commands []BotCommand) error
}
