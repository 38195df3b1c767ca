package clients

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/central-university-dev/go-commander/internal/bot/domain"
	"github.com/central-university-dev/go-commander/internal/common/metrics"
)

// TelegramClient оборачивает Bot API и сглаживает исходящий поток сообщений:
// Telegram ограничивает рассылки примерно тридцатью сообщениями в секунду,
// поэтому все отправки проходят через общий rate-лимитер.
type TelegramClient struct {
	bot     *tgbotapi.BotAPI
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewTelegramClient(token string, sendRate, sendBurst int, logger *slog.Logger) domain.TelegramClientAPI {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Ошибка при создании Telegram клиента", "error", err)
	}

	if sendRate <= 0 {
		sendRate = 25
	}

	if sendBurst <= 0 {
		sendBurst = 1
	}

	return &TelegramClient{
		bot:     bot,
		limiter: rate.NewLimiter(rate.Limit(sendRate), sendBurst),
		logger:  logger,
	}
}

// SetBaseURL устанавливает базовый URL для API Telegram (используется в тестах).
func (c *TelegramClient) SetBaseURL(url string) {
	if c.bot != nil {
		c.bot.SetAPIEndpoint(url)
	}
}

func (c *TelegramClient) SendMessage(ctx context.Context, chatID int64, text string) error {
	if c.bot == nil {
		return fmt.Errorf("telegram клиент не инициализирован")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("ошибка при ожидании rate-лимитера: %w", err)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	_, err := c.bot.Send(msg)
	if err != nil {
		metrics.RecordTelegramSend("error")
		return fmt.Errorf("ошибка при отправке сообщения: %w", err)
	}

	metrics.RecordTelegramSend("success")

	return nil
}

func (c *TelegramClient) GetUpdates(_ context.Context, offset int) ([]domain.Update, error) {
	if c.bot == nil {
		return nil, fmt.Errorf("telegram клиент не инициализирован")
	}

	updateConfig := tgbotapi.NewUpdate(offset)
	updateConfig.Timeout = 30

	updates, err := c.bot.GetUpdates(updateConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении обновлений: %w", err)
	}

	domainUpdates := make([]domain.Update, 0, len(updates))

	for _, update := range updates {
		var domainMessage *domain.Message
		if update.Message != nil {
			domainMessage = &domain.Message{
				MessageID: int64(update.Message.MessageID),
				Text:      update.Message.Text,
				SentAt:    time.Unix(int64(update.Message.Date), 0),
				Chat: domain.Chat{
					ID:       update.Message.Chat.ID,
					Type:     update.Message.Chat.Type,
					Title:    update.Message.Chat.Title,
					Username: update.Message.Chat.UserName,
				},
			}

			if update.Message.From != nil {
				domainMessage.From = domain.User{
					ID:        update.Message.From.ID,
					Username:  update.Message.From.UserName,
					FirstName: update.Message.From.FirstName,
					LastName:  update.Message.From.LastName,
				}
			}
		}

		domainUpdates = append(domainUpdates, domain.Update{
			UpdateID: int64(update.UpdateID),
			Message:  domainMessage,
		})
	}

	return domainUpdates, nil
}

func (c *TelegramClient) SetMyCommands(_ context.Context, commands []domain.BotCommand) error {
	if c.bot == nil {
		return fmt.Errorf("telegram клиент не инициализирован")
	}

	botAPICommands := make([]tgbotapi.BotCommand, 0, len(commands))
	for _, cmd := range commands {
		botAPICommands = append(botAPICommands, tgbotapi.BotCommand{
			Command:     cmd.Command,
			Description: cmd.Description,
		})
	}

	setCommandsConfig := tgbotapi.NewSetMyCommands(botAPICommands...)

	_, err := c.bot.Request(setCommandsConfig)
	if err != nil {
		return fmt.Errorf("ошибка при установке команд бота: %w", err)
	}

	return nil
}
