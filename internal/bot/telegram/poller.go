package telegram

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/central-university-dev/go-commander/internal/bot/domain"
	"github.com/central-university-dev/go-commander/internal/commands"
	"github.com/central-university-dev/go-commander/internal/common/metrics"
	"github.com/central-university-dev/go-commander/internal/domain/models"
)

// MessageDispatcher принимает входящее сообщение и возвращает вызов команды,
// если сообщение оказалось командой, либо nil для обычного текста.
type MessageDispatcher interface {
	Dispatch(ctx context.Context, msg *models.Message) *commands.Invocation
}

// Poller опрашивает Telegram через long polling и передаёт каждое сообщение
// диспетчеру команд. Смещение обновлений хранится в памяти: после рестарта
// Telegram повторно отдаёт только неподтверждённые обновления.
type Poller struct {
	telegramClient domain.TelegramClientAPI
	dispatcher     MessageDispatcher
	logger         *slog.Logger
	retryDelay     time.Duration
	stopChan       chan struct{}
	doneChan       chan struct{}
}

func NewPoller(telegramClient domain.TelegramClientAPI, dispatcher MessageDispatcher, logger *slog.Logger) *Poller {
	return &Poller{
		telegramClient: telegramClient,
		dispatcher:     dispatcher,
		logger:         logger,
		retryDelay:     5 * time.Second,
		stopChan:       make(chan struct{}),
		doneChan:       make(chan struct{}),
	}
}

func (p *Poller) Start() {
	p.logger.Info("Запуск Telegram поллера")

	go p.run()
}

// Stop останавливает цикл опроса и дожидается его завершения.
// Текущий запрос GetUpdates не прерывается, поэтому остановка
// может занять до таймаута long polling.
func (p *Poller) Stop() {
	p.logger.Info("Остановка Telegram поллера")
	close(p.stopChan)
	<-p.doneChan
}

func (p *Poller) run() {
	defer close(p.doneChan)

	offset := 0

	for {
		select {
		case <-p.stopChan:
			p.logger.Info("Получен сигнал остановки поллера")
			return
		default:
		}

		updates, err := p.telegramClient.GetUpdates(context.Background(), offset)
		if err != nil {
			p.logger.Error("Ошибка при получении обновлений", "error", err)

			select {
			case <-p.stopChan:
				p.logger.Info("Получен сигнал остановки поллера")
				return
			case <-time.After(p.retryDelay):
			}

			continue
		}

		for i := range updates {
			update := &updates[i]
			if int(update.UpdateID) >= offset {
				offset = int(update.UpdateID) + 1
			}

			p.processUpdate(update)
		}
	}
}

func (p *Poller) processUpdate(update *domain.Update) {
	if update.Message == nil || update.Message.From.ID == 0 {
		return
	}

	msg := &models.Message{
		UpdateID:  update.UpdateID,
		MessageID: update.Message.MessageID,
		ChatID:    update.Message.Chat.ID,
		ChatType:  models.ChatType(update.Message.Chat.Type),
		UserID:    update.Message.From.ID,
		Username:  update.Message.From.Username,
		Text:      update.Message.Text,
		SentAt:    update.Message.SentAt,
	}

	p.logger.Info("Получено сообщение",
		"chat_id", msg.ChatID,
		"user_id", msg.UserID,
		"text", msg.Text,
		"username", msg.Username,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	inv := p.dispatcher.Dispatch(ctx, msg)

	messageType := "message"
	if inv != nil {
		messageType = "command"
	}

	metrics.RecordUserMessage(strconv.FormatInt(msg.ChatID, 10), messageType)
}
