package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	boterrors "github.com/central-university-dev/go-commander/internal/domain/errors"
	"github.com/central-university-dev/go-commander/internal/domain/models"
)

// AnnouncementMessage — формат объявления в топике Kafka.
type AnnouncementMessage struct {
	ID       int64   `json:"id"`
	Text     string  `json:"text"`
	ChatIDs  []int64 `json:"chatIds"`
	Priority string  `json:"priority,omitempty"`
}

type MessageHandler interface {
	HandleAnnouncement(ctx context.Context, announcement *models.Announcement) error
}

// Consumer читает объявления из Kafka и передаёт их обработчику.
// Некорректные сообщения уходят в DLQ с причиной отказа в заголовках.
type Consumer struct {
	reader         *kafka.Reader
	dlqWriter      *kafka.Writer
	messageHandler MessageHandler
	logger         *slog.Logger
	topic          string
	dlqTopic       string
}

func NewConsumer(
	brokers []string,
	groupID string,
	topic string,
	dlqTopic string,
	messageHandler MessageHandler,
	logger *slog.Logger,
) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: 1 * time.Second,
		Logger:         kafka.LoggerFunc(logger.Debug),
		ErrorLogger:    kafka.LoggerFunc(logger.Error),
	})

	dlqWriter := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        dlqTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		Logger:       kafka.LoggerFunc(logger.Debug),
		ErrorLogger:  kafka.LoggerFunc(logger.Error),
	}

	return &Consumer{
		reader:         reader,
		dlqWriter:      dlqWriter,
		messageHandler: messageHandler,
		logger:         logger,
		topic:          topic,
		dlqTopic:       dlqTopic,
	}
}

func (c *Consumer) Start(ctx context.Context) {
	c.logger.Info("Запуск потребления сообщений из Kafka",
		"topic", c.topic,
	)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Остановка потребления сообщений из Kafka")
				return
			default:
				msg, err := c.reader.ReadMessage(ctx)
				if err != nil {
					c.logger.Error("Ошибка при чтении сообщения из Kafka",
						"error", err,
					)

					continue
				}

				c.logger.Info("Получено сообщение из Kafka",
					"topic", msg.Topic,
					"partition", msg.Partition,
					"offset", msg.Offset,
				)

				if err := c.processMessage(ctx, &msg); err != nil {
					c.logger.Error("Ошибка при обработке сообщения",
						"error", err,
					)
				}
			}
		}
	}()
}

func (c *Consumer) processMessage(ctx context.Context, msg *kafka.Message) error {
	var announcementMessage AnnouncementMessage

	if err := json.Unmarshal(msg.Value, &announcementMessage); err != nil {
		c.logger.Error("Ошибка при десериализации сообщения",
			"error", err,
		)

		if sendErr := c.sendToDLQ(ctx, msg.Value, fmt.Sprintf("Ошибка десериализации: %s", err)); sendErr != nil {
			c.logger.Error("Ошибка при отправке сообщения в DLQ",
				"error", sendErr,
			)
		}

		return fmt.Errorf("ошибка при десериализации сообщения: %w", err)
	}

	if err := validateAnnouncement(&announcementMessage); err != nil {
		c.logger.Error("Некорректное объявление",
			"error", err,
		)

		if sendErr := c.sendToDLQ(ctx, msg.Value, err.Error()); sendErr != nil {
			c.logger.Error("Ошибка при отправке сообщения в DLQ",
				"error", sendErr,
			)
		}

		return err
	}

	announcement := &models.Announcement{
		ID:       announcementMessage.ID,
		Text:     announcementMessage.Text,
		ChatIDs:  announcementMessage.ChatIDs,
		Priority: announcementMessage.Priority,
	}

	if err := c.messageHandler.HandleAnnouncement(ctx, announcement); err != nil {
		c.logger.Error("Ошибка при обработке объявления",
			"error", err,
		)

		return fmt.Errorf("ошибка при обработке объявления: %w", err)
	}

	c.logger.Info("Сообщение успешно обработано")

	return nil
}

func validateAnnouncement(message *AnnouncementMessage) error {
	if message.Text == "" {
		return &boterrors.ErrMissingRequiredField{FieldName: "text"}
	}

	if len(message.ChatIDs) == 0 {
		return &boterrors.ErrMissingRequiredField{FieldName: "chatIds"}
	}

	return nil
}

func (c *Consumer) sendToDLQ(ctx context.Context, message []byte, errMsg string) error {
	c.logger.Info("Отправка сообщения в DLQ",
		"error", errMsg,
		"topic", c.dlqTopic,
	)

	err := c.dlqWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte("error"),
		Value: message,
		Headers: []kafka.Header{
			{Key: "error", Value: []byte(errMsg)},
			{Key: "timestamp", Value: []byte(time.Now().Format(time.RFC3339))},
		},
		Time: time.Now(),
	})

	if err != nil {
		c.logger.Error("Ошибка при отправке сообщения в DLQ",
			"error", err,
		)

		return fmt.Errorf("ошибка при отправке сообщения в DLQ: %w", err)
	}

	c.logger.Info("Сообщение успешно отправлено в DLQ")

	return nil
}

func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return err
	}

	return c.dlqWriter.Close()
}
