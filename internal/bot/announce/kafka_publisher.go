package announce

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/central-university-dev/go-commander/internal/domain/models"
)

type KafkaPublisher struct {
	producer *kafka.Writer
	logger   *slog.Logger
	topic    string
}

// AnnouncementMessage — формат объявления в топике Kafka и в теле
// HTTP запроса POST /announcements.
type AnnouncementMessage struct {
	ID       int64   `json:"id"`
	Text     string  `json:"text"`
	ChatIDs  []int64 `json:"chatIds"`
	Priority string  `json:"priority,omitempty"`
}

func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	producer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		Logger:       kafka.LoggerFunc(logger.Debug),
		ErrorLogger:  kafka.LoggerFunc(logger.Error),
	}

	return &KafkaPublisher{
		producer: producer,
		logger:   logger,
		topic:    topic,
	}
}

func (p *KafkaPublisher) PublishAnnouncement(ctx context.Context, announcement *models.Announcement) error {
	p.logger.Info("Отправка объявления в Kafka",
		"chats", len(announcement.ChatIDs),
		"topic", p.topic,
	)

	message := AnnouncementMessage{
		ID:       announcement.ID,
		Text:     announcement.Text,
		ChatIDs:  announcement.ChatIDs,
		Priority: announcement.Priority,
	}

	value, err := json.Marshal(message)
	if err != nil {
		p.logger.Error("Ошибка при сериализации сообщения",
			"error", err,
		)

		return fmt.Errorf("ошибка при сериализации сообщения: %w", err)
	}

	err = p.producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", announcement.ID)),
		Value: value,
		Time:  time.Now(),
	})

	if err != nil {
		p.logger.Error("Ошибка при отправке сообщения в Kafka",
			"error", err,
		)

		return fmt.Errorf("ошибка при отправке сообщения в Kafka: %w", err)
	}

	p.logger.Info("Объявление успешно отправлено в Kafka")

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
