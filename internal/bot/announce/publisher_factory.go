package announce

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/central-university-dev/go-commander/internal/config"
	"github.com/central-university-dev/go-commander/internal/domain/models"
)

type PublisherType string

const (
	HTTPPublisherType  PublisherType = "HTTP"
	KafkaPublisherType PublisherType = "KAFKA"
)

// PublisherFactory собирает издателя объявлений по конфигурации.
// При включённом FallbackEnabled основной транспорт оборачивается
// резервным: объявление уходит по запасному пути, если основной отказал.
type PublisherFactory struct {
	config *config.Config
	logger *slog.Logger
}

func NewPublisherFactory(config *config.Config, logger *slog.Logger) *PublisherFactory {
	return &PublisherFactory{
		config: config,
		logger: logger,
	}
}

func (f *PublisherFactory) CreatePublisher() (AnnouncementPublisher, error) {
	primary, err := f.createByTransport(f.config.MessageTransport)
	if err != nil {
		return nil, err
	}

	if !f.config.FallbackEnabled {
		return primary, nil
	}

	secondary, err := f.createByTransport(f.config.FallbackTransport)
	if err != nil {
		return nil, err
	}

	return NewFallbackPublisher(primary, secondary, f.logger), nil
}

func (f *PublisherFactory) createByTransport(transport string) (AnnouncementPublisher, error) {
	publisherType := PublisherType(strings.ToUpper(transport))

	f.logger.Info("Создание издателя объявлений",
		"type", publisherType,
	)

	switch publisherType {
	case HTTPPublisherType:
		return NewHTTPPublisher(f.config.BotBaseURL, f.config, f.logger), nil
	case KafkaPublisherType:
		brokers := strings.Split(f.config.KafkaBrokers, ",")
		return NewKafkaPublisher(brokers, f.config.TopicAnnouncements, f.logger), nil
	default:
		return nil, fmt.Errorf("неизвестный тип издателя объявлений: %s", publisherType)
	}
}

type AnnouncementPublisher interface {
	PublishAnnouncement(ctx context.Context, announcement *models.Announcement) error
}
