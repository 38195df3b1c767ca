package announce

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"

	"github.com/central-university-dev/go-commander/internal/common/httputil"
	"github.com/central-university-dev/go-commander/internal/config"
	"github.com/central-university-dev/go-commander/internal/domain/models"
)

// HTTPPublisher доставляет объявления через HTTP API бота. Используется
// внешними системами и резервным транспортом, когда Kafka недоступна.
type HTTPPublisher struct {
	client  *resty.Client
	baseURL string
	logger  *slog.Logger
}

func NewHTTPPublisher(baseURL string, cfg *config.Config, logger *slog.Logger) *HTTPPublisher {
	if baseURL == "" {
		baseURL = "http://commander_bot:8080"
	}

	client := httputil.NewResilientClient(cfg, logger, "bot_api")

	return &HTTPPublisher{
		client:  client,
		baseURL: baseURL,
		logger:  logger,
	}
}

func (p *HTTPPublisher) PublishAnnouncement(ctx context.Context, announcement *models.Announcement) error {
	p.logger.Info("Отправка объявления по HTTP",
		"chats", len(announcement.ChatIDs),
	)

	message := AnnouncementMessage{
		ID:       announcement.ID,
		Text:     announcement.Text,
		ChatIDs:  announcement.ChatIDs,
		Priority: announcement.Priority,
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(p.baseURL + "/announcements")
	if err != nil {
		p.logger.Error("Ошибка при отправке объявления по HTTP",
			"error", err,
		)

		return fmt.Errorf("ошибка при отправке объявления: %w", err)
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("bot API вернул статус: %d", resp.StatusCode())
	}

	p.logger.Info("Объявление успешно отправлено")

	return nil
}
