package announce

import (
	"context"
	"log/slog"

	"github.com/central-university-dev/go-commander/internal/domain/models"
)

type FallbackPublisher struct {
	primary   AnnouncementPublisher
	secondary AnnouncementPublisher
	logger    *slog.Logger
}

func NewFallbackPublisher(primary, secondary AnnouncementPublisher, logger *slog.Logger) *FallbackPublisher {
	return &FallbackPublisher{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

func (p *FallbackPublisher) PublishAnnouncement(ctx context.Context, announcement *models.Announcement) error {
	err := p.primary.PublishAnnouncement(ctx, announcement)
	if err == nil {
		return nil
	}

	p.logger.Warn("Основной транспорт недоступен, переключаемся на резервный",
		"primaryError", err,
	)

	fallbackErr := p.secondary.PublishAnnouncement(ctx, announcement)
	if fallbackErr != nil {
		return err
	}

	p.logger.Info("Объявление успешно отправлено через резервный транспорт")

	return nil
}
