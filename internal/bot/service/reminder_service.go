package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/multierr"

	"github.com/central-university-dev/go-commander/internal/bot/domain"
	"github.com/central-university-dev/go-commander/internal/common/metrics"
	domainerrors "github.com/central-university-dev/go-commander/internal/domain/errors"
	"github.com/central-university-dev/go-commander/internal/domain/models"
)

type ReminderRepository interface {
	Save(ctx context.Context, reminder *models.Reminder) error

	FindDue(ctx context.Context, now time.Time, limit int) ([]*models.Reminder, error)

	MarkSent(ctx context.Context, id int64) error

	CountPending(ctx context.Context, chatID int64) (int, error)
}

const (
	maxPendingPerChat = 25
	dueBatchSize      = 100
)

type ReminderService struct {
	reminderRepo   ReminderRepository
	telegramClient domain.TelegramClientAPI
	logger         *slog.Logger
}

func NewReminderService(
	reminderRepo ReminderRepository,
	telegramClient domain.TelegramClientAPI,
	logger *slog.Logger,
) *ReminderService {
	return &ReminderService{
		reminderRepo:   reminderRepo,
		telegramClient: telegramClient,
		logger:         logger,
	}
}

func (s *ReminderService) Schedule(ctx context.Context, chatID, userID int64, delay time.Duration, text string) (*models.Reminder, error) {
	start := time.Now()

	pending, err := s.reminderRepo.CountPending(ctx, chatID)

	metrics.ObserveDatabaseQuery("count_pending_reminders", start, err)

	if err != nil {
		return nil, fmt.Errorf("ошибка при подсчёте напоминаний: %w", err)
	}

	if pending >= maxPendingPerChat {
		return nil, &domainerrors.ErrBadRequest{Message: fmt.Sprintf("в чате уже %d отложенных напоминаний, дождитесь их доставки", pending)}
	}

	reminder := &models.Reminder{
		ChatID:   chatID,
		UserID:   userID,
		Text:     text,
		RemindAt: time.Now().Add(delay),
	}

	start = time.Now()

	err = s.reminderRepo.Save(ctx, reminder)

	metrics.ObserveDatabaseQuery("save_reminder", start, err)

	if err != nil {
		return nil, fmt.Errorf("ошибка при сохранении напоминания: %w", err)
	}

	s.logger.Info("Напоминание запланировано",
		"reminderID", reminder.ID,
		"chatID", chatID,
		"remindAt", reminder.RemindAt,
	)

	return reminder, nil
}

// DeliverDue отправляет созревшие напоминания и помечает доставленные.
// Неотправленные остаются несозревшими для следующего прохода планировщика.
func (s *ReminderService) DeliverDue(ctx context.Context) error {
	start := time.Now()

	due, err := s.reminderRepo.FindDue(ctx, time.Now(), dueBatchSize)

	metrics.ObserveDatabaseQuery("find_due_reminders", start, err)

	if err != nil {
		return fmt.Errorf("ошибка при поиске созревших напоминаний: %w", err)
	}

	var errs error

	for _, reminder := range due {
		if err := s.telegramClient.SendMessage(ctx, reminder.ChatID, "⏰ Напоминание: "+reminder.Text); err != nil {
			s.logger.Error("Ошибка при отправке напоминания",
				"error", err,
				"reminderID", reminder.ID,
				"chatID", reminder.ChatID,
			)

			errs = multierr.Append(errs, err)

			continue
		}

		start = time.Now()

		err := s.reminderRepo.MarkSent(ctx, reminder.ID)

		metrics.ObserveDatabaseQuery("mark_reminder_sent", start, err)

		if err != nil {
			s.logger.Error("Ошибка при отметке напоминания",
				"error", err,
				"reminderID", reminder.ID,
			)

			errs = multierr.Append(errs, err)

			continue
		}

		s.logger.Info("Напоминание доставлено",
			"reminderID", reminder.ID,
			"chatID", reminder.ChatID,
		)
	}

	return errs
}
