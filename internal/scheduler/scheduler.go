package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/central-university-dev/go-commander/internal/commands"
)

// ReminderDeliverer отправляет созревшие напоминания.
type ReminderDeliverer interface {
	DeliverDue(ctx context.Context) error
}

// CommandSource отдаёт команды верхнего уровня для обхода кулдаунов.
type CommandSource interface {
	Commands() []*commands.Command
}

// Scheduler запускает фоновые задачи бота: периодическую очистку истёкших
// записей кулдаунов и доставку напоминаний, чей срок наступил.
type Scheduler struct {
	scheduler        *gocron.Scheduler
	commandSource    CommandSource
	reminderService  ReminderDeliverer
	logger           *slog.Logger
	cleanupInterval  time.Duration
	reminderInterval time.Duration
}

func NewScheduler(
	commandSource CommandSource,
	reminderService ReminderDeliverer,
	cleanupInterval time.Duration,
	reminderInterval time.Duration,
	logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		scheduler:        gocron.NewScheduler(time.UTC),
		commandSource:    commandSource,
		reminderService:  reminderService,
		logger:           logger,
		cleanupInterval:  cleanupInterval,
		reminderInterval: reminderInterval,
	}
}

func (s *Scheduler) Start() {
	s.logger.Info("Запуск планировщика",
		"cooldown_cleanup_interval", s.cleanupInterval.String(),
		"reminder_check_interval", s.reminderInterval.String(),
	)

	_, err := s.scheduler.Every(s.cleanupInterval).Do(s.cleanupCooldowns)
	if err != nil {
		s.logger.Error("Ошибка при настройке очистки кулдаунов",
			"error", err,
		)

		return
	}

	_, err = s.scheduler.Every(s.reminderInterval).Do(s.deliverReminders)
	if err != nil {
		s.logger.Error("Ошибка при настройке доставки напоминаний",
			"error", err,
		)

		return
	}

	s.scheduler.StartAsync()
}

func (s *Scheduler) Stop() {
	s.logger.Info("Остановка планировщика")
	s.scheduler.Stop()
}

func (s *Scheduler) cleanupCooldowns() {
	removed := 0

	for _, cmd := range s.commandSource.Commands() {
		removed += cleanupCommandCooldowns(cmd)
	}

	if removed > 0 {
		s.logger.Info("Очистка истёкших кулдаунов",
			"removed", removed,
		)
	}
}

func cleanupCommandCooldowns(cmd *commands.Command) int {
	removed := cmd.Cooldowns().Cleanup()

	for _, sub := range cmd.Subcommands() {
		removed += cleanupCommandCooldowns(sub)
	}

	return removed
}

func (s *Scheduler) deliverReminders() {
	ctx := context.Background()

	if err := s.reminderService.DeliverDue(ctx); err != nil {
		s.logger.Error("Ошибка при доставке напоминаний",
			"error", err,
		)
	}
}
