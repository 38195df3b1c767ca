package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/central-university-dev/go-commander/internal/common/metrics"
	"github.com/central-university-dev/go-commander/internal/config"
	domainerrors "github.com/central-university-dev/go-commander/internal/domain/errors"
	"github.com/central-university-dev/go-commander/internal/domain/models"
)

type ChatSettingsRepository interface {
	GetSettings(ctx context.Context, chatID int64) (*models.ChatSettings, error)

	SetPrefix(ctx context.Context, chatID int64, prefix string) error

	DisableCommand(ctx context.Context, chatID int64, command string) error

	EnableCommand(ctx context.Context, chatID int64, command string) error

	Reset(ctx context.Context, chatID int64) error
}

type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

const maxPrefixLength = 8

// SettingsService управляет настройками чатов: префиксом команд и списком
// отключённых команд. Отсутствие строки в хранилище означает настройки
// по умолчанию.
type SettingsService struct {
	settingsRepo ChatSettingsRepository
	txManager    Transactor
	config       *config.Config
	logger       *slog.Logger
}

func NewSettingsService(
	settingsRepo ChatSettingsRepository,
	txManager Transactor,
	cfg *config.Config,
	logger *slog.Logger,
) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		txManager:    txManager,
		config:       cfg,
		logger:       logger,
	}
}

func (s *SettingsService) GetSettings(ctx context.Context, chatID int64) (*models.ChatSettings, error) {
	start := time.Now()

	settings, err := s.settingsRepo.GetSettings(ctx, chatID)

	metrics.ObserveDatabaseQuery("get_chat_settings", start, err)

	if err != nil {
		return nil, fmt.Errorf("ошибка при получении настроек чата: %w", err)
	}

	return settings, nil
}

func (s *SettingsService) SetPrefix(ctx context.Context, chatID int64, prefix string) error {
	if err := validatePrefix(prefix); err != nil {
		return err
	}

	start := time.Now()

	err := s.settingsRepo.SetPrefix(ctx, chatID, prefix)

	metrics.ObserveDatabaseQuery("set_chat_prefix", start, err)

	if err != nil {
		return fmt.Errorf("ошибка при сохранении префикса чата: %w", err)
	}

	s.logger.Info("Префикс чата изменён",
		"chatID", chatID,
		"prefix", prefix,
	)

	return nil
}

func (s *SettingsService) DisableCommand(ctx context.Context, chatID int64, command string) error {
	start := time.Now()

	err := s.settingsRepo.DisableCommand(ctx, chatID, command)

	metrics.ObserveDatabaseQuery("disable_command", start, err)

	if err != nil {
		return fmt.Errorf("ошибка при отключении команды: %w", err)
	}

	s.logger.Info("Команда отключена в чате",
		"chatID", chatID,
		"command", command,
	)

	return nil
}

func (s *SettingsService) EnableCommand(ctx context.Context, chatID int64, command string) error {
	start := time.Now()

	err := s.settingsRepo.EnableCommand(ctx, chatID, command)

	metrics.ObserveDatabaseQuery("enable_command", start, err)

	if err != nil {
		return fmt.Errorf("ошибка при включении команды: %w", err)
	}

	s.logger.Info("Команда включена в чате",
		"chatID", chatID,
		"command", command,
	)

	return nil
}

// Reset удаляет настройки чата и список отключённых команд одной транзакцией.
func (s *SettingsService) Reset(ctx context.Context, chatID int64) error {
	start := time.Now()

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		return s.settingsRepo.Reset(ctx, chatID)
	})

	metrics.ObserveDatabaseQuery("reset_chat_settings", start, err)

	if err != nil {
		return fmt.Errorf("ошибка при сбросе настроек чата: %w", err)
	}

	s.logger.Info("Настройки чата сброшены",
		"chatID", chatID,
	)

	return nil
}

// EffectivePrefix возвращает префикс команд для чата: переопределённый,
// если он задан, иначе префикс по умолчанию из конфигурации.
func (s *SettingsService) EffectivePrefix(ctx context.Context, chatID int64) string {
	settings, err := s.GetSettings(ctx, chatID)
	if err != nil {
		s.logger.Error("Ошибка при получении настроек чата, используется префикс по умолчанию",
			"error", err,
			"chatID", chatID,
		)

		return s.config.CommandPrefix
	}

	if settings.Prefix != "" {
		return settings.Prefix
	}

	return s.config.CommandPrefix
}

// Prefixes реализует commands.PrefixProvider. Переопределённый префикс
// заменяет префикс по умолчанию, а не дополняет его.
func (s *SettingsService) Prefixes(ctx context.Context, chatID int64) []string {
	return []string{s.EffectivePrefix(ctx, chatID)}
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return &domainerrors.ErrBadRequest{Message: "префикс не может быть пустым"}
	}

	if utf8.RuneCountInString(prefix) > maxPrefixLength {
		return &domainerrors.ErrBadRequest{Message: fmt.Sprintf("префикс длиннее %d символов", maxPrefixLength)}
	}

	for _, r := range prefix {
		if r == ' ' || r == '\t' || r == '\n' {
			return &domainerrors.ErrBadRequest{Message: "префикс не может содержать пробелы"}
		}
	}

	return nil
}
