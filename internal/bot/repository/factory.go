package repository

import (
	"log/slog"

	"github.com/central-university-dev/go-commander/internal/bot/repository/orm"
	sqlrepo "github.com/central-university-dev/go-commander/internal/bot/repository/sql"
	"github.com/central-university-dev/go-commander/internal/bot/service"
	"github.com/central-university-dev/go-commander/internal/config"
	"github.com/central-university-dev/go-commander/internal/database"
	"github.com/central-university-dev/go-commander/internal/domain/errors"
)

type Factory struct {
	db     *database.PostgresDB
	config *config.Config
	logger *slog.Logger
}

func NewFactory(db *database.PostgresDB, config *config.Config, logger *slog.Logger) *Factory {
	return &Factory{
		db:     db,
		config: config,
		logger: logger,
	}
}

func (f *Factory) CreateChatSettingsRepository() (service.ChatSettingsRepository, error) {
	switch f.config.DatabaseAccessType {
	case config.SquirrelAccess:
		f.logger.Info("Создание ORM (Squirrel) репозитория настроек чатов")
		return orm.NewChatSettingsRepository(f.db), nil
	case config.SQLAccess:
		f.logger.Info("Создание SQL репозитория настроек чатов")
		return sqlrepo.NewChatSettingsRepository(f.db), nil
	default:
		return nil, &errors.ErrUnknownDBAccessType{AccessType: string(f.config.DatabaseAccessType)}
	}
}

func (f *Factory) CreateReminderRepository() (service.ReminderRepository, error) {
	switch f.config.DatabaseAccessType {
	case config.SquirrelAccess:
		f.logger.Info("Создание ORM (Squirrel) репозитория напоминаний")
		return orm.NewReminderRepository(f.db), nil
	case config.SQLAccess:
		f.logger.Info("Создание SQL репозитория напоминаний")
		return sqlrepo.NewReminderRepository(f.db), nil
	default:
		return nil, &errors.ErrUnknownDBAccessType{AccessType: string(f.config.DatabaseAccessType)}
	}
}
