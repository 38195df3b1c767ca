package orm

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/central-university-dev/go-commander/internal/database"
	customerrors "github.com/central-university-dev/go-commander/internal/domain/errors"
	"github.com/central-university-dev/go-commander/internal/domain/models"
	"github.com/central-university-dev/go-commander/pkg/txs"
	"github.com/jackc/pgx/v5"
)

type ChatSettingsRepository struct {
	db *database.PostgresDB
	sq sq.StatementBuilderType
}

func NewChatSettingsRepository(db *database.PostgresDB) *ChatSettingsRepository {
	return &ChatSettingsRepository{
		db: db,
		sq: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *ChatSettingsRepository) GetSettings(ctx context.Context, chatID int64) (*models.ChatSettings, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	settings := &models.ChatSettings{ChatID: chatID}

	selectQuery := r.sq.Select("prefix", "created_at", "updated_at").
		From("chat_settings").
		Where(sq.Eq{"chat_id": chatID})

	query, args, err := selectQuery.ToSql()
	if err != nil {
		return nil, &customerrors.ErrBuildSQLQuery{Operation: "получение настроек чата", Cause: err}
	}

	err = querier.QueryRow(ctx, query, args...).
		Scan(&settings.Prefix, &settings.CreatedAt, &settings.UpdatedAt)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		// Чат без сохранённой строки живёт на настройках по умолчанию
		return nil, &customerrors.ErrSQLExecution{Operation: "получение настроек чата", Cause: err}
	}

	disabledQuery := r.sq.Select("command").
		From("disabled_commands").
		Where(sq.Eq{"chat_id": chatID}).
		OrderBy("command")

	query, args, err = disabledQuery.ToSql()
	if err != nil {
		return nil, &customerrors.ErrBuildSQLQuery{Operation: "получение отключённых команд", Cause: err}
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: "получение отключённых команд", Cause: err}
	}
	defer rows.Close()

	for rows.Next() {
		var command string

		if err := rows.Scan(&command); err != nil {
			return nil, &customerrors.ErrSQLScan{Entity: "отключённая команда", Cause: err}
		}

		settings.DisabledCommands = append(settings.DisabledCommands, command)
	}

	if err := rows.Err(); err != nil {
		return nil, &customerrors.ErrSQLScan{Entity: "отключённые команды", Cause: err}
	}

	return settings, nil
}

func (r *ChatSettingsRepository) SetPrefix(ctx context.Context, chatID int64, prefix string) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	now := time.Now()
	upsertQuery := r.sq.Insert("chat_settings").
		Columns("chat_id", "prefix", "created_at", "updated_at").
		Values(chatID, prefix, now, now).
		Suffix("ON CONFLICT (chat_id) DO UPDATE SET prefix = EXCLUDED.prefix, updated_at = EXCLUDED.updated_at")

	query, args, err := upsertQuery.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "сохранение префикса чата", Cause: err}
	}

	_, err = querier.Exec(ctx, query, args...)
	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "сохранение префикса чата", Cause: err}
	}

	return nil
}

func (r *ChatSettingsRepository) DisableCommand(ctx context.Context, chatID int64, command string) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	insertQuery := r.sq.Insert("disabled_commands").
		Columns("chat_id", "command", "created_at").
		Values(chatID, command, time.Now()).
		Suffix("ON CONFLICT (chat_id, command) DO NOTHING")

	query, args, err := insertQuery.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "отключение команды", Cause: err}
	}

	_, err = querier.Exec(ctx, query, args...)
	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "отключение команды", Cause: err}
	}

	return nil
}

func (r *ChatSettingsRepository) EnableCommand(ctx context.Context, chatID int64, command string) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	deleteQuery := r.sq.Delete("disabled_commands").
		Where(sq.And{
			sq.Eq{"chat_id": chatID},
			sq.Eq{"command": command},
		})

	query, args, err := deleteQuery.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "включение команды", Cause: err}
	}

	_, err = querier.Exec(ctx, query, args...)
	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "включение команды", Cause: err}
	}

	return nil
}

// Reset выполняет два удаления без собственной транзакции: атомарность
// обеспечивает вызывающий через txs.TxManager.
func (r *ChatSettingsRepository) Reset(ctx context.Context, chatID int64) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	disabledQuery := r.sq.Delete("disabled_commands").
		Where(sq.Eq{"chat_id": chatID})

	query, args, err := disabledQuery.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "сброс настроек чата", Cause: err}
	}

	_, err = querier.Exec(ctx, query, args...)
	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "сброс настроек чата", Cause: err}
	}

	settingsQuery := r.sq.Delete("chat_settings").
		Where(sq.Eq{"chat_id": chatID})

	query, args, err = settingsQuery.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "сброс настроек чата", Cause: err}
	}

	_, err = querier.Exec(ctx, query, args...)
	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "сброс настроек чата", Cause: err}
	}

	return nil
}
