package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/central-university-dev/go-commander/internal/database"
	"github.com/central-university-dev/go-commander/internal/domain/models"
	"github.com/jackc/pgx/v5"
)

type ChatSettingsRepository struct {
	db *database.PostgresDB
}

func NewChatSettingsRepository(db *database.PostgresDB) *ChatSettingsRepository {
	return &ChatSettingsRepository{db: db}
}

func (r *ChatSettingsRepository) GetSettings(ctx context.Context, chatID int64) (*models.ChatSettings, error) {
	settings := &models.ChatSettings{ChatID: chatID}

	err := r.db.Pool.QueryRow(ctx,
		"SELECT prefix, created_at, updated_at FROM chat_settings WHERE chat_id = $1", chatID).
		Scan(&settings.Prefix, &settings.CreatedAt, &settings.UpdatedAt)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		// Отсутствующая строка не ошибка: чат живёт на настройках по умолчанию
		return nil, fmt.Errorf("ошибка при получении настроек чата: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx,
		"SELECT command FROM disabled_commands WHERE chat_id = $1 ORDER BY command", chatID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении отключённых команд: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var command string

		if err := rows.Scan(&command); err != nil {
			return nil, fmt.Errorf("ошибка при сканировании отключённой команды: %w", err)
		}

		settings.DisabledCommands = append(settings.DisabledCommands, command)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении отключённых команд: %w", err)
	}

	return settings, nil
}

func (r *ChatSettingsRepository) SetPrefix(ctx context.Context, chatID int64, prefix string) error {
	now := time.Now()

	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO chat_settings (chat_id, prefix, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (chat_id) DO UPDATE SET
			prefix = EXCLUDED.prefix,
			updated_at = EXCLUDED.updated_at
	`, chatID, prefix, now, now)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении префикса чата: %w", err)
	}

	return nil
}

func (r *ChatSettingsRepository) DisableCommand(ctx context.Context, chatID int64, command string) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO disabled_commands (chat_id, command, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (chat_id, command) DO NOTHING
	`, chatID, command, time.Now())
	if err != nil {
		return fmt.Errorf("ошибка при отключении команды: %w", err)
	}

	return nil
}

func (r *ChatSettingsRepository) EnableCommand(ctx context.Context, chatID int64, command string) error {
	_, err := r.db.Pool.Exec(ctx,
		"DELETE FROM disabled_commands WHERE chat_id = $1 AND command = $2", chatID, command)
	if err != nil {
		return fmt.Errorf("ошибка при включении команды: %w", err)
	}

	return nil
}

func (r *ChatSettingsRepository) Reset(ctx context.Context, chatID int64) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx, "DELETE FROM disabled_commands WHERE chat_id = $1", chatID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении отключённых команд: %w", err)
	}

	_, err = tx.Exec(ctx, "DELETE FROM chat_settings WHERE chat_id = $1", chatID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении настроек чата: %w", err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	return nil
}
