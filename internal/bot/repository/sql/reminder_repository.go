package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/central-university-dev/go-commander/internal/database"
	domainerrors "github.com/central-university-dev/go-commander/internal/domain/errors"
	"github.com/central-university-dev/go-commander/internal/domain/models"
	"github.com/jackc/pgx/v5"
)

type ReminderRepository struct {
	db *database.PostgresDB
}

func NewReminderRepository(db *database.PostgresDB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Save(ctx context.Context, reminder *models.Reminder) error {
	if reminder.CreatedAt.IsZero() {
		reminder.CreatedAt = time.Now()
	}

	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO reminders (chat_id, user_id, text, remind_at, sent, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
		RETURNING id
	`, reminder.ChatID, reminder.UserID, reminder.Text, reminder.RemindAt, reminder.CreatedAt).
		Scan(&reminder.ID)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении напоминания: %w", err)
	}

	return nil
}

func (r *ReminderRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*models.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, chat_id, user_id, text, remind_at, sent, created_at
		FROM reminders
		WHERE sent = FALSE AND remind_at <= $1
		ORDER BY remind_at
		LIMIT $2
	`, now, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка при поиске созревших напоминаний: %w", err)
	}
	defer rows.Close()

	var reminders []*models.Reminder

	for rows.Next() {
		reminder := &models.Reminder{}

		err := rows.Scan(&reminder.ID, &reminder.ChatID, &reminder.UserID,
			&reminder.Text, &reminder.RemindAt, &reminder.Sent, &reminder.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("ошибка при сканировании напоминания: %w", err)
		}

		reminders = append(reminders, reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении напоминаний: %w", err)
	}

	return reminders, nil
}

func (r *ReminderRepository) MarkSent(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		"UPDATE reminders SET sent = TRUE WHERE id = $1 AND sent = FALSE", id)
	if err != nil {
		return fmt.Errorf("ошибка при отметке напоминания отправленным: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return &domainerrors.ErrReminderNotFound{ID: id}
	}

	return nil
}

func (r *ReminderRepository) CountPending(ctx context.Context, chatID int64) (int, error) {
	var count int

	err := r.db.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM reminders WHERE chat_id = $1 AND sent = FALSE", chatID).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}

		return 0, fmt.Errorf("ошибка при подсчёте напоминаний: %w", err)
	}

	return count, nil
}
